package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

const settlementJobName = "settle-results"

// settlementScheduler runs the settlement job on a fixed interval. A run that
// is still in progress when the next one is due makes the next one wait.
type settlementScheduler struct {
	scheduler gocron.Scheduler
	cancel    context.CancelFunc
}

func newSettlementScheduler(job *usecase.SettlementJobService, interval time.Duration, logger *logging.Logger) (*settlementScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("settlement schedule interval must be positive")
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			result, err := job.Run(ctx)
			if err != nil {
				logger.WarnContext(ctx, "scheduled settlement failed", "error", err)
				return
			}
			if result.TargetCount > 0 {
				logger.InfoContext(ctx, "scheduled settlement completed",
					"target_count", result.TargetCount,
					"success_count", result.SuccessCount,
					"failed_count", result.FailedCount,
				)
			}
		}),
		gocron.WithName(settlementJobName),
		gocron.WithSingletonMode(gocron.LimitModeWait),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		_ = sched.Shutdown()
		return nil, fmt.Errorf("register settlement job: %w", err)
	}

	return &settlementScheduler{scheduler: sched, cancel: cancel}, nil
}

func (s *settlementScheduler) Start() {
	if s == nil {
		return
	}
	s.scheduler.Start()
}

func (s *settlementScheduler) Shutdown() error {
	if s == nil {
		return nil
	}
	s.cancel()
	return s.scheduler.Shutdown()
}
