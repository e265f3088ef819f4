package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/settlement"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
)

const defaultSettlementWorkers = 4

type SettlementJobResult struct {
	TargetCount  int                   `json:"target_count"`
	SuccessCount int                   `json:"success_count"`
	FailedCount  int                   `json:"failed_count"`
	WorkerCount  int                   `json:"worker_count"`
	Tasks        []SettlementTaskResult `json:"tasks"`
}

type SettlementTaskResult struct {
	Key        string `json:"key"`
	Status     string `json:"status"`
	Settled    int    `json:"settled"`
	Failed     int    `json:"failed"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// SettlementJobService processes every gameweek that has final results not
// yet applied to lives.
type SettlementJobService struct {
	editionRepo edition.Repository
	fixtureRepo fixture.Repository
	ledgerRepo  settlement.Repository
	results     *ResultService
	maxWorkers  int
	logger      *logging.Logger
}

func NewSettlementJobService(
	editionRepo edition.Repository,
	fixtureRepo fixture.Repository,
	ledgerRepo settlement.Repository,
	results *ResultService,
	maxWorkers int,
	logger *logging.Logger,
) *SettlementJobService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers <= 0 {
		maxWorkers = defaultSettlementWorkers
	}
	return &SettlementJobService{
		editionRepo: editionRepo,
		fixtureRepo: fixtureRepo,
		ledgerRepo:  ledgerRepo,
		results:     results,
		maxWorkers:  maxWorkers,
		logger:      logger,
	}
}

func (s *SettlementJobService) Run(ctx context.Context) (SettlementJobResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementJobService.Run")
	defer span.End()

	targets, err := s.collectTargets(ctx)
	if err != nil {
		return SettlementJobResult{}, err
	}
	if len(targets) == 0 {
		return SettlementJobResult{Tasks: []SettlementTaskResult{}}, nil
	}

	workerCount := s.maxWorkers
	if workerCount > len(targets) {
		workerCount = len(targets)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SettlementJobResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		workers      sync.WaitGroup
		successCount atomic.Int64
		failedCount  atomic.Int64
	)
	results := make(chan SettlementTaskResult, len(targets))
	for _, key := range targets {
		key := key
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := SettlementTaskResult{Key: key.String()}
			report, err := s.results.ProcessResults(ctx, key.Edition, key.Gameweek)
			row.DurationMs = time.Since(start).Milliseconds()
			if err != nil {
				row.Status = "failed"
				row.Message = err.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "settlement task failed", "key", key.String(), "error", err)
				results <- row
				return
			}

			row.Status = report.Status
			row.Settled = report.FixturesSettled
			row.Failed = len(report.Failed)
			row.Message = report.Message
			successCount.Add(1)
			results <- row
		}); err != nil {
			workers.Done()
			return SettlementJobResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	tasks := make([]SettlementTaskResult, 0, len(targets))
	for row := range results {
		tasks = append(tasks, row)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Key < tasks[j].Key })

	out := SettlementJobResult{
		TargetCount:  len(targets),
		SuccessCount: int(successCount.Load()),
		FailedCount:  int(failedCount.Load()),
		WorkerCount:  workerCount,
		Tasks:        tasks,
	}
	s.logger.InfoContext(ctx, "settlement job finished",
		"targets", out.TargetCount,
		"success", out.SuccessCount,
		"failed", out.FailedCount,
	)
	return out, nil
}

// collectTargets lists keys of active editions with eligible fixtures that
// are not settled yet, or with charges still owed.
func (s *SettlementJobService) collectTargets(ctx context.Context) ([]edition.Key, error) {
	editions, err := s.editionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list editions: %w", err)
	}

	var targets []edition.Key
	for _, item := range editions {
		if !item.Active {
			continue
		}
		keys, err := s.fixtureRepo.ListKeys(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("list fixture keys for edition %s: %w", item.ID, err)
		}
		for _, key := range keys {
			due, err := s.settlementDue(ctx, key)
			if err != nil {
				return nil, err
			}
			if due {
				targets = append(targets, key)
			}
		}
	}
	return targets, nil
}

func (s *SettlementJobService) settlementDue(ctx context.Context, key edition.Key) (bool, error) {
	list, found, err := s.fixtureRepo.GetList(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get fixture list %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	ledger, _, err := s.ledgerRepo.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get settlement ledger %s: %w", key, err)
	}
	if len(ledger.Pending) > 0 {
		return true, nil
	}

	eligible, _ := list.Eligible()
	for _, f := range eligible {
		if !ledger.IsSettled(f.Ref()) {
			return true, nil
		}
	}
	return false, nil
}
