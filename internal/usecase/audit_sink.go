package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/audit"
	"github.com/riskibarqy/last-man-standing/internal/platform/id"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
	"github.com/riskibarqy/last-man-standing/internal/platform/resilience"
	"github.com/sourcegraph/conc/pool"
)

const auditMaxGoroutines = 4

// AuditSink appends audit entries best-effort. A failed append is logged and
// never fails the operation that produced it.
type AuditSink struct {
	repo    audit.Repository
	ids     id.Generator
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
	now     func() time.Time
}

func NewAuditSink(repo audit.Repository, ids id.Generator, breaker *resilience.CircuitBreaker, logger *logging.Logger) *AuditSink {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &AuditSink{
		repo:    repo,
		ids:     ids,
		breaker: breaker,
		logger:  logger,
		now:     time.Now,
	}
}

// Record appends entries concurrently and returns how many were stored.
func (s *AuditSink) Record(ctx context.Context, entries ...audit.Entry) int {
	if s == nil || s.repo == nil || len(entries) == 0 {
		return 0
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.AuditSink.Record")
	defer span.End()

	var stored atomic.Int64
	p := pool.New().WithMaxGoroutines(auditMaxGoroutines)
	for _, entry := range entries {
		entry := entry
		p.Go(func() {
			if entry.ID == "" {
				entryID, err := s.ids.NewID()
				if err != nil {
					s.logger.WarnContext(ctx, "generate audit entry id failed", "player_id", entry.PlayerID, "error", err)
					return
				}
				entry.ID = entryID
			}
			if entry.Timestamp.IsZero() {
				entry.Timestamp = s.now().UTC()
			}

			err := s.breaker.Execute(func() error {
				return s.repo.Append(ctx, entry)
			})
			if err != nil {
				s.logger.WarnContext(ctx, "append audit entry failed",
					"player_id", entry.PlayerID,
					"action", entry.Action,
					"error", err,
				)
				return
			}
			stored.Add(1)
		})
	}
	p.Wait()

	return int(stored.Load())
}

func (s *AuditSink) ListByPlayer(ctx context.Context, playerID string, limit int) ([]audit.Entry, error) {
	if s == nil || s.repo == nil {
		return nil, nil
	}
	return s.repo.ListByPlayer(ctx, playerID, limit)
}
