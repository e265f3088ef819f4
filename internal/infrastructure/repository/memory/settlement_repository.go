package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/domain/settlement"
)

// LivesWriter applies a relative lives deduction and reports the lives before
// and after it. PlayerRepository implements it.
type LivesWriter interface {
	DeductLives(ctx context.Context, playerID string, lives int) (oldLives, newLives int, err error)
}

// SettlementRepository keeps ledgers in memory and applies batches through a
// LivesWriter. One mutex serialises every Settle and Guard call, which gives
// the same per-key exclusivity the postgres row lock does.
type SettlementRepository struct {
	mu      sync.Mutex
	ledgers map[string]settlement.Ledger
	lives   LivesWriter
}

func NewSettlementRepository(lives LivesWriter) *SettlementRepository {
	return &SettlementRepository{
		ledgers: make(map[string]settlement.Ledger),
		lives:   lives,
	}
}

func (r *SettlementRepository) Get(_ context.Context, key edition.Key) (settlement.Ledger, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger, ok := r.ledgers[key.String()]
	if !ok {
		return settlement.Ledger{}, false, nil
	}
	return ledger.Clone(), true, nil
}

func (r *SettlementRepository) Guard(ctx context.Context, key edition.Key, fn func(settlement.Ledger) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	ledger, ok := r.ledgers[key.String()]
	if !ok {
		ledger = settlement.NewLedger(key)
	}
	return fn(ledger.Clone())
}

// Settle applies batch. A cancelled context aborts the pass only while no
// lives have changed; after the first write the remaining players are kept
// as pending charges so the ledger always matches the lives already taken.
func (r *SettlementRepository) Settle(ctx context.Context, batch settlement.Batch) (settlement.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger, ok := r.ledgers[batch.Key.String()]
	if !ok {
		ledger = settlement.NewLedger(batch.Key)
	}

	plan := settlement.NewPlan(ledger, batch)
	result := settlement.Result{
		Key:     batch.Key,
		Skipped: plan.Skipped,
		Retried: plan.Retried,
	}
	if plan.Empty() {
		return result, nil
	}

	maxAttempts := batch.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = settlement.DefaultMaxAttempts
	}

	for _, pc := range plan.Players {
		if err := ctx.Err(); err != nil {
			if len(result.Changes) == 0 {
				return settlement.Result{}, err
			}
			result.Failures = append(result.Failures, settlement.Failure{
				PlayerID: pc.PlayerID,
				Error:    err.Error(),
			})
			continue
		}

		var (
			oldLives, newLives int
			lastErr            error
			attempts           int
		)
		for attempts < maxAttempts {
			attempts++
			oldLives, newLives, lastErr = r.lives.DeductLives(ctx, pc.PlayerID, pc.Lives())
			if lastErr == nil || errors.Is(lastErr, player.ErrNotFound) || ctx.Err() != nil {
				break
			}
		}
		// Deleted players owe nothing.
		if errors.Is(lastErr, player.ErrNotFound) {
			continue
		}
		if lastErr != nil {
			result.Failures = append(result.Failures, settlement.Failure{
				PlayerID: pc.PlayerID,
				Attempts: attempts,
				Error:    lastErr.Error(),
			})
			continue
		}
		result.Changes = append(result.Changes, settlement.LifeChange{
			PlayerID: pc.PlayerID,
			OldLives: oldLives,
			NewLives: newLives,
			Charges:  pc.Charges,
		})
	}

	r.ledgers[batch.Key.String()] = ledger.Next(plan, result.Failures, batch.At)
	result.NewlySettled = plan.Fresh
	return result, nil
}
