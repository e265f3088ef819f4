package postgres

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/settlement"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

// deductLivesQuery locks one player row and lowers lives by $2, floored at zero.
// The status column follows the new lives unless the player is archived.
const deductLivesQuery = `WITH current AS (
    SELECT id, lives FROM players WHERE id = $1 FOR UPDATE
)
UPDATE players p
SET lives = GREATEST(p.lives - $2::int, 0),
    status = CASE
        WHEN p.status = 'archived' THEN p.status
        WHEN p.lives - $2::int <= 0 THEN 'eliminated'
        ELSE 'active'
    END,
    updated_at = $3
FROM current
WHERE p.id = current.id
RETURNING current.lives, p.lives`

const playerSavepoint = "settle_player"

// SettlementRepository applies batches inside one transaction per call. The
// ledger row of the key is locked first, so concurrent passes over the same
// key serialise and the second one sees the fixtures the first settled.
type SettlementRepository struct {
	db *sqlx.DB
}

func NewSettlementRepository(db *sqlx.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

func (r *SettlementRepository) Get(ctx context.Context, key edition.Key) (settlement.Ledger, bool, error) {
	query, args, err := qb.Select("*").From("settlement_ledgers").
		Where(qb.Eq("list_key", key.String())).
		ToSQL()
	if err != nil {
		return settlement.Ledger{}, false, fmt.Errorf("build get settlement ledger query: %w", err)
	}

	var row settlementLedgerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return settlement.Ledger{}, false, nil
		}
		return settlement.Ledger{}, false, fmt.Errorf("get settlement ledger key=%s: %w", key, err)
	}

	ledger, err := row.toDomain()
	if err != nil {
		return settlement.Ledger{}, false, fmt.Errorf("decode settlement ledger key=%s: %w", key, err)
	}
	return ledger, true, nil
}

// Guard holds the ledger row lock of key for the duration of fn. fn runs on
// its own connections, so Settle for the key blocks until the lock is released.
func (r *SettlementRepository) Guard(ctx context.Context, key edition.Key, fn func(settlement.Ledger) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx guard")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ledger, err := r.lockLedger(ctx, tx, key, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := fn(ledger); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return crerr.Wrapf(err, "commit guard tx key=%s", key)
	}
	return nil
}

func (r *SettlementRepository) Settle(ctx context.Context, batch settlement.Batch) (settlement.Result, error) {
	at := batch.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return settlement.Result{}, crerr.Wrap(err, "begin tx settle")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ledger, err := r.lockLedger(ctx, tx, batch.Key, at)
	if err != nil {
		return settlement.Result{}, err
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
		change, found, attempts, err := r.deductWithRetry(ctx, tx, pc, maxAttempts)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return settlement.Result{}, ctxErr
		}
		if err != nil {
			result.Failures = append(result.Failures, settlement.Failure{
				PlayerID: pc.PlayerID,
				Attempts: attempts,
				Error:    err.Error(),
			})
			continue
		}
		// Deleted players owe nothing.
		if !found {
			continue
		}
		result.Changes = append(result.Changes, change)
	}

	next := ledger.Next(plan, result.Failures, at)
	if err := r.storeLedger(ctx, tx, next); err != nil {
		return settlement.Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return settlement.Result{}, crerr.Wrapf(err, "commit settle tx key=%s", batch.Key)
	}

	result.NewlySettled = plan.Fresh
	return result, nil
}

func (r *SettlementRepository) lockLedger(ctx context.Context, tx *sqlx.Tx, key edition.Key, at time.Time) (settlement.Ledger, error) {
	insertQuery, insertArgs, err := qb.InsertModel("settlement_ledgers", newSettlementLedgerInsertModel(key, at), "ON CONFLICT (list_key) DO NOTHING")
	if err != nil {
		return settlement.Ledger{}, fmt.Errorf("build create settlement ledger query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return settlement.Ledger{}, crerr.Wrapf(err, "create settlement ledger key=%s", key)
	}

	query, args, err := qb.Select("*").From("settlement_ledgers").
		Where(qb.Eq("list_key", key.String())).
		ForUpdate().
		ToSQL()
	if err != nil {
		return settlement.Ledger{}, fmt.Errorf("build lock settlement ledger query: %w", err)
	}

	var row settlementLedgerTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		return settlement.Ledger{}, crerr.Wrapf(err, "lock settlement ledger key=%s", key)
	}
	ledger, err := row.toDomain()
	if err != nil {
		return settlement.Ledger{}, crerr.Wrapf(err, "decode settlement ledger key=%s", key)
	}
	return ledger, nil
}

// deductWithRetry runs each attempt under a savepoint so a failed statement
// does not poison the surrounding transaction.
func (r *SettlementRepository) deductWithRetry(ctx context.Context, tx *sqlx.Tx, pc settlement.PlayerCharges, maxAttempts int) (settlement.LifeChange, bool, int, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return settlement.LifeChange{}, false, attempt - 1, err
		}
		if _, err := tx.ExecContext(ctx, "SAVEPOINT "+playerSavepoint); err != nil {
			return settlement.LifeChange{}, false, attempt, crerr.Wrap(err, "create savepoint")
		}

		var oldLives, newLives int
		err := tx.QueryRowxContext(ctx, deductLivesQuery, pc.PlayerID, pc.Lives(), time.Now().UTC()).Scan(&oldLives, &newLives)
		if err == nil || isNotFound(err) {
			if _, relErr := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+playerSavepoint); relErr != nil {
				return settlement.LifeChange{}, false, attempt, crerr.Wrap(relErr, "release savepoint")
			}
			if err != nil {
				return settlement.LifeChange{}, false, attempt, nil
			}
			return settlement.LifeChange{
				PlayerID: pc.PlayerID,
				OldLives: oldLives,
				NewLives: newLives,
				Charges:  pc.Charges,
			}, true, attempt, nil
		}

		lastErr = crerr.Wrapf(err, "deduct lives player=%s", pc.PlayerID)
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+playerSavepoint); rbErr != nil {
			return settlement.LifeChange{}, false, attempt, crerr.Wrap(rbErr, "rollback to savepoint")
		}
	}
	return settlement.LifeChange{}, false, maxAttempts, lastErr
}

func (r *SettlementRepository) storeLedger(ctx context.Context, tx *sqlx.Tx, ledger settlement.Ledger) error {
	settled, err := encodeJSON(ledger.Settled)
	if err != nil {
		return crerr.Wrap(err, "encode settled fixtures")
	}
	pending := ledger.Pending
	if pending == nil {
		pending = []settlement.Charge{}
	}
	pendingPayload, err := encodeJSON(pending)
	if err != nil {
		return crerr.Wrap(err, "encode pending charges")
	}

	query, args, err := qb.Update("settlement_ledgers").
		Set("settled", settled).
		Set("pending", pendingPayload).
		Set("updated_at", ledger.UpdatedAt).
		Where(qb.Eq("list_key", ledger.Key.String())).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build store settlement ledger query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "store settlement ledger key=%s", ledger.Key)
	}
	return nil
}
