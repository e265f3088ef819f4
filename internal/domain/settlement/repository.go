package settlement

import (
	"context"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
)

// Repository persists ledgers and applies batches atomically per edition key.
//
// Settle locks the ledger of batch.Key, computes a Plan, decrements each
// player's stored lives by the number of charges (floored at zero, with the
// derived status written in the same statement), records failed players as
// pending charges and marks the fresh fixtures settled. A failing player
// never aborts the batch; only ledger or transaction errors are returned.
//
// Guard runs fn with the ledger of key while that key is locked, so no Settle
// for the key can commit until fn returns. fn must not call Settle.
type Repository interface {
	Get(ctx context.Context, key edition.Key) (Ledger, bool, error)
	Guard(ctx context.Context, key edition.Key, fn func(Ledger) error) error
	Settle(ctx context.Context, batch Batch) (Result, error)
}
