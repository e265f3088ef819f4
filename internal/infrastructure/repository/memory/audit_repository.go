package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/last-man-standing/internal/domain/audit"
)

type AuditRepository struct {
	mu      sync.RWMutex
	entries []audit.Entry
	failErr error
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// FailAppends makes every Append return err until called again with nil.
func (r *AuditRepository) FailAppends(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failErr = err
}

func (r *AuditRepository) Append(_ context.Context, entry audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failErr != nil {
		return r.failErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

// ListByPlayer returns the newest entries first.
func (r *AuditRepository) ListByPlayer(_ context.Context, playerID string, limit int) ([]audit.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]audit.Entry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].PlayerID != playerID {
			continue
		}
		out = append(out, r.entries[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// All returns every entry in append order.
func (r *AuditRepository) All() []audit.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]audit.Entry(nil), r.entries...)
}
