package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
)

type EditionRepository struct {
	mu       sync.RWMutex
	editions map[edition.ID]edition.Edition
}

func NewEditionRepository(editions []edition.Edition) *EditionRepository {
	byID := make(map[edition.ID]edition.Edition, len(editions))
	for _, item := range editions {
		byID[item.ID] = item
	}
	return &EditionRepository{editions: byID}
}

func (r *EditionRepository) List(_ context.Context) ([]edition.Edition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]edition.Edition, 0, len(r.editions))
	for _, item := range r.editions {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EditionRepository) GetByID(_ context.Context, id edition.ID) (edition.Edition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.editions[id]
	return item, ok, nil
}

func (r *EditionRepository) Upsert(_ context.Context, item edition.Edition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.editions[item.ID] = item
	return nil
}
