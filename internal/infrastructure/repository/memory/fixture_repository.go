package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.RWMutex
	lists map[string]fixture.List
}

func NewFixtureRepository(lists []fixture.List) *FixtureRepository {
	byKey := make(map[string]fixture.List, len(lists))
	for _, list := range lists {
		byKey[list.Key.String()] = list.Clone()
	}

	return &FixtureRepository{lists: byKey}
}

func (r *FixtureRepository) GetList(_ context.Context, key edition.Key) (fixture.List, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.lists[key.String()]
	if !ok {
		return fixture.List{}, false, nil
	}
	return list.Clone(), true, nil
}

func (r *FixtureRepository) SaveList(_ context.Context, list fixture.List) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lists[list.Key.String()] = list.Clone()
	return nil
}

func (r *FixtureRepository) ListKeys(_ context.Context, id edition.ID) ([]edition.Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]edition.Key, 0, len(r.lists))
	for _, list := range r.lists {
		if list.Key.Edition == id {
			keys = append(keys, list.Key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Gameweek < keys[j].Gameweek })
	return keys, nil
}
