package cache

import (
	"context"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	basecache "github.com/riskibarqy/last-man-standing/internal/platform/cache"
)

type EditionRepository struct {
	next  edition.Repository
	cache *basecache.Store
}

func NewEditionRepository(next edition.Repository, cache *basecache.Store) *EditionRepository {
	return &EditionRepository{next: next, cache: cache}
}

func (r *EditionRepository) List(ctx context.Context) ([]edition.Edition, error) {
	v, err := r.cache.GetOrLoad(ctx, "edition:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]edition.Edition(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]edition.Edition)
	return append([]edition.Edition(nil), items...), nil
}

func (r *EditionRepository) GetByID(ctx context.Context, id edition.ID) (edition.Edition, bool, error) {
	key := "edition:id:" + string(id)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedEditionByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return edition.Edition{}, false, err
	}

	cached, _ := v.(cachedEditionByID)
	return cached.value, cached.exists, nil
}

func (r *EditionRepository) Upsert(ctx context.Context, item edition.Edition) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "edition:")
	return nil
}

type cachedEditionByID struct {
	value  edition.Edition
	exists bool
}

type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) GetList(ctx context.Context, key edition.Key) (fixture.List, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, fixtureListKey(key), func(ctx context.Context) (any, error) {
		list, exists, err := r.next.GetList(ctx, key)
		if err != nil {
			return nil, err
		}
		return cachedFixtureList{value: list.Clone(), exists: exists}, nil
	})
	if err != nil {
		return fixture.List{}, false, err
	}

	cached, _ := v.(cachedFixtureList)
	return cached.value.Clone(), cached.exists, nil
}

func (r *FixtureRepository) SaveList(ctx context.Context, list fixture.List) error {
	if err := r.next.SaveList(ctx, list); err != nil {
		return err
	}
	r.cache.Delete(ctx, fixtureListKey(list.Key))
	r.cache.Delete(ctx, fixtureKeysKey(list.Key.Edition))
	return nil
}

func (r *FixtureRepository) ListKeys(ctx context.Context, id edition.ID) ([]edition.Key, error) {
	v, err := r.cache.GetOrLoad(ctx, fixtureKeysKey(id), func(ctx context.Context) (any, error) {
		keys, err := r.next.ListKeys(ctx, id)
		if err != nil {
			return nil, err
		}
		return append([]edition.Key(nil), keys...), nil
	})
	if err != nil {
		return nil, err
	}

	keys, _ := v.([]edition.Key)
	return append([]edition.Key(nil), keys...), nil
}

type cachedFixtureList struct {
	value  fixture.List
	exists bool
}

func fixtureListKey(key edition.Key) string {
	return "fixture:list:" + key.String()
}

func fixtureKeysKey(id edition.ID) string {
	return "fixture:keys:" + string(id)
}
