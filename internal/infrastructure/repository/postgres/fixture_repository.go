package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db, now: time.Now}
}

func (r *FixtureRepository) GetList(ctx context.Context, key edition.Key) (fixture.List, bool, error) {
	query, args, err := qb.Select("*").From("fixture_lists").
		Where(qb.Eq("list_key", key.String())).
		ToSQL()
	if err != nil {
		return fixture.List{}, false, fmt.Errorf("build get fixture list query: %w", err)
	}

	var row fixtureListTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.List{}, false, nil
		}
		return fixture.List{}, false, fmt.Errorf("get fixture list key=%s: %w", key, err)
	}

	list, err := row.toDomain()
	if err != nil {
		return fixture.List{}, false, fmt.Errorf("decode fixture list key=%s: %w", key, err)
	}
	return list, true, nil
}

func (r *FixtureRepository) SaveList(ctx context.Context, list fixture.List) error {
	payload, err := encodeJSON(newFixtureDocuments(list.Fixtures))
	if err != nil {
		return fmt.Errorf("encode fixture list key=%s: %w", list.Key, err)
	}

	updatedAt := list.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = r.now().UTC()
	}
	insertModel := fixtureListInsertModel{
		ListKey:   list.Key.String(),
		EditionID: stringToNullString(string(list.Key.Edition)),
		Gameweek:  int(list.Key.Gameweek),
		Fixtures:  payload,
		UpdatedAt: updatedAt,
	}
	query, args, err := qb.UpsertModel("fixture_lists", insertModel, "list_key")
	if err != nil {
		return fmt.Errorf("build upsert fixture list query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert fixture list key=%s: %w", list.Key, err)
	}
	return nil
}

func (r *FixtureRepository) ListKeys(ctx context.Context, id edition.ID) ([]edition.Key, error) {
	query, args, err := qb.Select("list_key").From("fixture_lists").
		Where(qb.Eq("edition_id", string(id))).
		OrderBy("gameweek").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fixture keys query: %w", err)
	}

	var raw []string
	if err := r.db.SelectContext(ctx, &raw, query, args...); err != nil {
		return nil, fmt.Errorf("list fixture keys edition=%s: %w", id, err)
	}

	out := make([]edition.Key, 0, len(raw))
	for _, value := range raw {
		key, err := edition.ParseKey(value)
		if err != nil {
			return nil, fmt.Errorf("parse fixture key %q: %w", value, err)
		}
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Gameweek < out[j].Gameweek })
	return out, nil
}
