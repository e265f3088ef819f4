package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

// statusFromLivesExpr keeps an archived status and otherwise derives it from the bound lives.
const statusFromLivesExpr = "CASE WHEN status = 'archived' THEN status WHEN ?::int <= 0 THEN 'eliminated' ELSE 'active' END"

type PlayerRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db, now: time.Now}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}
	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) ListByEdition(ctx context.Context, id edition.ID) ([]player.Player, error) {
	cond := qb.Expr("?::text = ANY(registrations)", string(id))
	if id == edition.Default {
		cond = qb.Expr("(?::text = ANY(registrations) OR cardinality(registrations) = 0)", string(id))
	}

	query, args, err := qb.Select("*").From("players").
		Where(cond).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players by edition query: %w", err)
	}
	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player id=%s: %w", playerID, err)
	}

	item, err := row.toDomain()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("decode player id=%s: %w", playerID, err)
	}
	return item, true, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) error {
	now := r.now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}

	insertModel, err := newPlayerInsertModel(item)
	if err != nil {
		return fmt.Errorf("encode player id=%s: %w", item.ID, err)
	}
	query, args, err := qb.InsertModel("players", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: id=%s", player.ErrAlreadyExists, item.ID)
		}
		return fmt.Errorf("insert player id=%s: %w", item.ID, err)
	}
	return nil
}

func (r *PlayerRepository) UpdateLives(ctx context.Context, playerID string, lives int) error {
	lives = player.ClampLives(lives)
	query, args, err := qb.Update("players").
		Set("lives", lives).
		SetExpr("status", statusFromLivesExpr, lives).
		Set("updated_at", r.now().UTC()).
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player lives query: %w", err)
	}
	return r.execOne(ctx, "update player lives", playerID, query, args)
}

func (r *PlayerRepository) UpdateStatus(ctx context.Context, playerID string, status player.Status) error {
	query, args, err := qb.Update("players").
		Set("status", string(status)).
		Set("updated_at", r.now().UTC()).
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player status query: %w", err)
	}
	return r.execOne(ctx, "update player status", playerID, query, args)
}

func (r *PlayerRepository) SavePick(ctx context.Context, playerID string, key edition.Key, team string) error {
	query, args, err := qb.Update("players").
		SetExpr("picks", "jsonb_set(COALESCE(picks, '{}'::jsonb), ARRAY[?::text], to_jsonb(?::text), true)", key.String(), team).
		Set("updated_at", r.now().UTC()).
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build save pick query: %w", err)
	}
	return r.execOne(ctx, "save pick", playerID, query, args)
}

func (r *PlayerRepository) AddRegistration(ctx context.Context, playerID string, id edition.ID) error {
	query, args, err := qb.Update("players").
		SetExpr("registrations", "CASE WHEN ?::text = ANY(registrations) THEN registrations ELSE array_append(registrations, ?::text) END", string(id), string(id)).
		Set("updated_at", r.now().UTC()).
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add registration query: %w", err)
	}
	return r.execOne(ctx, "add registration", playerID, query, args)
}

func (r *PlayerRepository) SetDefaultEdition(ctx context.Context, playerID string, id edition.ID) error {
	query, args, err := qb.Update("players").
		Set("default_edition", stringToNullString(string(id))).
		Set("updated_at", r.now().UTC()).
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set default edition query: %w", err)
	}
	return r.execOne(ctx, "set default edition", playerID, query, args)
}

func (r *PlayerRepository) Delete(ctx context.Context, playerID string) error {
	query, args, err := qb.DeleteFrom("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player query: %w", err)
	}
	return r.execOne(ctx, "delete player", playerID, query, args)
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, query string, args []any) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode player id=%s: %w", row.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *PlayerRepository) execOne(ctx context.Context, op, playerID, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s id=%s: %w", op, playerID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s id=%s rows affected: %w", op, playerID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id=%s", player.ErrNotFound, playerID)
	}
	return nil
}
