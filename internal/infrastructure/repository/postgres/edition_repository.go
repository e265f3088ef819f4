package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

type EditionRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewEditionRepository(db *sqlx.DB) *EditionRepository {
	return &EditionRepository{db: db, now: time.Now}
}

func (r *EditionRepository) List(ctx context.Context) ([]edition.Edition, error) {
	query, args, err := qb.Select("*").From("editions").
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list editions query: %w", err)
	}

	var rows []editionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list editions: %w", err)
	}

	out := make([]edition.Edition, 0, len(rows))
	for _, row := range rows {
		out = append(out, editionFromRow(row))
	}
	return out, nil
}

func (r *EditionRepository) GetByID(ctx context.Context, id edition.ID) (edition.Edition, bool, error) {
	query, args, err := qb.Select("*").From("editions").
		Where(qb.Eq("id", string(id))).
		ToSQL()
	if err != nil {
		return edition.Edition{}, false, fmt.Errorf("build get edition query: %w", err)
	}

	var row editionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return edition.Edition{}, false, nil
		}
		return edition.Edition{}, false, fmt.Errorf("get edition id=%s: %w", id, err)
	}
	return editionFromRow(row), true, nil
}

func (r *EditionRepository) Upsert(ctx context.Context, item edition.Edition) error {
	insertModel := editionInsertModel{
		ID:                   string(item.ID),
		Name:                 strings.TrimSpace(item.Name),
		Active:               item.Active,
		RegistrationOpensAt:  timePtrToNullTime(item.RegistrationOpensAt),
		RegistrationClosesAt: timePtrToNullTime(item.RegistrationClosesAt),
		UpdatedAt:            r.now().UTC(),
	}
	query, args, err := qb.UpsertModel("editions", insertModel, "id")
	if err != nil {
		return fmt.Errorf("build upsert edition query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert edition id=%s: %w", item.ID, err)
	}
	return nil
}

func editionFromRow(row editionTableModel) edition.Edition {
	return edition.Edition{
		ID:                   edition.ID(row.ID),
		Name:                 row.Name,
		Active:               row.Active,
		RegistrationOpensAt:  nullTimeToTimePtr(row.RegistrationOpensAt),
		RegistrationClosesAt: nullTimeToTimePtr(row.RegistrationClosesAt),
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
}
