package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/audit"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry audit.Entry) error {
	query, args, err := qb.InsertModel("audit_entries", newAuditEntryTableModel(entry), "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert audit entry query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit entry player=%s action=%s: %w", entry.PlayerID, entry.Action, err)
	}
	return nil
}

func (r *AuditRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]audit.Entry, error) {
	builder := qb.Select("*").From("audit_entries").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list audit entries query: %w", err)
	}

	var rows []auditEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list audit entries player=%s: %w", playerID, err)
	}

	out := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
