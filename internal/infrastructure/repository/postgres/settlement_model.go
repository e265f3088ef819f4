package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/settlement"
)

type settlementLedgerTableModel struct {
	ListKey   string         `db:"list_key"`
	EditionID sql.NullString `db:"edition_id"`
	Gameweek  int            `db:"gameweek"`
	Settled   []byte         `db:"settled"`
	Pending   []byte         `db:"pending"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type settlementLedgerInsertModel struct {
	ListKey   string         `db:"list_key"`
	EditionID sql.NullString `db:"edition_id"`
	Gameweek  int            `db:"gameweek"`
	Settled   []byte         `db:"settled"`
	Pending   []byte         `db:"pending"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func newSettlementLedgerInsertModel(key edition.Key, at time.Time) settlementLedgerInsertModel {
	return settlementLedgerInsertModel{
		ListKey:   key.String(),
		EditionID: stringToNullString(string(key.Edition)),
		Gameweek:  int(key.Gameweek),
		Settled:   []byte("{}"),
		Pending:   []byte("[]"),
		UpdatedAt: at,
	}
}

func (row settlementLedgerTableModel) toDomain() (settlement.Ledger, error) {
	key, err := edition.ParseKey(row.ListKey)
	if err != nil {
		return settlement.Ledger{}, err
	}

	out := settlement.NewLedger(key)
	out.UpdatedAt = row.UpdatedAt
	if err := decodeJSON(row.Settled, &out.Settled); err != nil {
		return settlement.Ledger{}, err
	}
	if out.Settled == nil {
		out.Settled = map[string]time.Time{}
	}
	if err := decodeJSON(row.Pending, &out.Pending); err != nil {
		return settlement.Ledger{}, err
	}
	return out, nil
}
