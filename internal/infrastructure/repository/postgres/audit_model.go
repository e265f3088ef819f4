package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/audit"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
)

type auditEntryTableModel struct {
	ID        string         `db:"id"`
	Action    string         `db:"action"`
	PlayerID  string         `db:"player_id"`
	OldLives  int            `db:"old_lives"`
	NewLives  int            `db:"new_lives"`
	EditionID sql.NullString `db:"edition_id"`
	Gameweek  sql.NullInt64  `db:"gameweek"`
	Pick      string         `db:"pick"`
	Result    string         `db:"result"`
	Reason    string         `db:"reason"`
	CreatedAt time.Time      `db:"created_at"`
}

func newAuditEntryTableModel(entry audit.Entry) auditEntryTableModel {
	row := auditEntryTableModel{
		ID:        entry.ID,
		Action:    entry.Action,
		PlayerID:  entry.PlayerID,
		OldLives:  entry.OldLives,
		NewLives:  entry.NewLives,
		EditionID: stringToNullString(string(entry.Edition)),
		Pick:      entry.Pick,
		Result:    entry.Result,
		Reason:    entry.Reason,
		CreatedAt: entry.Timestamp,
	}
	if entry.Gameweek > 0 {
		row.Gameweek = sql.NullInt64{Int64: int64(entry.Gameweek), Valid: true}
	}
	return row
}

func (row auditEntryTableModel) toDomain() audit.Entry {
	return audit.Entry{
		ID:        row.ID,
		Action:    row.Action,
		PlayerID:  row.PlayerID,
		OldLives:  row.OldLives,
		NewLives:  row.NewLives,
		Edition:   edition.ID(row.EditionID.String),
		Gameweek:  edition.Gameweek(row.Gameweek.Int64),
		Pick:      row.Pick,
		Result:    row.Result,
		Reason:    row.Reason,
		Timestamp: row.CreatedAt,
	}
}
