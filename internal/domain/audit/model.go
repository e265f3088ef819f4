package audit

import (
	"context"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
)

const (
	ActionResultProcessed = "result_processed"
	ActionAdminAdjust     = "admin_adjust"
	ActionArchive         = "archive"
	ActionUnarchive       = "unarchive"
	ActionDelete          = "delete"
)

// Entry records one change to a player's lives or standing.
type Entry struct {
	ID        string
	Action    string
	PlayerID  string
	OldLives  int
	NewLives  int
	Edition   edition.ID
	Gameweek  edition.Gameweek
	Pick      string
	Result    string
	Reason    string
	Timestamp time.Time
}

// Repository is the audit log sink.
type Repository interface {
	Append(ctx context.Context, entry Entry) error
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]Entry, error)
}
