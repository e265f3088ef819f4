package standing

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
)

// View filters the rows of a snapshot.
type View string

const (
	ViewAll        View = "all"
	ViewSurvivors  View = "survivors"
	ViewEliminated View = "eliminated"
)

func ParseView(raw string) (View, error) {
	view := View(strings.ToLower(strings.TrimSpace(raw)))
	switch view {
	case "":
		return ViewAll, nil
	case ViewAll, ViewSurvivors, ViewEliminated:
		return view, nil
	default:
		return "", fmt.Errorf("invalid standings view %q", raw)
	}
}

func (v View) Includes(r Row) bool {
	switch v {
	case ViewSurvivors:
		return r.Lives > 0
	case ViewEliminated:
		return r.Lives == 0
	default:
		return true
	}
}

// Result describes the last pick of a player as shown on the leaderboard.
type Result string

const (
	ResultWin             Result = "win"
	ResultDraw            Result = "draw"
	ResultDrawEliminating Result = "draw_eliminating"
	ResultLoss            Result = "loss"
	ResultPending         Result = "pending"
	ResultFixtureNotFound Result = "fixture_not_found"
	ResultNoPick          Result = "no_pick"
)

// Row is one player's standing.
type Row struct {
	PlayerID string
	Name     string
	Lives    int
	Pick     string
	Result   Result
	Status   player.Status
	// Provisional marks lives that include results not yet settled.
	Provisional bool
}

type Summary struct {
	Total        int
	Survivors    int
	Eliminated   int
	AverageLives float64
}

// Snapshot is a point-in-time leaderboard for one edition key.
type Snapshot struct {
	Key         edition.Key
	View        View
	Rows        []Row
	Summary     Summary
	GeneratedAt time.Time
}

// Summarize aggregates rows before any view filter is applied.
func Summarize(rows []Row) Summary {
	var s Summary
	total := 0
	for _, r := range rows {
		s.Total++
		total += r.Lives
		if r.Lives > 0 {
			s.Survivors++
		} else {
			s.Eliminated++
		}
	}
	if s.Total > 0 {
		s.AverageLives = float64(total) / float64(s.Total)
	}
	return s
}

// Less orders rows by lives descending, then name, then id.
func Less(a, b Row) bool {
	if a.Lives != b.Lives {
		return a.Lives > b.Lives
	}
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	return a.PlayerID < b.PlayerID
}
