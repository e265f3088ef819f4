package fixture

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
)

// Status is the coarse match lifecycle state.
type Status string

const (
	StatusNotStarted Status = "NS"
	StatusKickOff    Status = "KO"
	StatusFirstHalf  Status = "1H"
	StatusHalfTime   Status = "HT"
	StatusSecondHalf Status = "2H"
	StatusFullTime   Status = "FT"
	StatusExtraTime  Status = "AET"
	StatusPenalties  Status = "PEN"
	StatusPostponed  Status = "POSTP"
	StatusCompleted  Status = "COMP"
	StatusLive       Status = "LIVE"
)

var knownStatuses = map[Status]struct{}{
	StatusNotStarted: {},
	StatusKickOff:    {},
	StatusFirstHalf:  {},
	StatusHalfTime:   {},
	StatusSecondHalf: {},
	StatusFullTime:   {},
	StatusExtraTime:  {},
	StatusPenalties:  {},
	StatusPostponed:  {},
	StatusCompleted:  {},
	StatusLive:       {},
}

func NormalizeStatus(value string) Status {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))
	if status == "" {
		return StatusNotStarted
	}
	return status
}

func (s Status) Known() bool {
	_, ok := knownStatuses[s]
	return ok
}

// IsFinal reports whether a status carries a final score.
func (s Status) IsFinal() bool {
	switch s {
	case StatusFullTime, StatusExtraTime, StatusPenalties:
		return true
	default:
		return false
	}
}

func (s Status) IsLive() bool {
	switch s {
	case StatusKickOff, StatusFirstHalf, StatusHalfTime, StatusSecondHalf, StatusLive:
		return true
	default:
		return false
	}
}

// IsPickable reports whether a pick on this fixture may still be changed.
func (s Status) IsPickable() bool {
	return s == StatusNotStarted || s == StatusPostponed
}

// Fixture represents one scheduled match within a gameweek.
type Fixture struct {
	ID          string
	HomeTeam    string
	AwayTeam    string
	HomeScore   *int
	AwayScore   *int
	HomeScoreHT *int
	AwayScoreHT *int
	Status      Status
	Completed   bool
	KickoffAt   *time.Time
}

// Ref identifies a fixture inside its list. Fixtures without an explicit ID
// fall back to the pairing, which is unique within one gameweek.
func (f Fixture) Ref() string {
	if id := strings.TrimSpace(f.ID); id != "" {
		return id
	}
	return strings.TrimSpace(f.HomeTeam) + " v " + strings.TrimSpace(f.AwayTeam)
}

// Eligible reports whether the result is final and safe to resolve picks against.
// Both the completed flag and a final status are required because either can lag
// behind the other during manual entry.
func (f Fixture) Eligible() bool {
	return f.Completed && f.Status.IsFinal() && f.HomeScore != nil && f.AwayScore != nil
}

// Involves reports whether team plays in the fixture.
func (f Fixture) Involves(team string) bool {
	return SameTeam(f.HomeTeam, team) || SameTeam(f.AwayTeam, team)
}

// Opponent returns the other side of the fixture for team.
func (f Fixture) Opponent(team string) string {
	switch {
	case SameTeam(f.HomeTeam, team):
		return f.AwayTeam
	case SameTeam(f.AwayTeam, team):
		return f.HomeTeam
	default:
		return ""
	}
}

// Validate checks the data needed to decide an outcome.
func (f Fixture) Validate() error {
	if strings.TrimSpace(f.HomeTeam) == "" || strings.TrimSpace(f.AwayTeam) == "" {
		return fmt.Errorf("fixture %q: both teams are required", f.Ref())
	}
	if SameTeam(f.HomeTeam, f.AwayTeam) {
		return fmt.Errorf("fixture %q: a team cannot play itself", f.Ref())
	}
	if !f.Status.Known() {
		return fmt.Errorf("fixture %q: unknown status %q", f.Ref(), f.Status)
	}
	for _, score := range []*int{f.HomeScore, f.AwayScore, f.HomeScoreHT, f.AwayScoreHT} {
		if score != nil && *score < 0 {
			return fmt.Errorf("fixture %q: scores cannot be negative", f.Ref())
		}
	}
	return nil
}

// SameResult reports whether two versions of a fixture agree on everything
// that decides an outcome.
func SameResult(a, b Fixture) bool {
	return SameTeam(a.HomeTeam, b.HomeTeam) &&
		SameTeam(a.AwayTeam, b.AwayTeam) &&
		equalScore(a.HomeScore, b.HomeScore) &&
		equalScore(a.AwayScore, b.AwayScore)
}

func SameTeam(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func equalScore(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// List is the ordered fixture list of one gameweek of one edition.
type List struct {
	Key       edition.Key
	Fixtures  []Fixture
	UpdatedAt time.Time
}

// Find returns the first fixture involving team.
func (l List) Find(team string) (Fixture, bool) {
	for _, f := range l.Fixtures {
		if f.Involves(team) {
			return f, true
		}
	}
	return Fixture{}, false
}

// Eligible returns the fixtures that are safe to settle, and the malformed
// fixtures skipped along the way.
func (l List) Eligible() ([]Fixture, []error) {
	out := make([]Fixture, 0, len(l.Fixtures))
	var invalid []error
	for _, f := range l.Fixtures {
		if err := f.Validate(); err != nil {
			invalid = append(invalid, err)
			continue
		}
		if f.Eligible() {
			out = append(out, f)
		}
	}
	return out, invalid
}

func (l List) Clone() List {
	out := List{Key: l.Key, UpdatedAt: l.UpdatedAt}
	out.Fixtures = make([]Fixture, 0, len(l.Fixtures))
	for _, f := range l.Fixtures {
		out.Fixtures = append(out.Fixtures, f.clone())
	}
	return out
}

func (f Fixture) clone() Fixture {
	out := f
	out.HomeScore = cloneInt(f.HomeScore)
	out.AwayScore = cloneInt(f.AwayScore)
	out.HomeScoreHT = cloneInt(f.HomeScoreHT)
	out.AwayScoreHT = cloneInt(f.AwayScoreHT)
	if f.KickoffAt != nil {
		v := *f.KickoffAt
		out.KickoffAt = &v
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
