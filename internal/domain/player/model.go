package player

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
)

// MaxLives is the number of lives a player starts with.
const MaxLives = 2

var (
	ErrNotFound      = errors.New("player not found")
	ErrAlreadyExists = errors.New("player already exists")
)

type Status string

const (
	StatusActive     Status = "active"
	StatusEliminated Status = "eliminated"
	StatusArchived   Status = "archived"
)

func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case StatusActive, StatusEliminated, StatusArchived:
		return status, nil
	default:
		return "", fmt.Errorf("invalid player status %q", raw)
	}
}

// Player is one registered participant.
type Player struct {
	ID             string
	Name           string
	Lives          int
	Status         Status
	Registrations  []edition.ID
	DefaultEdition edition.ID
	// Picks maps a pick key ("edition1_gw3" or legacy "gw3") to a team name.
	Picks     map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(id, name string, registrations []edition.ID, now time.Time) Player {
	return Player{
		ID:            id,
		Name:          strings.TrimSpace(name),
		Lives:         MaxLives,
		Status:        StatusActive,
		Registrations: append([]edition.ID(nil), registrations...),
		Picks:         map[string]string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Lives < 0 || p.Lives > MaxLives {
		return fmt.Errorf("player lives must be between 0 and %d", MaxLives)
	}
	if _, err := ParseStatus(string(p.Status)); err != nil {
		return err
	}
	for _, id := range p.Registrations {
		if !id.Valid() {
			return fmt.Errorf("invalid registration %q", id)
		}
	}
	return nil
}

func (p Player) Archived() bool {
	return p.Status == StatusArchived
}

// ResolveEdition picks the edition a player's picks are read for: the default
// edition if set, else the first registration, else edition 1.
func (p Player) ResolveEdition() edition.ID {
	if p.DefaultEdition != "" {
		return p.DefaultEdition
	}
	if len(p.Registrations) > 0 {
		return p.Registrations[0]
	}
	return edition.Default
}

// RegisteredFor reports enrolment in id. Players that predate editions have no
// registrations and belong to the default edition.
func (p Player) RegisteredFor(id edition.ID) bool {
	if len(p.Registrations) == 0 {
		return id == edition.Default
	}
	for _, reg := range p.Registrations {
		if reg == id {
			return true
		}
	}
	return false
}

// PickFor resolves the pick for key. The edition-qualified key wins over the
// legacy bare gameweek key.
func (p Player) PickFor(key edition.Key) (string, bool) {
	if !key.IsLegacy() {
		if team := strings.TrimSpace(p.Picks[key.String()]); team != "" {
			return team, true
		}
	}
	if team := strings.TrimSpace(p.Picks[key.Legacy().String()]); team != "" {
		return team, true
	}
	return "", false
}

// DeriveStatus computes the status stored alongside lives. Archived is an admin
// override and survives life changes.
func DeriveStatus(current Status, lives int) Status {
	if current == StatusArchived {
		return StatusArchived
	}
	if lives <= 0 {
		return StatusEliminated
	}
	return StatusActive
}

// ClampLives bounds n to the valid lives range.
func ClampLives(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxLives {
		return MaxLives
	}
	return n
}

func (p Player) Clone() Player {
	out := p
	out.Registrations = append([]edition.ID(nil), p.Registrations...)
	out.Picks = make(map[string]string, len(p.Picks))
	for k, v := range p.Picks {
		out.Picks[k] = v
	}
	return out
}
