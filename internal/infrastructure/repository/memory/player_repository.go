package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[string]player.Player
	now     func() time.Time
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p.Clone()
	}
	return &PlayerRepository{
		players: byID,
		now:     time.Now,
	}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(player.Player) bool { return true }), nil
}

func (r *PlayerRepository) ListByEdition(_ context.Context, id edition.ID) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p player.Player) bool { return p.RegisteredFor(id) }), nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[playerID]
	if !ok {
		return player.Player{}, false, nil
	}
	return p.Clone(), true, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[item.ID]; exists {
		return fmt.Errorf("%w: %s", player.ErrAlreadyExists, item.ID)
	}
	r.players[item.ID] = item.Clone()
	return nil
}

func (r *PlayerRepository) UpdateLives(_ context.Context, playerID string, lives int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return fmt.Errorf("%w: %s", player.ErrNotFound, playerID)
	}
	p.Lives = player.ClampLives(lives)
	p.Status = player.DeriveStatus(p.Status, p.Lives)
	p.UpdatedAt = r.now()
	r.players[playerID] = p
	return nil
}

// DeductLives removes lives relative to the stored value and returns the lives
// before and after. It backs SettlementRepository, which serialises passes per
// edition key.
func (r *PlayerRepository) DeductLives(_ context.Context, playerID string, lives int) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", player.ErrNotFound, playerID)
	}
	oldLives := p.Lives
	p.Lives = player.ClampLives(p.Lives - lives)
	p.Status = player.DeriveStatus(p.Status, p.Lives)
	p.UpdatedAt = r.now()
	r.players[playerID] = p
	return oldLives, p.Lives, nil
}

func (r *PlayerRepository) UpdateStatus(_ context.Context, playerID string, status player.Status) error {
	return r.mutate(playerID, func(p *player.Player) {
		p.Status = status
	})
}

func (r *PlayerRepository) SavePick(_ context.Context, playerID string, key edition.Key, team string) error {
	return r.mutate(playerID, func(p *player.Player) {
		if p.Picks == nil {
			p.Picks = map[string]string{}
		}
		p.Picks[key.String()] = team
	})
}

func (r *PlayerRepository) AddRegistration(_ context.Context, playerID string, id edition.ID) error {
	return r.mutate(playerID, func(p *player.Player) {
		if p.RegisteredFor(id) && len(p.Registrations) > 0 {
			return
		}
		p.Registrations = append(p.Registrations, id)
	})
}

func (r *PlayerRepository) SetDefaultEdition(_ context.Context, playerID string, id edition.ID) error {
	return r.mutate(playerID, func(p *player.Player) {
		p.DefaultEdition = id
	})
}

func (r *PlayerRepository) Delete(_ context.Context, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerID]; !ok {
		return fmt.Errorf("%w: %s", player.ErrNotFound, playerID)
	}
	delete(r.players, playerID)
	return nil
}

func (r *PlayerRepository) mutate(playerID string, fn func(*player.Player)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return fmt.Errorf("%w: %s", player.ErrNotFound, playerID)
	}
	p = p.Clone()
	fn(&p)
	p.UpdatedAt = r.now()
	r.players[playerID] = p
	return nil
}

func (r *PlayerRepository) collect(keep func(player.Player) bool) []player.Player {
	out := make([]player.Player, 0, len(r.players))
	for _, p := range r.players {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
