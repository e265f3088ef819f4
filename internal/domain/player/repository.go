package player

import (
	"context"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
)

// Repository describes player persistence needs from use cases.
// Mutations on a missing player return ErrNotFound.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	ListByEdition(ctx context.Context, id edition.ID) ([]Player, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	Create(ctx context.Context, item Player) error
	// UpdateLives stores lives together with the status derived from them.
	UpdateLives(ctx context.Context, playerID string, lives int) error
	UpdateStatus(ctx context.Context, playerID string, status Status) error
	SavePick(ctx context.Context, playerID string, key edition.Key, team string) error
	AddRegistration(ctx context.Context, playerID string, id edition.ID) error
	SetDefaultEdition(ctx context.Context, playerID string, id edition.ID) error
	Delete(ctx context.Context, playerID string) error
}
