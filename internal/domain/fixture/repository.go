package fixture

import (
	"context"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
)

// Repository exposes fixture list storage. GetList does not apply the legacy
// key fallback; callers ask for the legacy key explicitly.
type Repository interface {
	GetList(ctx context.Context, key edition.Key) (List, bool, error)
	SaveList(ctx context.Context, list List) error
	ListKeys(ctx context.Context, id edition.ID) ([]edition.Key, error)
}
