package characters

//go:generate mockgen -destination=mock/mock.go -package=mockcharacters -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/nature-bot/internal/entities"
)

// Repository defines the interface for character persistence.
// Characters are keyed by their owner; each owner has at most one.
type Repository interface {
	// Create stores a new character, failing with AlreadyExists if the owner has one
	Create(ctx context.Context, character *entities.Character) error

	// Get retrieves the owner's character, failing with NotFound if there is none
	Get(ctx context.Context, ownerID string) (*entities.Character, error)

	// IncrementStat atomically moves amount points from the unspent pool into
	// a stat. It fails with InvalidArgument when the pool is too small.
	IncrementStat(ctx context.Context, ownerID string, category entities.StatCategory, amount int) error

	// LevelUp atomically raises the level and grants the level's stat points
	LevelUp(ctx context.Context, ownerID string) (*entities.Character, error)

	// List returns every stored character ordered by owner
	List(ctx context.Context) ([]*entities.Character, error)
}
