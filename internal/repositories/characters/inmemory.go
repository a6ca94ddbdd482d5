package characters

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/nature-bot/internal/clock"
	"github.com/KirkDiggler/nature-bot/internal/entities"
	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
)

// InMemoryRepository is an in-memory implementation of Repository
type InMemoryRepository struct {
	mu         sync.RWMutex
	characters map[string]*entities.Character
	clock      clock.Clock
}

// NewInMemoryRepository creates a new in-memory character repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		characters: make(map[string]*entities.Character),
		clock:      clock.New(),
	}
}

// Create stores a new character
func (r *InMemoryRepository) Create(ctx context.Context, char *entities.Character) error {
	if char == nil {
		return apperr.InvalidArgument("character cannot be nil")
	}
	if err := char.Validate(); err != nil {
		return apperr.Wrap(err, "invalid character").WithMeta("owner_id", char.OwnerID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[char.OwnerID]; exists {
		return apperr.AlreadyExistsf("character for owner '%s' already exists", char.OwnerID).
			WithMeta("owner_id", char.OwnerID)
	}

	now := r.clock.Now()
	char.CreatedAt = now
	char.UpdatedAt = now
	r.characters[char.OwnerID] = char.Clone()
	return nil
}

// Get retrieves a character by owner
func (r *InMemoryRepository) Get(ctx context.Context, ownerID string) (*entities.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	char, exists := r.characters[ownerID]
	if !exists {
		return nil, apperr.NotFoundf("character for owner '%s' not found", ownerID).
			WithMeta("owner_id", ownerID)
	}
	return char.Clone(), nil
}

// IncrementStat moves points from the unspent pool into one stat
func (r *InMemoryRepository) IncrementStat(ctx context.Context, ownerID string, category entities.StatCategory, amount int) error {
	if !category.Valid() {
		return apperr.InvalidArgumentf("unknown stat category '%s'", category)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	char, exists := r.characters[ownerID]
	if !exists {
		return apperr.NotFoundf("character for owner '%s' not found", ownerID).
			WithMeta("owner_id", ownerID)
	}
	if amount < 0 || amount > char.UnspentStatPoints {
		return apperr.InvalidArgumentf("cannot allocate %d points", amount).
			WithMeta("owner_id", ownerID).
			WithMeta("amount", amount)
	}

	char.Stats[category] += amount
	char.UnspentStatPoints -= amount
	char.UpdatedAt = r.clock.Now()
	return nil
}

// LevelUp raises the level by one and grants the level's stat points
func (r *InMemoryRepository) LevelUp(ctx context.Context, ownerID string) (*entities.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	char, exists := r.characters[ownerID]
	if !exists {
		return nil, apperr.NotFoundf("character for owner '%s' not found", ownerID).
			WithMeta("owner_id", ownerID)
	}

	char.Level++
	char.UnspentStatPoints += entities.StatPointsPerLevel
	char.UpdatedAt = r.clock.Now()
	return char.Clone(), nil
}

// List returns every stored character ordered by owner
func (r *InMemoryRepository) List(ctx context.Context) ([]*entities.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Character, 0, len(r.characters))
	for _, char := range r.characters {
		out = append(out, char.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OwnerID < out[j].OwnerID
	})
	return out, nil
}
