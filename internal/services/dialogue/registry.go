// Package dialogue tracks the one interactive exchange each user may have in flight
package dialogue

import (
	"log/slog"
	"sync"

	"github.com/KirkDiggler/nature-bot/internal/clock"
	"github.com/KirkDiggler/nature-bot/internal/entities"
	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
	"github.com/KirkDiggler/nature-bot/internal/uuid"
)

// Registry rejects a second dialogue for a user while one is active
type Registry struct {
	mu        sync.Mutex
	active    map[string]*entities.DialogueSession
	generator uuid.Generator
	clock     clock.Clock
}

// RegistryConfig holds dependencies for the registry
type RegistryConfig struct {
	Generator uuid.Generator // Optional: defaults to random UUIDs
	Clock     clock.Clock    // Optional: defaults to the system clock
}

// NewRegistry creates an empty registry
func NewRegistry(cfg *RegistryConfig) *Registry {
	if cfg == nil {
		cfg = &RegistryConfig{}
	}

	gen := cfg.Generator
	if gen == nil {
		gen = uuid.NewGoogleUUIDGenerator()
	}
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &Registry{
		active:    make(map[string]*entities.DialogueSession),
		generator: gen,
		clock:     c,
	}
}

// Begin marks the user busy. It fails with a conflict error when the user
// already has a dialogue in flight.
func (r *Registry) Begin(userID string, kind entities.DialogueKind) (*entities.DialogueSession, error) {
	if userID == "" {
		return nil, apperr.InvalidArgument("user ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, busy := r.active[userID]; busy {
		return nil, apperr.Conflictf("a %s dialogue is already active", current.Kind).
			WithMeta("user_id", userID).
			WithMeta("dialogue_id", current.ID)
	}

	session := &entities.DialogueSession{
		ID:        r.generator.New(),
		UserID:    userID,
		Kind:      kind,
		StartedAt: r.clock.Now(),
	}
	r.active[userID] = session

	slog.Debug("dialogue started",
		"dialogue_id", session.ID,
		"user_id", userID,
		"kind", string(kind))
	return session, nil
}

// End releases the user. A stale session that was already replaced is ignored.
func (r *Registry) End(session *entities.DialogueSession) {
	if session == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.active[session.UserID]; ok && current.ID == session.ID {
		delete(r.active, session.UserID)
		slog.Debug("dialogue ended",
			"dialogue_id", session.ID,
			"user_id", session.UserID,
			"duration", r.clock.Now().Sub(session.StartedAt).String())
	}
}

// Active returns the user's in-flight dialogue, if any
func (r *Registry) Active(userID string) (*entities.DialogueSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.active[userID]
	if !ok {
		return nil, false
	}
	copied := *session
	return &copied, true
}

// Len returns the number of in-flight dialogues
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.active)
}
