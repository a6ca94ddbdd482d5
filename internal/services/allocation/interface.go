package allocation

//go:generate mockgen -destination=mock/mock.go -package=mockallocation -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/nature-bot/internal/entities"
)

// Prompter is the chat-side half of an allocation dialogue. Every Await
// method blocks until a qualifying event arrives or ctx is done.
type Prompter interface {
	// Open publishes the prompt message with one trigger per stat category
	Open(ctx context.Context, remaining int) error

	// AwaitCategory waits for the owner to pick a trigger on the prompt
	AwaitCategory(ctx context.Context) (entities.StatCategory, error)

	// AwaitAmount asks for an amount and waits for a numeric reply from the
	// owner in the prompt's channel. Non-numeric replies are ignored.
	AwaitAmount(ctx context.Context, category entities.StatCategory, remaining int) (int, error)

	// Refresh updates the displayed budget and resets the triggers
	Refresh(ctx context.Context, remaining int) error

	// Notify sends a plain message to the owner
	Notify(ctx context.Context, message string) error
}

// Sink receives accepted allocations
type Sink interface {
	// Apply records one accepted step
	Apply(ctx context.Context, category entities.StatCategory, amount int) error

	// Complete is called once the budget is exhausted
	Complete(ctx context.Context, stats entities.Stats) error
}
