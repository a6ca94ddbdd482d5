package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"

	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
)

// Waiter lets a dialogue suspend until one gateway event matches a predicate.
// A listener is removed as soon as it matches or its context ends.
type Waiter struct {
	mu        sync.Mutex
	nextID    uint64
	messages  map[uint64]*listener[*discordgo.Message]
	reactions map[uint64]*listener[*discordgo.MessageReaction]
}

type listener[T any] struct {
	match func(T) bool
	ch    chan T
}

// NewWaiter creates a waiter with no listeners
func NewWaiter() *Waiter {
	return &Waiter{
		messages:  make(map[uint64]*listener[*discordgo.Message]),
		reactions: make(map[uint64]*listener[*discordgo.MessageReaction]),
	}
}

// WaitForMessage blocks until a created message satisfies match
func (w *Waiter) WaitForMessage(ctx context.Context, match func(*discordgo.Message) bool) (*discordgo.Message, error) {
	return subscribe(w, w.messages, match, "message").Wait(ctx)
}

// WaitForReaction blocks until an added reaction satisfies match
func (w *Waiter) WaitForReaction(ctx context.Context, match func(*discordgo.MessageReaction) bool) (*discordgo.MessageReaction, error) {
	return w.ListenForReaction(match).Wait(ctx)
}

// ListenForReaction registers a reaction listener now and lets the caller
// wait on it later, so events arriving in between are not lost.
func (w *Waiter) ListenForReaction(match func(*discordgo.MessageReaction) bool) *Subscription[*discordgo.MessageReaction] {
	return subscribe(w, w.reactions, match, "reaction")
}

// OnMessageCreate feeds message events; register it with the gateway session
func (w *Waiter) OnMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil {
		return
	}
	deliver(w, w.messages, m.Message)
}

// OnReactionAdd feeds reaction events; register it with the gateway session
func (w *Waiter) OnReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r == nil || r.MessageReaction == nil {
		return
	}
	deliver(w, w.reactions, r.MessageReaction)
}

// Pending reports how many listeners are registered
func (w *Waiter) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.messages) + len(w.reactions)
}

// Subscription is one registered listener. It is removed by Wait or Cancel.
type Subscription[T any] struct {
	w         *Waiter
	listeners map[uint64]*listener[T]
	id        uint64
	ch        chan T
	what      string
}

func subscribe[T any](w *Waiter, listeners map[uint64]*listener[T], match func(T) bool, what string) *Subscription[T] {
	l := &listener[T]{match: match, ch: make(chan T, 1)}

	w.mu.Lock()
	w.nextID++
	id := w.nextID
	listeners[id] = l
	w.mu.Unlock()

	return &Subscription[T]{w: w, listeners: listeners, id: id, ch: l.ch, what: what}
}

// Wait blocks until the listener matches or ctx ends, then removes it
func (s *Subscription[T]) Wait(ctx context.Context) (T, error) {
	defer s.Cancel()

	var zero T
	select {
	case v := <-s.ch:
		return v, nil
	default:
	}
	if err := ctx.Err(); err != nil {
		return zero, apperr.Wrapf(err, "stopped waiting for %s", s.what)
	}

	select {
	case v := <-s.ch:
		return v, nil
	case <-ctx.Done():
		return zero, apperr.Wrapf(ctx.Err(), "stopped waiting for %s", s.what)
	}
}

// Cancel removes the listener. It is safe to call more than once.
func (s *Subscription[T]) Cancel() {
	s.w.mu.Lock()
	delete(s.listeners, s.id)
	s.w.mu.Unlock()
}

// deliver hands v to every listener that matches, removing them
func deliver[T any](w *Waiter, listeners map[uint64]*listener[T], v T) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, l := range listeners {
		if !l.match(v) {
			continue
		}
		delete(listeners, id)
		l.ch <- v
	}
}
