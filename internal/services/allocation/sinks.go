package allocation

import (
	"context"

	"github.com/KirkDiggler/nature-bot/internal/entities"
	"github.com/KirkDiggler/nature-bot/internal/repositories/characters"
)

// DraftSink keeps allocations in memory and hands the final stats to
// OnComplete. Nothing is stored if the dialogue fails.
type DraftSink struct {
	OnComplete func(ctx context.Context, stats entities.Stats) error
}

// Apply is a no-op; the dialogue holds the draft
func (s *DraftSink) Apply(ctx context.Context, category entities.StatCategory, amount int) error {
	return nil
}

// Complete passes the final stats on
func (s *DraftSink) Complete(ctx context.Context, stats entities.Stats) error {
	if s.OnComplete == nil {
		return nil
	}
	return s.OnComplete(ctx, stats.Clone())
}

// LiveSink writes each step straight to the stored character.
// Steps committed before a failure stay committed.
type LiveSink struct {
	Repo    characters.Repository
	OwnerID string
}

// Apply moves amount points from the stored pool into category
func (s *LiveSink) Apply(ctx context.Context, category entities.StatCategory, amount int) error {
	return s.Repo.IncrementStat(ctx, s.OwnerID, category, amount)
}

// Complete has nothing left to write
func (s *LiveSink) Complete(ctx context.Context, stats entities.Stats) error {
	return nil
}
