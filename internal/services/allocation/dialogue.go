// Package allocation runs the reaction-driven dialogue that spends a stat
// point budget one category at a time.
package allocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KirkDiggler/nature-bot/internal/entities"
	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
)

// StepTimeout bounds each wait for a reaction or an amount
const StepTimeout = 60 * time.Second

// State of an allocation dialogue
type State int

const (
	StateAwaitingCategory State = iota
	StateAwaitingAmount
	StateApplying
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingCategory:
		return "awaiting_category"
	case StateAwaitingAmount:
		return "awaiting_amount"
	case StateApplying:
		return "applying"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// InvalidAmountMessage is sent when an amount is outside the remaining budget
func InvalidAmountMessage(amount, remaining int) string {
	return fmt.Sprintf("Invalid amount %d. You can allocate between 0 and %d points.", amount, remaining)
}

// Config describes one dialogue
type Config struct {
	ID       string // correlation id for logs
	OwnerID  string
	Budget   int
	Stats    entities.Stats // starting values, copied
	Prompter Prompter
	Sink     Sink
}

// Result is the outcome of a completed dialogue
type Result struct {
	Stats     entities.Stats
	Remaining int
	Steps     int
}

// Dialogue spends a budget through repeated category/amount exchanges
type Dialogue struct {
	id          string
	ownerID     string
	remaining   int
	stats       entities.Stats
	steps       int
	state       State
	prompter    Prompter
	sink        Sink
	stepTimeout time.Duration
	logger      *slog.Logger
}

// NewDialogue validates cfg and creates a dialogue ready to Run
func NewDialogue(cfg *Config) (*Dialogue, error) {
	if cfg == nil {
		return nil, apperr.InvalidArgument("allocation config is required")
	}
	if cfg.Budget < 0 {
		return nil, apperr.InvalidArgumentf("budget cannot be negative, got %d", cfg.Budget)
	}
	if cfg.Prompter == nil {
		return nil, apperr.InvalidArgument("prompter is required")
	}
	if cfg.Sink == nil {
		return nil, apperr.InvalidArgument("sink is required")
	}

	return &Dialogue{
		id:          cfg.ID,
		ownerID:     cfg.OwnerID,
		remaining:   cfg.Budget,
		stats:       cfg.Stats.Clone(),
		state:       StateAwaitingCategory,
		prompter:    cfg.Prompter,
		sink:        cfg.Sink,
		stepTimeout: StepTimeout,
		logger: slog.Default().With(
			"dialogue_id", cfg.ID,
			"user_id", cfg.OwnerID),
	}, nil
}

// State returns the current state
func (d *Dialogue) State() State {
	return d.state
}

// Run drives the dialogue until the budget is spent or a step fails.
// A rejected amount changes nothing and returns to category selection.
func (d *Dialogue) Run(ctx context.Context) (*Result, error) {
	if d.remaining == 0 {
		return d.complete(ctx)
	}

	if err := d.prompter.Open(ctx, d.remaining); err != nil {
		return nil, d.fail(apperr.WrapWithCode(err, apperr.CodeInternal, "failed to publish allocation prompt"))
	}

	for d.remaining > 0 {
		d.transition(StateAwaitingCategory)
		category, err := awaitStep(ctx, d, "stat selection", d.prompter.AwaitCategory)
		if err != nil {
			return nil, d.fail(err)
		}
		if !category.Valid() {
			return nil, d.fail(apperr.InvalidArgumentf("unknown stat category '%s'", category))
		}

		d.transition(StateAwaitingAmount)
		amount, err := awaitStep(ctx, d, "amount", func(stepCtx context.Context) (int, error) {
			return d.prompter.AwaitAmount(stepCtx, category, d.remaining)
		})
		if err != nil {
			return nil, d.fail(err)
		}

		if amount < 0 || amount > d.remaining {
			d.logger.Info("allocation amount rejected",
				"category", string(category),
				"amount", amount,
				"remaining", d.remaining)
			if err := d.prompter.Notify(ctx, InvalidAmountMessage(amount, d.remaining)); err != nil {
				return nil, d.fail(apperr.WrapWithCode(err, apperr.CodeInternal, "failed to report invalid amount"))
			}
			continue
		}

		d.transition(StateApplying)
		if err := d.sink.Apply(ctx, category, amount); err != nil {
			return nil, d.fail(applyError(err).
				WithMeta("category", string(category)).
				WithMeta("amount", amount))
		}
		d.stats[category] += amount
		d.remaining -= amount
		d.steps++

		d.logger.Debug("allocation applied",
			"category", string(category),
			"amount", amount,
			"remaining", d.remaining)

		if err := d.prompter.Refresh(ctx, d.remaining); err != nil {
			// the budget is spent, so a stale prompt must not discard the allocation
			if d.remaining == 0 {
				d.logger.Warn("failed to refresh finished allocation prompt", "error", err)
				break
			}
			return nil, d.fail(apperr.WrapWithCode(err, apperr.CodeInternal, "failed to refresh allocation prompt"))
		}
	}

	return d.complete(ctx)
}

func (d *Dialogue) complete(ctx context.Context) (*Result, error) {
	if err := d.sink.Complete(ctx, d.stats.Clone()); err != nil {
		// keep the store's code so a duplicate insert still reads as already_exists
		return nil, d.fail(apperr.Wrap(err, "failed to complete allocation"))
	}
	d.transition(StateComplete)

	return &Result{
		Stats:     d.stats.Clone(),
		Remaining: d.remaining,
		Steps:     d.steps,
	}, nil
}

// applyError keeps the store's code, so a pool that shrank underneath the
// dialogue still reads as invalid_argument. Uncoded errors are internal.
func applyError(err error) *apperr.Error {
	wrapped := apperr.Wrap(err, "failed to apply allocation")
	if wrapped.Code == apperr.CodeUnknown {
		wrapped.Code = apperr.CodeInternal
	}
	return wrapped
}

func (d *Dialogue) fail(err error) error {
	previous := d.state
	d.transition(StateFailed)
	d.logger.Warn("allocation dialogue failed",
		"state", previous.String(),
		"remaining", d.remaining,
		"error", err)
	if d.id != "" {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr.WithMeta("dialogue_id", d.id)
		}
	}
	return err
}

func (d *Dialogue) transition(next State) {
	if d.state == next {
		return
	}
	d.logger.Debug("allocation state", "from", d.state.String(), "to", next.String())
	d.state = next
}

// awaitStep runs one wait under the step deadline. An expired deadline
// becomes a timeout error whatever the prompter returned.
func awaitStep[T any](ctx context.Context, d *Dialogue, what string, wait func(context.Context) (T, error)) (T, error) {
	stepCtx, cancel := context.WithTimeout(ctx, d.stepTimeout)
	defer cancel()

	v, err := wait(stepCtx)
	if err == nil {
		return v, nil
	}

	var zero T
	if errors.Is(stepCtx.Err(), context.DeadlineExceeded) || apperr.IsTimeout(err) {
		return zero, apperr.Timeoutf("no %s received within %s", what, d.stepTimeout).
			WithMeta("state", d.state.String())
	}
	return zero, apperr.Wrapf(err, "failed awaiting %s", what)
}
