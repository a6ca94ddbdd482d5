// Package quiz runs the personality quiz that ends in a nature and a role
package quiz

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/nature-bot/internal/domain/rulebook"
	"github.com/KirkDiggler/nature-bot/internal/entities"
	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
)

// AnswerTimeout bounds the wait for each reply
const AnswerTimeout = 120 * time.Second

// Engine asks the question bank and turns the dominant answer into a nature
type Engine struct {
	rulebook      *rulebook.Rulebook
	roles         RoleGranter
	shuffle       func([]entities.Question)
	answerTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*entities.QuizSession
}

// EngineConfig holds dependencies for the engine
type EngineConfig struct {
	Rulebook *rulebook.Rulebook
	Roles    RoleGranter
	Shuffle  func([]entities.Question) // Optional: defaults to a random permutation
}

// NewEngine creates a quiz engine
func NewEngine(cfg *EngineConfig) *Engine {
	if cfg == nil {
		panic("EngineConfig cannot be nil")
	}
	if cfg.Rulebook == nil {
		panic("rulebook is required")
	}
	if cfg.Roles == nil {
		panic("role granter is required")
	}

	shuffle := cfg.Shuffle
	if shuffle == nil {
		shuffle = func(qs []entities.Question) {
			rand.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
		}
	}

	return &Engine{
		rulebook:      cfg.Rulebook,
		roles:         cfg.Roles,
		shuffle:       shuffle,
		answerTimeout: AnswerTimeout,
		sessions:      make(map[string]*entities.QuizSession),
	}
}

// RunInput identifies the quiz taker
type RunInput struct {
	UserID  string
	GuildID string // empty when invoked outside a server
	Asker   Asker
}

// RunOutput is the result of a finished quiz
type RunOutput struct {
	Answers     []string
	Profile     entities.NatureProfile
	RoleGranted bool
}

// Run asks every unseen question, then reports the nature and grants its role.
// Invalid replies and timeouts end the quiz without touching roles.
func (e *Engine) Run(ctx context.Context, input *RunInput) (*RunOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, apperr.InvalidArgument("user ID is required")
	}
	if input.Asker == nil {
		return nil, apperr.InvalidArgument("asker is required")
	}

	logger := slog.Default().With("user_id", input.UserID)
	logger.Info("quiz started")

	session := e.session(input.UserID)
	defer e.release(input.UserID)

	questions := e.rulebook.Questions()
	e.shuffle(questions)

	for _, q := range questions {
		if session.HasAsked(q.Prompt) {
			continue
		}

		answer, err := e.ask(ctx, input.Asker, q)
		if err != nil {
			switch {
			case apperr.IsTimeout(err):
				logger.Warn("quiz answer timed out", "question", q.Prompt)
				e.notify(ctx, input.Asker, MsgTimeout)
			case apperr.IsInvalidArgument(err):
				logger.Warn("quiz answer invalid", "question", q.Prompt, "error", err)
				e.notify(ctx, input.Asker, MsgInvalidChoice)
			default:
				logger.Error("quiz question failed", "error", err)
			}
			return nil, err
		}

		session.Record(q.Prompt, answer)
		logger.Debug("quiz answer recorded", "question", q.Prompt, "answer", answer)
	}

	dominant, ok := session.DominantAnswer()
	if !ok {
		logger.Warn("quiz finished without answers")
		e.notify(ctx, input.Asker, MsgNoAnswers)
		return nil, apperr.NotFound("no valid answers were received").WithMeta("reason", "no_answers")
	}

	profile := e.rulebook.ProfileForAnswer(dominant)
	granted := e.grantRole(ctx, logger, input, profile.Nature)

	if err := input.Asker.Notify(ctx, SummaryMessage(profile)); err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeInternal, "failed to send quiz result")
	}
	logger.Info("quiz finished", "nature", profile.Nature, "recommended", profile.Recommended)

	return &RunOutput{
		Answers:     append([]string(nil), session.Answers...),
		Profile:     profile,
		RoleGranted: granted,
	}, nil
}

// ask sends one question and parses the reply as a 1-based option index
func (e *Engine) ask(ctx context.Context, asker Asker, q entities.Question) (string, error) {
	askCtx, cancel := context.WithTimeout(ctx, e.answerTimeout)
	defer cancel()

	reply, err := asker.Ask(askCtx, FormatQuestion(q))
	if err != nil {
		if errors.Is(askCtx.Err(), context.DeadlineExceeded) || apperr.IsTimeout(err) {
			return "", apperr.Timeoutf("no answer within %s", e.answerTimeout)
		}
		return "", apperr.WrapWithCode(err, apperr.CodeInternal, "failed to ask question")
	}

	index, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil || index < 1 || index > len(q.Options) {
		return "", apperr.InvalidArgumentf("invalid choice %q", reply).
			WithMeta("options", len(q.Options))
	}
	return q.Options[index-1], nil
}

// grantRole reports every failure to the user as text
func (e *Engine) grantRole(ctx context.Context, logger *slog.Logger, input *RunInput, role string) bool {
	if input.GuildID == "" {
		e.notify(ctx, input.Asker, MsgNoGuild)
		return false
	}

	err := e.roles.GrantRole(ctx, input.GuildID, input.UserID, role)
	switch {
	case err == nil:
		logger.Info("role assigned", "role", role)
		return true
	case apperr.IsNotFound(err):
		logger.Warn("role does not exist", "role", role)
		e.notify(ctx, input.Asker, roleMissingMessage(role))
	case apperr.IsPermissionDenied(err):
		logger.Error("permission denied assigning role", "role", role, "error", err)
		e.notify(ctx, input.Asker, rolePermissionMessage(role))
	default:
		logger.Error("failed to assign role", "role", role, "error", err)
		e.notify(ctx, input.Asker, roleErrorMessage(role))
	}
	return false
}

func (e *Engine) notify(ctx context.Context, asker Asker, text string) {
	if err := asker.Notify(ctx, text); err != nil {
		slog.Warn("failed to notify quiz taker", "error", err)
	}
}

func (e *Engine) session(userID string) *entities.QuizSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.sessions[userID]
	if !ok {
		session = entities.NewQuizSession(userID)
		e.sessions[userID] = session
	}
	return session
}

func (e *Engine) release(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, userID)
}

// ActiveSessions reports how many quizzes are in flight
func (e *Engine) ActiveSessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}
