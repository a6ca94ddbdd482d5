package character

//go:generate mockgen -destination=mock/mock.go -package=mockcharacter -source=service.go

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/nature-bot/internal/domain/rulebook"
	"github.com/KirkDiggler/nature-bot/internal/entities"
	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
	"github.com/KirkDiggler/nature-bot/internal/repositories/characters"
	"github.com/KirkDiggler/nature-bot/internal/services/allocation"
	"github.com/KirkDiggler/nature-bot/internal/services/dialogue"
)

// Repository is an alias for the character repository interface
type Repository = characters.Repository

// Reasons attached to not_found errors so callers can word the reply
const (
	ReasonNotRegistered = "not_registered"
	ReasonUnknownNature = "unknown_nature"
)

// Service defines the character service interface
type Service interface {
	// Register validates the request and runs a draft allocation of the
	// starting points. The character is stored only when the budget is spent.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// DistributeStats spends the stored unspent points, one step at a time
	DistributeStats(ctx context.Context, input *DistributeStatsInput) (*DistributeStatsOutput, error)

	// LevelUp raises the level and grants stat points
	LevelUp(ctx context.Context, ownerID string) (*entities.Character, error)

	// GetCharacterSheet returns the stored character with its nature profile
	GetCharacterSheet(ctx context.Context, ownerID string) (*CharacterSheet, error)

	// ListCharacters returns every stored character
	ListCharacters(ctx context.Context) ([]*entities.Character, error)
}

// RegisterInput contains the registration arguments
type RegisterInput struct {
	OwnerID    string
	Name       string
	Profession string
	Nature     string
	Prompter   allocation.Prompter
}

// RegisterOutput contains the stored character
type RegisterOutput struct {
	Character *entities.Character
}

// DistributeStatsInput identifies whose points to spend
type DistributeStatsInput struct {
	OwnerID  string
	Prompter allocation.Prompter
}

// DistributeStatsOutput reports what was spent
type DistributeStatsOutput struct {
	Character *entities.Character
	Allocated int
}

// CharacterSheet is a character joined with its nature's stat profile
type CharacterSheet struct {
	Character *entities.Character
	Profile   entities.NatureStatProfile
	Effective entities.Stats
}

// service implements the Service interface
type service struct {
	repository Repository
	rulebook   *rulebook.Rulebook
	dialogues  *dialogue.Registry
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository Repository         // Required
	Rulebook   *rulebook.Rulebook // Required
	Dialogues  *dialogue.Registry // Optional, will create default if nil
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Rulebook == nil {
		panic("rulebook is required")
	}

	dialogues := cfg.Dialogues
	if dialogues == nil {
		dialogues = dialogue.NewRegistry(nil)
	}

	return &service{
		repository: cfg.Repository,
		rulebook:   cfg.Rulebook,
		dialogues:  dialogues,
	}
}

// Register creates a character once its starting points are allocated
func (s *service) Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	if input == nil {
		return nil, apperr.InvalidArgument("input is required")
	}
	if input.OwnerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.InvalidArgument("name is required")
	}
	profession := strings.TrimSpace(input.Profession)
	if profession == "" {
		return nil, apperr.InvalidArgument("profession is required")
	}
	if input.Prompter == nil {
		return nil, apperr.InvalidArgument("prompter is required")
	}

	nature, _, ok := s.rulebook.LookupNature(strings.TrimSpace(input.Nature))
	if !ok {
		return nil, apperr.NotFoundf("unknown nature '%s'", input.Nature).
			WithMeta("reason", ReasonUnknownNature).
			WithMeta("nature", input.Nature)
	}

	session, err := s.dialogues.Begin(input.OwnerID, entities.DialogueKindRegister)
	if err != nil {
		return nil, err
	}
	defer s.dialogues.End(session)

	if _, err := s.repository.Get(ctx, input.OwnerID); err == nil {
		return nil, apperr.AlreadyExists("you already have a registered character").
			WithMeta("owner_id", input.OwnerID)
	} else if !apperr.IsNotFound(err) {
		return nil, apperr.Wrap(err, "failed to check existing character")
	}

	var created *entities.Character
	dlg, err := allocation.NewDialogue(&allocation.Config{
		ID:       session.ID,
		OwnerID:  input.OwnerID,
		Budget:   entities.StartingStatPoints,
		Stats:    entities.NewStats(),
		Prompter: input.Prompter,
		Sink: &allocation.DraftSink{
			OnComplete: func(ctx context.Context, stats entities.Stats) error {
				char := entities.NewCharacter(input.OwnerID, name, profession, nature, stats)
				if err := s.repository.Create(ctx, char); err != nil {
					return err
				}
				created = char
				return nil
			},
		},
	})
	if err != nil {
		return nil, err
	}

	if _, err := dlg.Run(ctx); err != nil {
		return nil, err
	}

	slog.Info("character registered",
		"dialogue_id", session.ID,
		"owner_id", input.OwnerID,
		"nature", nature)

	return &RegisterOutput{Character: created}, nil
}

// DistributeStats runs a live allocation over the stored unspent points
func (s *service) DistributeStats(ctx context.Context, input *DistributeStatsInput) (*DistributeStatsOutput, error) {
	if input == nil || input.OwnerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}
	if input.Prompter == nil {
		return nil, apperr.InvalidArgument("prompter is required")
	}

	session, err := s.dialogues.Begin(input.OwnerID, entities.DialogueKindDistribute)
	if err != nil {
		return nil, err
	}
	defer s.dialogues.End(session)

	char, err := s.get(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	dlg, err := allocation.NewDialogue(&allocation.Config{
		ID:       session.ID,
		OwnerID:  input.OwnerID,
		Budget:   char.UnspentStatPoints,
		Stats:    char.Stats,
		Prompter: input.Prompter,
		Sink: &allocation.LiveSink{
			Repo:    s.repository,
			OwnerID: input.OwnerID,
		},
	})
	if err != nil {
		return nil, err
	}

	result, err := dlg.Run(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.get(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	return &DistributeStatsOutput{
		Character: updated,
		Allocated: char.UnspentStatPoints - result.Remaining,
	}, nil
}

// LevelUp raises the level by one
func (s *service) LevelUp(ctx context.Context, ownerID string) (*entities.Character, error) {
	if ownerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}

	char, err := s.repository.LevelUp(ctx, ownerID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, notRegistered(ownerID)
		}
		return nil, apperr.Wrap(err, "failed to level up")
	}

	slog.Info("character leveled up",
		"owner_id", ownerID,
		"level", char.Level,
		"unspent", char.UnspentStatPoints)
	return char, nil
}

// GetCharacterSheet reads the stored character without modifying it
func (s *service) GetCharacterSheet(ctx context.Context, ownerID string) (*CharacterSheet, error) {
	if ownerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}

	char, err := s.get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sheet := &CharacterSheet{
		Character: char,
		Effective: char.Stats.Clone(),
	}
	if _, profile, ok := s.rulebook.LookupNature(char.Nature); ok {
		sheet.Profile = profile
		sheet.Effective = char.Stats.Plus(profile.Modifiers)
	}
	return sheet, nil
}

// ListCharacters returns every stored character
func (s *service) ListCharacters(ctx context.Context) ([]*entities.Character, error) {
	chars, err := s.repository.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list characters")
	}
	return chars, nil
}

func (s *service) get(ctx context.Context, ownerID string) (*entities.Character, error) {
	char, err := s.repository.Get(ctx, ownerID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, notRegistered(ownerID)
		}
		return nil, apperr.Wrap(err, "failed to get character")
	}
	return char, nil
}

func notRegistered(ownerID string) error {
	return apperr.NotFound("you do not have a registered character").
		WithMeta("reason", ReasonNotRegistered).
		WithMeta("owner_id", ownerID)
}
