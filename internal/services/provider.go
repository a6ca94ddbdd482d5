package services

import (
	"github.com/KirkDiggler/nature-bot/internal/domain/rulebook"
	"github.com/KirkDiggler/nature-bot/internal/repositories/characters"
	characterService "github.com/KirkDiggler/nature-bot/internal/services/character"
	"github.com/KirkDiggler/nature-bot/internal/services/dialogue"
	"github.com/KirkDiggler/nature-bot/internal/services/quiz"
	"github.com/KirkDiggler/nature-bot/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	CharacterService characterService.Service
	QuizEngine       *quiz.Engine
	Dialogues        *dialogue.Registry
	Rulebook         *rulebook.Rulebook
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	CharacterRepository characters.Repository
	Roles               quiz.RoleGranter   // Required
	Rulebook            *rulebook.Rulebook // Optional: defaults to the embedded tables
	UUIDGenerator       uuid.Generator
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	// Use in-memory repository if none provided
	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}

	rb := cfg.Rulebook
	if rb == nil {
		rb = rulebook.MustLoad()
	}

	// One registry shared by every command so a user never runs two dialogues
	dialogues := dialogue.NewRegistry(&dialogue.RegistryConfig{
		Generator: cfg.UUIDGenerator,
	})

	charService := characterService.NewService(&characterService.ServiceConfig{
		Repository: charRepo,
		Rulebook:   rb,
		Dialogues:  dialogues,
	})

	quizEngine := quiz.NewEngine(&quiz.EngineConfig{
		Rulebook: rb,
		Roles:    cfg.Roles,
	})

	return &Provider{
		CharacterService: charService,
		QuizEngine:       quizEngine,
		Dialogues:        dialogues,
		Rulebook:         rb,
	}
}
