package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/nature-bot/internal/entities"
	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
	"github.com/KirkDiggler/nature-bot/internal/handlers/discord/help"
	"github.com/KirkDiggler/nature-bot/internal/services"
	characterService "github.com/KirkDiggler/nature-bot/internal/services/character"
	"github.com/KirkDiggler/nature-bot/internal/services/quiz"
)

// Command names
const (
	CommandRegister        = "register"
	CommandDistributeStats = "distribute_stats"
	CommandLevelUp         = "level_up"
	CommandViewCharacter   = "view_character"
	CommandHelp            = "help_menu"
	CommandQuiz            = "invoke"
)

// MsgGuildOnly answers allocation commands used outside a server, where
// reaction prompts cannot be managed
const MsgGuildOnly = "Stat allocation only works in a server channel. Run this command there."

// guildOnly limits a command to server channels
var guildOnly = []discordgo.InteractionContextType{discordgo.InteractionContextGuild}

// Handler handles all Discord interactions
type Handler struct {
	ctx             context.Context
	session         Session
	ServiceProvider *services.Provider
	waiter          *Waiter
	helpHandler     *help.HelpHandler
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	Context         context.Context // Optional: cancelling it ends in-flight dialogues
	Session         Session
	ServiceProvider *services.Provider
	Waiter          *Waiter // Optional: must be the one fed by the gateway
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg.Session == nil {
		panic("session is required")
	}
	if cfg.ServiceProvider == nil {
		panic("service provider is required")
	}

	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	waiter := cfg.Waiter
	if waiter == nil {
		waiter = NewWaiter()
	}

	return &Handler{
		ctx:             ctx,
		session:         cfg.Session,
		ServiceProvider: cfg.ServiceProvider,
		waiter:          waiter,
		helpHandler:     help.NewHelpHandler(cfg.ServiceProvider.Rulebook.NatureNames()),
	}
}

// Waiter returns the event waiter the gateway must feed
func (h *Handler) Waiter() *Waiter {
	return h.waiter
}

// Commands returns the slash command definitions
func (h *Handler) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandRegister,
			Description: "Register your character",
			Contexts:    &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Character name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "profession",
					Description: "Character profession",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "nature",
					Description: "Pokémon nature, e.g. Jolly",
					Required:    true,
				},
			},
		},
		{
			Name:        CommandDistributeStats,
			Description: "Spend your unspent stat points",
			Contexts:    &guildOnly,
		},
		{
			Name:        CommandLevelUp,
			Description: "Gain a level and a stat point",
		},
		{
			Name:        CommandViewCharacter,
			Description: "Show your character sheet",
		},
		{
			Name:        CommandHelp,
			Description: "Show help",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "topic",
					Description: "Help topic",
					Required:    false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Quiz", Value: "quiz"},
						{Name: "Character", Value: "character"},
						{Name: "Stats", Value: "stats"},
					},
				},
			},
		},
		{
			Name:        CommandQuiz,
			Description: "Take the personality quiz to find your nature",
		},
	}
}

// RegisterCommands registers all slash commands with Discord
func (h *Handler) RegisterCommands(appID, guildID string) error {
	created, err := h.session.ApplicationCommandBulkOverwrite(appID, guildID, h.Commands())
	if err != nil {
		return discordError(err, "failed to register commands").
			WithMeta("guild_id", guildID)
	}

	slog.Info("registered commands", "count", len(created), "guild_id", guildID)
	return nil
}

// HandleInteraction handles all Discord interactions
func (h *Handler) HandleInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	user := interactionUser(i)
	if user == nil {
		slog.Warn("interaction without user", "interaction_id", i.ID)
		return
	}

	data := i.ApplicationCommandData()
	slog.Info("command received",
		"command", data.Name,
		"user_id", user.ID,
		"guild_id", i.GuildID,
		"channel_id", i.ChannelID)

	switch data.Name {
	case CommandRegister:
		h.handleRegister(i, user, optionValues(data.Options))
	case CommandDistributeStats:
		h.handleDistributeStats(i, user)
	case CommandLevelUp:
		h.handleLevelUp(i, user)
	case CommandViewCharacter:
		h.handleViewCharacter(i, user)
	case CommandHelp:
		h.handleHelp(i, optionValues(data.Options)["topic"])
	case CommandQuiz:
		h.handleQuiz(i, user)
	default:
		h.respond(i, fmt.Sprintf("Unknown command: %s", data.Name), true)
	}
}

func (h *Handler) handleRegister(i *discordgo.InteractionCreate, user *discordgo.User, opts map[string]string) {
	if i.GuildID == "" {
		h.respond(i, MsgGuildOnly, true)
		return
	}
	name, profession, nature := opts["name"], opts["profession"], opts["nature"]

	if _, _, ok := h.ServiceProvider.Rulebook.LookupNature(nature); !ok {
		h.respondEmbed(i, unknownNatureEmbed(nature, h.ServiceProvider.Rulebook.NatureNames()), true)
		return
	}

	h.respond(i, fmt.Sprintf("<@%s> Let's register **%s** the %s! Spend your %d starting points on the prompt below.",
		user.ID, name, profession, entities.StartingStatPoints), false)

	prompter := newReactionPrompter(h.session, h.waiter, i.ChannelID, user.ID, fmt.Sprintf("%s's starting stats", name))
	defer prompter.close()

	out, err := h.ServiceProvider.CharacterService.Register(h.ctx, &characterService.RegisterInput{
		OwnerID:    user.ID,
		Name:       name,
		Profession: profession,
		Nature:     nature,
		Prompter:   prompter,
	})
	if err != nil {
		h.report(i.ChannelID, user.ID, CommandRegister, err)
		return
	}

	h.sendMessage(i.ChannelID, fmt.Sprintf("<@%s> **%s** is registered!", user.ID, out.Character.Name))
	h.sendSheet(i.ChannelID, user.ID)
}

func (h *Handler) handleDistributeStats(i *discordgo.InteractionCreate, user *discordgo.User) {
	if i.GuildID == "" {
		h.respond(i, MsgGuildOnly, true)
		return
	}
	sheet, err := h.ServiceProvider.CharacterService.GetCharacterSheet(h.ctx, user.ID)
	if err != nil {
		h.respond(i, userMessage(err), true)
		return
	}
	if sheet.Character.UnspentStatPoints == 0 {
		h.respond(i, "You have no unspent stat points. Use `/level_up` to earn more.", true)
		return
	}

	h.respond(i, fmt.Sprintf("<@%s> You have **%d** points to spend.", user.ID, sheet.Character.UnspentStatPoints), false)

	prompter := newReactionPrompter(h.session, h.waiter, i.ChannelID, user.ID, fmt.Sprintf("%s's stat points", sheet.Character.Name))
	defer prompter.close()

	out, err := h.ServiceProvider.CharacterService.DistributeStats(h.ctx, &characterService.DistributeStatsInput{
		OwnerID:  user.ID,
		Prompter: prompter,
	})
	if err != nil {
		h.report(i.ChannelID, user.ID, CommandDistributeStats, err)
		return
	}

	h.sendMessage(i.ChannelID, fmt.Sprintf("<@%s> Allocated %d points.", user.ID, out.Allocated))
	h.sendSheet(i.ChannelID, user.ID)
}

func (h *Handler) handleLevelUp(i *discordgo.InteractionCreate, user *discordgo.User) {
	char, err := h.ServiceProvider.CharacterService.LevelUp(h.ctx, user.ID)
	if err != nil {
		h.logError(CommandLevelUp, user.ID, err)
		h.respond(i, userMessage(err), true)
		return
	}

	h.respond(i, fmt.Sprintf("🎉 **%s** reached level %d! Unspent stat points: %d. Use `/distribute_stats` to spend them.",
		char.Name, char.Level, char.UnspentStatPoints), false)
}

func (h *Handler) handleViewCharacter(i *discordgo.InteractionCreate, user *discordgo.User) {
	sheet, err := h.ServiceProvider.CharacterService.GetCharacterSheet(h.ctx, user.ID)
	if err != nil {
		h.logError(CommandViewCharacter, user.ID, err)
		h.respond(i, userMessage(err), true)
		return
	}

	h.respondEmbed(i, characterSheetEmbed(sheet), false)
}

func (h *Handler) handleHelp(i *discordgo.InteractionCreate, topic string) {
	err := h.helpHandler.Handle(&help.HelpRequest{
		Session:     h.session,
		Interaction: i,
		Topic:       topic,
	})
	if err != nil {
		slog.Error("failed to send help", "error", err)
	}
}

func (h *Handler) handleQuiz(i *discordgo.InteractionCreate, user *discordgo.User) {
	dlg, err := h.ServiceProvider.Dialogues.Begin(user.ID, entities.DialogueKindQuiz)
	if err != nil {
		h.respond(i, userMessage(err), true)
		return
	}
	defer h.ServiceProvider.Dialogues.End(dlg)

	h.respond(i, "Check your direct messages to start the quiz!", true)

	_, err = h.ServiceProvider.QuizEngine.Run(h.ctx, &quiz.RunInput{
		UserID:  user.ID,
		GuildID: i.GuildID,
		Asker:   newDMAsker(h.session, h.waiter, user.ID),
	})
	if err == nil {
		return
	}

	// invalid answers and timeouts were already explained in the DM
	if apperr.IsTimeout(err) || apperr.IsInvalidArgument(err) || apperr.IsNotFound(err) {
		return
	}
	h.logError(CommandQuiz, user.ID, err)

	_, ferr := h.session.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: "I couldn't run the quiz in your direct messages. Please check that they are open for this server.",
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if ferr != nil {
		slog.Error("failed to send quiz followup", "error", ferr)
	}
}

func (h *Handler) sendSheet(channelID, userID string) {
	sheet, err := h.ServiceProvider.CharacterService.GetCharacterSheet(h.ctx, userID)
	if err != nil {
		h.logError("sheet", userID, err)
		return
	}
	if _, err := h.session.ChannelMessageSendEmbed(channelID, characterSheetEmbed(sheet)); err != nil {
		slog.Error("failed to send character sheet", "error", err, "channel_id", channelID)
	}
}

// report explains a failed dialogue in the channel it ran in
func (h *Handler) report(channelID, userID, command string, err error) {
	h.logError(command, userID, err)
	h.sendMessage(channelID, fmt.Sprintf("<@%s> %s", userID, userMessage(err)))
}

func (h *Handler) sendMessage(channelID, content string) {
	if _, err := h.session.ChannelMessageSend(channelID, content); err != nil {
		slog.Error("failed to send message", "error", err, "channel_id", channelID)
	}
}

func (h *Handler) respond(i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	h.respondData(i, data)
}

func (h *Handler) respondEmbed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	h.respondData(i, data)
}

func (h *Handler) respondData(i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		slog.Error("failed to respond to interaction", "error", err, "interaction_id", i.ID)
	}
}

// logError logs expected outcomes at info and failures at error
func (h *Handler) logError(command, userID string, err error) {
	attrs := []any{"command", command, "user_id", userID, "code", string(apperr.GetCode(err)), "error", err}
	switch apperr.GetCode(err) {
	case apperr.CodeInternal, apperr.CodeUnknown, apperr.CodePermissionDenied:
		slog.Error("command failed", attrs...)
	default:
		slog.Info("command ended", attrs...)
	}
}

// userMessage turns an error into the text shown to the user
func userMessage(err error) string {
	switch {
	case apperr.IsConflict(err):
		return "You already have a dialogue in progress. Finish it before starting another."
	case apperr.IsTimeout(err):
		return quiz.MsgTimeout
	case apperr.IsAlreadyExists(err):
		return "You already have a registered character."
	case apperr.IsNotFound(err):
		switch apperr.GetMeta(err)["reason"] {
		case characterService.ReasonNotRegistered:
			return "You do not have a registered character. Use `/register` first."
		case characterService.ReasonUnknownNature:
			return "That nature does not exist. See `/help_menu character` for the list."
		}
		return "Nothing was found."
	case apperr.IsInvalidArgument(err):
		if _, ok := apperr.GetMeta(err)["amount"]; ok {
			return "That amount is more than your remaining points. Your stored points changed, so run `/distribute_stats` again."
		}
		return "That input is not valid. Please check the command arguments."
	case apperr.IsPermissionDenied(err):
		return "I do not have permission to do that here."
	default:
		return "Something went wrong. Please try again later."
	}
}

// interactionUser returns the invoking user in guilds and DMs
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func optionValues(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	values := make(map[string]string, len(options))
	for _, opt := range options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			values[opt.Name] = opt.StringValue()
		}
	}
	return values
}
