package help

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/nature-bot/internal/domain/rulebook"
)

// Responder answers an interaction
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

type HelpRequest struct {
	Session     Responder
	Interaction *discordgo.InteractionCreate
	Topic       string // Optional specific help topic
}

type HelpHandler struct {
	natures []string
}

func NewHelpHandler(natures []string) *HelpHandler {
	return &HelpHandler{natures: natures}
}

func (h *HelpHandler) Handle(req *HelpRequest) error {
	var embed *discordgo.MessageEmbed

	switch req.Topic {
	case "quiz":
		embed = h.getQuizHelp()
	case "character":
		embed = h.getCharacterHelp()
	case "stats":
		embed = h.getStatsHelp()
	default:
		embed = h.GetGeneralHelp()
	}

	return req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral, // Only visible to the user
		},
	})
}

func (h *HelpHandler) GetGeneralHelp() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🌿 Nature Bot Help",
		Description: "Discover your Pokémon nature and build a character around it.",
		Color:       0x3498db, // Blue
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "🔮 Personality Quiz",
				Value:  "`/invoke` - Answer a few questions in your DMs and get a nature role",
				Inline: false,
			},
			{
				Name: "🎭 Character Commands",
				Value: "`/register <name> <profession> <nature>` - Create your character\n" +
					"`/view_character` - Show your character sheet\n" +
					"`/level_up` - Gain a level and a stat point\n" +
					"`/distribute_stats` - Spend your unspent stat points",
				Inline: false,
			},
			{
				Name:   "❓ More Help",
				Value:  "Use `/help_menu <topic>` for details on `quiz`, `character` or `stats`",
				Inline: false,
			},
		},
	}
}

func (h *HelpHandler) getQuizHelp() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔮 Personality Quiz Help",
		Description: "The quiz runs in your direct messages, so make sure they are open for this server.",
		Color:       0x9b59b6, // Purple
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Answering",
				Value:  "Reply with the number of the option you choose. You have two minutes per question.",
				Inline: false,
			},
			{
				Name:   "Your Role",
				Value:  "Your most frequent answer decides your nature. A server role with the same name is assigned if it exists.",
				Inline: false,
			},
		},
	}
}

func (h *HelpHandler) getCharacterHelp() *discordgo.MessageEmbed {
	natures := "none"
	if len(h.natures) > 0 {
		natures = strings.Join(h.natures, ", ")
	}

	return &discordgo.MessageEmbed{
		Title:       "🎭 Character Help",
		Description: "Each member can register one character.",
		Color:       0x2ecc71, // Green
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Registering",
				Value:  "`/register` takes a name, a profession and a nature, then walks you through spending your starting points.",
				Inline: false,
			},
			{
				Name:   "Natures",
				Value:  natures,
				Inline: false,
			},
		},
	}
}

func (h *HelpHandler) getStatsHelp() *discordgo.MessageEmbed {
	var triggers strings.Builder
	for _, t := range rulebook.Triggers {
		fmt.Fprintf(&triggers, "%s %s\n", t.Emoji, t.Category)
	}

	return &discordgo.MessageEmbed{
		Title:       "📊 Stat Allocation Help",
		Description: "React to the prompt with a stat, then type how many points to put into it. Each step times out after one minute.",
		Color:       0xe67e22, // Orange
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Stats",
				Value:  triggers.String(),
				Inline: false,
			},
			{
				Name:   "💡 Tips",
				Value:  "• Amounts larger than your remaining points are rejected\n• Every level grants one more point",
				Inline: false,
			},
		},
	}
}
