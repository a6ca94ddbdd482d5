package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/nature-bot/internal/domain/rulebook"
	"github.com/KirkDiggler/nature-bot/internal/entities"
	characterService "github.com/KirkDiggler/nature-bot/internal/services/character"
)

const (
	colorSheet   = 0x2ecc71 // Green
	colorWarning = 0xe67e22 // Orange
)

// characterSheetEmbed renders a stored character with its nature profile
func characterSheetEmbed(sheet *characterService.CharacterSheet) *discordgo.MessageEmbed {
	char := sheet.Character

	label := sheet.Profile.Label
	if label == "" {
		label = "Unknown"
	}

	var stats strings.Builder
	for _, cat := range entities.StatCategories {
		base := char.Stats.Get(cat)
		effective := sheet.Effective.Get(cat)
		fmt.Fprintf(&stats, "%s **%s**: %d", rulebook.EmojiFor(cat), cat, base)
		if effective != base {
			fmt.Fprintf(&stats, " → %d", effective)
		}
		stats.WriteString("\n")
	}

	embed := &discordgo.MessageEmbed{
		Title:       char.Name,
		Description: fmt.Sprintf("Level %d %s", char.Level, char.Profession),
		Color:       colorSheet,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Nature",
				Value:  fmt.Sprintf("%s (%s)", char.Nature, label),
				Inline: true,
			},
			{
				Name:   "Modifiers",
				Value:  formatModifiers(sheet.Profile.Modifiers),
				Inline: true,
			},
			{
				Name:   "Stats",
				Value:  stats.String(),
				Inline: false,
			},
		},
	}

	if char.UnspentStatPoints > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Unspent Points",
			Value:  fmt.Sprintf("%d (use `/distribute_stats`)", char.UnspentStatPoints),
			Inline: false,
		})
	}

	return embed
}

// formatModifiers lists modifiers in category order, e.g. "+1 SPE, -1 Special ATK"
func formatModifiers(modifiers map[entities.StatCategory]int) string {
	parts := make([]string, 0, len(modifiers))
	for _, cat := range entities.StatCategories {
		if delta := modifiers[cat]; delta != 0 {
			parts = append(parts, fmt.Sprintf("%+d %s", delta, cat))
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, ", ")
}

// unknownNatureEmbed lists the natures accepted by /register
func unknownNatureEmbed(nature string, natures []string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Unknown nature",
		Description: fmt.Sprintf("'%s' is not a nature I know.", nature),
		Color:       colorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Valid natures",
				Value:  strings.Join(natures, ", "),
				Inline: false,
			},
		},
	}
}
