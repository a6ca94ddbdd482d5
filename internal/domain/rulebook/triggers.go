package rulebook

import (
	"strings"

	"github.com/KirkDiggler/nature-bot/internal/entities"
)

// Trigger binds a reaction emoji to a stat category
type Trigger struct {
	Emoji    string
	Category entities.StatCategory
}

// Triggers are attached to allocation prompts in this order
var Triggers = []Trigger{
	{Emoji: "👊", Category: entities.StatATK},
	{Emoji: "🔮", Category: entities.StatSpecialATK},
	{Emoji: "🧱", Category: entities.StatDEF},
	{Emoji: "🔰", Category: entities.StatSpecialDEF},
	{Emoji: "💨", Category: entities.StatSPE},
}

// CategoryForEmoji resolves a reaction to its category. Variation selectors
// some clients append are ignored.
func CategoryForEmoji(emoji string) (entities.StatCategory, bool) {
	emoji = strings.ReplaceAll(emoji, "\uFE0F", "")
	for _, t := range Triggers {
		if t.Emoji == emoji {
			return t.Category, true
		}
	}
	return "", false
}

// EmojiFor returns the trigger emoji of a category
func EmojiFor(category entities.StatCategory) string {
	for _, t := range Triggers {
		if t.Category == category {
			return t.Emoji
		}
	}
	return ""
}
