package quiz

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/nature-bot/internal/entities"
)

const (
	MsgInvalidChoice = "Invalid choice. Please choose a valid option."
	MsgTimeout       = "You took too long to respond."
	MsgNoAnswers     = "No valid answers were received. Please try again."
	MsgNoGuild       = "Roles can only be assigned when the quiz is started from a server."
)

// FormatQuestion renders the prompt followed by its 1-based options
func FormatQuestion(q entities.Question) string {
	var b strings.Builder
	b.WriteString(q.Prompt)
	for i, option := range q.Options {
		fmt.Fprintf(&b, "\n%d. %s", i+1, option)
	}
	return b.String()
}

func roleMissingMessage(role string) string {
	return fmt.Sprintf("Role '%s' does not exist. Please create a role with this name.", role)
}

func rolePermissionMessage(role string) string {
	return fmt.Sprintf("I do not have permission to assign the role '%s'. "+
		"Please make sure the role exists and is above my role in the role hierarchy.", role)
}

func roleErrorMessage(role string) string {
	return fmt.Sprintf("An error occurred while assigning the role '%s'.", role)
}

// SummaryMessage is the final result sent to the quiz taker
func SummaryMessage(profile entities.NatureProfile) string {
	return fmt.Sprintf("Based on your answers, your Pokémon nature is **%s**.\nRecommended Starter Pokémon: **%s**\n%s",
		profile.Nature, profile.Recommended, profile.Description)
}
