package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/nature-bot/internal/entities"
	characterService "github.com/KirkDiggler/nature-bot/internal/services/character"
)

func TestFormatSheet(t *testing.T) {
	stats := entities.NewStats()
	stats[entities.StatSPE] = 5
	char := entities.NewCharacter("user-1", "Ash", "Trainer", "Jolly", stats)

	out := formatSheet(&characterService.CharacterSheet{
		Character: char,
		Profile: entities.NatureStatProfile{
			Label:     "Speedster",
			Modifiers: map[entities.StatCategory]int{entities.StatSPE: 1, entities.StatSpecialATK: -1},
		},
		Effective: stats.Plus(map[entities.StatCategory]int{entities.StatSPE: 1, entities.StatSpecialATK: -1}),
	})

	assert.Contains(t, out, "Ash (owner user-1)")
	assert.Contains(t, out, "Nature: Jolly (Speedster)")
	assert.Contains(t, out, "  SPE            5  ->   6\n")
	assert.Contains(t, out, "Unspent points: 0")
}

func TestCommandTree(t *testing.T) {
	names := make([]string, 0)
	for _, c := range characterCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "show", "level-up"}, names)

	cmd, _, err := rootCmd.Find([]string{"serve"})
	assert.NoError(t, err)
	assert.Equal(t, "serve", cmd.Name())
}
