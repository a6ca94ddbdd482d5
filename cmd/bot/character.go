package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/nature-bot/internal/config"
	"github.com/KirkDiggler/nature-bot/internal/domain/rulebook"
	"github.com/KirkDiggler/nature-bot/internal/entities"
	"github.com/KirkDiggler/nature-bot/internal/repositories/characters"
	characterService "github.com/KirkDiggler/nature-bot/internal/services/character"
)

var timeout time.Duration

// characterCmd groups operator commands that work on stored characters
var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Inspect and fix stored characters",
}

var listCharactersCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered character",
	Args:  cobra.NoArgs,
	RunE: withService(func(ctx context.Context, svc characterService.Service, args []string) error {
		chars, err := svc.ListCharacters(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "OWNER\tNAME\tPROFESSION\tNATURE\tLEVEL\tUNSPENT")
		for _, c := range chars {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
				c.OwnerID, c.Name, c.Profession, c.Nature, c.Level, c.UnspentStatPoints)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d characters\n", len(chars))
		return nil
	}),
}

var showCharacterCmd = &cobra.Command{
	Use:   "show <owner-id>",
	Short: "Show one character sheet",
	Args:  cobra.ExactArgs(1),
	RunE: withService(func(ctx context.Context, svc characterService.Service, args []string) error {
		sheet, err := svc.GetCharacterSheet(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Print(formatSheet(sheet))
		return nil
	}),
}

var levelUpCharacterCmd = &cobra.Command{
	Use:   "level-up <owner-id>",
	Short: "Grant a level and its stat points",
	Args:  cobra.ExactArgs(1),
	RunE: withService(func(ctx context.Context, svc characterService.Service, args []string) error {
		char, err := svc.LevelUp(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s is now level %d with %d unspent points\n", char.Name, char.Level, char.UnspentStatPoints)
		return nil
	}),
}

func init() {
	characterCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Store timeout")

	characterCmd.AddCommand(listCharactersCmd)
	characterCmd.AddCommand(showCharacterCmd)
	characterCmd.AddCommand(levelUpCharacterCmd)
}

// withService connects to the store and hands the command a character service
func withService(run func(ctx context.Context, svc characterService.Service, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadRedis()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		client, err := connectRedis(ctx, cfg.URL)
		if err != nil {
			return err
		}
		defer client.Close()

		svc := characterService.NewService(&characterService.ServiceConfig{
			Repository: characters.NewRedis(client),
			Rulebook:   rulebook.MustLoad(),
		})
		return run(ctx, svc, args)
	}
}

func formatSheet(sheet *characterService.CharacterSheet) string {
	char := sheet.Character

	var b strings.Builder
	fmt.Fprintf(&b, "%s (owner %s)\n", char.Name, char.OwnerID)
	fmt.Fprintf(&b, "Level %d %s\n", char.Level, char.Profession)
	fmt.Fprintf(&b, "Nature: %s (%s)\n", char.Nature, sheet.Profile.Label)
	for _, cat := range entities.StatCategories {
		fmt.Fprintf(&b, "  %-12s %3d  -> %3d\n", cat, char.Stats.Get(cat), sheet.Effective.Get(cat))
	}
	fmt.Fprintf(&b, "Unspent points: %d\n", char.UnspentStatPoints)
	return b.String()
}
