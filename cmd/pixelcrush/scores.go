package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelcrush/internal/config"
	"github.com/vovakirdan/pixelcrush/internal/registry"
	"github.com/vovakirdan/pixelcrush/internal/storage"
)

var (
	flagStages bool
	flagLimit  int
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores and stage history",
	Long: `Display the top scores for a mode (default: pixelcrush).
With --stages, display the most recent stage results instead.
With --clear, delete every score and stage result recorded for the mode.

Examples:
  pixelcrush scores
  pixelcrush scores pixelcrush_classic
  pixelcrush scores --stages --limit 20
  pixelcrush scores pixelcrush_classic --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagStages, "stages", false, "Show stage history instead of scores")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of rows to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded scores and stages for the mode")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := config.VariantStandard
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown mode %q, run 'pixelcrush list' to see available modes", gameID)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearGame(gameID); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		fmt.Printf("Cleared scores and stage history for %s.\n", game.Title())
		return nil
	}
	if flagStages {
		return printStages(store, gameID, game.Title())
	}
	return printScores(store, gameID, game.Title())
}

func printScores(store *storage.Store, gameID, title string) error {
	scores, err := store.TopScores(gameID, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n\n", title)
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'pixelcrush play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-12s  %s\n", "Rank", "Score", "Stage", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-12s  %s\n", "----", "-----", "-----", "------", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-8d  %-5d  %-12s  %s\n",
			i+1, e.Score, e.Stage, e.Player, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	if best, err := store.BestStage(gameID); err == nil && best > 0 {
		fmt.Printf("\nBest stage cleared: %d\n", best)
	}
	return nil
}

func printStages(store *storage.Store, gameID, title string) error {
	results, err := store.StageResults(gameID, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving stage history: %w", err)
	}

	fmt.Printf("Stage History - %s\n\n", title)
	if len(results) == 0 {
		fmt.Println("No stages recorded yet.")
		return nil
	}

	fmt.Printf("  %-5s  %-6s  %-6s  %-7s  %-12s  %s\n", "Stage", "Result", "Ticks", "Pixels", "Player", "Date")
	fmt.Printf("  %-5s  %-6s  %-6s  %-7s  %-12s  %s\n", "-----", "------", "-----", "------", "------", "----")
	for _, r := range results {
		result := "lost"
		if r.Won {
			result = "won"
		}
		fmt.Printf("  %-5d  %-6s  %-6d  %-7d  %-12s  %s\n",
			r.Stage, result, r.Ticks, r.Cleared, r.Player, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
