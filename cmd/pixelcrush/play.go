package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelcrush/internal/config"
	"github.com/vovakirdan/pixelcrush/internal/platform/tui"
	"github.com/vovakirdan/pixelcrush/internal/registry"
	"github.com/vovakirdan/pixelcrush/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game mode",
	Long: `Start playing the given mode (default: pixelcrush).

Controls:
  Left/Right, A/D  - Move the basket cursor
  Enter/Space      - Launch the selected ball, start, next stage
  1-9              - Launch the ball at that basket position
  P/Esc            - Pause
  R                - Retry the stage after a loss
  B                - Leave (when paused or finished)
  Q/Ctrl+C         - Quit
  Ctrl+S           - Save a screenshot

Examples:
  pixelcrush play
  pixelcrush play pixelcrush_classic
  pixelcrush play --difficulty easy
  pixelcrush play --config ./my-board.yaml --seed 7`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
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

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if _, err := tui.Run(game, store, runtimeConfig(), playerName(), tuiLogger()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// openStore opens the scores database. Games still run without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
