package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush"
	"github.com/vovakirdan/pixelcrush/internal/platform/tui"
	"github.com/vovakirdan/pixelcrush/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a game mode interactively",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a mode, left/right to change difficulty and
Enter to play. Leaving a finished or paused game returns to the menu.

Controls:
  Up/Down/j/k     - Navigate
  Left/Right      - Difficulty
  Enter/Space     - Play
  Tab             - Scores
  Q               - Quit

Examples:
  pixelcrush menu
  pixelcrush menu --fps 60
  pixelcrush menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	player := playerName()

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				return sbErr
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			return fmt.Errorf("creating game: %w", err)
		}
		if pc, ok := game.(*pixelcrush.Game); ok {
			pc.SetPreset(menuResult.Difficulty)
		}

		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		back, err := tui.Run(game, store, cfg, player, tuiLogger())
		if err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		if !back {
			return nil
		}
	}
}
