// pixelcrush is a terminal color-matching puzzle: feed colored balls into
// slots and watch them clear the matching pixels off the board.
//
// Usage:
//
//	pixelcrush list              - List game modes
//	pixelcrush play [mode]       - Play a mode (default: pixelcrush)
//	pixelcrush menu              - Pick a mode interactively
//	pixelcrush serve             - Start SSH server for remote play
//	pixelcrush scores [mode]     - Show high scores and stage history
//	pixelcrush autoplay [mode]   - Let the built-in player clear stages
//
// Global flags:
//
//	--fps <rate>          - Frame rate (default: 30)
//	--seed <value>        - RNG seed for reproducible boards
//	--db <path>           - Database path (default: ~/.pixelcrush/scores.db)
//	--config <path>       - Game config YAML
//	--difficulty <name>   - easy, normal or hard
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Write logs to a file instead of stderr
package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pixelcrush/internal/config"
	"github.com/vovakirdan/pixelcrush/internal/core"
	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

// logger is configured in PersistentPreRunE.
var logger *log.Logger

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pixelcrush",
	Short: "Pixel Crush - clear the board one color at a time",
	Long: `Pixel Crush is a terminal puzzle game. Pick colored balls from the
basket and drop them into slots; every slotted ball removes pixels of its
color from the board on a fixed tick. Clear the board to win the stage, run
out of usable slots and you lose it.

Available commands:
  list      - Show game modes
  play      - Play a mode directly
  menu      - Interactive mode picker
  serve     - Start SSH server for remote play
  scores    - View high scores and stage history
  autoplay  - Watch the built-in player

Examples:
  pixelcrush play
  pixelcrush play pixelcrush_classic --difficulty hard
  pixelcrush menu
  pixelcrush serve --ssh :2222
  pixelcrush autoplay --stages 5 --seed 42`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pixelcrush/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(autoplayCmd)
}

// setup validates global flags and configures logging and game defaults.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	var out io.Writer = os.Stderr
	if flagLogFile != "" {
		if dir := filepath.Dir(flagLogFile); dir != "" {
			//nolint:errcheck // OpenFile reports the real failure
			os.MkdirAll(dir, 0o755)
		}
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if openErr != nil {
			return fmt.Errorf("cannot open log file: %w", openErr)
		}
		out = f
	}
	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "pixelcrush",
	})

	pixelcrush.SetConfigPath(flagConfig)
	pixelcrush.SetDifficulty(preset)
	return nil
}

// tuiLogger returns the logger for full-screen commands.
// Logging to stderr would tear the alternate screen, so it needs --log-file.
func tuiLogger() *log.Logger {
	if flagLogFile == "" {
		return nil
	}
	return logger
}

// runtimeConfig builds the frame loop config from the terminal size.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// playerName is the name stored with local scores.
func playerName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
