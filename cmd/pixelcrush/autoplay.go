package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelcrush/internal/config"
	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush"
	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush/core"
	"github.com/vovakirdan/pixelcrush/internal/registry"
	"github.com/vovakirdan/pixelcrush/internal/storage"
)

// autoplayPlayer is the name stored with autoplay results.
const autoplayPlayer = "autoplay"

var (
	flagAutoStages   int
	flagAutoMaxTicks int
	flagRealtime     bool
	flagSave         bool
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay [mode]",
	Short: "Let the built-in player clear stages",
	Long: `Run stages headlessly with the built-in player. It always launches the
largest ball whose color is still on the board.

By default the simulation runs as fast as possible. With --realtime the
stage is driven by the real tick scheduler at the configured drain speed.

Examples:
  pixelcrush autoplay --stages 10 --seed 42
  pixelcrush autoplay pixelcrush_classic --realtime
  pixelcrush autoplay --stages 3 --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAutoplay,
}

func init() {
	autoplayCmd.Flags().IntVar(&flagAutoStages, "stages", 1, "Stages to play (0 = all)")
	autoplayCmd.Flags().IntVar(&flagAutoMaxTicks, "max-ticks", 100000, "Tick limit per stage")
	autoplayCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Drive stages with the real-time scheduler")
	autoplayCmd.Flags().BoolVar(&flagSave, "save", false, "Record results in the scores database")
}

func runAutoplay(cmd *cobra.Command, args []string) error {
	gameID := config.VariantStandard
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown mode %q, run 'pixelcrush list' to see available modes", gameID)
	}

	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}
	params, err := pixelcrush.LoadParams(flagConfig, gameID, preset)
	if err != nil {
		return err
	}

	stages := flagAutoStages
	if stages <= 0 || stages > params.MaxStage {
		stages = params.MaxStage
	}
	seed := uint64(flagSeed)
	if flagSeed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var store *storage.Store
	if flagSave {
		store = openStore()
		if store != nil {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("autoplay", "mode", gameID, "stages", stages, "seed", seed, "realtime", flagRealtime)

	var results []pixelcrush.StageResult
	if flagRealtime {
		results, err = autoplayRealtime(ctx, params, seed, stages)
	} else {
		results, err = autoplayFast(ctx, params, seed, stages)
	}

	cleared := 0
	for _, r := range results {
		cleared += r.Cleared
		if store != nil {
			if _, saveErr := store.SaveStageResult(storage.StageResult{
				GameID:  gameID,
				Player:  autoplayPlayer,
				Stage:   r.Stage,
				Won:     r.Won,
				Ticks:   r.Ticks,
				Cleared: r.Cleared,
			}); saveErr != nil {
				logger.Warn("could not save stage result", "error", saveErr)
			}
		}
	}
	if store != nil && len(results) > 0 {
		last := results[len(results)-1]
		if _, saveErr := store.SaveScore(gameID, autoplayPlayer, cleared*pixelcrush.PointsPerPixel, last.Stage); saveErr != nil {
			logger.Warn("could not save score", "error", saveErr)
		}
	}

	won := 0
	for _, r := range results {
		if r.Won {
			won++
		}
	}
	logger.Info("autoplay finished", "stages", len(results), "won", won,
		"score", cleared*pixelcrush.PointsPerPixel)
	return err
}

// autoplayFast steps the engine directly, without a clock.
func autoplayFast(ctx context.Context, p core.Params, seed uint64, stages int) ([]pixelcrush.StageResult, error) {
	engine, err := core.NewEngine(p, core.NewRand(seed))
	if err != nil {
		return nil, err
	}
	engine.StartGame()

	var results []pixelcrush.StageResult
	for {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		ticks, won := engine.RunUntilIdle(flagAutoMaxTicks)
		if err := engine.CheckInvariants(); err != nil {
			return results, fmt.Errorf("stage %d: %w", engine.Stage(), err)
		}
		if !engine.Phase().Terminal() {
			return results, fmt.Errorf("stage %d did not finish within %d ticks", engine.Stage(), ticks)
		}

		r := pixelcrush.StageResult{
			Stage:   engine.Stage(),
			Won:     won,
			Ticks:   engine.Ticks(),
			Cleared: engine.StageCleared(),
		}
		results = append(results, r)
		logger.Info("stage ended", "stage", r.Stage, "won", r.Won, "ticks", r.Ticks, "cleared", r.Cleared)

		if !won || len(results) >= stages || !engine.AdvanceStage() {
			return results, nil
		}
	}
}

// autoplayRealtime drives a session on the system clock and launches balls
// whenever a slot frees up.
func autoplayRealtime(ctx context.Context, p core.Params, seed uint64, stages int) ([]pixelcrush.StageResult, error) {
	session, err := pixelcrush.NewSession(p, core.NewRand(seed), pixelcrush.SessionOptions{
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	defer session.Close()

	ended := make(chan pixelcrush.StageResult, 1)
	session.OnStageEnd(func(r pixelcrush.StageResult) {
		// Listeners run under the session lock
		select {
		case ended <- r:
		default:
		}
	})
	session.StartGame()

	poll := time.NewTicker(p.TickPeriod / 2)
	defer poll.Stop()

	var results []pixelcrush.StageResult
	for {
		session.AutoLaunch()

		select {
		case <-ctx.Done():
			return results, ctx.Err()

		case r := <-ended:
			if err := session.CheckInvariants(); err != nil {
				return results, fmt.Errorf("stage %d: %w", r.Stage, err)
			}
			results = append(results, r)
			if !r.Won || len(results) >= stages || !session.AdvanceStage() {
				return results, nil
			}

		case <-poll.C:
			snap := session.Snapshot()
			if snap.Phase == core.PhasePlaying && !snap.CanMove && snap.EmptySlot() < 0 {
				// Nothing scheduled and nothing to launch; the lose rule did not fire
				return results, fmt.Errorf("stage %d stalled", snap.Stage)
			}
		}
	}
}
