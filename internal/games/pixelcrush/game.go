// Package pixelcrush provides the Pixel Crush puzzle game for the terminal
// platform. Players feed colored balls into slots; each slotted ball clears
// matching pixels from the board on a fixed tick until the board is empty.
package pixelcrush

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelcrush/internal/config"
	platformcore "github.com/vovakirdan/pixelcrush/internal/core"
	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush/core"
	"github.com/vovakirdan/pixelcrush/internal/registry"
)

// PointsPerPixel is the score awarded for each removed pixel.
const PointsPerPixel = 10

// flashFrames is how long a removed pixel stays highlighted.
const flashFrames = 6

// Package-level settings applied to games created by the registry.
var (
	configPath string
	difficulty = config.DifficultyNormal
	logger     *log.Logger
)

// SetConfigPath sets an explicit config file for newly created games.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficulty sets the drain speed preset for newly created games.
func SetDifficulty(p config.DifficultyPreset) {
	difficulty = p
}

// SetLogger sets the logger passed to game sessions.
func SetLogger(l *log.Logger) {
	logger = l
}

func init() {
	registry.Register(config.VariantStandard, func() registry.Game {
		return New(config.VariantStandard, "Pixel Crush")
	})
	registry.Register(config.VariantClassic, func() registry.Game {
		return New(config.VariantClassic, "Pixel Crush Classic")
	})
}

type flash struct {
	pixel core.Pixel
	left  int
}

// Game adapts a Session to the platform frame loop.
// The session's scheduler runs on a manual clock advanced by one frame per Step.
type Game struct {
	id    string
	title string

	params    core.Params
	hasParams bool
	preset    config.DifficultyPreset
	err       error

	clock   *core.ManualClock
	session *Session
	frame   time.Duration

	screenW int
	screenH int

	cursor   int // Selected basket position
	flashes  []flash
	outcomes []platformcore.StageOutcome
}

// New creates a game for a config variant. Params are loaded on Reset.
func New(id, title string) *Game {
	return &Game{id: id, title: title, preset: difficulty}
}

// NewWithParams creates a game with explicit params.
func NewWithParams(id, title string, p core.Params) *Game {
	return &Game{id: id, title: title, params: p, hasParams: true}
}

// SetPreset changes the difficulty used when params are next loaded.
// It has no effect on games created with explicit params.
func (g *Game) SetPreset(p config.DifficultyPreset) {
	if g.hasParams && g.preset == "" {
		return
	}
	g.preset = p
	g.hasParams = false
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// Reset creates a fresh session in the intro phase.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	if g.session != nil {
		g.session.Close()
		g.session = nil
	}
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.cursor = 0
	g.flashes = nil
	g.outcomes = nil
	g.err = nil

	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = platformcore.DefaultConfig().TickRate
	}
	g.frame = time.Second / time.Duration(tickRate)

	if !g.hasParams {
		p, err := LoadParams(configPath, g.id, g.preset)
		if err != nil {
			g.err = err
			return
		}
		g.params = p
		g.hasParams = true
	}

	g.clock = core.NewManualClock()
	session, err := NewSession(g.params, core.NewRand(uint64(cfg.Seed)), SessionOptions{
		Clock:  g.clock,
		Logger: logger,
	})
	if err != nil {
		g.err = err
		return
	}
	session.OnRemoval(func(ev core.RemovalEvent) {
		g.flashes = append(g.flashes, flash{pixel: ev.Pixel, left: flashFrames})
	})
	session.OnStageEnd(func(r StageResult) {
		g.outcomes = append(g.outcomes, platformcore.StageOutcome{
			Stage:   r.Stage,
			Won:     r.Won,
			Ticks:   r.Ticks,
			Cleared: r.Cleared,
		})
	})
	g.session = session
}

// Step applies input and advances the clock by one frame.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.outcomes = nil
	if g.session == nil {
		return platformcore.StepResult{State: g.State()}
	}

	g.handleInput(in)
	g.clock.Advance(g.frame)
	g.decayFlashes()
	g.clampCursor()

	return platformcore.StepResult{State: g.State(), Outcomes: g.outcomes}
}

func (g *Game) handleInput(in platformcore.InputFrame) {
	if in.Has(platformcore.ActionPause) {
		g.session.TogglePause()
		return
	}

	snap := g.session.Snapshot()
	switch snap.Phase {
	case core.PhaseIntro:
		if in.Has(platformcore.ActionConfirm) {
			g.session.StartGame()
		}

	case core.PhasePlaying:
		if in.Has(platformcore.ActionLeft) && g.cursor > 0 {
			g.cursor--
		}
		if in.Has(platformcore.ActionRight) && g.cursor < len(snap.Basket)-1 {
			g.cursor++
		}
		pick := -1
		if in.Pick > 0 {
			pick = in.Pick - 1
		} else if in.Has(platformcore.ActionConfirm) {
			pick = g.cursor
		}
		if pick >= 0 && pick < len(snap.Basket) {
			g.session.SelectBall(snap.Basket[pick].ID)
		}

	case core.PhaseWon:
		if snap.Finished {
			if in.Has(platformcore.ActionRestart) || in.Has(platformcore.ActionConfirm) {
				g.session.StartOver()
				g.flashes = nil
			}
		} else if in.Has(platformcore.ActionConfirm) {
			g.session.AdvanceStage()
			g.flashes = nil
		}

	case core.PhaseLost:
		if in.Has(platformcore.ActionRestart) || in.Has(platformcore.ActionConfirm) {
			g.session.RestartStage()
			g.flashes = nil
		}
	}
}

func (g *Game) decayFlashes() {
	kept := g.flashes[:0]
	for _, f := range g.flashes {
		f.left--
		if f.left > 0 {
			kept = append(kept, f)
		}
	}
	g.flashes = kept
}

func (g *Game) clampCursor() {
	n := len(g.session.Snapshot().Basket)
	g.cursor = platformcore.Clamp(g.cursor, 0, platformcore.Max(0, n-1))
}

// State returns the platform view of the game state.
func (g *Game) State() platformcore.GameState {
	if g.session == nil {
		return platformcore.GameState{GameOver: g.err != nil}
	}
	snap := g.session.Snapshot()
	return platformcore.GameState{
		Score:    snap.Cleared * PointsPerPixel,
		Stage:    snap.Stage,
		Phase:    snap.Phase.String(),
		GameOver: snap.Phase == core.PhaseLost || snap.Finished,
		Paused:   snap.Phase == core.PhasePaused,
	}
}

// Session returns the running session, or nil before Reset.
func (g *Game) Session() *Session {
	return g.session
}

// Err returns the configuration error from the last Reset, if any.
func (g *Game) Err() error {
	return g.err
}
