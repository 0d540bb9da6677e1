package pixelcrush

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/pixelcrush/internal/config"
	platformcore "github.com/vovakirdan/pixelcrush/internal/core"
	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush/core"
	"github.com/vovakirdan/pixelcrush/internal/registry"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := NewWithParams("pixelcrush", "Pixel Crush", testParams())
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 50, Seed: 7})
	if g.Err() != nil {
		t.Fatalf("Reset: %v", g.Err())
	}
	t.Cleanup(func() { g.Session().Close() })
	return g
}

func frame(actions ...platformcore.Action) platformcore.InputFrame {
	f := platformcore.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestRegistryVariants(t *testing.T) {
	for _, id := range config.Variants() {
		if !registry.Exists(id) {
			t.Errorf("variant %q not registered", id)
		}
	}
}

func TestGameIntroAndStart(t *testing.T) {
	g := newTestGame(t)

	if g.State().Phase != core.PhaseIntro.String() {
		t.Fatalf("expected intro, got %s", g.State().Phase)
	}

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Press Enter to start") {
		t.Error("intro should prompt to start")
	}

	g.Step(frame(platformcore.ActionConfirm))
	if g.State().Phase != core.PhasePlaying.String() {
		t.Fatalf("expected playing, got %s", g.State().Phase)
	}
}

func TestGameCursorAndPick(t *testing.T) {
	g := newTestGame(t)
	g.Step(frame(platformcore.ActionConfirm))

	g.Step(frame(platformcore.ActionRight))
	g.Step(frame(platformcore.ActionRight))
	if g.cursor != 2 {
		t.Fatalf("cursor = %d, expected 2", g.cursor)
	}
	g.Step(frame(platformcore.ActionLeft))

	want := g.Session().Snapshot().Basket[1].ID
	g.Step(frame(platformcore.ActionConfirm))
	snap := g.Session().Snapshot()
	if !snap.Slots[0].Occupied || snap.Slots[0].Ball.ID != want {
		t.Errorf("expected ball %d in slot 0, got %+v", want, snap.Slots[0])
	}

	pick := platformcore.NewInputFrame()
	pick.Pick = 1
	want = snap.Basket[0].ID
	g.Step(pick)
	snap = g.Session().Snapshot()
	if snap.Slots[1].Ball.ID != want {
		t.Errorf("expected ball %d in slot 1, got %+v", want, snap.Slots[1])
	}
}

func TestGamePlaysThroughAllStages(t *testing.T) {
	g := newTestGame(t)

	var outcomes []platformcore.StageOutcome
	var state platformcore.GameState
	for i := 0; i < 5000; i++ {
		res := g.Step(frame(platformcore.ActionConfirm))
		outcomes = append(outcomes, res.Outcomes...)
		state = res.State
		if state.GameOver {
			break
		}
	}

	if !state.GameOver {
		t.Fatal("run did not end")
	}
	if state.Score != 200*PointsPerPixel {
		t.Errorf("score = %d, expected %d", state.Score, 200*PointsPerPixel)
	}
	if len(outcomes) != 2 || !outcomes[0].Won || !outcomes[1].Won {
		t.Errorf("unexpected outcomes %+v", outcomes)
	}

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "All stages cleared!") {
		t.Error("final screen should announce the win")
	}

	// R starts a new run
	g.Step(frame(platformcore.ActionRestart))
	if s := g.State(); s.GameOver || s.Stage != 1 || s.Score != 0 {
		t.Errorf("expected a fresh run, got %+v", s)
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(t)
	g.Step(frame(platformcore.ActionConfirm))
	g.Step(frame(platformcore.ActionConfirm))

	g.Step(frame(platformcore.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused")
	}
	before := g.Session().Snapshot().Remaining()
	for i := 0; i < 20; i++ {
		g.Step(platformcore.NewInputFrame())
	}
	if after := g.Session().Snapshot().Remaining(); after != before {
		t.Errorf("pixels changed while paused: %d -> %d", before, after)
	}

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Paused") {
		t.Error("pause overlay missing")
	}
}

func TestGameRenderBoard(t *testing.T) {
	g := newTestGame(t)
	g.Step(frame(platformcore.ActionConfirm))

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)

	if !strings.Contains(screen.Row(0), "Stage 1/2") {
		t.Errorf("HUD missing stage: %q", screen.Row(0))
	}
	blocks := 0
	for y := 0; y < screen.Height(); y++ {
		for x := 0; x < screen.Width(); x++ {
			c := screen.GetCell(x, y)
			if c.Rune == '▀' && c.Bg != platformcore.ColorDefault {
				blocks++
			}
		}
	}
	// 10x10 board drawn two columns wide, two pixel rows per line
	if blocks != 100 {
		t.Errorf("expected 100 full half-block cells, got %d", blocks)
	}

	small := platformcore.NewScreen(20, 10)
	g.Render(small)
	if !strings.Contains(small.String(), "too small") {
		t.Error("expected too-small overlay")
	}
}

func TestGameConfigError(t *testing.T) {
	SetConfigPath("/nonexistent/pixelcrush.yaml")
	defer SetConfigPath("")

	g := New(config.VariantStandard, "Pixel Crush")
	g.Reset(platformcore.DefaultConfig())
	if g.Err() == nil {
		t.Fatal("expected a config error")
	}
	if !g.State().GameOver {
		t.Error("config error should end the game")
	}
	g.Step(frame(platformcore.ActionConfirm))

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Configuration error") {
		t.Error("expected error overlay")
	}
}

func TestGameSetPreset(t *testing.T) {
	cfg := platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 3}

	g := New(config.VariantStandard, "Pixel Crush")
	g.SetPreset(config.DifficultyEasy)
	g.Reset(cfg)
	if g.Err() != nil {
		t.Fatalf("Reset: %v", g.Err())
	}
	defer func() { g.Session().Close() }()
	if g.params.TickPeriod != 1200*time.Millisecond {
		t.Errorf("easy period = %v, want 1.2s", g.params.TickPeriod)
	}

	g.SetPreset(config.DifficultyHard)
	g.Reset(cfg)
	if g.params.TickPeriod != 400*time.Millisecond {
		t.Errorf("hard period = %v, want 400ms", g.params.TickPeriod)
	}

	explicit := NewWithParams("pixelcrush", "Pixel Crush", testParams())
	explicit.SetPreset(config.DifficultyEasy)
	explicit.Reset(cfg)
	defer func() { explicit.Session().Close() }()
	if explicit.params.TickPeriod != testParams().TickPeriod {
		t.Error("explicit params should ignore presets")
	}
}
