package core_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush/core"
)

// smallParams is the canonical rule set on a 10x10 board.
func smallParams() core.Params {
	p := core.DefaultParams()
	p.Side = 10
	p.MaxStage = 2
	p.TickPeriod = 10 * time.Millisecond
	return p
}

// twoColorParams describes scripted boards with red and blue pixels.
func twoColorParams(side int) core.Params {
	return core.Params{
		Side:       side,
		Palette:    []core.Color{core.ColorRed, core.ColorBlue},
		NumSlots:   3,
		Split:      core.RangeSplit{Min: 50, Max: 80, MaxParts: 3},
		Drain:      core.DrainSingle,
		Lose:       core.LoseStuckFullOrEmpty,
		MaxStage:   1,
		TickPeriod: time.Millisecond,
	}
}

// checkerboard builds a side x side board alternating red and blue by ID.
func checkerboard(side int) *core.Board {
	pixels := make([]core.Pixel, 0, side*side)
	for i := 0; i < side*side; i++ {
		c := core.ColorRed
		if i%2 == 1 {
			c = core.ColorBlue
		}
		pixels = append(pixels, core.Pixel{ID: i, X: i % side, Y: i / side, Color: c})
	}
	return core.NewBoard(side, pixels)
}

func mustStart(t *testing.T, p core.Params, seed uint64) *core.Engine {
	t.Helper()
	e, err := core.NewEngine(p, core.NewRand(seed))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if !e.StartGame() {
		t.Fatal("StartGame should succeed from intro")
	}
	return e
}

func TestNewEngineValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*core.Params)
		want   error
	}{
		{"uneven board", func(p *core.Params) { p.Side = 7 }, core.ErrUnevenBoard},
		{"no slots", func(p *core.Params) { p.NumSlots = 0 }, core.ErrNoSlots},
		{"no split", func(p *core.Params) { p.Split = nil }, core.ErrNoSplit},
		{"no stages", func(p *core.Params) { p.MaxStage = 0 }, core.ErrNoStages},
		{"no period", func(p *core.Params) { p.TickPeriod = 0 }, core.ErrTickPeriod},
		{"empty palette", func(p *core.Params) { p.Palette = nil }, core.ErrEmptyPalette},
		{"duplicate color", func(p *core.Params) {
			p.Palette = []core.Color{core.ColorRed, core.ColorRed}
		}, core.ErrBadPalette},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := smallParams()
			tt.modify(&p)
			_, err := core.NewEngine(p, core.NewRand(1))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := core.NewEngine(smallParams(), nil); !errors.Is(err, core.ErrNoRand) {
		t.Errorf("expected ErrNoRand, got %v", err)
	}
}

func TestStartGameGeneratesStage(t *testing.T) {
	e, err := core.NewEngine(smallParams(), core.NewRand(5))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if e.Phase() != core.PhaseIntro {
		t.Fatalf("expected intro, got %s", e.Phase())
	}

	// Commands other than StartGame are ignored in the intro
	if e.SelectBall(1) || e.TogglePause() || e.StartOver() || e.RestartStage() || e.AdvanceStage() {
		t.Error("commands should be ignored in intro")
	}

	if !e.StartGame() {
		t.Fatal("StartGame should succeed")
	}
	if e.StartGame() {
		t.Error("StartGame should be ignored once playing")
	}

	snap := e.Snapshot()
	if snap.Phase != core.PhasePlaying || snap.Stage != 1 {
		t.Errorf("expected playing stage 1, got %s stage %d", snap.Phase, snap.Stage)
	}
	if snap.Remaining() != 100 {
		t.Errorf("expected 100 pixels, got %d", snap.Remaining())
	}
	if len(snap.Basket) == 0 || snap.EmptySlot() != 0 {
		t.Error("expected a full basket and empty slots")
	}
	if err := e.CheckInvariants(); err != nil {
		t.Errorf("invariants: %v", err)
	}
}

func TestEngineDeterminism(t *testing.T) {
	a := mustStart(t, smallParams(), 11)
	b := mustStart(t, smallParams(), 11)

	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("same seed should produce identical stages")
	}
}

func TestConservationThroughPlay(t *testing.T) {
	for _, p := range []core.Params{smallParams(), classicSmall()} {
		e := mustStart(t, p, 21)

		for steps := 0; e.Phase() == core.PhasePlaying; steps++ {
			if steps > 1000 {
				t.Fatalf("%s drain: stage did not finish", p.Drain)
			}
			for {
				id := e.AutoPick()
				if id == 0 || !e.SelectBall(id) {
					break
				}
				if err := e.CheckInvariants(); err != nil {
					t.Fatalf("after select: %v", err)
				}
			}
			e.Tick()
			if err := e.CheckInvariants(); err != nil {
				t.Fatalf("after tick %d: %v", e.Ticks(), err)
			}
		}

		if e.Phase() != core.PhaseWon {
			t.Errorf("%s drain: expected won, got %s", p.Drain, e.Phase())
		}
		if e.Cleared() != 100 {
			t.Errorf("%s drain: expected 100 cleared, got %d", p.Drain, e.Cleared())
		}
	}
}

func classicSmall() core.Params {
	p := core.ClassicParams()
	p.Side = 10
	return p
}

func TestSingleDrainRemovesOnePixelPerTick(t *testing.T) {
	e := mustStart(t, smallParams(), 3)

	// Fill every slot before ticking
	e.AutoLaunch()
	before := e.Snapshot()
	if before.EmptySlot() != -1 {
		t.Fatal("expected all slots filled")
	}

	res := e.Tick()
	if len(res.Removed) != 1 {
		t.Fatalf("expected exactly one removal, got %d", len(res.Removed))
	}
	after := e.Snapshot()
	if after.Remaining() != before.Remaining()-1 {
		t.Errorf("expected one pixel removed, %d -> %d", before.Remaining(), after.Remaining())
	}

	ev := res.Removed[0]
	if ev.Slot != 0 {
		t.Errorf("first occupied slot should drain first, got slot %d", ev.Slot)
	}
	if after.Counts[ev.Pixel.Color] != before.Counts[ev.Pixel.Color]-1 {
		t.Error("color count should drop by one")
	}
	if after.Slots[0].Ball.Count != before.Slots[0].Ball.Count-1 {
		t.Error("slot 0 ball should drop by one")
	}
	for i := 1; i < len(after.Slots); i++ {
		if after.Slots[i].Ball != before.Slots[i].Ball {
			t.Errorf("slot %d should be unchanged", i)
		}
	}
}

func TestBatchDrainRemovesPerSlot(t *testing.T) {
	p := twoColorParams(4)
	p.Drain = core.DrainBatch
	e, err := core.NewEngineFromState(p, nil, core.StageState{
		Phase: core.PhasePlaying,
		Board: checkerboard(4),
		Slots: []*core.Ball{
			{ID: 1, Color: core.ColorRed, Count: 8},
			{ID: 2, Color: core.ColorBlue, Count: 8},
		},
	})
	if err != nil {
		t.Fatalf("NewEngineFromState: %v", err)
	}

	res := e.Tick()
	if len(res.Removed) != 2 {
		t.Fatalf("expected two removals in batch mode, got %d", len(res.Removed))
	}
	if res.Removed[0].Pixel.ID != 0 || res.Removed[1].Pixel.ID != 1 {
		t.Errorf("expected pixels 0 and 1, got %d and %d", res.Removed[0].Pixel.ID, res.Removed[1].Pixel.ID)
	}
}

// Scripted drain of a 4x4 two-color board down to empty.
func TestScriptedDrainToWon(t *testing.T) {
	red := &core.Ball{ID: 1, Color: core.ColorRed, Count: 8}
	blue := &core.Ball{ID: 2, Color: core.ColorBlue, Count: 8}
	e, err := core.NewEngineFromState(twoColorParams(4), nil, core.StageState{
		Phase:  core.PhasePlaying,
		Board:  checkerboard(4),
		Basket: []*core.Ball{red, blue},
	})
	if err != nil {
		t.Fatalf("NewEngineFromState: %v", err)
	}
	if err := e.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}

	if !e.SelectBall(1) || !e.SelectBall(2) {
		t.Fatal("selecting both balls should succeed")
	}
	if e.SelectBall(1) {
		t.Error("selecting a ball no longer in the basket should be ignored")
	}

	snap := e.Snapshot()
	if snap.Slots[0].Ball.ID != 1 || snap.Slots[1].Ball.ID != 2 {
		t.Fatalf("unexpected slot assignment: %+v", snap.Slots)
	}

	lastRed := -1
	for i := 1; i <= 16; i++ {
		res := e.Tick()
		if len(res.Removed) != 1 {
			t.Fatalf("tick %d: expected one removal", i)
		}
		ev := res.Removed[0]
		if i <= 8 {
			if ev.Pixel.Color != core.ColorRed || ev.Slot != 0 {
				t.Fatalf("tick %d: expected red from slot 0, got %s from %d", i, ev.Pixel.Color, ev.Slot)
			}
			if ev.Pixel.ID <= lastRed {
				t.Fatalf("tick %d: red pixels should drain in id order", i)
			}
			lastRed = ev.Pixel.ID
			if ev.BallLeft != 8-i {
				t.Errorf("tick %d: expected %d left, got %d", i, 8-i, ev.BallLeft)
			}
		} else if ev.Pixel.Color != core.ColorBlue || ev.Slot != 1 {
			t.Fatalf("tick %d: expected blue from slot 1", i)
		}
		if err := e.CheckInvariants(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if i < 16 && res.Phase != core.PhasePlaying {
			t.Fatalf("tick %d: expected playing, got %s", i, res.Phase)
		}
	}

	if e.Phase() != core.PhaseWon {
		t.Errorf("expected won, got %s", e.Phase())
	}
	if !e.Finished() {
		t.Error("single-stage run should be finished")
	}
	if red.Count != 0 || blue.Count != 0 {
		t.Error("shared balls should be exhausted")
	}
}

// Grid 2x2, one red ball in a slot, three ticks.
func TestTwoByTwoScenario(t *testing.T) {
	red := &core.Ball{ID: 1, Color: core.ColorRed, Count: 2}
	blue := &core.Ball{ID: 2, Color: core.ColorBlue, Count: 2}
	e, err := core.NewEngineFromState(twoColorParams(2), nil, core.StageState{
		Phase:  core.PhasePlaying,
		Board:  checkerboard(2),
		Basket: []*core.Ball{blue},
		Slots:  []*core.Ball{red},
	})
	if err != nil {
		t.Fatalf("NewEngineFromState: %v", err)
	}

	res := e.Tick()
	if len(res.Removed) != 1 || red.Count != 1 {
		t.Fatalf("tick 1: expected one red removal, ball at %d", red.Count)
	}

	res = e.Tick()
	if len(res.Removed) != 1 || red.Count != 0 {
		t.Fatalf("tick 2: expected second red removal, ball at %d", red.Count)
	}
	if e.Snapshot().Slots[0].Occupied {
		t.Error("tick 2: exhausted ball should clear its slot")
	}

	res = e.Tick()
	if len(res.Removed) != 0 {
		t.Errorf("tick 3: expected no-op, got %d removals", len(res.Removed))
	}
	if res.Phase != core.PhasePlaying {
		t.Errorf("expected playing with blue still in basket, got %s", res.Phase)
	}
	if e.Snapshot().Counts[core.ColorBlue] != 2 {
		t.Error("blue pixels should be untouched")
	}
}

func TestLoseDetection(t *testing.T) {
	greenBoard := func() *core.Board {
		return core.NewBoard(2, []core.Pixel{
			{ID: 0, X: 0, Y: 0, Color: core.ColorGreen},
			{ID: 1, X: 1, Y: 0, Color: core.ColorGreen},
		})
	}
	dead := func(id int, c core.Color) *core.Ball {
		return &core.Ball{ID: id, Color: c, Count: 1}
	}

	tests := []struct {
		name   string
		lose   core.LoseRule
		slots  []*core.Ball
		basket []*core.Ball
		want   core.Phase
	}{
		{
			name:   "slots full of dead balls",
			lose:   core.LoseStuckFullOrEmpty,
			slots:  []*core.Ball{dead(1, core.ColorRed), dead(2, core.ColorRed), dead(3, core.ColorBlue)},
			basket: []*core.Ball{{ID: 4, Color: core.ColorGreen, Count: 2}},
			want:   core.PhaseLost,
		},
		{
			name:  "dead slot and empty basket",
			lose:  core.LoseStuckFullOrEmpty,
			slots: []*core.Ball{dead(1, core.ColorRed)},
			want:  core.PhaseLost,
		},
		{
			name:  "empty basket tolerated by slots-full rule",
			lose:  core.LoseStuckFull,
			slots: []*core.Ball{dead(1, core.ColorRed)},
			want:  core.PhasePlaying,
		},
		{
			name:   "empty slot and usable basket ball",
			lose:   core.LoseStuckFullOrEmpty,
			slots:  []*core.Ball{dead(1, core.ColorRed)},
			basket: []*core.Ball{{ID: 4, Color: core.ColorGreen, Count: 2}},
			want:   core.PhasePlaying,
		},
		{
			name:  "slot can still move",
			lose:  core.LoseStuckFullOrEmpty,
			slots: []*core.Ball{dead(1, core.ColorRed), dead(2, core.ColorRed), {ID: 3, Color: core.ColorGreen, Count: 2}},
			want:  core.PhasePlaying,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := twoColorParams(2)
			p.Lose = tt.lose
			e, err := core.NewEngineFromState(p, nil, core.StageState{
				Phase:  core.PhasePlaying,
				Board:  greenBoard(),
				Slots:  tt.slots,
				Basket: tt.basket,
			})
			if err != nil {
				t.Fatalf("NewEngineFromState: %v", err)
			}
			if got := e.Evaluate(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRestartAfterLoss(t *testing.T) {
	p := twoColorParams(2)
	e, err := core.NewEngineFromState(p, core.NewRand(1), core.StageState{
		Stage: 1,
		Phase: core.PhasePlaying,
		Board: core.NewBoard(2, []core.Pixel{{ID: 0, X: 0, Y: 0, Color: core.ColorBlue}}),
		Slots: []*core.Ball{{ID: 1, Color: core.ColorRed, Count: 1}},
	})
	if err != nil {
		t.Fatalf("NewEngineFromState: %v", err)
	}

	if e.Tick().Phase != core.PhaseLost {
		t.Fatalf("expected lost, got %s", e.Phase())
	}
	if e.SelectBall(1) || e.AdvanceStage() || e.TogglePause() {
		t.Error("commands should be ignored after a loss")
	}
	if !e.RestartStage() {
		t.Fatal("RestartStage should succeed after a loss")
	}
	if e.Phase() != core.PhasePlaying || e.Stage() != 1 || e.Ticks() != 0 {
		t.Errorf("expected fresh stage 1, got %s stage %d tick %d", e.Phase(), e.Stage(), e.Ticks())
	}
	if err := e.CheckInvariants(); err != nil {
		t.Errorf("invariants after restart: %v", err)
	}
}

func TestStageProgression(t *testing.T) {
	e := mustStart(t, smallParams(), 8)

	if e.AdvanceStage() {
		t.Error("AdvanceStage should be ignored while playing")
	}

	ticks, won := e.RunUntilIdle(10000)
	if !won {
		t.Fatalf("expected stage 1 won, phase %s", e.Phase())
	}
	if ticks != 100 {
		t.Errorf("single drain should take one tick per pixel, got %d", ticks)
	}
	if e.RestartStage() {
		t.Error("RestartStage should be ignored after a win")
	}

	if !e.AdvanceStage() {
		t.Fatal("AdvanceStage should succeed after a win")
	}
	if e.Stage() != 2 || e.Phase() != core.PhasePlaying {
		t.Fatalf("expected stage 2 playing, got %d %s", e.Stage(), e.Phase())
	}

	if _, won := e.RunUntilIdle(10000); !won {
		t.Fatal("expected stage 2 won")
	}
	if !e.Finished() {
		t.Error("final stage should be finished")
	}
	if e.AdvanceStage() {
		t.Error("AdvanceStage should be ignored after the final stage")
	}
	if e.Cleared() != 200 {
		t.Errorf("expected 200 cleared, got %d", e.Cleared())
	}

	if !e.StartOver() {
		t.Fatal("StartOver should succeed")
	}
	if e.Stage() != 1 || e.Cleared() != 0 || e.Phase() != core.PhasePlaying {
		t.Errorf("expected fresh run, got stage %d cleared %d %s", e.Stage(), e.Cleared(), e.Phase())
	}
}

func TestTogglePauseIdempotence(t *testing.T) {
	e := mustStart(t, smallParams(), 4)
	e.AutoLaunch()
	e.Tick()
	before := e.Snapshot()

	if !e.TogglePause() || e.Phase() != core.PhasePaused {
		t.Fatal("expected paused")
	}

	// Nothing progresses while paused
	if res := e.Tick(); len(res.Removed) != 0 {
		t.Error("tick while paused should be a no-op")
	}
	if e.SelectBall(before.Basket[0].ID) {
		t.Error("select while paused should be ignored")
	}

	if !e.TogglePause() || e.Phase() != core.PhasePlaying {
		t.Fatal("expected playing")
	}
	if !reflect.DeepEqual(before, e.Snapshot()) {
		t.Error("pausing twice should not change state")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	e := mustStart(t, smallParams(), 6)
	e.AutoLaunch()

	snap := e.Snapshot()
	snap.Pixels[0].Color = core.ColorPurple
	snap.Slots[0].Ball.Count = 999
	snap.Counts[core.ColorRed] = 0

	fresh := e.Snapshot()
	if fresh.Slots[0].Ball.Count == 999 {
		t.Error("snapshot slot mutation leaked into engine")
	}
	if fresh.Counts[core.ColorRed] != 20 {
		t.Errorf("expected 20 red, got %d", fresh.Counts[core.ColorRed])
	}
	if err := e.CheckInvariants(); err != nil {
		t.Errorf("invariants: %v", err)
	}
}

func TestCheckInvariantsDetectsViolations(t *testing.T) {
	shared := &core.Ball{ID: 1, Color: core.ColorRed, Count: 1}
	e, err := core.NewEngineFromState(twoColorParams(2), nil, core.StageState{
		Phase:  core.PhasePlaying,
		Board:  core.NewBoard(2, []core.Pixel{{ID: 0, X: 0, Y: 0, Color: core.ColorRed}}),
		Basket: []*core.Ball{shared},
		Slots:  []*core.Ball{shared},
	})
	if err != nil {
		t.Fatalf("NewEngineFromState: %v", err)
	}

	var verr core.ValidationError
	if err := e.CheckInvariants(); !errors.As(err, &verr) || verr.Code != "SHARED_BALL" {
		t.Errorf("expected SHARED_BALL, got %v", err)
	}

	e, _ = core.NewEngineFromState(twoColorParams(2), nil, core.StageState{
		Phase:  core.PhasePlaying,
		Board:  core.NewBoard(2, []core.Pixel{{ID: 0, X: 0, Y: 0, Color: core.ColorRed}}),
		Basket: []*core.Ball{{ID: 1, Color: core.ColorRed, Count: 2}},
	})
	if err := e.CheckInvariants(); !errors.As(err, &verr) || verr.Code != "CONSERVATION" {
		t.Errorf("expected CONSERVATION, got %v", err)
	}
}

func TestSelectBallIgnoredWhenSlotsFull(t *testing.T) {
	e := mustStart(t, smallParams(), 11)
	e.AutoLaunch()

	before := e.Snapshot()
	for _, s := range before.Slots {
		if !s.Occupied {
			t.Fatalf("slot %d still empty after autolaunch", s.Index)
		}
	}
	if len(before.Basket) == 0 {
		t.Fatal("basket should still hold balls")
	}
	id := before.Basket[0].ID

	if e.SelectBall(id) {
		t.Error("SelectBall should fail with every slot occupied")
	}
	if e.AssignSlot(0, id) {
		t.Error("AssignSlot should fail on an occupied slot")
	}
	if e.SelectBall(99999) {
		t.Error("SelectBall should fail for an unknown ball")
	}

	after := e.Snapshot()
	if after.Basket[0].ID != id {
		t.Errorf("ball %d should stay at the head of the basket", id)
	}
	if !reflect.DeepEqual(before, after) {
		t.Error("rejected selections should leave the state unchanged")
	}
}

func TestTickWithoutRemovalKeepsCounter(t *testing.T) {
	blue := &core.Ball{ID: 1, Color: core.ColorBlue, Count: 1}
	e, err := core.NewEngineFromState(twoColorParams(2), nil, core.StageState{
		Phase:  core.PhasePlaying,
		Board:  core.NewBoard(2, []core.Pixel{{ID: 0, X: 0, Y: 0, Color: core.ColorBlue}}),
		Basket: []*core.Ball{blue},
	})
	if err != nil {
		t.Fatalf("NewEngineFromState: %v", err)
	}

	for i := 0; i < 3; i++ {
		res := e.Tick()
		if len(res.Removed) != 0 || res.Tick != 0 {
			t.Fatalf("idle tick %d: removed %d, tick %d", i, len(res.Removed), res.Tick)
		}
	}
	if e.Ticks() != 0 || e.Snapshot().Tick != 0 {
		t.Errorf("idle ticks should not advance the counter, got %d", e.Ticks())
	}

	if !e.SelectBall(blue.ID) {
		t.Fatal("SelectBall should succeed with an empty slot")
	}
	res := e.Tick()
	if len(res.Removed) != 1 || res.Tick != 1 || res.Removed[0].Tick != 1 {
		t.Errorf("expected removal on tick 1, got %+v", res)
	}
	if e.Ticks() != 1 {
		t.Errorf("expected counter 1 after a removal, got %d", e.Ticks())
	}
}
