package pixelcrush

import (
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush/core"
)

func testParams() core.Params {
	p := core.DefaultParams()
	p.Side = 10
	p.MaxStage = 2
	p.TickPeriod = 10 * time.Millisecond
	return p
}

func newTestSession(t *testing.T) (*Session, *core.ManualClock) {
	t.Helper()
	clock := core.NewManualClock()
	s, err := NewSession(testParams(), core.NewRand(1), SessionOptions{Clock: clock})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(s.Close)
	return s, clock
}

func TestSessionSchedulerFollowsPhase(t *testing.T) {
	s, clock := newTestSession(t)

	if s.Running() {
		t.Fatal("scheduler should not run in the intro")
	}
	if !s.StartGame() {
		t.Fatal("StartGame failed")
	}
	if s.Running() {
		t.Error("scheduler should wait until a slot can move")
	}

	var removed []core.RemovalEvent
	s.OnRemoval(func(ev core.RemovalEvent) { removed = append(removed, ev) })

	snap := s.Snapshot()
	if !s.SelectBall(snap.Basket[0].ID) {
		t.Fatal("SelectBall failed")
	}
	if !s.Running() || clock.Pending() != 1 {
		t.Fatalf("expected one armed timer, running=%v pending=%d", s.Running(), clock.Pending())
	}

	clock.Advance(10 * time.Millisecond)
	if len(removed) != 1 {
		t.Fatalf("expected one removal, got %d", len(removed))
	}
	if got := s.Snapshot().Remaining(); got != 99 {
		t.Errorf("expected 99 pixels, got %d", got)
	}
	if clock.Pending() != 1 {
		t.Errorf("scheduler should re-arm once, pending=%d", clock.Pending())
	}

	// No ticks while paused
	s.TogglePause()
	if s.Running() || clock.Pending() != 0 {
		t.Error("pause should stop the scheduler")
	}
	clock.Advance(time.Second)
	if len(removed) != 1 {
		t.Errorf("ticks fired while paused: %d removals", len(removed))
	}

	s.TogglePause()
	if !s.Running() {
		t.Error("resume should restart the scheduler")
	}
	clock.Advance(30 * time.Millisecond)
	if len(removed) != 4 {
		t.Errorf("expected 4 removals after resume, got %d", len(removed))
	}
	if err := s.CheckInvariants(); err != nil {
		t.Errorf("invariants: %v", err)
	}
}

func TestSessionPlaysStagesToCompletion(t *testing.T) {
	s, clock := newTestSession(t)

	var phases [][2]core.Phase
	var results []StageResult
	s.OnPhase(func(from, to core.Phase) { phases = append(phases, [2]core.Phase{from, to}) })
	s.OnStageEnd(func(r StageResult) { results = append(results, r) })

	s.StartGame()
	for guard := 0; guard < 1000; guard++ {
		snap := s.Snapshot()
		if snap.Finished {
			break
		}
		switch snap.Phase {
		case core.PhaseWon:
			s.AdvanceStage()
		case core.PhasePlaying:
			for _, b := range snap.Basket {
				if !s.SelectBall(b.ID) {
					break
				}
			}
		}
		clock.Advance(10 * time.Millisecond)
	}

	if !s.Snapshot().Finished {
		t.Fatalf("run did not finish, phase %s", s.Phase())
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 stage results, got %+v", results)
	}
	for i, r := range results {
		if !r.Won || r.Stage != i+1 || r.Cleared != 100 || r.Ticks != 100 {
			t.Errorf("stage %d: unexpected result %+v", i+1, r)
		}
	}
	if phases[0] != [2]core.Phase{core.PhaseIntro, core.PhasePlaying} {
		t.Errorf("first transition = %v", phases[0])
	}
	if last := phases[len(phases)-1]; last != [2]core.Phase{core.PhasePlaying, core.PhaseWon} {
		t.Errorf("last transition = %v", last)
	}
	if s.Running() {
		t.Error("scheduler should stop after the final win")
	}
}

func TestSessionClose(t *testing.T) {
	s, clock := newTestSession(t)
	s.StartGame()
	s.SelectBall(s.Snapshot().Basket[0].ID)

	s.Close()
	if clock.Pending() != 0 {
		t.Error("Close should cancel the pending tick")
	}
	if s.TogglePause() || s.StartOver() {
		t.Error("commands should be ignored after Close")
	}
	if err := s.CheckInvariants(); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

// Drives a session on the wall clock while readers take snapshots.
func TestSessionSystemClockConcurrency(t *testing.T) {
	p := testParams()
	p.MaxStage = 1
	p.TickPeriod = time.Millisecond
	s, err := NewSession(p, core.NewRand(2), SessionOptions{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	won := make(chan struct{})
	s.OnStageEnd(func(r StageResult) {
		if r.Won {
			close(won)
		}
	})
	s.StartGame()

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				snap := s.Snapshot()
				if snap.Phase == core.PhasePlaying && len(snap.Basket) > 0 {
					s.SelectBall(snap.Basket[0].ID)
				}
				time.Sleep(100 * time.Microsecond)
			}
		}()
	}

	select {
	case <-won:
	case <-time.After(10 * time.Second):
		t.Error("stage was not won in time")
	}
	close(done)
	wg.Wait()

	if err := s.CheckInvariants(); err != nil {
		t.Errorf("invariants: %v", err)
	}
}

func TestSessionAutoLaunch(t *testing.T) {
	s, clock := newTestSession(t)

	if s.AutoLaunch() {
		t.Error("AutoLaunch should do nothing in the intro")
	}
	s.StartGame()
	if !s.AutoLaunch() {
		t.Fatal("AutoLaunch placed no ball")
	}
	snap := s.Snapshot()
	if snap.EmptySlot() >= 0 {
		t.Errorf("expected every slot filled, empty slot %d", snap.EmptySlot())
	}
	if !s.Running() {
		t.Error("scheduler should run once balls are slotted")
	}

	for i := 0; i < 1000 && s.Phase() == core.PhasePlaying; i++ {
		s.AutoLaunch()
		clock.Advance(10 * time.Millisecond)
	}
	if s.Phase() != core.PhaseWon {
		t.Errorf("autoplayed stage ended in %v", s.Phase())
	}
	if err := s.CheckInvariants(); err != nil {
		t.Error(err)
	}
}
