package pixelcrush

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush/core"
)

// ErrClosed is returned when using a closed session.
var ErrClosed = errors.New("session is closed")

// StageResult describes a stage that ended in a win or a loss.
type StageResult struct {
	Stage   int
	Won     bool
	Ticks   uint64
	Cleared int
}

// SessionOptions configures a Session.
type SessionOptions struct {
	// Clock drives the tick scheduler. Defaults to core.SystemClock.
	Clock core.Clock

	// Logger receives phase transitions and stage results. Optional.
	Logger *log.Logger
}

// Session owns an engine and its tick scheduler.
//
// Every command and every tick runs under a single mutex, so engine mutations
// never interleave. Listeners are called with the mutex held and must not call
// back into the session.
type Session struct {
	mu     sync.Mutex
	engine *core.Engine
	sched  *core.Scheduler
	logger *log.Logger
	closed bool

	removalListeners []func(core.RemovalEvent)
	phaseListeners   []func(from, to core.Phase)
	stageListeners   []func(StageResult)
}

// NewSession creates a session in the intro phase.
func NewSession(p core.Params, rng core.Rand, opts SessionOptions) (*Session, error) {
	engine, err := core.NewEngine(p, rng)
	if err != nil {
		return nil, err
	}

	s := &Session{
		engine: engine,
		logger: opts.Logger,
	}
	s.sched = core.NewScheduler(opts.Clock, p.TickPeriod, &s.mu, s.tickLocked)
	return s, nil
}

// OnRemoval registers a listener for pixel removals.
func (s *Session) OnRemoval(f func(core.RemovalEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removalListeners = append(s.removalListeners, f)
}

// OnPhase registers a listener for phase transitions.
func (s *Session) OnPhase(f func(from, to core.Phase)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phaseListeners = append(s.phaseListeners, f)
}

// OnStageEnd registers a listener for won and lost stages.
func (s *Session) OnStageEnd(f func(StageResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageListeners = append(s.stageListeners, f)
}

// StartGame leaves the intro and starts stage 1.
func (s *Session) StartGame() bool {
	return s.do("start", func(e *core.Engine) bool { return e.StartGame() })
}

// SelectBall moves a basket ball into the first empty slot.
func (s *Session) SelectBall(ballID int) bool {
	return s.do("select", func(e *core.Engine) bool { return e.SelectBall(ballID) })
}

// AssignSlot moves a basket ball into a specific empty slot.
func (s *Session) AssignSlot(slot, ballID int) bool {
	return s.do("assign", func(e *core.Engine) bool { return e.AssignSlot(slot, ballID) })
}

// RestartStage regenerates the current stage after a loss.
func (s *Session) RestartStage() bool {
	return s.do("restart", func(e *core.Engine) bool { return e.RestartStage() })
}

// AdvanceStage moves to the next stage after a win.
func (s *Session) AdvanceStage() bool {
	return s.do("advance", func(e *core.Engine) bool { return e.AdvanceStage() })
}

// StartOver restarts the run from stage 1.
func (s *Session) StartOver() bool {
	return s.do("start_over", func(e *core.Engine) bool { return e.StartOver() })
}

// TogglePause switches between playing and paused.
func (s *Session) TogglePause() bool {
	return s.do("pause", func(e *core.Engine) bool { return e.TogglePause() })
}

// AutoLaunch fills empty slots with the balls an automatic player would pick.
func (s *Session) AutoLaunch() bool {
	return s.do("autolaunch", (*core.Engine).AutoLaunch)
}

// Snapshot returns a copy of the engine state.
func (s *Session) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// Phase returns the current phase.
func (s *Session) Phase() core.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Phase()
}

// Running reports whether a tick is scheduled.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Armed()
}

// CheckInvariants verifies the engine state.
func (s *Session) CheckInvariants() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.engine.CheckInvariants()
}

// Close stops the scheduler. Later commands are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.sched.Stop()
}

func (s *Session) do(name string, cmd func(*core.Engine) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	from := s.engine.Phase()
	ok := cmd(s.engine)
	if !ok {
		return false
	}
	if s.logger != nil {
		s.logger.Debug("command", "name", name, "phase", s.engine.Phase(), "stage", s.engine.Stage())
	}
	s.afterLocked(from)
	return true
}

// tickLocked runs one scheduled tick. Called by the scheduler with mu held.
func (s *Session) tickLocked() {
	if s.closed {
		return
	}
	from := s.engine.Phase()
	res := s.engine.Tick()
	for _, ev := range res.Removed {
		for _, f := range s.removalListeners {
			f(ev)
		}
	}
	s.afterLocked(from)
}

// afterLocked publishes a phase change and re-syncs the scheduler.
func (s *Session) afterLocked(from core.Phase) {
	to := s.engine.Phase()
	if to != from {
		for _, f := range s.phaseListeners {
			f(from, to)
		}
		if to.Terminal() {
			s.stageEndedLocked(to == core.PhaseWon)
		}
	}
	s.syncLocked()
}

func (s *Session) stageEndedLocked(won bool) {
	result := StageResult{
		Stage:   s.engine.Stage(),
		Won:     won,
		Ticks:   s.engine.Ticks(),
		Cleared: s.engine.StageCleared(),
	}
	if s.logger != nil {
		s.logger.Info("stage ended",
			"stage", result.Stage,
			"won", result.Won,
			"ticks", result.Ticks,
			"cleared", result.Cleared,
		)
	}
	for _, f := range s.stageListeners {
		f(result)
	}
}

// syncLocked arms the scheduler iff the engine is playing and a slot can move.
func (s *Session) syncLocked() {
	if !s.closed && s.engine.Phase() == core.PhasePlaying && s.engine.CanMove() {
		s.sched.Start()
		return
	}
	if s.sched.Armed() {
		s.sched.Stop()
	}
}
