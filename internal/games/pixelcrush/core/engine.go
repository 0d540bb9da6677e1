package core

import (
	"errors"
	"fmt"
)

// Engine construction errors.
var (
	ErrNoRand  = errors.New("random source is required")
	ErrNoBoard = errors.New("board is required")
)

// Engine is the Pixel Crush simulation.
// It is not safe for concurrent use; Session serializes access.
type Engine struct {
	params Params
	rng    Rand

	phase        Phase
	stage        int
	board        *Board
	basket       *Basket
	slots        *Slots
	tick         uint64 // Ticks executed in the current stage
	cleared      int    // Pixels removed since the run started
	stageCleared int    // Pixels removed in the current stage
}

// StageState describes an explicit stage setup for NewEngineFromState.
type StageState struct {
	Stage  int
	Phase  Phase
	Board  *Board
	Basket []*Ball
	Slots  []*Ball // Indexed by slot; nil entries are empty slots
}

// NewEngine creates an engine in the Intro phase.
// The first board is generated by StartGame.
func NewEngine(p Params, rng Rand) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("engine: invalid params: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("engine: %w", ErrNoRand)
	}
	return &Engine{
		params: p,
		rng:    rng,
		phase:  PhaseIntro,
		stage:  1,
		board:  NewBoard(p.Side, nil),
		basket: NewBasket(nil),
		slots:  NewSlots(p.NumSlots),
	}, nil
}

// NewEngineFromState creates an engine positioned at an explicit stage state.
// It is used for scripted scenarios and does not enforce conservation; run
// CheckInvariants to verify a setup. rng may be nil if no stage will be
// regenerated.
func NewEngineFromState(p Params, rng Rand, st StageState) (*Engine, error) {
	if p.NumSlots <= 0 {
		return nil, fmt.Errorf("engine: %w", ErrNoSlots)
	}
	if len(st.Slots) > p.NumSlots {
		return nil, fmt.Errorf("engine: %d slot balls for %d slots", len(st.Slots), p.NumSlots)
	}
	if st.Board == nil {
		return nil, fmt.Errorf("engine: %w", ErrNoBoard)
	}
	stage := st.Stage
	if stage < 1 {
		stage = 1
	}

	e := &Engine{
		params: p,
		rng:    rng,
		phase:  st.Phase,
		stage:  stage,
		board:  st.Board,
		basket: NewBasket(st.Basket),
		slots:  NewSlots(p.NumSlots),
	}
	for i, b := range st.Slots {
		if b != nil && b.Count > 0 {
			e.slots.Assign(i, b)
		}
	}
	return e, nil
}

// Params returns the engine constants.
func (e *Engine) Params() Params {
	return e.params
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Stage returns the current stage number (1-indexed).
func (e *Engine) Stage() int {
	return e.stage
}

// Cleared returns the number of pixels removed since the run started.
func (e *Engine) Cleared() int {
	return e.cleared
}

// StageCleared returns the number of pixels removed in the current stage.
func (e *Engine) StageCleared() int {
	return e.stageCleared
}

// Ticks returns the number of ticks executed in the current stage.
func (e *Engine) Ticks() uint64 {
	return e.tick
}

// Finished reports whether the final stage has been won.
func (e *Engine) Finished() bool {
	return e.phase == PhaseWon && e.stage >= e.params.MaxStage
}

// loadStage generates a fresh board and basket for stage and enters Playing.
func (e *Engine) loadStage(stage int) bool {
	if e.rng == nil {
		return false
	}
	board, err := GenerateBoard(e.params.Side, e.params.Palette, e.rng)
	if err != nil {
		// Params were validated at construction
		return false
	}
	e.stage = stage
	e.board = board
	e.basket = NewBasket(GenerateBasket(board.Counts(), e.params.Palette, e.params.Split, e.rng))
	e.slots = NewSlots(e.params.NumSlots)
	e.tick = 0
	e.stageCleared = 0
	e.phase = PhasePlaying
	return true
}

// StartGame leaves the intro and generates stage 1.
func (e *Engine) StartGame() bool {
	if e.phase != PhaseIntro {
		return false
	}
	e.cleared = 0
	return e.loadStage(1)
}

// RestartStage regenerates the current stage after a loss.
func (e *Engine) RestartStage() bool {
	if e.phase != PhaseLost {
		return false
	}
	return e.loadStage(e.stage)
}

// AdvanceStage moves to the next stage after a win.
// Ignored once the final stage has been cleared.
func (e *Engine) AdvanceStage() bool {
	if e.phase != PhaseWon || e.stage >= e.params.MaxStage {
		return false
	}
	return e.loadStage(e.stage + 1)
}

// StartOver restarts the run from stage 1.
func (e *Engine) StartOver() bool {
	if e.phase == PhaseIntro {
		return false
	}
	if !e.loadStage(1) {
		return false
	}
	e.cleared = 0
	return true
}

// TogglePause switches between Playing and Paused.
func (e *Engine) TogglePause() bool {
	switch e.phase {
	case PhasePlaying:
		e.phase = PhasePaused
		return true
	case PhasePaused:
		e.phase = PhasePlaying
		return true
	default:
		return false
	}
}

// SelectBall moves a basket ball into the first empty slot.
func (e *Engine) SelectBall(ballID int) bool {
	return e.AssignSlot(e.slots.FindFirstEmpty(), ballID)
}

// AssignSlot moves a basket ball into a specific empty slot.
// The ball keeps its identity; ownership passes from basket to slot.
func (e *Engine) AssignSlot(slot, ballID int) bool {
	if e.phase != PhasePlaying {
		return false
	}
	if slot < 0 || slot >= e.slots.Len() || e.slots.Get(slot) != nil {
		return false
	}
	ball := e.basket.Find(ballID)
	if ball == nil {
		return false
	}
	if !e.slots.Assign(slot, ball) {
		return false
	}
	e.basket.Take(ballID)
	e.Evaluate()
	return true
}

// slotCanMove reports whether the ball in slot i can remove a pixel.
func (e *Engine) slotCanMove(i int) bool {
	b := e.slots.Get(i)
	return b != nil && b.Count > 0 && e.board.Count(b.Color) > 0
}

// CanMove reports whether any slot can currently remove a pixel.
func (e *Engine) CanMove() bool {
	for i := 0; i < e.slots.Len(); i++ {
		if e.slotCanMove(i) {
			return true
		}
	}
	return false
}

// stuck reports whether the player can no longer make progress.
func (e *Engine) stuck() bool {
	if e.CanMove() {
		return false
	}
	switch e.params.Lose {
	case LoseStuckFull:
		return e.slots.Full()
	default:
		return e.slots.Full() || e.basket.IsEmpty()
	}
}

// Evaluate applies the win/lose transitions and returns the resulting phase.
// Only a Playing engine can transition.
func (e *Engine) Evaluate() Phase {
	if e.phase != PhasePlaying {
		return e.phase
	}
	switch {
	case e.board.IsEmpty():
		e.phase = PhaseWon
	case e.stuck():
		e.phase = PhaseLost
	}
	return e.phase
}
