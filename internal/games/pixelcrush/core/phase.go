package core

import (
	"errors"
	"fmt"
	"time"
)

// Phase is the lifecycle state of a running game.
type Phase uint8

const (
	PhaseIntro Phase = iota
	PhasePlaying
	PhasePaused
	PhaseWon
	PhaseLost
)

// String returns the string representation of a phase.
func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase ends the current stage.
func (p Phase) Terminal() bool {
	return p == PhaseWon || p == PhaseLost
}

// DrainMode selects how many slots may remove a pixel in one tick.
type DrainMode uint8

const (
	// DrainSingle stops after the first removal in a tick.
	DrainSingle DrainMode = iota
	// DrainBatch lets every eligible slot remove one pixel per tick.
	DrainBatch
)

// String returns the config name of the drain mode.
func (m DrainMode) String() string {
	switch m {
	case DrainSingle:
		return "single"
	case DrainBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// LoseRule selects the deadlock condition that ends a stage.
type LoseRule uint8

const (
	// LoseStuckFullOrEmpty loses when no slot can move and either every slot
	// is occupied or the basket is empty.
	LoseStuckFullOrEmpty LoseRule = iota
	// LoseStuckFull loses only when no slot can move and every slot is occupied.
	LoseStuckFull
)

// String returns the config name of the lose rule.
func (r LoseRule) String() string {
	switch r {
	case LoseStuckFullOrEmpty:
		return "full_or_empty"
	case LoseStuckFull:
		return "full"
	default:
		return "unknown"
	}
}

// Params are the fixed game constants for an engine instance.
type Params struct {
	Side       int           // Board side length
	Palette    []Color       // Colors in play
	NumSlots   int           // Number of selection slots
	Split      SplitPolicy   // Basket generation policy
	Drain      DrainMode     // Pixels removed per tick
	Lose       LoseRule      // Deadlock detection rule
	MaxStage   int           // Last stage; winning it ends the run
	TickPeriod time.Duration // Scheduler period between ticks
}

// DefaultParams returns the stage-based configuration:
// 30x30 board, five colors, three slots, 50..80 three-way split.
func DefaultParams() Params {
	return Params{
		Side:       30,
		Palette:    AllColors(),
		NumSlots:   3,
		Split:      RangeSplit{Min: 50, Max: 80, MaxParts: 3},
		Drain:      DrainSingle,
		Lose:       LoseStuckFullOrEmpty,
		MaxStage:   100,
		TickPeriod: 600 * time.Millisecond,
	}
}

// ClassicParams returns the single-board configuration with greedy ball
// splitting and batch draining.
func ClassicParams() Params {
	return Params{
		Side:       20,
		Palette:    AllColors(),
		NumSlots:   3,
		Split:      ThresholdSplit{Min: 20},
		Drain:      DrainBatch,
		Lose:       LoseStuckFull,
		MaxStage:   1,
		TickPeriod: 333 * time.Millisecond,
	}
}

// Parameter errors.
var (
	ErrNoSlots    = errors.New("slot count must be positive")
	ErrNoStages   = errors.New("max stage must be positive")
	ErrNoSplit    = errors.New("split policy is required")
	ErrTickPeriod = errors.New("tick period must be positive")
	ErrBadPalette = errors.New("palette contains an invalid or duplicate color")
)

// Validate checks that the params describe a playable game.
func (p Params) Validate() error {
	if p.Side <= 0 {
		return ErrBoardSize
	}
	if len(p.Palette) == 0 {
		return ErrEmptyPalette
	}
	seen := make(map[Color]bool, len(p.Palette))
	for _, c := range p.Palette {
		if !c.Valid() || seen[c] {
			return fmt.Errorf("%w: %s", ErrBadPalette, c)
		}
		seen[c] = true
	}
	if (p.Side*p.Side)%len(p.Palette) != 0 {
		return fmt.Errorf("%w: side %d, %d colors", ErrUnevenBoard, p.Side, len(p.Palette))
	}
	if p.NumSlots <= 0 {
		return ErrNoSlots
	}
	if p.Split == nil {
		return ErrNoSplit
	}
	if p.MaxStage <= 0 {
		return ErrNoStages
	}
	if p.TickPeriod <= 0 {
		return ErrTickPeriod
	}
	return nil
}
