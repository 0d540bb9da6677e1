package core

// SlotSnapshot is a read-only view of one slot.
type SlotSnapshot struct {
	Index    int
	Occupied bool
	Ball     Ball // Zero value when the slot is empty
}

// Snapshot is a read-only copy of the engine state for renderers.
type Snapshot struct {
	Phase        Phase
	Stage        int
	MaxStage     int
	Tick         uint64
	Side         int
	Pixels       []Pixel // Active pixels ordered by ID
	Counts       map[Color]int
	Slots        []SlotSnapshot
	Basket       []Ball // Basket contents in display order
	Cleared      int    // Pixels removed since the run started
	StageCleared int
	CanMove      bool
	Finished     bool // Final stage won
}

// Snapshot returns a copy of the current state.
// Mutating the snapshot never affects the engine.
func (e *Engine) Snapshot() Snapshot {
	slots := make([]SlotSnapshot, e.slots.Len())
	for i := range slots {
		slots[i].Index = i
		if b := e.slots.Get(i); b != nil {
			slots[i].Occupied = true
			slots[i].Ball = *b
		}
	}

	basket := make([]Ball, 0, e.basket.Len())
	for _, b := range e.basket.Balls() {
		basket = append(basket, *b)
	}

	return Snapshot{
		Phase:        e.phase,
		Stage:        e.stage,
		MaxStage:     e.params.MaxStage,
		Tick:         e.tick,
		Side:         e.board.Side(),
		Pixels:       e.board.Pixels(),
		Counts:       e.board.Counts(),
		Slots:        slots,
		Basket:       basket,
		Cleared:      e.cleared,
		StageCleared: e.stageCleared,
		CanMove:      e.CanMove(),
		Finished:     e.Finished(),
	}
}

// Remaining returns the total number of active pixels in the snapshot.
func (s Snapshot) Remaining() int {
	return len(s.Pixels)
}

// EmptySlot returns the lowest empty slot index in the snapshot, or -1.
func (s Snapshot) EmptySlot() int {
	for _, slot := range s.Slots {
		if !slot.Occupied {
			return slot.Index
		}
	}
	return -1
}
