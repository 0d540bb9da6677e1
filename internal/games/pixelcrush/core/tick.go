package core

// RemovalEvent records a pixel removed by a slot during a tick.
type RemovalEvent struct {
	Tick     uint64 // Stage tick that produced the removal
	Pixel    Pixel  // The removed pixel
	Slot     int    // Slot whose ball removed the pixel
	BallID   int
	BallLeft int // Ball count after the removal; 0 means the slot was cleared
}

// TickResult contains what happened during one tick.
type TickResult struct {
	Tick    uint64
	Removed []RemovalEvent
	Phase   Phase // Phase after win/lose evaluation
}

// Tick advances the simulation by one step.
//
// Slots are scanned in index order. A slot whose ball color still has pixels
// removes the lowest-ID pixel of that color, decrements the ball, and is
// cleared when the ball reaches zero. In DrainSingle mode the scan stops after
// the first removal; in DrainBatch mode every eligible slot removes one pixel.
//
// Tick is a no-op unless the engine is Playing. The tick counter only
// advances when at least one pixel was removed.
func (e *Engine) Tick() TickResult {
	if e.phase != PhasePlaying {
		return TickResult{Tick: e.tick, Phase: e.phase}
	}
	next := e.tick + 1
	var result TickResult

	for i := 0; i < e.slots.Len(); i++ {
		if !e.slotCanMove(i) {
			continue
		}
		ball := e.slots.Get(i)
		pixel, ok := e.board.RemoveFirst(ball.Color)
		if !ok {
			continue
		}
		ball.Count--
		if ball.Count == 0 {
			e.slots.Clear(i)
		}
		e.cleared++
		e.stageCleared++
		result.Removed = append(result.Removed, RemovalEvent{
			Tick:     next,
			Pixel:    pixel,
			Slot:     i,
			BallID:   ball.ID,
			BallLeft: ball.Count,
		})
		if e.params.Drain == DrainSingle {
			break
		}
	}

	if len(result.Removed) > 0 {
		e.tick = next
	}
	result.Tick = e.tick
	result.Phase = e.Evaluate()
	return result
}
