package core

// AutoPick returns the basket ball an automatic player would select next,
// or 0 if no pick is useful. It prefers the largest ball whose color still
// has pixels on the board, breaking ties by basket order.
func (e *Engine) AutoPick() int {
	if e.phase != PhasePlaying || e.slots.FindFirstEmpty() < 0 {
		return 0
	}
	bestID, bestCount := 0, 0
	for _, b := range e.basket.Balls() {
		if e.board.Count(b.Color) == 0 {
			continue
		}
		if b.Count > bestCount {
			bestID, bestCount = b.ID, b.Count
		}
	}
	return bestID
}

// AutoLaunch fills empty slots using AutoPick.
// Returns true if at least one ball was placed.
func (e *Engine) AutoLaunch() bool {
	placed := false
	for {
		id := e.AutoPick()
		if id == 0 || !e.SelectBall(id) {
			return placed
		}
		placed = true
	}
}

// RunUntilIdle plays the current stage automatically until it is won, lost,
// or maxTicks ticks have run. Returns the ticks executed and whether the stage
// was won.
func (e *Engine) RunUntilIdle(maxTicks int) (int, bool) {
	ticks := 0
	for ticks < maxTicks && e.phase == PhasePlaying {
		e.AutoLaunch()
		if e.phase != PhasePlaying {
			break
		}
		if !e.CanMove() {
			break
		}
		e.Tick()
		ticks++
	}
	return ticks, e.phase == PhaseWon
}
