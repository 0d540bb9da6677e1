package core

import (
	"fmt"
)

// ValidationError contains details about an invariant violation.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// CheckInvariants verifies the engine state.
// Checks:
//   - Board counts sum to the active pixel total
//   - Every basket and slot ball has a positive count
//   - Per color, basket + slot counts equal the remaining pixels
//   - No ball is held by more than one owner
//
// Conservation is only checked while a stage is loaded (not in Intro).
func (e *Engine) CheckInvariants() error {
	if err := e.checkCounts(); err != nil {
		return err
	}
	if err := e.checkOwnership(); err != nil {
		return err
	}
	if e.phase == PhaseIntro {
		return nil
	}
	return e.checkConservation()
}

func (e *Engine) checkCounts() error {
	sum := 0
	for _, n := range e.board.Counts() {
		sum += n
	}
	if sum != e.board.Len() {
		return ValidationError{
			Code:    "COUNT_MISMATCH",
			Message: fmt.Sprintf("color counts sum to %d, board has %d pixels", sum, e.board.Len()),
		}
	}
	return nil
}

func (e *Engine) checkOwnership() error {
	seen := make(map[*Ball]string)
	for _, b := range e.basket.Balls() {
		if b.Count <= 0 {
			return ValidationError{
				Code:    "NON_POSITIVE_BALL",
				Message: fmt.Sprintf("basket ball %d has count %d", b.ID, b.Count),
			}
		}
		if owner, ok := seen[b]; ok {
			return ValidationError{
				Code:    "SHARED_BALL",
				Message: fmt.Sprintf("ball %d held by %s and basket", b.ID, owner),
			}
		}
		seen[b] = "basket"
	}
	for i := 0; i < e.slots.Len(); i++ {
		b := e.slots.Get(i)
		if b == nil {
			continue
		}
		if b.Count <= 0 {
			return ValidationError{
				Code:    "NON_POSITIVE_BALL",
				Message: fmt.Sprintf("slot %d ball %d has count %d", i, b.ID, b.Count),
			}
		}
		owner := fmt.Sprintf("slot %d", i)
		if prev, ok := seen[b]; ok {
			return ValidationError{
				Code:    "SHARED_BALL",
				Message: fmt.Sprintf("ball %d held by %s and %s", b.ID, prev, owner),
			}
		}
		seen[b] = owner
	}
	return nil
}

func (e *Engine) checkConservation() error {
	for c := Color(0); c < ColorCount; c++ {
		pixels := e.board.Count(c)
		balls := e.basket.TotalFor(c) + e.slots.TotalFor(c)
		if pixels != balls {
			return ValidationError{
				Code:    "CONSERVATION",
				Message: fmt.Sprintf("%s: %d pixels, %d in balls", c, pixels, balls),
			}
		}
	}
	return nil
}
