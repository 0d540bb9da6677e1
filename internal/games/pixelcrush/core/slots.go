package core

// Slots is the fixed-size row of selection slots.
// Each slot holds at most one ball; nil means empty.
type Slots struct {
	balls []*Ball
}

// NewSlots creates n empty slots.
func NewSlots(n int) *Slots {
	if n < 1 {
		n = 1
	}
	return &Slots{balls: make([]*Ball, n)}
}

// Len returns the number of slots.
func (s *Slots) Len() int {
	return len(s.balls)
}

// Get returns the ball in a slot, or nil if empty or out of range.
func (s *Slots) Get(i int) *Ball {
	if i < 0 || i >= len(s.balls) {
		return nil
	}
	return s.balls[i]
}

// Assign stores ball in slot i.
// Returns false if the slot is out of range, occupied, or ball is nil.
func (s *Slots) Assign(i int, ball *Ball) bool {
	if i < 0 || i >= len(s.balls) || ball == nil {
		return false
	}
	if s.balls[i] != nil {
		return false
	}
	s.balls[i] = ball
	return true
}

// FindFirstEmpty returns the lowest empty slot index, or -1 if none.
func (s *Slots) FindFirstEmpty() int {
	for i, b := range s.balls {
		if b == nil {
			return i
		}
	}
	return -1
}

// Clear empties slot i.
func (s *Slots) Clear(i int) {
	if i >= 0 && i < len(s.balls) {
		s.balls[i] = nil
	}
}

// Count returns the number of occupied slots.
func (s *Slots) Count() int {
	count := 0
	for _, b := range s.balls {
		if b != nil {
			count++
		}
	}
	return count
}

// Full returns true if every slot is occupied.
func (s *Slots) Full() bool {
	return s.Count() == len(s.balls)
}

// TotalFor returns the summed count of slotted balls of color c.
func (s *Slots) TotalFor(c Color) int {
	total := 0
	for _, b := range s.balls {
		if b != nil && b.Color == c {
			total += b.Count
		}
	}
	return total
}
