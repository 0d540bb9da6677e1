package core

// Ball is a reusable key that removes Count pixels of Color.
// Balls are shared by pointer so the basket and the slots always see the same
// identity and count.
type Ball struct {
	ID    int
	Color Color
	Count int
}

// SplitPolicy partitions a color's pixel total into ball counts.
// Implementations must return positive parts that sum to total.
type SplitPolicy interface {
	Split(total int, rng Rand) []int
}

// RangeSplit draws each ball count from [Min, Max] using at most MaxParts
// balls per color. With Min=50, Max=80, MaxParts=3 it is the three-way split:
// c1 in [50,80], c2 in [max(50,rem-80), min(80,rem-50)], c3 = rem-c2.
//
// Totals that cannot satisfy the bounds fall back to fewer balls (small
// totals) or clamp the early parts to Max and let the last part absorb the
// excess (large totals).
type RangeSplit struct {
	Min      int
	Max      int
	MaxParts int
}

// Split implements SplitPolicy.
func (p RangeSplit) Split(total int, rng Rand) []int {
	if total <= 0 {
		return nil
	}
	lo, hi, maxParts := p.Min, p.Max, p.MaxParts
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	if maxParts < 1 {
		maxParts = 1
	}

	n := (total + hi - 1) / hi
	if n > maxParts {
		n = maxParts
	}
	for n > 1 && n*lo > total {
		n--
	}

	parts := make([]int, 0, n)
	rem := total
	for i := 0; i < n-1; i++ {
		left := n - i - 1
		lower := max(lo, rem-left*hi)
		upper := min(hi, rem-left*lo)
		if lower > upper {
			lower = upper
		}
		c := IntRange(rng, lower, upper)
		parts = append(parts, c)
		rem -= c
	}
	return append(parts, rem)
}

// ThresholdSplit greedily peels counts in [Min, rem-Min] off the total while
// at least 2*Min remains, then emits the remainder as the final ball.
type ThresholdSplit struct {
	Min int
}

// Split implements SplitPolicy.
func (p ThresholdSplit) Split(total int, rng Rand) []int {
	minCount := p.Min
	if minCount < 1 {
		minCount = 1
	}
	var parts []int
	rem := total
	for rem > 0 {
		if rem < 2*minCount {
			parts = append(parts, rem)
			break
		}
		c := IntRange(rng, minCount, rem-minCount)
		parts = append(parts, c)
		rem -= c
	}
	return parts
}

// GenerateBasket creates balls for every palette color according to policy and
// shuffles them so the basket order is independent of color grouping.
// The ball counts of each color sum to counts[color].
func GenerateBasket(counts map[Color]int, palette []Color, policy SplitPolicy, rng Rand) []*Ball {
	balls := make([]*Ball, 0)
	nextID := 1
	for _, c := range palette {
		for _, n := range policy.Split(counts[c], rng) {
			if n <= 0 {
				continue
			}
			balls = append(balls, &Ball{ID: nextID, Color: c, Count: n})
			nextID++
		}
	}
	Shuffle(rng, balls)
	return balls
}

// Basket is the ordered pool of balls not yet placed in a slot.
type Basket struct {
	balls []*Ball
}

// NewBasket creates a basket holding the given balls in order.
// Nil balls and balls without a positive count are dropped.
func NewBasket(balls []*Ball) *Basket {
	b := &Basket{balls: make([]*Ball, 0, len(balls))}
	for _, ball := range balls {
		if ball != nil && ball.Count > 0 {
			b.balls = append(b.balls, ball)
		}
	}
	return b
}

// Len returns the number of balls in the basket.
func (b *Basket) Len() int {
	return len(b.balls)
}

// IsEmpty returns true if the basket holds no balls.
func (b *Basket) IsEmpty() bool {
	return len(b.balls) == 0
}

// Balls returns the basket contents in display order.
// The slice is a copy; the balls are shared.
func (b *Basket) Balls() []*Ball {
	out := make([]*Ball, len(b.balls))
	copy(out, b.balls)
	return out
}

// Find returns the ball with the given ID, or nil.
func (b *Basket) Find(id int) *Ball {
	for _, ball := range b.balls {
		if ball.ID == id {
			return ball
		}
	}
	return nil
}

// Take removes and returns the ball with the given ID.
func (b *Basket) Take(id int) (*Ball, bool) {
	for i, ball := range b.balls {
		if ball.ID == id {
			b.balls = append(b.balls[:i], b.balls[i+1:]...)
			return ball, true
		}
	}
	return nil, false
}

// TotalFor returns the summed count of basket balls of color c.
func (b *Basket) TotalFor(c Color) int {
	total := 0
	for _, ball := range b.balls {
		if ball.Color == c {
			total += ball.Count
		}
	}
	return total
}
