package core

import (
	"errors"
	"fmt"
	"sort"
)

// Board generation errors.
var (
	ErrEmptyPalette = errors.New("palette is empty")
	ErrBoardSize    = errors.New("board side must be positive")
	ErrUnevenBoard  = errors.New("board cell count is not divisible by palette size")
)

// Pixel is a single colored cell of the board.
type Pixel struct {
	ID    int
	X     int
	Y     int
	Color Color
}

// Board holds the active pixels of a stage.
// Pixels are bucketed by color in ascending ID order, so the remaining count
// of a color is always the length of its bucket.
type Board struct {
	side    int
	buckets [ColorCount][]Pixel
	cells   []int // Pixel ID per cell in row-major order, -1 when cleared
	total   int
}

// GenerateBoard builds a side x side board with equal representation of every
// palette color, spatially shuffled with rng. Pixel IDs follow row-major order.
func GenerateBoard(side int, palette []Color, rng Rand) (*Board, error) {
	if side <= 0 {
		return nil, ErrBoardSize
	}
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	cellCount := side * side
	if cellCount%len(palette) != 0 {
		return nil, fmt.Errorf("%w: %d cells, %d colors", ErrUnevenBoard, cellCount, len(palette))
	}

	perColor := cellCount / len(palette)
	colors := make([]Color, 0, cellCount)
	for _, c := range palette {
		for i := 0; i < perColor; i++ {
			colors = append(colors, c)
		}
	}
	Shuffle(rng, colors)

	pixels := make([]Pixel, cellCount)
	for i, c := range colors {
		pixels[i] = Pixel{
			ID:    i,
			X:     i % side,
			Y:     i / side,
			Color: c,
		}
	}
	return NewBoard(side, pixels), nil
}

// NewBoard builds a board from an explicit pixel list.
// Pixels outside the grid, with an invalid color, or on an already taken cell
// are ignored.
func NewBoard(side int, pixels []Pixel) *Board {
	if side < 0 {
		side = 0
	}
	b := &Board{
		side:  side,
		cells: make([]int, side*side),
	}
	for i := range b.cells {
		b.cells[i] = -1
	}

	sorted := make([]Pixel, len(pixels))
	copy(sorted, pixels)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	for _, p := range sorted {
		if !b.inBounds(p.X, p.Y) || !p.Color.Valid() {
			continue
		}
		idx := b.index(p.X, p.Y)
		if b.cells[idx] >= 0 {
			continue
		}
		b.cells[idx] = p.ID
		b.buckets[p.Color] = append(b.buckets[p.Color], p)
		b.total++
	}
	return b
}

func (b *Board) index(x, y int) int {
	return y*b.side + x
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.side && y >= 0 && y < b.side
}

// Side returns the grid side length.
func (b *Board) Side() int {
	return b.side
}

// Len returns the number of active pixels.
func (b *Board) Len() int {
	return b.total
}

// IsEmpty returns true when every pixel has been removed.
func (b *Board) IsEmpty() bool {
	return b.total == 0
}

// Count returns the number of active pixels of color c.
func (b *Board) Count(c Color) int {
	if !c.Valid() {
		return 0
	}
	return len(b.buckets[c])
}

// Counts returns the remaining pixel count per color.
// Colors with no remaining pixels are omitted.
func (b *Board) Counts() map[Color]int {
	counts := make(map[Color]int, ColorCount)
	for c := Color(0); c < ColorCount; c++ {
		if n := len(b.buckets[c]); n > 0 {
			counts[c] = n
		}
	}
	return counts
}

// Pixels returns a copy of the active pixels ordered by ID.
func (b *Board) Pixels() []Pixel {
	out := make([]Pixel, 0, b.total)
	for c := Color(0); c < ColorCount; c++ {
		out = append(out, b.buckets[c]...)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// RemoveFirst removes the lowest-ID active pixel of color c.
func (b *Board) RemoveFirst(c Color) (Pixel, bool) {
	if b.Count(c) == 0 {
		return Pixel{}, false
	}
	p := b.buckets[c][0]
	b.buckets[c] = b.buckets[c][1:]
	b.cells[b.index(p.X, p.Y)] = -1
	b.total--
	return p, true
}
