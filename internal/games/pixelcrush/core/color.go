// Package core provides the simulation engine for the Pixel Crush puzzle game.
// It is UI-agnostic and deterministic given a seeded random source.
package core

import "strings"

// Color represents a pixel and ball color.
type Color uint8

const (
	ColorRed Color = iota
	ColorBlue
	ColorGreen
	ColorYellow
	ColorPurple
	ColorCount // Sentinel value for iteration
)

// String returns the lowercase name of the color.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorBlue:
		return "blue"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorPurple:
		return "purple"
	default:
		return "unknown"
	}
}

// Char returns a single character representation of the color.
func (c Color) Char() rune {
	switch c {
	case ColorRed:
		return 'R'
	case ColorBlue:
		return 'B'
	case ColorGreen:
		return 'G'
	case ColorYellow:
		return 'Y'
	case ColorPurple:
		return 'P'
	default:
		return '?'
	}
}

// Valid reports whether c is part of the palette.
func (c Color) Valid() bool {
	return c < ColorCount
}

// ParseColor converts a name or initial to a Color.
// Returns ColorRed and false if the string is not recognized.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return ColorRed, true
	case "blue", "b":
		return ColorBlue, true
	case "green", "g":
		return ColorGreen, true
	case "yellow", "y":
		return ColorYellow, true
	case "purple", "p":
		return ColorPurple, true
	default:
		return ColorRed, false
	}
}

// AllColors returns the full palette in declaration order.
func AllColors() []Color {
	return []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorPurple}
}
