// Package config provides YAML-based configuration loading for Pixel Crush.
package config

import (
	"errors"
	"fmt"
)

// Variant names. Each variant has its own embedded default file.
const (
	VariantStandard = "pixelcrush"
	VariantClassic  = "pixelcrush_classic"
)

// PixelCrushConfig contains all tunable constants of a Pixel Crush variant.
type PixelCrushConfig struct {
	Board  BoardConfig  `yaml:"board"`
	Slots  SlotsConfig  `yaml:"slots"`
	Basket BasketConfig `yaml:"basket"`
	Drain  DrainConfig  `yaml:"drain"`
	Stages StagesConfig `yaml:"stages"`
}

// BoardConfig defines the board layout.
type BoardConfig struct {
	Side   int      `yaml:"side"`
	Colors []string `yaml:"colors"` // Palette by name: red, blue, green, yellow, purple
}

// SlotsConfig defines the selection slots.
type SlotsConfig struct {
	Count int `yaml:"count"`
}

// BasketConfig defines how pixel totals are split into balls.
type BasketConfig struct {
	Policy   string `yaml:"policy"`    // "range" or "threshold"
	MinCount int    `yaml:"min_count"` // Smallest ball
	MaxCount int    `yaml:"max_count"` // Largest ball (range policy only)
	MaxParts int    `yaml:"max_parts"` // Balls per color (range policy only)
}

// DrainConfig defines the tick loop.
type DrainConfig struct {
	PeriodMS int    `yaml:"period_ms"`
	Mode     string `yaml:"mode"`      // "single" or "batch"
	LoseRule string `yaml:"lose_rule"` // "full_or_empty" or "full"
}

// StagesConfig defines run length.
type StagesConfig struct {
	Max int `yaml:"max"`
}

// Basket policies.
const (
	PolicyRange     = "range"
	PolicyThreshold = "threshold"
)

// Drain modes.
const (
	DrainSingle = "single"
	DrainBatch  = "batch"
)

// Lose rules.
const (
	LoseFullOrEmpty = "full_or_empty"
	LoseFull        = "full"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks field ranges and enumerations.
// Palette names are resolved by the game package.
func (c PixelCrushConfig) Validate() error {
	if c.Board.Side <= 0 {
		return invalid("board.side must be positive, got %d", c.Board.Side)
	}
	if len(c.Board.Colors) == 0 {
		return invalid("board.colors is empty")
	}
	if (c.Board.Side*c.Board.Side)%len(c.Board.Colors) != 0 {
		return invalid("board.side %d does not split evenly into %d colors", c.Board.Side, len(c.Board.Colors))
	}
	if c.Slots.Count <= 0 {
		return invalid("slots.count must be positive, got %d", c.Slots.Count)
	}

	switch c.Basket.Policy {
	case PolicyRange:
		if c.Basket.MinCount <= 0 || c.Basket.MaxCount < c.Basket.MinCount {
			return invalid("basket range [%d, %d] is empty", c.Basket.MinCount, c.Basket.MaxCount)
		}
		if c.Basket.MaxParts <= 0 {
			return invalid("basket.max_parts must be positive, got %d", c.Basket.MaxParts)
		}
	case PolicyThreshold:
		if c.Basket.MinCount <= 0 {
			return invalid("basket.min_count must be positive, got %d", c.Basket.MinCount)
		}
	default:
		return invalid("unknown basket.policy %q", c.Basket.Policy)
	}

	if c.Drain.PeriodMS <= 0 {
		return invalid("drain.period_ms must be positive, got %d", c.Drain.PeriodMS)
	}
	if c.Drain.Mode != DrainSingle && c.Drain.Mode != DrainBatch {
		return invalid("unknown drain.mode %q", c.Drain.Mode)
	}
	if c.Drain.LoseRule != LoseFullOrEmpty && c.Drain.LoseRule != LoseFull {
		return invalid("unknown drain.lose_rule %q", c.Drain.LoseRule)
	}
	if c.Stages.Max <= 0 {
		return invalid("stages.max must be positive, got %d", c.Stages.Max)
	}
	return nil
}

// DifficultyPreset is a named drain speed.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty returns the preset for name; empty means normal.
func ParseDifficulty(name string) (DifficultyPreset, error) {
	switch DifficultyPreset(name) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyHard:
		return DifficultyPreset(name), nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", name)
	}
}

// ApplyPreset scales the drain period for a difficulty preset.
// Easy drains at half speed, hard at one and a half times speed.
func ApplyPreset(cfg *PixelCrushConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Drain.PeriodMS = cfg.Drain.PeriodMS * 2
	case DifficultyHard:
		cfg.Drain.PeriodMS = max(1, cfg.Drain.PeriodMS*2/3)
	}
}
