package config

import (
	_ "embed"
)

//go:embed defaults/pixelcrush.yaml
var defaultStandardYAML []byte

//go:embed defaults/pixelcrush_classic.yaml
var defaultClassicYAML []byte

// DefaultConfig returns the hard-coded standard variant: 30x30 board, five
// colors, three slots, 50..80 ball split, one pixel every 600ms, 100 stages.
func DefaultConfig() PixelCrushConfig {
	return PixelCrushConfig{
		Board: BoardConfig{
			Side:   30,
			Colors: []string{"red", "blue", "green", "yellow", "purple"},
		},
		Slots: SlotsConfig{Count: 3},
		Basket: BasketConfig{
			Policy:   PolicyRange,
			MinCount: 50,
			MaxCount: 80,
			MaxParts: 3,
		},
		Drain: DrainConfig{
			PeriodMS: 600,
			Mode:     DrainSingle,
			LoseRule: LoseFullOrEmpty,
		},
		Stages: StagesConfig{Max: 100},
	}
}

// ClassicConfig returns the hard-coded classic variant: a single 20x20 board
// with greedy ball splitting and every slot draining each 333ms tick.
func ClassicConfig() PixelCrushConfig {
	return PixelCrushConfig{
		Board: BoardConfig{
			Side:   20,
			Colors: []string{"red", "blue", "green", "yellow", "purple"},
		},
		Slots: SlotsConfig{Count: 3},
		Basket: BasketConfig{
			Policy:   PolicyThreshold,
			MinCount: 20,
		},
		Drain: DrainConfig{
			PeriodMS: 333,
			Mode:     DrainBatch,
			LoseRule: LoseFull,
		},
		Stages: StagesConfig{Max: 1},
	}
}

// builtin returns the embedded YAML and hard-coded fallback for a variant.
func builtin(variant string) ([]byte, PixelCrushConfig, bool) {
	switch variant {
	case VariantStandard:
		return defaultStandardYAML, DefaultConfig(), true
	case VariantClassic:
		return defaultClassicYAML, ClassicConfig(), true
	default:
		return nil, PixelCrushConfig{}, false
	}
}
