package pixelcrush

import (
	"fmt"
	"time"

	"github.com/vovakirdan/pixelcrush/internal/config"
	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush/core"
)

// ParamsFromConfig converts a loaded configuration into engine params.
func ParamsFromConfig(cfg config.PixelCrushConfig) (core.Params, error) {
	if err := cfg.Validate(); err != nil {
		return core.Params{}, err
	}

	palette := make([]core.Color, 0, len(cfg.Board.Colors))
	for _, name := range cfg.Board.Colors {
		c, ok := core.ParseColor(name)
		if !ok {
			return core.Params{}, fmt.Errorf("%w: unknown color %q", config.ErrInvalidConfig, name)
		}
		palette = append(palette, c)
	}

	p := core.Params{
		Side:       cfg.Board.Side,
		Palette:    palette,
		NumSlots:   cfg.Slots.Count,
		MaxStage:   cfg.Stages.Max,
		TickPeriod: time.Duration(cfg.Drain.PeriodMS) * time.Millisecond,
	}

	switch cfg.Basket.Policy {
	case config.PolicyThreshold:
		p.Split = core.ThresholdSplit{Min: cfg.Basket.MinCount}
	default:
		p.Split = core.RangeSplit{
			Min:      cfg.Basket.MinCount,
			Max:      cfg.Basket.MaxCount,
			MaxParts: cfg.Basket.MaxParts,
		}
	}
	if cfg.Drain.Mode == config.DrainBatch {
		p.Drain = core.DrainBatch
	}
	if cfg.Drain.LoseRule == config.LoseFull {
		p.Lose = core.LoseStuckFull
	}

	if err := p.Validate(); err != nil {
		return core.Params{}, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return p, nil
}

// LoadParams loads the configuration of a variant and converts it.
func LoadParams(customPath, variant string, preset config.DifficultyPreset) (core.Params, error) {
	cfg, err := config.Load(customPath, variant)
	if err != nil {
		return core.Params{}, err
	}
	config.ApplyPreset(&cfg, preset)
	return ParamsFromConfig(cfg)
}
