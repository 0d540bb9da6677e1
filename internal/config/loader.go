package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration of a variant and validates it.
// Search order: customPath -> ~/.pixelcrush/configs/<variant>.yaml ->
// ./configs/<variant>.yaml -> embedded default -> hard-coded default.
func Load(customPath, variant string) (PixelCrushConfig, error) {
	embedded, fallback, ok := builtin(variant)
	if !ok {
		return PixelCrushConfig{}, fmt.Errorf("unknown variant %q", variant)
	}

	// Custom path is explicit, so failures are reported
	if customPath != "" {
		cfg, err := readFile(customPath, fallback)
		if err != nil {
			return PixelCrushConfig{}, err
		}
		if err := cfg.Validate(); err != nil {
			return PixelCrushConfig{}, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	filename := variant + ".yaml"
	candidates := []string{
		userConfigPath(filename),
		filepath.Join("configs", filename),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if cfg, err := readFile(path, fallback); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	cfg := fallback
	if err := yaml.Unmarshal(embedded, &cfg); err != nil || cfg.Validate() != nil {
		return fallback, nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// readFile parses a YAML file over base, so omitted keys keep base values.
func readFile(path string, base PixelCrushConfig) (PixelCrushConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pixelcrush", "configs", filename)
}

// Variants returns the known variant names.
func Variants() []string {
	return []string{VariantStandard, VariantClassic}
}
