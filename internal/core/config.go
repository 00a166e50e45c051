package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jo-hoe/skymap/internal/backend/catalog"
	"github.com/jo-hoe/skymap/internal/backend/commands"
	"github.com/jo-hoe/skymap/internal/backend/imageprocessing"
	"github.com/jo-hoe/skymap/internal/common"
	"gopkg.in/yaml.v3"
)

type ServiceConfig struct {
	BackgroundPath    string                          `yaml:"backgroundPath" validate:"required"`
	CatalogPath       string                          `yaml:"catalogPath" validate:"required"`
	OutputPath        string                          `yaml:"outputPath" validate:"required"`
	Columns           catalog.Columns                 `yaml:"columns"`
	MissingIdentifier catalog.MissingIdentifierPolicy `yaml:"missingIdentifier" validate:"oneof=group drop"`
	DedupeOrder       catalog.DedupeOrder             `yaml:"dedupeOrder" validate:"oneof=cleanFirst dedupeFirst"`
	TransformFailure  commands.FailurePolicy          `yaml:"transformFailure" validate:"oneof=fail skip"`
	FlipBackground    bool                            `yaml:"flipBackground"`
	SVGFallbackWidth  int                             `yaml:"svgFallbackWidth" validate:"min=1"`
	SVGFallbackHeight int                             `yaml:"svgFallbackHeight" validate:"min=1"`
	Workers           int                             `yaml:"workers" validate:"min=0"`
	LogLevel          string                          `yaml:"logLevel" validate:"oneof=debug info warn error"`
}

// DefaultConfig reproduces the fixed inputs and outputs of the Kepler batch run
func DefaultConfig() *ServiceConfig {
	clean := catalog.DefaultCleanOptions()
	return &ServiceConfig{
		BackgroundPath:    "Gaia_EDR3_flux_hammer_8k.png",
		CatalogPath:       "kepler.csv",
		OutputPath:        "kepler_star_map.png",
		Columns:           catalog.DefaultColumns(),
		MissingIdentifier: clean.Missing,
		DedupeOrder:       clean.Order,
		TransformFailure:  commands.FailFast,
		SVGFallbackWidth:  8192,
		SVGFallbackHeight: 4096,
		LogLevel:          "info",
	}
}

// LoadConfig loads configuration from the specified YAML file. Keys missing
// from the file keep their default values.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read config file %s: %w", common.ErrFileNotFound, configPath, err)
		}
		return nil, fmt.Errorf("%w: failed to read config file %s: %w", common.ErrIO, configPath, err)
	}

	// Parse YAML over the defaults
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file %s: %w", common.ErrConfig, configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return config, nil
}

// Validate checks the struct tags of the configuration
func (c *ServiceConfig) Validate() error {
	validator := &common.ConfigValidator{}
	return validator.Validate(c)
}

// SlogLevel maps LogLevel onto a slog level
func (c *ServiceConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *ServiceConfig) cleanOptions() catalog.CleanOptions {
	return catalog.CleanOptions{Order: c.DedupeOrder, Missing: c.MissingIdentifier}
}

func (c *ServiceConfig) backgroundOptions() imageprocessing.BackgroundOptions {
	return imageprocessing.BackgroundOptions{
		FlipHorizontal:    c.FlipBackground,
		SVGFallbackWidth:  c.SVGFallbackWidth,
		SVGFallbackHeight: c.SVGFallbackHeight,
	}
}
