package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jo-hoe/skymap/internal/backend/projection"
	"github.com/jo-hoe/skymap/internal/backend/projection/mollweide"
	"github.com/jo-hoe/skymap/internal/backend/render"
	"github.com/jo-hoe/skymap/internal/core"
)

// getConfigPath returns the config path and whether it was set explicitly
func getConfigPath() (string, bool) {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath, true
	}

	// Default to config.yaml in current working directory
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml"), false
}

func loadConfig() (*core.ServiceConfig, error) {
	configPath, explicit := getConfigPath()
	if !explicit {
		if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
			slog.Debug("no config file found, using defaults", "path", configPath)
			return core.DefaultConfig(), nil
		}
	}
	return core.LoadConfig(configPath)
}

func newMollweide() (projection.Projector, error) {
	return mollweide.New()
}

func main() {
	// Load configuration
	config, err := loadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.SlogLevel()}))
	slog.SetDefault(logger)

	service := core.NewSkyMapService(config, render.DefaultTheme(), newMollweide)
	if err := service.Run(); err != nil {
		slog.Error("failed to create sky map", "error", err)
		os.Exit(1)
	}
}
