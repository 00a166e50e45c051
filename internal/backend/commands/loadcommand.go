package commands

import (
	"fmt"
	"log/slog"

	"github.com/jo-hoe/skymap/internal/backend/catalog"
	"github.com/jo-hoe/skymap/internal/backend/imageprocessing"
)

// LoadCommand reads the background image and the raw catalog
type LoadCommand struct {
	name           string
	backgroundPath string
	catalogPath    string
	columns        catalog.Columns
	background     imageprocessing.BackgroundOptions
}

func NewLoadCommand(backgroundPath, catalogPath string, columns catalog.Columns, background imageprocessing.BackgroundOptions) *LoadCommand {
	return &LoadCommand{
		name:           "LoadCommand",
		backgroundPath: backgroundPath,
		catalogPath:    catalogPath,
		columns:        columns,
		background:     background,
	}
}

// Name returns the command name
func (c *LoadCommand) Name() string {
	return c.name
}

func (c *LoadCommand) Execute(state *SkyMapState) (*SkyMapState, error) {
	slog.Debug("LoadCommand: reading inputs",
		"background_path", c.backgroundPath,
		"catalog_path", c.catalogPath)

	background, err := imageprocessing.LoadBackground(c.backgroundPath, c.background)
	if err != nil {
		return nil, fmt.Errorf("failed to load background: %w", err)
	}

	table, err := catalog.ReadCSV(c.catalogPath, c.columns)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	next := state.clone()
	next.Background = background
	next.Table = table
	next.Stats.Rows = len(table.Records)

	slog.Info("LoadCommand: inputs loaded",
		"background_width", background.Bounds().Dx(),
		"background_height", background.Bounds().Dy(),
		"row_count", len(table.Records))
	return next, nil
}
