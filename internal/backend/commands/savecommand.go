package commands

import (
	"fmt"
	"log/slog"

	"github.com/jo-hoe/skymap/internal/backend/imageprocessing"
)

// SaveCommand encodes the figure as PNG and replaces the output file
type SaveCommand struct {
	name       string
	outputPath string
	dpi        float64
}

func NewSaveCommand(outputPath string, dpi float64) *SaveCommand {
	return &SaveCommand{name: "SaveCommand", outputPath: outputPath, dpi: dpi}
}

// Name returns the command name
func (c *SaveCommand) Name() string {
	return c.name
}

func (c *SaveCommand) Execute(state *SkyMapState) (*SkyMapState, error) {
	if state == nil || state.Figure == nil {
		return nil, fmt.Errorf("no figure rendered")
	}

	data, err := imageprocessing.EncodePNG(state.Figure, c.dpi)
	if err != nil {
		return nil, err
	}
	if err := imageprocessing.WriteFileAtomic(c.outputPath, data); err != nil {
		return nil, err
	}

	next := state.clone()
	next.Stats.OutputBytes = len(data)

	slog.Info("SaveCommand: sky map written",
		"output_path", c.outputPath,
		"size_bytes", len(data),
		"dpi", c.dpi)
	return next, nil
}
