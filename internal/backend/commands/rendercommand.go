package commands

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/skymap/internal/backend/catalog"
)

// FigureRenderer draws the sky map for a set of converted entries
type FigureRenderer interface {
	Render(background image.Image, entries []catalog.GalacticEntry) (*image.RGBA, error)
}

// RenderCommand composes the figure from the background and the converted catalog
type RenderCommand struct {
	name     string
	renderer FigureRenderer
}

func NewRenderCommand(renderer FigureRenderer) *RenderCommand {
	return &RenderCommand{name: "RenderCommand", renderer: renderer}
}

// Name returns the command name
func (c *RenderCommand) Name() string {
	return c.name
}

func (c *RenderCommand) Execute(state *SkyMapState) (*SkyMapState, error) {
	if state == nil || state.Background == nil {
		return nil, fmt.Errorf("no background loaded")
	}

	figure, err := c.renderer.Render(state.Background, state.Galactic)
	if err != nil {
		return nil, fmt.Errorf("failed to render sky map: %w", err)
	}

	next := state.clone()
	next.Figure = figure
	next.Stats.Plotted = len(state.Galactic)

	slog.Info("RenderCommand: figure rendered",
		"width", figure.Bounds().Dx(),
		"height", figure.Bounds().Dy(),
		"marker_count", len(state.Galactic))
	return next, nil
}
