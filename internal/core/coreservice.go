package core

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jo-hoe/skymap/internal/backend/commands"
	"github.com/jo-hoe/skymap/internal/backend/commandstructure"
	"github.com/jo-hoe/skymap/internal/backend/projection"
	"github.com/jo-hoe/skymap/internal/backend/render"
)

// ProjectorFactory creates the whole-sky projection used by a run
type ProjectorFactory func() (projection.Projector, error)

type SkyMapService struct {
	config       *ServiceConfig
	theme        render.Theme
	newProjector ProjectorFactory
}

func NewSkyMapService(config *ServiceConfig, theme render.Theme, newProjector ProjectorFactory) *SkyMapService {
	return &SkyMapService{
		config:       config,
		theme:        theme,
		newProjector: newProjector,
	}
}

// Run executes load, clean, transform, render and save once. Any stage
// failure aborts the run and no output file is written.
func (service *SkyMapService) Run() error {
	start := time.Now()

	projector, err := service.newProjector()
	if err != nil {
		return fmt.Errorf("failed to initialize projection: %w", err)
	}
	defer projector.Close()

	renderer, err := render.NewRenderer(service.theme, projector)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			slog.Warn("failed to release renderer", "error", err)
		}
	}()

	pipeline, err := service.buildCommands(renderer)
	if err != nil {
		return err
	}

	invoker := commandstructure.NewCommandInvoker(pipeline)
	state, err := invoker.Execute(&commands.SkyMapState{})
	if err != nil {
		return err
	}

	slog.Info("sky map run completed",
		"output_path", service.config.OutputPath,
		"row_count", state.Stats.Rows,
		"retained_count", state.Stats.Retained,
		"skipped_count", state.Stats.Skipped,
		"point_count", state.Stats.Plotted,
		"output_size_bytes", state.Stats.OutputBytes,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (service *SkyMapService) buildCommands(renderer commands.FigureRenderer) ([]commandstructure.Command[*commands.SkyMapState], error) {
	cfg := service.config

	transform, err := commands.NewTransformCommand(cfg.TransformFailure, cfg.Workers)
	if err != nil {
		return nil, err
	}

	return []commandstructure.Command[*commands.SkyMapState]{
		commands.NewLoadCommand(cfg.BackgroundPath, cfg.CatalogPath, cfg.Columns, cfg.backgroundOptions()),
		commands.NewCleanCommand(cfg.cleanOptions()),
		transform,
		commands.NewRenderCommand(renderer),
		commands.NewSaveCommand(cfg.OutputPath, service.theme.DPI),
	}, nil
}
