package commands

import (
	"fmt"
	"log/slog"

	"github.com/jo-hoe/skymap/internal/backend/catalog"
)

// CleanCommand coerces coordinates, drops invalid rows and de-duplicates identifiers
type CleanCommand struct {
	name string
	opts catalog.CleanOptions
}

func NewCleanCommand(opts catalog.CleanOptions) *CleanCommand {
	return &CleanCommand{name: "CleanCommand", opts: opts}
}

// Name returns the command name
func (c *CleanCommand) Name() string {
	return c.name
}

func (c *CleanCommand) Execute(state *SkyMapState) (*SkyMapState, error) {
	if state == nil || state.Table == nil {
		return nil, fmt.Errorf("no catalog loaded")
	}

	entries, stats, err := catalog.Clean(state.Table, c.opts)
	if err != nil {
		return nil, err
	}

	next := state.clone()
	next.Entries = entries
	next.Stats.InvalidCoordinates = stats.InvalidCoordinates
	next.Stats.MissingIdentifiers = stats.MissingIdentifiers
	next.Stats.Retained = stats.Retained

	slog.Info("CleanCommand: catalog cleaned",
		"row_count", stats.Total,
		"invalid_coordinates", stats.InvalidCoordinates,
		"missing_identifiers_dropped", stats.MissingIdentifiers,
		"retained_count", stats.Retained,
		"dedupe_order", c.opts.Order,
		"missing_identifier_policy", c.opts.Missing)
	return next, nil
}
