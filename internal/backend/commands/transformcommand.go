package commands

import (
	"fmt"
	"log/slog"

	"github.com/jo-hoe/skymap/internal/backend/catalog"
	"github.com/jo-hoe/skymap/internal/backend/skycoord"
)

// FailurePolicy decides what happens when an entry cannot be converted
type FailurePolicy string

const (
	// FailFast aborts the run on the first conversion error
	FailFast FailurePolicy = "fail"
	// SkipAndWarn logs the entry and leaves it out of the map
	SkipAndWarn FailurePolicy = "skip"
)

// TransformCommand converts every cleaned entry from ICRS to galactic coordinates
type TransformCommand struct {
	name    string
	policy  FailurePolicy
	workers int
}

// NewTransformCommand creates the command; workers <= 0 uses GOMAXPROCS
func NewTransformCommand(policy FailurePolicy, workers int) (*TransformCommand, error) {
	switch policy {
	case FailFast, SkipAndWarn:
	default:
		return nil, fmt.Errorf("invalid transform failure policy: %s (must be 'fail' or 'skip')", policy)
	}
	return &TransformCommand{name: "TransformCommand", policy: policy, workers: workers}, nil
}

// Name returns the command name
func (c *TransformCommand) Name() string {
	return c.name
}

// Execute maps the entries into a new slice in input order
func (c *TransformCommand) Execute(state *SkyMapState) (*SkyMapState, error) {
	if state == nil {
		return nil, fmt.Errorf("no catalog cleaned")
	}
	entries := state.Entries

	converted := make([]catalog.GalacticEntry, len(entries))
	errs := make([]error, len(entries))

	parallelForStop(len(entries), c.workers, func(i int) bool {
		e := entries[i]
		g, err := skycoord.ICRSToGalactic(e.RA, e.Dec)
		if err != nil {
			errs[i] = err
			return c.policy == FailFast
		}
		converted[i] = catalog.GalacticEntry{Entry: e, L: g.L, B: g.B}
		return false
	})

	// with FailFast, slots after a stop stay empty; the first error below aborts
	galactic := make([]catalog.GalacticEntry, 0, len(entries))
	skipped := 0
	for i, err := range errs {
		if err == nil {
			galactic = append(galactic, converted[i])
			continue
		}
		if c.policy == FailFast {
			return nil, fmt.Errorf("entry %q (row %d): %w", entries[i].ID, entries[i].Seq, err)
		}
		skipped++
		slog.Warn("TransformCommand: skipping entry",
			"id", entries[i].ID,
			"row", entries[i].Seq,
			"error", err)
	}
	next := state.clone()
	next.Galactic = galactic
	next.Stats.Skipped = skipped

	slog.Info("TransformCommand: coordinates converted",
		"converted_count", len(galactic),
		"skipped_count", skipped)
	return next, nil
}
