package commands

import (
	"image"

	"github.com/jo-hoe/skymap/internal/backend/catalog"
)

// SkyMapState carries the artifacts of one pipeline run between commands.
// Every command returns a new state value and leaves its input untouched.
type SkyMapState struct {
	Background image.Image
	Table      *catalog.Table
	Entries    []catalog.Entry
	Galactic   []catalog.GalacticEntry
	Figure     image.Image
	Stats      RunStats
}

// RunStats collects counters reported at the end of a run
type RunStats struct {
	Rows               int
	InvalidCoordinates int
	MissingIdentifiers int
	Retained           int
	Skipped            int
	Plotted            int
	OutputBytes        int
}

func (s *SkyMapState) clone() *SkyMapState {
	if s == nil {
		return &SkyMapState{}
	}
	next := *s
	return &next
}
