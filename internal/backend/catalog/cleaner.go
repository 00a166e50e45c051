package catalog

import (
	"fmt"
	"log/slog"
)

// CleanOptions configures Clean
type CleanOptions struct {
	Order   DedupeOrder
	Missing MissingIdentifierPolicy
}

// DefaultCleanOptions mirrors the batch script: drop invalid rows first,
// then keep the first occurrence of each identifier, missing ones included.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{Order: CleanFirst, Missing: GroupMissing}
}

// CleanStats summarizes what Clean removed
type CleanStats struct {
	Total              int
	InvalidCoordinates int
	MissingIdentifiers int
	Retained           int
}

// Clean coerces coordinates, drops rows with missing coordinates and removes
// duplicate identifiers. The input table is not modified.
func Clean(table *Table, opts CleanOptions) ([]Entry, CleanStats, error) {
	store, err := NewStore("sqlite", ":memory:")
	if err != nil {
		return nil, CleanStats{}, fmt.Errorf("failed to open staging store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	return cleanWithStore(store, table, opts)
}

func cleanWithStore(store Store, table *Table, opts CleanOptions) ([]Entry, CleanStats, error) {
	coerced := make([]CoercedRecord, len(table.Records))
	for i, rec := range table.Records {
		coerced[i] = Coerce(rec)
	}

	if err := store.InsertRecords(coerced); err != nil {
		return nil, CleanStats{}, fmt.Errorf("failed to stage catalog rows: %w", err)
	}

	entries, err := store.SelectRetained(opts.Order, opts.Missing)
	if err != nil {
		return nil, CleanStats{}, fmt.Errorf("failed to select retained rows: %w", err)
	}

	stats := CleanStats{Retained: len(entries)}
	if stats.Total, err = store.CountRows(); err != nil {
		return nil, CleanStats{}, err
	}
	if stats.InvalidCoordinates, err = store.CountInvalidCoordinates(); err != nil {
		return nil, CleanStats{}, err
	}
	if opts.Missing == DropMissing {
		if stats.MissingIdentifiers, err = store.CountMissingIdentifiers(); err != nil {
			return nil, CleanStats{}, err
		}
	}

	slog.Debug("catalog cleaned",
		"row_count", stats.Total,
		"invalid_coordinates", stats.InvalidCoordinates,
		"missing_identifiers_dropped", stats.MissingIdentifiers,
		"retained_count", stats.Retained)

	return entries, stats, nil
}

// Coerce converts the coordinate cells of a raw record to numbers
func Coerce(rec Record) CoercedRecord {
	out := CoercedRecord{Seq: rec.Seq, ID: rec.ID, IDPresent: rec.IDPresent}
	if v, ok := CoerceFloat(rec.RA); ok {
		out.RA = &v
	}
	if v, ok := CoerceFloat(rec.Dec); ok {
		out.Dec = &v
	}
	return out
}
