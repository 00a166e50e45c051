package catalog

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"
)

// DedupeOrder selects whether invalid rows are removed before or after
// duplicate identifiers are collapsed.
type DedupeOrder string

const (
	// CleanFirst drops rows with missing coordinates, then keeps the first
	// remaining row per identifier.
	CleanFirst DedupeOrder = "cleanFirst"
	// DedupeFirst keeps the first row per identifier and drops it afterwards
	// when its coordinates are missing. Later rows are never promoted.
	DedupeFirst DedupeOrder = "dedupeFirst"
)

// MissingIdentifierPolicy decides what happens to rows without an identifier
type MissingIdentifierPolicy string

const (
	// GroupMissing treats all rows without identifier as one identifier
	GroupMissing MissingIdentifierPolicy = "group"
	// DropMissing removes rows without identifier before de-duplication
	DropMissing MissingIdentifierPolicy = "drop"
)

// CoercedRecord is a raw record after numeric coercion; nil coordinates are missing
type CoercedRecord struct {
	Seq       int
	ID        string
	IDPresent bool
	RA        *float64
	Dec       *float64
}

// Store stages catalog rows in a relational table so that cleaning and
// de-duplication are expressed as queries.
type Store interface {
	CreateSchema() error
	InsertRecords(records []CoercedRecord) error
	SelectRetained(order DedupeOrder, missing MissingIdentifierPolicy) ([]Entry, error)
	CountRows() (int, error)
	CountInvalidCoordinates() (int, error)
	CountMissingIdentifiers() (int, error)
	Close() error
}

// NewStore opens a staging store for the given driver
func NewStore(driver, connectionString string) (Store, error) {
	var store Store
	var err error
	switch driver {
	case "sqlite":
		store, err = NewSQLiteStore(connectionString)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}

	slog.Debug("initializing catalog staging schema", "driver", driver)
	if err := store.CreateSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create staging schema: %w", err)
	}
	return store, nil
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(connectionString string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) CreateSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		seq   INTEGER PRIMARY KEY,
		ident TEXT,
		ra    REAL,
		dec   REAL
	)`)
	return err
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertRecords writes all records in one transaction
func (s *SQLiteStore) InsertRecords(records []CoercedRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO entries (seq, ident, ra, dec) VALUES (?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, rec := range records {
		ident := sql.NullString{String: rec.ID, Valid: rec.IDPresent}
		if _, err := stmt.Exec(rec.Seq, ident, nullFloat(rec.RA), nullFloat(rec.Dec)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert row %d: %w", rec.Seq, err)
		}
	}
	return tx.Commit()
}

// SelectRetained returns the rows that survive cleaning and de-duplication
// in input order. SQLite groups NULL identifiers together, which gives the
// GroupMissing behaviour for free.
func (s *SQLiteStore) SelectRetained(order DedupeOrder, missing MissingIdentifierPolicy) ([]Entry, error) {
	query, err := retainedQuery(order, missing)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ident sql.NullString
		if err := rows.Scan(&e.Seq, &ident, &e.RA, &e.Dec); err != nil {
			return nil, err
		}
		e.ID = ident.String
		e.IDPresent = ident.Valid
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountRows returns the number of staged rows
func (s *SQLiteStore) CountRows() (int, error) {
	return s.count("")
}

// CountInvalidCoordinates counts rows with a missing right ascension or declination
func (s *SQLiteStore) CountInvalidCoordinates() (int, error) {
	return s.count("NOT (" + validCoordinates + ")")
}

// CountMissingIdentifiers counts rows without identifier
func (s *SQLiteStore) CountMissingIdentifiers() (int, error) {
	return s.count("ident IS NULL")
}

func (s *SQLiteStore) count(where string) (int, error) {
	query := "SELECT COUNT(*) FROM entries"
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := s.db.QueryRow(query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

const validCoordinates = "ra IS NOT NULL AND dec IS NOT NULL"

func retainedQuery(order DedupeOrder, missing MissingIdentifierPolicy) (string, error) {
	var idFilter string
	switch missing {
	case GroupMissing:
	case DropMissing:
		idFilter = "ident IS NOT NULL"
	default:
		return "", fmt.Errorf("unknown missing identifier policy: %s", missing)
	}

	var firstFilter, outerFilter []string
	switch order {
	case CleanFirst:
		firstFilter = []string{validCoordinates}
		outerFilter = []string{validCoordinates}
	case DedupeFirst:
		outerFilter = []string{validCoordinates}
	default:
		return "", fmt.Errorf("unknown dedupe order: %s", order)
	}
	if idFilter != "" {
		firstFilter = append(firstFilter, idFilter)
		outerFilter = append(outerFilter, idFilter)
	}

	first := "SELECT MIN(seq) FROM entries"
	if len(firstFilter) > 0 {
		first += " WHERE " + strings.Join(firstFilter, " AND ")
	}
	first += " GROUP BY ident"

	outerFilter = append(outerFilter, "seq IN ("+first+")")
	return "SELECT seq, ident, ra, dec FROM entries WHERE " +
		strings.Join(outerFilter, " AND ") + " ORDER BY seq", nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
