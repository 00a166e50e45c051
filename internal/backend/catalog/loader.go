package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jo-hoe/skymap/internal/common"
)

const utf8BOM = "\ufeff"

// ReadCSV loads a comma-separated catalog and extracts the configured columns.
// Rows with more fields than the header are malformed; short rows are padded
// with empty cells.
func ReadCSV(path string, columns Columns) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: catalog %s", common.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to open catalog %s: %w", common.ErrIO, path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	table, err := ParseCSV(file, columns)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	slog.Debug("catalog loaded", "path", path, "row_count", len(table.Records))
	return table, nil
}

// ParseCSV reads a catalog from r; see ReadCSV
func ParseCSV(r io.Reader, columns Columns) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty catalog, no header row", common.ErrParse)
		}
		return nil, fmt.Errorf("%w: header: %w", common.ErrParse, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	idIdx, err := columnIndex(header, columns.ID)
	if err != nil {
		return nil, err
	}
	raIdx, err := columnIndex(header, columns.RA)
	if err != nil {
		return nil, err
	}
	decIdx, err := columnIndex(header, columns.Dec)
	if err != nil {
		return nil, err
	}

	table := &Table{Header: header}
	for seq := 0; ; seq++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrParse, err)
		}
		if len(row) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				common.ErrParse, line, len(row), len(header))
		}

		id := strings.TrimSpace(cell(row, idIdx))
		table.Records = append(table.Records, Record{
			Seq:       seq,
			ID:        id,
			IDPresent: id != "",
			RA:        cell(row, raIdx),
			Dec:       cell(row, decIdx),
		})
	}

	canonicalIntegerIDs(table.Records)
	return table, nil
}

// canonicalIntegerIDs rewrites identifiers as plain decimal integers when
// every present identifier is one, so "001" and "1" name the same object.
// A single non-integer identifier leaves the column as text.
func canonicalIntegerIDs(records []Record) {
	parsed := make([]int64, len(records))
	for i, rec := range records {
		if !rec.IDPresent {
			continue
		}
		v, err := strconv.ParseInt(rec.ID, 10, 64)
		if err != nil {
			return
		}
		parsed[i] = v
	}
	for i := range records {
		if records[i].IDPresent {
			records[i].ID = strconv.FormatInt(parsed[i], 10)
		}
	}
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: missing required column %q", common.ErrParse, name)
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
