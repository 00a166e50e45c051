package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jo-hoe/skymap/internal/common"
)

func TestParseCSV_Success(t *testing.T) {
	input := "kepid,kepoi_name,ra,dec\n" +
		"10797460,K00752.01,291.93423,48.141651\n" +
		"10797460,K00752.02,291.93423,48.141651\n" +
		" ,K00754.01,297.00482,48.134129\n"

	table, err := ParseCSV(strings.NewReader(input), DefaultColumns())
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(table.Records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(table.Records))
	}

	first := table.Records[0]
	if first.Seq != 0 || first.ID != "10797460" || !first.IDPresent {
		t.Errorf("Unexpected first record: %+v", first)
	}
	if first.RA != "291.93423" || first.Dec != "48.141651" {
		t.Errorf("Unexpected coordinates: ra=%q dec=%q", first.RA, first.Dec)
	}

	last := table.Records[2]
	if last.IDPresent {
		t.Errorf("Expected blank identifier to be reported missing, got %+v", last)
	}
	if last.Seq != 2 {
		t.Errorf("Expected seq 2, got %d", last.Seq)
	}
}

func TestParseCSV_ByteOrderMark(t *testing.T) {
	input := "\ufeffkepid,ra,dec\n1,10,20\n"
	table, err := ParseCSV(strings.NewReader(input), DefaultColumns())
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if table.Records[0].ID != "1" {
		t.Errorf("Expected id '1', got %q", table.Records[0].ID)
	}
}

func TestParseCSV_ShortRowIsPadded(t *testing.T) {
	input := "kepid,ra,dec\n1,10\n"
	table, err := ParseCSV(strings.NewReader(input), DefaultColumns())
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if table.Records[0].Dec != "" {
		t.Errorf("Expected empty dec for short row, got %q", table.Records[0].Dec)
	}
}

func TestParseCSV_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "missing dec column", input: "kepid,ra\n1,10\n"},
		{name: "too many fields", input: "kepid,ra,dec\n1,10,20,30\n"},
		{name: "bare quote", input: "kepid,ra,dec\n1,1\"0,20\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input), DefaultColumns())
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, common.ErrParse) {
				t.Errorf("Expected ErrParse, got %v", err)
			}
		})
	}
}

func TestReadCSV_FileNotFound(t *testing.T) {
	_, err := ReadCSV("/path/that/does/not/exist/kepler.csv", DefaultColumns())
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if !errors.Is(err, common.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestReadCSV_CustomColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	content := "name,RAJ2000,DEJ2000\nvega,279.23473,38.78369\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	table, err := ReadCSV(path, Columns{ID: "name", RA: "RAJ2000", Dec: "DEJ2000"})
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(table.Records) != 1 || table.Records[0].ID != "vega" {
		t.Errorf("Unexpected records: %+v", table.Records)
	}
}

func TestParseCSV_IntegerIdentifiers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantIDs []string
	}{
		{
			name:    "integer column is canonicalized",
			input:   "kepid,ra,dec\n001,10,20\n1,11,21\n+42,12,22\n,13,23\n",
			wantIDs: []string{"1", "1", "42", ""},
		},
		{
			name:    "mixed column stays text",
			input:   "kepid,ra,dec\n001,10,20\nK1,11,21\n",
			wantIDs: []string{"001", "K1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseCSV(strings.NewReader(tt.input), DefaultColumns())
			if err != nil {
				t.Fatalf("ParseCSV failed: %v", err)
			}
			if len(table.Records) != len(tt.wantIDs) {
				t.Fatalf("Expected %d records, got %d", len(tt.wantIDs), len(table.Records))
			}
			for i, want := range tt.wantIDs {
				if got := table.Records[i].ID; got != want {
					t.Errorf("Record %d: expected id %q, got %q", i, want, got)
				}
			}
		})
	}
}
