package commands

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/jo-hoe/skymap/internal/backend/catalog"
	"github.com/jo-hoe/skymap/internal/backend/imageprocessing"
	"github.com/jo-hoe/skymap/internal/common"
)

func TestLoadCommand_Execute(t *testing.T) {
	dir := t.TempDir()
	bg := writeTestPNG(t, dir, "bg.png", createTestImage(8, 4, color.RGBA{R: 10, A: 255}))
	csvPath := writeTestFile(t, dir, "kepler.csv", "kepid,ra,dec\n1,10,20\n2,30,-40\n")

	cmd := NewLoadCommand(bg, csvPath, catalog.DefaultColumns(), imageprocessing.BackgroundOptions{})
	if cmd.Name() != "LoadCommand" {
		t.Errorf("Expected name LoadCommand, got %s", cmd.Name())
	}

	initial := &SkyMapState{}
	state, err := cmd.Execute(initial)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if state.Background == nil || state.Background.Bounds().Dx() != 8 {
		t.Fatalf("Expected 8px wide background, got %v", state.Background)
	}
	if state.Table == nil || len(state.Table.Records) != 2 {
		t.Fatalf("Expected 2 records, got %+v", state.Table)
	}
	if state.Stats.Rows != 2 {
		t.Errorf("Expected Rows=2, got %d", state.Stats.Rows)
	}
	if initial.Table != nil {
		t.Error("Expected input state to be left untouched")
	}
}

func TestLoadCommand_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	bg := writeTestPNG(t, dir, "bg.png", createTestImage(2, 2, color.Black))
	csvPath := writeTestFile(t, dir, "kepler.csv", "kepid,ra,dec\n")

	tests := []struct {
		name       string
		background string
		catalog    string
	}{
		{name: "missing background", background: filepath.Join(dir, "nope.png"), catalog: csvPath},
		{name: "missing catalog", background: bg, catalog: filepath.Join(dir, "nope.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewLoadCommand(tt.background, tt.catalog, catalog.DefaultColumns(), imageprocessing.BackgroundOptions{})
			_, err := cmd.Execute(&SkyMapState{})
			if !errors.Is(err, common.ErrFileNotFound) {
				t.Errorf("Expected ErrFileNotFound, got %v", err)
			}
		})
	}
}
