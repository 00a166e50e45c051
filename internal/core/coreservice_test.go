package core

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jo-hoe/skymap/internal/backend/projection"
	"github.com/jo-hoe/skymap/internal/backend/render"
	"github.com/jo-hoe/skymap/internal/common"
)

// plateCarree keeps service tests independent of the projection library
type plateCarree struct{}

func (plateCarree) Forward(lon, lat float64) (float64, float64, error) {
	return lon / math.Pi * 2, lat / (math.Pi / 2), nil
}

func (plateCarree) Extent() (float64, float64) { return 2, 1 }

func (plateCarree) Close() {}

func testTheme() render.Theme {
	theme := render.DefaultTheme()
	theme.FigureWidth = 4
	theme.FigureHeight = 2
	theme.DPI = 50
	return theme
}

func newTestService(config *ServiceConfig) *SkyMapService {
	return NewSkyMapService(config, testTheme(), func() (projection.Projector, error) {
		return plateCarree{}, nil
	})
}

func writeInputs(t *testing.T, csv string) *ServiceConfig {
	t.Helper()
	dir := t.TempDir()

	bg := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for i := range bg.Pix {
		bg.Pix[i] = 40
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, bg); err != nil {
		t.Fatalf("Failed to encode background: %v", err)
	}

	config := DefaultConfig()
	config.BackgroundPath = filepath.Join(dir, "bg.png")
	config.CatalogPath = filepath.Join(dir, "kepler.csv")
	config.OutputPath = filepath.Join(dir, "kepler_star_map.png")
	if err := os.WriteFile(config.BackgroundPath, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write background: %v", err)
	}
	if err := os.WriteFile(config.CatalogPath, []byte(csv), 0644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}
	return config
}

func TestSkyMapService_Run(t *testing.T) {
	config := writeInputs(t, "kepid,ra,dec,kepmag\n1,291.0,44.5,12\n1,291.1,44.6,12\n2,abc,40,13\n3,285.7,39.2,14\n")

	if err := newTestService(config).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(config.OutputPath)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Errorf("Expected 200x100 figure, got %v", img.Bounds())
	}
	// top-left corner lies outside the axes and carries the figure face color
	face := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	if face.R != 0x0c || face.G != 0x0d || face.B != 0x0d {
		t.Errorf("Expected face color #0c0d0d, got %v", face)
	}
}

func TestSkyMapService_FailuresLeaveNoOutput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ServiceConfig)
		csv     string
		wantErr error
	}{
		{
			name:    "missing catalog",
			mutate:  func(c *ServiceConfig) { c.CatalogPath += ".missing" },
			csv:     "kepid,ra,dec\n1,10,10\n",
			wantErr: common.ErrFileNotFound,
		},
		{
			name:    "malformed catalog",
			csv:     "kepid,ra,dec\n1,10,10,extra\n",
			wantErr: common.ErrParse,
		},
		{
			name:    "infinite coordinate",
			csv:     "kepid,ra,dec\n1,inf,10\n",
			wantErr: common.ErrConversion,
		},
		{
			name:    "unwritable output",
			mutate:  func(c *ServiceConfig) { c.OutputPath = filepath.Join(filepath.Dir(c.OutputPath), "missing", "map.png") },
			csv:     "kepid,ra,dec\n1,10,10\n",
			wantErr: common.ErrIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := writeInputs(t, tt.csv)
			if tt.mutate != nil {
				tt.mutate(config)
			}

			err := newTestService(config).Run()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if _, statErr := os.Stat(config.OutputPath); !os.IsNotExist(statErr) {
				t.Errorf("Expected no output file, stat returned %v", statErr)
			}
		})
	}
}

func TestSkyMapService_SkipPolicy(t *testing.T) {
	config := writeInputs(t, "kepid,ra,dec\n1,inf,10\n2,20,-30\n")
	config.TransformFailure = "skip"

	if err := newTestService(config).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(config.OutputPath); err != nil {
		t.Errorf("Expected output file, got %v", err)
	}
}

func TestSkyMapService_ProjectorFailure(t *testing.T) {
	config := writeInputs(t, "kepid,ra,dec\n1,10,10\n")
	projErr := errors.New("no proj")
	service := NewSkyMapService(config, testTheme(), func() (projection.Projector, error) {
		return nil, projErr
	})

	if err := service.Run(); !errors.Is(err, projErr) {
		t.Errorf("Expected projector error, got %v", err)
	}
}
