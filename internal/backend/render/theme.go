package render

import (
	"image/color"
	"math"
)

// SubplotParams positions the axes box as fractions of the figure, measured
// from the bottom-left corner
type SubplotParams struct {
	Left   float64
	Right  float64
	Bottom float64
	Top    float64
}

// Theme holds every styling constant of the sky map. It is passed to the
// renderer explicitly; nothing is kept in package state.
type Theme struct {
	FigureWidth  float64 // inches
	FigureHeight float64 // inches
	DPI          float64
	Subplot      SubplotParams

	FaceColor    color.NRGBA
	TextColor    color.NRGBA
	GridColor    color.NRGBA
	OutlineColor color.NRGBA
	MarkerColor  color.NRGBA

	GridWidth       float64 // points
	OutlineWidth    float64 // points
	MarkerSize      float64 // marker area in points²
	MarkerEdgeWidth float64 // points, stroked around the marker in its own color
	MinMarkerRadius float64 // pixels

	FontSize      float64 // points
	TitleFontSize float64 // points
	TitlePad      float64 // points
	LabelPad      float64 // points
	TickPad       float64 // points

	Title  string
	XLabel string
	YLabel string

	MeridianStep float64 // degrees
	ParallelStep float64 // degrees
}

var (
	textGray  = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	darkFace  = color.NRGBA{R: 0x0c, G: 0x0d, B: 0x0d, A: 0xff}
	nearWhite = color.NRGBA{R: 0xfc, G: 0xfc, B: 0xfc, A: 0xff}
)

// DefaultTheme is the dark Kepler survey theme
func DefaultTheme() Theme {
	return Theme{
		FigureWidth:  16,
		FigureHeight: 8,
		DPI:          300,
		Subplot:      SubplotParams{Left: 0.125, Right: 0.9, Bottom: 0.11, Top: 0.88},

		FaceColor:    darkFace,
		TextColor:    textGray,
		GridColor:    WithAlpha(nearWhite, 0.2),
		OutlineColor: WithAlpha(nearWhite, 0.2),
		MarkerColor:  WithAlpha(nearWhite, 0.1),

		GridWidth:       0.8,
		OutlineWidth:    0.8,
		MarkerSize:      0.005,
		MarkerEdgeWidth: 1.5,
		MinMarkerRadius: 0.5,

		FontSize:      10,
		TitleFontSize: 12,
		TitlePad:      20,
		LabelPad:      4,
		TickPad:       3.5,

		Title:  "Kepler Survey Sky Map",
		XLabel: "Galactic l",
		YLabel: "Galactic b",

		MeridianStep: 30,
		ParallelStep: 15,
	}
}

// WithAlpha returns c with its alpha replaced by the given opacity in [0,1]
func WithAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	return c
}

// PixelSize returns the canvas size in pixels
func (t Theme) PixelSize() (int, int) {
	return int(math.Round(t.FigureWidth * t.DPI)), int(math.Round(t.FigureHeight * t.DPI))
}

// Px converts a length in points to pixels
func (t Theme) Px(points float64) float64 {
	return points * t.DPI / 72
}

// MarkerRadius returns the marker radius in pixels. Half of the edge stroke
// lies outside the marker area.
func (t Theme) MarkerRadius() float64 {
	r := t.Px(math.Sqrt(t.MarkerSize/math.Pi) + t.MarkerEdgeWidth/2)
	return math.Max(r, t.MinMarkerRadius)
}
