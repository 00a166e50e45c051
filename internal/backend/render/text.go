package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/jo-hoe/skymap/internal/backend/imageprocessing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type hAlign int

const (
	alignLeft hAlign = iota
	alignCenter
	alignRight
)

type vAlign int

const (
	alignTop vAlign = iota
	alignMiddle
	alignBottom
)

func newFace(sizePt, dpi float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

func textWidth(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

func textHeight(face font.Face) (ascent, descent float64) {
	m := face.Metrics()
	return float64(m.Ascent) / 64, float64(m.Descent) / 64
}

// drawText draws s anchored at (x, y) with the given alignment
func drawText(dst draw.Image, face font.Face, col color.Color, s string, x, y float64, h hAlign, v vAlign) {
	width := textWidth(face, s)
	ascent, descent := textHeight(face)

	switch h {
	case alignCenter:
		x -= width / 2
	case alignRight:
		x -= width
	}
	switch v {
	case alignTop:
		y += ascent
	case alignMiddle:
		y += (ascent - descent) / 2
	case alignBottom:
		y -= descent
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(s)
}

// drawVerticalText draws s rotated 90° counterclockwise, vertically centred on y
func drawVerticalText(dst draw.Image, face font.Face, col color.Color, s string, x, y float64, h hAlign) {
	width := textWidth(face, s)
	ascent, descent := textHeight(face)

	tw := int(width + 2)
	th := int(ascent + descent + 2)
	if tw <= 0 || th <= 0 {
		return
	}
	horizontal := image.NewRGBA(image.Rect(0, 0, tw, th))
	drawText(horizontal, face, col, s, 1, 1, alignLeft, alignTop)

	vertical := imageprocessing.Rotate90(horizontal, false)
	vw := vertical.Bounds().Dx()
	vh := vertical.Bounds().Dy()

	left := x - float64(vw)/2
	switch h {
	case alignLeft:
		left = x
	case alignRight:
		left = x - float64(vw)
	}
	top := y - float64(vh)/2

	r := image.Rect(int(left), int(top), int(left)+vw, int(top)+vh)
	draw.Draw(dst, r, vertical, image.Point{}, draw.Over)
}
