// Package render composes the sky map: background image, equal-area
// graticule, catalog markers and the surrounding text.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"

	"github.com/jo-hoe/skymap/internal/backend/catalog"
	"github.com/jo-hoe/skymap/internal/backend/projection"
	"github.com/jo-hoe/skymap/internal/backend/skycoord"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// graticule lines are sampled at this step in degrees
const sampleStep = 1.0

type Renderer struct {
	theme     Theme
	projector projection.Projector
	face      font.Face
	titleFace font.Face
}

// NewRenderer creates a renderer for the given theme. The projector stays
// owned by the caller.
func NewRenderer(theme Theme, projector projection.Projector) (*Renderer, error) {
	if theme.DPI <= 0 || theme.FigureWidth <= 0 || theme.FigureHeight <= 0 {
		return nil, fmt.Errorf("invalid figure geometry %vx%v in at %v dpi", theme.FigureWidth, theme.FigureHeight, theme.DPI)
	}
	face, err := newFace(theme.FontSize, theme.DPI)
	if err != nil {
		return nil, err
	}
	titleFace, err := newFace(theme.TitleFontSize, theme.DPI)
	if err != nil {
		_ = face.Close()
		return nil, err
	}
	return &Renderer{
		theme:     theme,
		projector: projector,
		face:      face,
		titleFace: titleFace,
	}, nil
}

func (r *Renderer) Close() error {
	err := r.face.Close()
	if titleErr := r.titleFace.Close(); err == nil {
		err = titleErr
	}
	return err
}

// rect is a floating point rectangle in canvas pixels
type rect struct {
	minX, minY, maxX, maxY float64
}

func (rc rect) dx() float64 { return rc.maxX - rc.minX }
func (rc rect) dy() float64 { return rc.maxY - rc.minY }

func (rc rect) center() (float64, float64) {
	return (rc.minX + rc.maxX) / 2, (rc.minY + rc.maxY) / 2
}

// fit returns the largest rectangle with the given aspect ratio centred in rc
func (rc rect) fit(aspect float64) rect {
	w, h := rc.dx(), rc.dy()
	if w/h > aspect {
		w = h * aspect
	} else {
		h = w / aspect
	}
	cx, cy := rc.center()
	return rect{minX: cx - w/2, minY: cy - h/2, maxX: cx + w/2, maxY: cy + h/2}
}

// mapFrame converts projected coordinates into canvas pixels
type mapFrame struct {
	projector  projection.Projector
	area       rect
	maxX, maxY float64
}

func (f mapFrame) toCanvas(lonDeg, latDeg float64) (float64, float64, error) {
	x, y, err := f.projector.Forward(lonDeg*math.Pi/180, latDeg*math.Pi/180)
	if err != nil {
		return 0, 0, err
	}
	cx, cy := f.area.center()
	return cx + x/f.maxX*f.area.dx()/2, cy - y/f.maxY*f.area.dy()/2, nil
}

// Render draws the complete figure. An empty entry list yields the background
// with graticule and text only.
func (r *Renderer) Render(background image.Image, entries []catalog.GalacticEntry) (*image.RGBA, error) {
	t := r.theme
	width, height := t.PixelSize()
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(t.FaceColor), image.Point{}, draw.Src)

	axes, frame := r.layout(width, height)
	if background != nil {
		r.drawBackground(canvas, axes, background)
	}

	scanner := rasterx.NewScannerGV(width, height, canvas, canvas.Bounds())

	if err := r.drawGraticule(scanner, frame, width, height); err != nil {
		return nil, err
	}
	if err := r.drawMarkers(canvas, frame, entries); err != nil {
		return nil, err
	}
	if err := r.drawTickLabels(canvas, frame); err != nil {
		return nil, err
	}
	r.drawLabels(canvas, axes, frame)

	slog.Debug("figure rendered",
		"width", width,
		"height", height,
		"point_count", len(entries))
	return canvas, nil
}

// layout returns the axes box and the projected map area inside it
func (r *Renderer) layout(width, height int) (rect, mapFrame) {
	t := r.theme
	axes := rect{
		minX: t.Subplot.Left * float64(width),
		maxX: t.Subplot.Right * float64(width),
		minY: (1 - t.Subplot.Top) * float64(height),
		maxY: (1 - t.Subplot.Bottom) * float64(height),
	}
	maxX, maxY := r.projector.Extent()
	return axes, mapFrame{projector: r.projector, area: axes.fit(maxX / maxY), maxX: maxX, maxY: maxY}
}

// drawBackground scales the image into the axes box preserving its aspect ratio
func (r *Renderer) drawBackground(canvas *image.RGBA, axes rect, background image.Image) {
	b := background.Bounds()
	if b.Empty() {
		return
	}
	target := axes.fit(float64(b.Dx()) / float64(b.Dy()))
	dst := image.Rect(
		int(math.Round(target.minX)), int(math.Round(target.minY)),
		int(math.Round(target.maxX)), int(math.Round(target.maxY)),
	)
	xdraw.CatmullRom.Scale(canvas, dst, background, b, xdraw.Over, nil)
}

func (r *Renderer) newStroker(scanner rasterx.Scanner, width, height int, lineWidth float64) *rasterx.Stroker {
	stroker := rasterx.NewStroker(width, height, scanner)
	stroker.SetStroke(
		fixed.Int26_6(r.theme.Px(lineWidth)*64),
		fixed.Int26_6(4*64),
		rasterx.ButtCap, rasterx.ButtCap,
		rasterx.FlatGap,
		rasterx.Round,
	)
	return stroker
}

// strokePolyline draws one line of the graticule as its own path so that
// crossing lines blend like separately drawn strokes
func strokePolyline(stroker *rasterx.Stroker, frame mapFrame, points [][2]float64) error {
	for i, p := range points {
		x, y, err := frame.toCanvas(p[0], p[1])
		if err != nil {
			return err
		}
		if i == 0 {
			stroker.Start(rasterx.ToFixedP(x, y))
		} else {
			stroker.Line(rasterx.ToFixedP(x, y))
		}
	}
	stroker.Stop(false)
	stroker.Draw()
	stroker.Clear()
	return nil
}

func (r *Renderer) drawGraticule(scanner *rasterx.ScannerGV, frame mapFrame, width, height int) error {
	t := r.theme
	stroker := r.newStroker(scanner, width, height, t.GridWidth)
	scanner.SetColor(t.GridColor)

	for _, lon := range meridians(t.MeridianStep) {
		var line [][2]float64
		for lat := -90.0; lat <= 90; lat += sampleStep {
			line = append(line, [2]float64{lon, lat})
		}
		if err := strokePolyline(stroker, frame, line); err != nil {
			return fmt.Errorf("meridian %v: %w", lon, err)
		}
	}

	for _, lat := range parallels(t.ParallelStep) {
		var line [][2]float64
		for lon := -180.0; lon <= 180; lon += sampleStep {
			line = append(line, [2]float64{lon, lat})
		}
		if err := strokePolyline(stroker, frame, line); err != nil {
			return fmt.Errorf("parallel %v: %w", lat, err)
		}
	}

	outline := r.newStroker(scanner, width, height, t.OutlineWidth)
	scanner.SetColor(t.OutlineColor)
	cx, cy := frame.area.center()
	rasterx.AddEllipse(cx, cy, frame.area.dx()/2, frame.area.dy()/2, 0, outline)
	outline.Draw()
	outline.Clear()
	return nil
}

// meridians returns the interior meridians, the ±180° edge is the outline
func meridians(step float64) []float64 {
	var out []float64
	for lon := -180 + step; lon < 180; lon += step {
		out = append(out, lon)
	}
	return out
}

// parallels returns the latitudes strictly between the poles
func parallels(step float64) []float64 {
	var out []float64
	for lat := -90 + step; lat < 90; lat += step {
		out = append(out, lat)
	}
	return out
}

// MapLongitude turns a galactic longitude in degrees into the map's
// horizontal coordinate: wrapped to (-180, 180] and negated so longitude
// grows to the left, as seen from inside the celestial sphere.
func MapLongitude(l float64) float64 {
	l = skycoord.NormalizeLongitude(l)
	if l > 180 {
		l -= 360
	}
	return -l
}

// drawMarkers composites every entry separately so that overlapping
// markers accumulate
func (r *Renderer) drawMarkers(canvas *image.RGBA, frame mapFrame, entries []catalog.GalacticEntry) error {
	if len(entries) == 0 {
		return nil
	}
	stamp := newMarkerStamp(r.theme.MarkerRadius())
	src := image.NewUniform(r.theme.MarkerColor)

	for _, e := range entries {
		x, y, err := frame.toCanvas(MapLongitude(e.L), e.B)
		if err != nil {
			return fmt.Errorf("marker for %q: %w", e.ID, err)
		}
		stamp.draw(canvas, src, x, y)
	}
	return nil
}

// markerStamp rasterizes one anti-aliased disk into a coverage mask just
// large enough to hold it. Only the pixels under the mask are blended.
type markerStamp struct {
	radius float64
	side   int
	mask   *image.Alpha
	filler *rasterx.Filler
}

func newMarkerStamp(radius float64) *markerStamp {
	side := int(math.Ceil(2*radius)) + 2
	mask := image.NewAlpha(image.Rect(0, 0, side, side))
	scanner := rasterx.NewScannerGV(side, side, mask, mask.Bounds())
	scanner.SetColor(color.Opaque)
	return &markerStamp{
		radius: radius,
		side:   side,
		mask:   mask,
		filler: rasterx.NewFiller(side, side, scanner),
	}
}

// draw blends one marker centred on (x, y) in canvas pixels
func (s *markerStamp) draw(canvas *image.RGBA, src image.Image, x, y float64) {
	ox := int(math.Floor(x-s.radius)) - 1
	oy := int(math.Floor(y-s.radius)) - 1

	clear(s.mask.Pix)
	s.filler.Clear()
	rasterx.AddCircle(x-float64(ox), y-float64(oy), s.radius, s.filler)
	s.filler.Draw()

	target := image.Rect(ox, oy, ox+s.side, oy+s.side)
	draw.DrawMask(canvas, target, src, image.Point{}, s.mask, image.Point{}, draw.Over)
}

// degreeLabel formats a tick value on the map axes. Longitude ticks show the
// axis value, so galactic l = 30° sits under the -30° tick.
func degreeLabel(v float64) string {
	v = math.Round(v)
	if v == 0 {
		v = 0 // no "-0°"
	}
	return fmt.Sprintf("%.0f°", v)
}

func (r *Renderer) drawTickLabels(canvas *image.RGBA, frame mapFrame) error {
	t := r.theme
	pad := t.Px(t.TickPad)

	for _, lon := range meridians(t.MeridianStep) {
		x, y, err := frame.toCanvas(lon, 0)
		if err != nil {
			return err
		}
		drawText(canvas, r.face, t.TextColor, degreeLabel(lon), x, y-pad, alignCenter, alignBottom)
	}

	for _, lat := range parallels(t.ParallelStep) {
		x, y, err := frame.toCanvas(-180, lat)
		if err != nil {
			return err
		}
		drawText(canvas, r.face, t.TextColor, degreeLabel(lat), x-pad, y, alignRight, alignMiddle)
	}
	return nil
}

func (r *Renderer) drawLabels(canvas *image.RGBA, axes rect, frame mapFrame) {
	t := r.theme
	cx, _ := axes.center()

	if t.Title != "" {
		drawText(canvas, r.titleFace, t.TextColor, t.Title, cx, frame.area.minY-t.Px(t.TitlePad), alignCenter, alignBottom)
	}

	if t.XLabel != "" {
		drawText(canvas, r.face, t.TextColor, t.XLabel, cx, frame.area.maxY+t.Px(t.LabelPad), alignCenter, alignTop)
	}

	if t.YLabel != "" {
		widest := 0.0
		for _, lat := range parallels(t.ParallelStep) {
			widest = math.Max(widest, textWidth(r.face, degreeLabel(lat)))
		}
		x := frame.area.minX - t.Px(t.TickPad) - widest - t.Px(t.LabelPad)
		_, cy := frame.area.center()
		drawVerticalText(canvas, r.face, t.TextColor, t.YLabel, x, cy, alignRight)
	}
}
