package imageprocessing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/jo-hoe/skymap/internal/common"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// BackgroundOptions controls how the background sky image is loaded
type BackgroundOptions struct {
	// FlipHorizontal mirrors the image left to right after decoding
	FlipHorizontal bool
	// SVGFallbackWidth and SVGFallbackHeight size SVG input without explicit dimensions
	SVGFallbackWidth  int
	SVGFallbackHeight int
}

// LoadBackground reads and decodes the background image at path
func LoadBackground(path string, opts BackgroundOptions) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: background image %s", common.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to read background image %s: %w", common.ErrIO, path, err)
	}

	img, err := DecodeImage(data, opts)
	if err != nil {
		return nil, fmt.Errorf("background image %s: %w", path, err)
	}

	if opts.FlipHorizontal {
		slog.Debug("flipping background image horizontally")
		img = FlipHorizontal(img)
	}
	return img, nil
}

// DecodeImage decodes raster data in any registered format, or renders SVG
func DecodeImage(data []byte, opts BackgroundOptions) (image.Image, error) {
	if isSVGData(data) {
		return decodeSVG(data, opts.SVGFallbackWidth, opts.SVGFallbackHeight)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Error("failed to decode background image", "error", err)
		return nil, fmt.Errorf("%w: failed to decode image: %w", common.ErrParse, err)
	}

	slog.Debug("decoded raster background",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return img, nil
}

func decodeSVG(data []byte, fallbackW, fallbackH int) (image.Image, error) {
	w, h, ok := parseSvgExplicitSize(data)
	if !ok {
		if fallbackW <= 0 || fallbackH <= 0 {
			return nil, fmt.Errorf("%w: SVG has no explicit size and no fallback size is configured", common.ErrParse)
		}
		slog.Debug("SVG lacks explicit size; using fallback", "width", fallbackW, "height", fallbackH)
		w, h = fallbackW, fallbackH
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse SVG: %w", common.ErrParse, err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.Transparent}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	slog.Debug("rendered SVG background", "width", w, "height", h)
	return dst, nil
}

// isSVGData checks the first few KB for an <svg tag or the SVG namespace
func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := min(len(data), 4096)
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("xmlns=\"http://www.w3.org/2000/svg\"")) ||
		bytes.Contains(header, []byte("xmlns='http://www.w3.org/2000/svg'"))
}

// parseSvgExplicitSize reads width and height from the <svg> start tag.
// viewBox is not treated as a pixel size.
func parseSvgExplicitSize(data []byte) (int, int, bool) {
	n := min(len(data), 8192)
	s := strings.ToLower(string(data[:n]))
	i := strings.Index(s, "<svg")
	if i < 0 {
		return 0, 0, false
	}
	tag := s[i:]
	if j := strings.Index(tag, ">"); j >= 0 {
		tag = tag[:j]
	}

	w, wOk := parseNumericAttr(tag, "width")
	h, hOk := parseNumericAttr(tag, "height")
	if wOk && hOk {
		return w, h, true
	}
	return 0, 0, false
}

// parseNumericAttr extracts the leading integer of a quoted attribute, e.g. width="123px"
func parseNumericAttr(tag, attr string) (int, bool) {
	pos := -1
	for _, quote := range []string{"\"", "'"} {
		if p := strings.Index(tag, " "+attr+"="+quote); p >= 0 {
			pos = p + len(attr) + 3
			break
		}
	}
	if pos < 0 {
		return 0, false
	}

	quote := tag[pos-1]
	val := tag[pos:]
	if end := strings.IndexByte(val, quote); end >= 0 {
		val = val[:end]
	}

	num := 0
	found := false
	for i := 0; i < len(val); i++ {
		ch := val[i]
		if ch >= '0' && ch <= '9' {
			found = true
			num = num*10 + int(ch-'0')
		} else if found {
			break
		}
	}
	if !found || num <= 0 {
		return 0, false
	}
	return num, true
}
