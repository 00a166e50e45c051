package imageprocessing

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/jo-hoe/skymap/internal/common"
)

const (
	pngSignatureLen = 8
	// IHDR is always first: length(4) + type(4) + data(13) + crc(4)
	ihdrChunkLen  = 25
	metersPerInch = 0.0254
)

// EncodePNG encodes img as PNG and records dpi in a pHYs chunk
func EncodePNG(img image.Image, dpi float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		slog.Error("failed to encode image to PNG", "error", err)
		return nil, fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	if dpi <= 0 {
		return buf.Bytes(), nil
	}
	return insertPhysChunk(buf.Bytes(), dpi)
}

// insertPhysChunk places a pHYs chunk directly after IHDR
func insertPhysChunk(data []byte, dpi float64) ([]byte, error) {
	offset := pngSignatureLen + ihdrChunkLen
	if len(data) < offset || !hasCorrectPngSignature(data) {
		return nil, fmt.Errorf("not a PNG stream")
	}

	ppm := uint32(math.Round(dpi / metersPerInch))
	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = 1 // unit: meter
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:offset]...)
	out = append(out, chunk...)
	out = append(out, data[offset:]...)
	return out, nil
}

// hasCorrectPngSignature checks whether the provided data begins with a valid PNG signature
func hasCorrectPngSignature(data []byte) bool {
	if len(data) < pngSignatureLen {
		return false
	}
	expected := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	return bytes.Equal(data[:pngSignatureLen], expected)
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place. On failure no file is left at path and an existing file is
// untouched.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create output in %s: %w", common.ErrIO, dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: failed to write %s: %w", common.ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to close %s: %w", common.ErrIO, path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to set permissions on %s: %w", common.ErrIO, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to move output to %s: %w", common.ErrIO, path, err)
	}

	slog.Debug("wrote output file", "path", path, "output_size_bytes", len(data))
	return nil
}
