package imageprocessing

import (
	"image"
	"image/draw"
)

// FlipHorizontal mirrors img left to right
func FlipHorizontal(img image.Image) *image.RGBA {
	src := toRGBA(img)
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	flipped := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcRow := src.Pix[y*src.Stride : y*src.Stride+width*4]
		dstRow := flipped.Pix[y*flipped.Stride : y*flipped.Stride+width*4]
		for x := 0; x < width; x++ {
			copy(dstRow[(width-1-x)*4:(width-x)*4], srcRow[x*4:(x+1)*4])
		}
	}
	return flipped
}

// Rotate90 rotates img by 90 degrees, clockwise or counterclockwise
func Rotate90(img image.Image, clockwise bool) *image.RGBA {
	src := toRGBA(img)
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	rotated := image.NewRGBA(image.Rect(0, 0, height, width))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := src.RGBAAt(x, y)
			if clockwise {
				// (x,y) -> (height-1-y, x)
				rotated.SetRGBA(height-1-y, x, c)
			} else {
				// (x,y) -> (y, width-1-x)
				rotated.SetRGBA(y, width-1-x, c)
			}
		}
	}
	return rotated
}

// toRGBA returns img as a zero-origin *image.RGBA, converting if needed
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
