// Package rimage holds the binary mask helpers used to move between mask images and pixel samples.
package rimage

import (
	"image"
	"image/color"

	"github.com/golang/geo/r2"
)

// MaskOn is the value written for set pixels of a mask built by this package.
const MaskOn = 255

// NonZeroPixels returns the coordinates of every non-zero pixel of mask in row-major
// order, X being the column and Y the row. Coordinates are absolute, so they can be
// written back to a mask with the same bounds unchanged.
func NonZeroPixels(mask *image.Gray) []r2.Point {
	if mask == nil {
		return nil
	}
	b := mask.Bounds()
	var pixels []r2.Point
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := mask.Pix[(y-b.Min.Y)*mask.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[x-b.Min.X] != 0 {
				pixels = append(pixels, r2.Point{X: float64(x), Y: float64(y)})
			}
		}
	}
	return pixels
}

// NewMaskLike allocates an empty mask with the same bounds as src.
func NewMaskLike(src *image.Gray) *image.Gray {
	return image.NewGray(src.Bounds())
}

// RasterizePixels sets every pixel in pixels to MaskOn. Pixels outside the mask
// bounds are ignored.
func RasterizePixels(mask *image.Gray, pixels []r2.Point) {
	for _, px := range pixels {
		pt := image.Point{X: int(px.X), Y: int(px.Y)}
		if pt.In(mask.Bounds()) {
			mask.SetGray(pt.X, pt.Y, color.Gray{Y: MaskOn})
		}
	}
}
