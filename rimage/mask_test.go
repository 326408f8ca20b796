package rimage

import (
	"image"
	"image/color"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestNonZeroPixelsRowMajor(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 4, 3))
	mask.SetGray(3, 0, color.Gray{Y: 1})
	mask.SetGray(0, 2, color.Gray{Y: 255})
	mask.SetGray(1, 0, color.Gray{Y: 9})

	pixels := NonZeroPixels(mask)
	test.That(t, pixels, test.ShouldResemble, []r2.Point{{X: 1, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 2}})
	test.That(t, NonZeroPixels(nil), test.ShouldBeEmpty)
}

func TestRasterizeRoundTrip(t *testing.T) {
	src := image.NewGray(image.Rect(2, 5, 10, 9))
	src.SetGray(2, 5, color.Gray{Y: 40})
	src.SetGray(9, 8, color.Gray{Y: 200})
	src.SetGray(4, 6, color.Gray{Y: 1})

	pixels := NonZeroPixels(src)
	test.That(t, pixels, test.ShouldHaveLength, 3)

	out := NewMaskLike(src)
	test.That(t, out.Bounds(), test.ShouldResemble, src.Bounds())
	RasterizePixels(out, append(pixels, r2.Point{X: 100, Y: 100}))
	test.That(t, NonZeroPixels(out), test.ShouldResemble, pixels)
	test.That(t, out.GrayAt(9, 8).Y, test.ShouldEqual, uint8(MaskOn))
}
