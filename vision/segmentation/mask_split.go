package segmentation

import (
	"image"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/planarscan/logging"
	"go.viam.com/planarscan/rimage"
)

// MaskSplit is the full result of SplitMaskLines. Lines are expressed in the upward
// frame of the mask (x = column, y = last row index minus row), so a line lower on
// screen has a smaller intercept.
type MaskSplit struct {
	Bottom, Top         *image.Gray
	BottomLine, TopLine *LineFit
}

// toUpward converts pixel coordinates to the upward fitting frame of bounds and back;
// the conversion is its own inverse.
func toUpward(bounds image.Rectangle, pts []r2.Point) []r2.Point {
	flip := float64(bounds.Min.Y + bounds.Max.Y - 1)
	out := make([]r2.Point, len(pts))
	for i, pt := range pts {
		out[i] = r2.Point{X: pt.X, Y: flip - pt.Y}
	}
	return out
}

// SplitMask separates the non-zero pixels of mask into the two most supported,
// distinct lines and returns one fresh mask per line, the line with the smaller
// intercept first. A nil cfg uses DefaultSplitConfig.
func SplitMask(logger logging.Logger, mask *image.Gray, cfg *SplitConfig) (bottom, top *image.Gray, err error) {
	split, err := SplitMaskLines(logger, mask, cfg)
	if err != nil {
		return nil, nil, err
	}
	return split.Bottom, split.Top, nil
}

// SplitMaskLines is SplitMask but also returns both line fits.
func SplitMaskLines(logger logging.Logger, mask *image.Gray, cfg *SplitConfig) (*MaskSplit, error) {
	if mask == nil {
		return nil, errors.New("input mask is nil")
	}
	if cfg == nil {
		cfg = DefaultSplitConfig()
	}
	if err := cfg.CheckValid(); err != nil {
		return nil, err
	}
	bounds := mask.Bounds()
	points := toUpward(bounds, rimage.NonZeroPixels(mask))

	first, err := FitLine(logger, points, cfg.Line, nil)
	if err != nil {
		return nil, errors.Wrap(err, "first line")
	}
	rest := first.Outliers()
	logger.Debugw("first line", "intercept", first.Model.Intercept, "inliers", first.NumInliers(), "remaining", len(rest))

	second, err := FitLine(logger, rest, cfg.Line, DistinctInterceptPredicate(first.Model.Intercept, cfg.InterceptThreshold))
	if err != nil {
		return nil, errors.Wrap(err, "second line")
	}
	logger.Debugw("second line", "intercept", second.Model.Intercept, "inliers", second.NumInliers())

	set1 := rimage.NewMaskLike(mask)
	rimage.RasterizePixels(set1, toUpward(bounds, first.Inliers()))
	set2 := rimage.NewMaskLike(mask)
	rimage.RasterizePixels(set2, toUpward(bounds, second.Inliers()))

	if first.Model.Intercept < second.Model.Intercept {
		return &MaskSplit{Bottom: set1, Top: set2, BottomLine: first, TopLine: second}, nil
	}
	return &MaskSplit{Bottom: set2, Top: set1, BottomLine: second, TopLine: first}, nil
}
