package segmentation

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/planarscan/logging"
)

// minResidualThreshold replaces a zero median absolute deviation, which happens when
// most points share one y value.
const minResidualThreshold = 1e-9

// LineModel is the line y = Slope*x + Intercept.
type LineModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Y evaluates the line at x.
func (l LineModel) Y(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Residual is the vertical distance from pt to the line.
func (l LineModel) Residual(pt r2.Point) float64 {
	return math.Abs(pt.Y - l.Y(pt.X))
}

// LineFit is the result of FitLine.
type LineFit struct {
	Model LineModel
	*Partition[r2.Point]
	Trials int
}

// A LinePredicate decides whether a fitted candidate line may be kept. sample is the
// set of points the candidate was fitted from.
type LinePredicate interface {
	ValidLine(candidate LineModel, sample []r2.Point) bool
}

// LinePredicateFunc adapts a function to a LinePredicate.
type LinePredicateFunc func(candidate LineModel, sample []r2.Point) bool

// ValidLine calls f.
func (f LinePredicateFunc) ValidLine(candidate LineModel, sample []r2.Point) bool {
	return f(candidate, sample)
}

// DistinctInterceptPredicate accepts only lines whose intercept differs from reference
// by more than threshold. It is used to search for a second line after a first was found.
func DistinctInterceptPredicate(reference, threshold float64) LinePredicate {
	return LinePredicateFunc(func(candidate LineModel, _ []r2.Point) bool {
		return math.Abs(candidate.Intercept-reference) > threshold
	})
}

func fitLineLeastSquares(pts []r2.Point) (LineModel, error) {
	design := mat.NewDense(len(pts), 2, nil)
	obs := mat.NewVecDense(len(pts), nil)
	for i, pt := range pts {
		design.SetRow(i, []float64{pt.X, 1})
		obs.SetVec(i, pt.Y)
	}
	coef, err := solveAffine(design, obs)
	if err != nil {
		return LineModel{}, err
	}
	return LineModel{Slope: coef.AtVec(0), Intercept: coef.AtVec(1)}, nil
}

// medianAbsoluteDeviationY is the default residual threshold for line fits.
func medianAbsoluteDeviationY(points []r2.Point) (float64, error) {
	ys := make([]float64, len(points))
	for i, pt := range points {
		ys[i] = pt.Y
	}
	mad, err := stats.MedianAbsoluteDeviation(ys)
	if err != nil {
		return 0, errors.Wrap(err, "cannot compute default residual threshold")
	}
	return math.Max(mad, minResidualThreshold), nil
}

// FitLine robustly fits y = Slope*x + Intercept to points. Every trial fits a random pair
// of points; candidates rejected by valid are discarded, and of the rest the one with
// the most inliers is refit on its inliers. The returned model always satisfies valid.
// A nil cfg uses DefaultLineFitConfig and a nil valid accepts every line.
func FitLine(logger logging.Logger, points []r2.Point, cfg *LineFitConfig, valid LinePredicate) (*LineFit, error) {
	if cfg == nil {
		cfg = DefaultLineFitConfig()
	}
	if err := cfg.CheckValid(); err != nil {
		return nil, err
	}
	problem := &consensus[r2.Point, LineModel]{
		name:            "line",
		samples:         points,
		minSamples:      2,
		maxTrials:       cfg.MaxTrials,
		threshold:       cfg.ResidualThreshold,
		stopProbability: stopProbabilityOrDefault(cfg.StopProbability),
		seed:            cfg.Seed,
		fit:             fitLineLeastSquares,
		residual:        LineModel.Residual,
	}
	if valid != nil {
		problem.validModel = valid.ValidLine
	}
	if problem.threshold == 0 && len(points) >= problem.minSamples {
		mad, err := medianAbsoluteDeviationY(points)
		if err != nil {
			return nil, err
		}
		problem.threshold = mad
	}
	res, err := problem.run(logger)
	if err != nil {
		return nil, err
	}
	partition, err := NewPartition(points, res.inliers)
	if err != nil {
		return nil, err
	}
	return &LineFit{Model: res.model, Partition: partition, Trials: res.trials}, nil
}
