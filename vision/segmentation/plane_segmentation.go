// Package segmentation implements robust plane and line estimation and the mask
// splitting built on top of them.
package segmentation

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/planarscan/logging"
	"go.viam.com/planarscan/rimage/transform"
)

// PlaneModel is the plane z = A*x + B*y + D.
type PlaneModel struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	D float64 `json:"d"`
}

// Z evaluates the plane at (x, y).
func (p PlaneModel) Z(x, y float64) float64 {
	return p.A*x + p.B*y + p.D
}

// Residual is the vertical distance from pt to the plane.
func (p PlaneModel) Residual(pt r3.Vector) float64 {
	return math.Abs(pt.Z - p.Z(pt.X, pt.Y))
}

// Constraint returns the plane as A*x + B*y - z = -D for back-projection.
func (p PlaneModel) Constraint() transform.LinearConstraint {
	return transform.LinearConstraint{A: p.A, B: p.B, C: -1, D: -p.D}
}

// PlaneFit is the result of FitPlane.
type PlaneFit struct {
	Model PlaneModel
	*Partition[r3.Vector]
	Trials int
}

// fitPlaneLeastSquares fits z = A*x + B*y + D to pts.
func fitPlaneLeastSquares(pts []r3.Vector) (PlaneModel, error) {
	design := mat.NewDense(len(pts), 3, nil)
	obs := mat.NewVecDense(len(pts), nil)
	for i, pt := range pts {
		design.SetRow(i, []float64{pt.X, pt.Y, 1})
		obs.SetVec(i, pt.Z)
	}
	coef, err := solveAffine(design, obs)
	if err != nil {
		return PlaneModel{}, err
	}
	return PlaneModel{A: coef.AtVec(0), B: coef.AtVec(1), D: coef.AtVec(2)}, nil
}

// distinctZ reports whether no two points of sample share a z value.
func distinctZ(sample []r3.Vector) bool {
	for i := range sample {
		for j := i + 1; j < len(sample); j++ {
			if sample[i].Z == sample[j].Z {
				return false
			}
		}
	}
	return true
}

// FitPlane robustly fits z = A*x + B*y + D to points. Every trial fits a random sample
// of 3 points and counts the points within cfg.ResidualThreshold of it; the candidate
// with the most inliers is refit on them. A nil cfg uses DefaultPlaneFitConfig.
func FitPlane(logger logging.Logger, points []r3.Vector, cfg *PlaneFitConfig) (*PlaneFit, error) {
	if cfg == nil {
		cfg = DefaultPlaneFitConfig()
	}
	if err := cfg.CheckValid(); err != nil {
		return nil, err
	}
	problem := &consensus[r3.Vector, PlaneModel]{
		name:            "plane",
		samples:         points,
		minSamples:      3,
		maxTrials:       cfg.MaxTrials,
		threshold:       cfg.ResidualThreshold,
		stopProbability: stopProbabilityOrDefault(cfg.StopProbability),
		seed:            cfg.Seed,
		fit:             fitPlaneLeastSquares,
		residual:        PlaneModel.Residual,
		validSample:     distinctZ,
	}
	res, err := problem.run(logger)
	if err != nil {
		return nil, err
	}
	partition, err := NewPartition(points, res.inliers)
	if err != nil {
		return nil, err
	}
	return &PlaneFit{Model: res.model, Partition: partition, Trials: res.trials}, nil
}
