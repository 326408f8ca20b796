package segmentation

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// solveAffine solves the ordinary least squares problem design*coef = obs. The design
// matrix must have at least as many rows as columns.
func solveAffine(design *mat.Dense, obs *mat.VecDense) (*mat.VecDense, error) {
	rows, cols := design.Dims()
	if rows < cols {
		return nil, errors.Errorf("need at least %d observations, got %d", cols, rows)
	}
	var coef mat.VecDense
	if err := coef.SolveVec(design, obs); err != nil {
		return nil, errors.Wrap(err, "least squares system is degenerate")
	}
	return &coef, nil
}
