package transform

import (
	"fmt"
	"image"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/planarscan/logging"
	"go.viam.com/planarscan/rimage"
)

// ErrSingularSystem is wrapped by every SingularSystemError.
var ErrSingularSystem = errors.New("back-projection system is singular")

// SingularSystemError is returned when the ray equations of a pixel and its
// constraints do not form a square, invertible 3x3 system.
type SingularSystemError struct {
	Pixel  r2.Point
	Rows   int
	Reason string
}

func (e *SingularSystemError) Error() string {
	return fmt.Sprintf("cannot back-project pixel (%v, %v) with %d equations: %s", e.Pixel.X, e.Pixel.Y, e.Rows, e.Reason)
}

// Unwrap returns ErrSingularSystem.
func (e *SingularSystemError) Unwrap() error {
	return ErrSingularSystem
}

// LinearConstraint is the equation A*x + B*y + C*z = D on a 3D point.
type LinearConstraint struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
}

// rayRows are the two pixel-ray equations lhs*[X Y Z] = rhs obtained by removing the
// projective scale from pixel ~ P*[X Y Z 1].
func rayRows(px r2.Point, ppm mat.Matrix) (lhs [2]r3.Vector, rhs [2]float64) {
	for n, coord := range []float64{px.X, px.Y} {
		var row [4]float64
		for c := range row {
			row[c] = ppm.At(2, c)*coord - ppm.At(n, c)
		}
		lhs[n] = r3.Vector{X: row[0], Y: row[1], Z: row[2]}
		rhs[n] = -row[3]
	}
	return lhs, rhs
}

// BackProject returns the world point seen at pixel px (X is the column, Y the row) by
// the camera with projection matrix ppm that also satisfies every constraint. The pixel
// ray gives two equations, so exactly one constraint yields a solvable system; any other
// count, or a constraint parallel to the ray, fails with a *SingularSystemError.
func BackProject(px r2.Point, ppm mat.Matrix, constraints ...LinearConstraint) (r3.Vector, error) {
	if err := checkProjectionMatrix(ppm); err != nil {
		return r3.Vector{}, err
	}
	rows := 2 + len(constraints)
	if rows != 3 {
		return r3.Vector{}, &SingularSystemError{
			Pixel:  px,
			Rows:   rows,
			Reason: fmt.Sprintf("system is not square, got %d constraints but need exactly 1", len(constraints)),
		}
	}

	lhs, rhs := rayRows(px, ppm)
	a := mat.NewDense(3, 3, []float64{
		lhs[0].X, lhs[0].Y, lhs[0].Z,
		lhs[1].X, lhs[1].Y, lhs[1].Z,
		constraints[0].A, constraints[0].B, constraints[0].C,
	})
	b := mat.NewVecDense(3, []float64{rhs[0], rhs[1], constraints[0].D})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return r3.Vector{}, &SingularSystemError{Pixel: px, Rows: rows, Reason: err.Error()}
	}
	return r3.Vector{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}, nil
}

// ProjectPoint projects a world point to pixel coordinates with ppm.
func ProjectPoint(ppm mat.Matrix, pt r3.Vector) (r2.Point, error) {
	if err := checkProjectionMatrix(ppm); err != nil {
		return r2.Point{}, err
	}
	var h mat.VecDense
	h.MulVec(ppm, mat.NewVecDense(4, []float64{pt.X, pt.Y, pt.Z, 1}))
	w := h.AtVec(2)
	if w == 0 {
		return r2.Point{}, errors.Errorf("point (%v, %v, %v) projects to infinity", pt.X, pt.Y, pt.Z)
	}
	return r2.Point{X: h.AtVec(0) / w, Y: h.AtVec(1) / w}, nil
}

// Reconstruction pairs each back-projected world point with the pixel it came from.
type Reconstruction struct {
	Pixels []r2.Point
	Points []r3.Vector
	// Skipped counts pixels whose system was singular.
	Skipped int
}

// BackProjectMask back-projects every non-zero pixel of mask. Pixels whose system is
// singular are logged and skipped rather than failing the whole reconstruction.
func BackProjectMask(
	logger logging.Logger,
	mask *image.Gray,
	ppm mat.Matrix,
	constraints ...LinearConstraint,
) (*Reconstruction, error) {
	if err := checkProjectionMatrix(ppm); err != nil {
		return nil, err
	}
	if len(constraints) != 1 {
		return nil, &SingularSystemError{
			Rows:   2 + len(constraints),
			Reason: fmt.Sprintf("system is not square, got %d constraints but need exactly 1", len(constraints)),
		}
	}
	pixels := rimage.NonZeroPixels(mask)
	rec := &Reconstruction{
		Pixels: make([]r2.Point, 0, len(pixels)),
		Points: make([]r3.Vector, 0, len(pixels)),
	}
	for _, px := range pixels {
		pt, err := BackProject(px, ppm, constraints...)
		if err != nil {
			var singular *SingularSystemError
			if !errors.As(err, &singular) {
				return nil, err
			}
			logger.Debugw("skipping pixel", "x", px.X, "y", px.Y, "error", err)
			rec.Skipped++
			continue
		}
		rec.Pixels = append(rec.Pixels, px)
		rec.Points = append(rec.Points, pt)
	}
	logger.Debugw("back-projected mask", "pixels", len(pixels), "points", len(rec.Points), "skipped", rec.Skipped)
	return rec, nil
}
