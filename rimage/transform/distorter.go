package transform

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidDistortionError is used when the distortion coefficients are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrap(errors.New("invalid distortion coefficients"), msg)
}

// BrownConrady is the radial/tangential lens distortion model reported by chessboard
// calibration. It maps undistorted normalized image coordinates to distorted ones.
type BrownConrady struct {
	RadialK1     float64 `json:"rk1"`
	RadialK2     float64 `json:"rk2"`
	RadialK3     float64 `json:"rk3"`
	TangentialP1 float64 `json:"tp1"`
	TangentialP2 float64 `json:"tp2"`
}

// NewBrownConradyFromCoefficients takes calibration output ordered (k1, k2, p1, p2, k3).
// Missing trailing values are zero.
func NewBrownConradyFromCoefficients(coeffs []float64) (*BrownConrady, error) {
	if len(coeffs) > 5 {
		return nil, InvalidDistortionError(fmt.Sprintf("list of parameters too long, expected max 5, got %d", len(coeffs)))
	}
	var full [5]float64
	copy(full[:], coeffs)
	return &BrownConrady{
		RadialK1:     full[0],
		RadialK2:     full[1],
		TangentialP1: full[2],
		TangentialP2: full[3],
		RadialK3:     full[4],
	}, nil
}

// Transform distorts the normalized point (x, y).
func (bc *BrownConrady) Transform(x, y float64) (float64, float64) {
	if bc == nil {
		return x, y
	}
	r2 := x*x + y*y
	radDist := 1 + bc.RadialK1*r2 + bc.RadialK2*r2*r2 + bc.RadialK3*r2*r2*r2
	xd := x*radDist + 2*bc.TangentialP1*x*y + bc.TangentialP2*(r2+2*x*x)
	yd := y*radDist + 2*bc.TangentialP2*x*y + bc.TangentialP1*(r2+2*y*y)
	return xd, yd
}

// Undistort inverts Transform with Newton-Raphson iterations starting from the
// distorted point.
func (bc *BrownConrady) Undistort(xd, yd float64) (float64, float64) {
	if bc == nil {
		return xd, yd
	}
	const maxIterations = 20
	const tolerance = 1e-12

	xu, yu := xd, yd
	for i := 0; i < maxIterations; i++ {
		xEst, yEst := bc.Transform(xu, yu)
		errX, errY := xEst-xd, yEst-yd
		if errX*errX+errY*errY < tolerance*tolerance {
			break
		}

		r2 := xu*xu + yu*yu
		r4 := r2 * r2
		radDist := 1 + bc.RadialK1*r2 + bc.RadialK2*r4 + bc.RadialK3*r4*r2
		dRad := 2 * (bc.RadialK1 + 2*bc.RadialK2*r2 + 3*bc.RadialK3*r4)

		// J = [[dxd/dxu, dxd/dyu], [dyd/dxu, dyd/dyu]]
		dxdDxu := radDist + xu*xu*dRad + 2*bc.TangentialP1*yu + 6*bc.TangentialP2*xu
		dxdDyu := xu*yu*dRad + 2*bc.TangentialP1*xu + 2*bc.TangentialP2*yu
		dydDxu := xu*yu*dRad + 2*bc.TangentialP2*yu + 2*bc.TangentialP1*xu
		dydDyu := radDist + yu*yu*dRad + 2*bc.TangentialP2*xu + 6*bc.TangentialP1*yu

		det := dxdDxu*dydDyu - dxdDyu*dydDxu
		if det == 0 {
			break
		}
		xu -= (dydDyu*errX - dxdDyu*errY) / det
		yu -= (-dydDxu*errX + dxdDxu*errY) / det
	}
	return xu, yu
}
