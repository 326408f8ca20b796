package transform

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/planarscan/spatialmath"
	"go.viam.com/planarscan/utils"
)

// Pose is the extrinsic pose of one calibration view: an axis-angle rotation
// (direction is the axis, norm the angle in radians) and a translation, both
// mapping world coordinates into the camera frame.
type Pose struct {
	Rotation    r3.Vector `json:"rvec"`
	Translation r3.Vector `json:"tvec"`
}

// RotationMatrix returns the 3x3 rotation of the pose.
func (p Pose) RotationMatrix() *spatialmath.RotationMatrix {
	return spatialmath.R3ToR4(p.Rotation).RotationMatrix()
}

// Extrinsics returns the 3x4 matrix [R|t].
func (p Pose) Extrinsics() *mat.Dense {
	t := mat.NewDense(3, 1, []float64{p.Translation.X, p.Translation.Y, p.Translation.Z})
	var ext mat.Dense
	ext.Augment(p.RotationMatrix().Dense(), t)
	return &ext
}

// ProjectionMatrix returns the 3x4 perspective projection matrix K*[R|t] for the
// intrinsic matrix k and the given pose.
func ProjectionMatrix(k mat.Matrix, pose Pose) (*mat.Dense, error) {
	if err := checkIntrinsicMatrix(k); err != nil {
		return nil, err
	}
	var ppm mat.Dense
	ppm.Mul(k, pose.Extrinsics())
	return &ppm, nil
}

func checkIntrinsicMatrix(k mat.Matrix) error {
	if k == nil {
		return NewNoIntrinsicsError("intrinsic matrix is nil")
	}
	r, c := k.Dims()
	if r != 3 {
		return utils.NewShapeMismatchError("intrinsic matrix rows", r, 3)
	}
	if c != 3 {
		return utils.NewShapeMismatchError("intrinsic matrix columns", c, 3)
	}
	return nil
}

func checkProjectionMatrix(ppm mat.Matrix) error {
	if ppm == nil {
		return NewNoIntrinsicsError("projection matrix is nil")
	}
	r, c := ppm.Dims()
	if r != 3 {
		return utils.NewShapeMismatchError("projection matrix rows", r, 3)
	}
	if c != 4 {
		return utils.NewShapeMismatchError("projection matrix columns", c, 4)
	}
	return nil
}
