package transform

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/planarscan/utils"
)

// Calibration is the output of an external chessboard calibration: one intrinsic model,
// its distortion coefficients, and the pose of the board in every accepted image.
type Calibration struct {
	Intrinsics *PinholeCameraIntrinsics `json:"intrinsic_parameters"`
	// Distortion is ordered (k1, k2, p1, p2, k3).
	Distortion []float64 `json:"distortion_coefficients"`
	Poses      []Pose    `json:"poses"`
}

// CheckValid checks if the fields for Calibration have valid inputs.
func (c *Calibration) CheckValid() error {
	if c == nil {
		return errors.New("calibration does not exist")
	}
	var err error
	err = multierr.Combine(err, c.Intrinsics.CheckValid())
	if len(c.Distortion) > 5 {
		err = multierr.Combine(err, InvalidDistortionError("expected at most 5 coefficients"))
	}
	if len(c.Poses) == 0 {
		err = multierr.Combine(err, errors.New("calibration has no poses"))
	}
	return err
}

// ImageSize returns the calibrated image size.
func (c *Calibration) ImageSize() (width, height int) {
	return c.Intrinsics.Width, c.Intrinsics.Height
}

// Projection returns the projection matrix for the pose of image i.
func (c *Calibration) Projection(i int) (*mat.Dense, error) {
	if i < 0 || i >= len(c.Poses) {
		return nil, errors.Errorf("pose index %d out of range [0, %d)", i, len(c.Poses))
	}
	return ProjectionMatrix(c.Intrinsics.Matrix(), c.Poses[i])
}

// NewCalibrationFromJSONFile reads and validates a Calibration from a JSON file.
func NewCalibrationFromJSONFile(jsonPath string) (*Calibration, error) {
	calib := &Calibration{}
	if err := readJSONFile(jsonPath, calib); err != nil {
		return nil, err
	}
	if err := calib.CheckValid(); err != nil {
		return nil, errors.Wrapf(err, "invalid calibration in %q", jsonPath)
	}
	return calib, nil
}

// ChessboardObjectPoints returns the world coordinates of the inner corners of a
// cols x rows chessboard with the given square size, in the order a corner detector
// reports them. The board lies in the z = 0 plane; the first axis runs along rows.
func ChessboardObjectPoints(cols, rows int, squareSize float64) []r3.Vector {
	pts := make([]r3.Vector, 0, cols*rows)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			pts = append(pts, r3.Vector{X: float64(j) * squareSize, Y: float64(i) * squareSize})
		}
	}
	return pts
}

// ProjectDistorted projects a world point through pose and the calibrated lens model.
func (c *Calibration) ProjectDistorted(pose Pose, pt r3.Vector) (r2.Point, error) {
	bc, err := NewBrownConradyFromCoefficients(c.Distortion)
	if err != nil {
		return r2.Point{}, err
	}
	cam := pose.RotationMatrix().Mul(pt).Add(pose.Translation)
	if cam.Z == 0 {
		return r2.Point{}, errors.Errorf("point (%v, %v, %v) projects to infinity", pt.X, pt.Y, pt.Z)
	}
	x, y := bc.Transform(cam.X/cam.Z, cam.Y/cam.Z)
	in := c.Intrinsics
	return r2.Point{X: x*in.Fx + in.Ppx, Y: y*in.Fy + in.Ppy}, nil
}

// MeanReprojectionError is the calibration diagnostic: for each view the L2 norm of all
// corner reprojection residuals divided by the number of corners, averaged over views.
// objectPoints[i] and imagePoints[i] must correspond index by index to c.Poses[i].
func (c *Calibration) MeanReprojectionError(objectPoints [][]r3.Vector, imagePoints [][]r2.Point) (float64, error) {
	if len(objectPoints) != len(imagePoints) {
		return 0, utils.NewShapeMismatchError("object/image point views", len(objectPoints), len(imagePoints))
	}
	if len(objectPoints) != len(c.Poses) {
		return 0, utils.NewShapeMismatchError("views/poses", len(objectPoints), len(c.Poses))
	}
	perView := make([]float64, 0, len(objectPoints))
	for view, obj := range objectPoints {
		img := imagePoints[view]
		if len(obj) != len(img) {
			return 0, errors.Wrapf(utils.NewShapeMismatchError("object/image points", len(obj), len(img)), "view %d", view)
		}
		if len(obj) == 0 {
			return 0, errors.Errorf("view %d has no points", view)
		}
		var sumSq float64
		for n, pt := range obj {
			projected, err := c.ProjectDistorted(c.Poses[view], pt)
			if err != nil {
				return 0, errors.Wrapf(err, "view %d point %d", view, n)
			}
			sumSq += utils.Square(projected.X-img[n].X) + utils.Square(projected.Y-img[n].Y)
		}
		perView = append(perView, math.Sqrt(sumSq)/float64(len(obj)))
	}
	return stats.Mean(perView)
}

// UndistortPixel removes lens distortion from a detected pixel so that it can be
// back-projected with a distortion free projection matrix.
func (c *Calibration) UndistortPixel(px r2.Point) (r2.Point, error) {
	bc, err := NewBrownConradyFromCoefficients(c.Distortion)
	if err != nil {
		return r2.Point{}, err
	}
	in := c.Intrinsics
	x, y := bc.Undistort((px.X-in.Ppx)/in.Fx, (px.Y-in.Ppy)/in.Fy)
	return r2.Point{X: x*in.Fx + in.Ppx, Y: y*in.Fy + in.Ppy}, nil
}
