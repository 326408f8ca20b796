package transform

import (
	"image"
	"image/color"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/planarscan/logging"
	"go.viam.com/planarscan/utils"
)

func testIntrinsics() *PinholeCameraIntrinsics {
	return &PinholeCameraIntrinsics{Width: 640, Height: 480, Fx: 800, Fy: 820, Ppx: 320, Ppy: 240}
}

func testPose() Pose {
	return Pose{
		Rotation:    r3.Vector{X: 0.1, Y: -0.2, Z: 0.05},
		Translation: r3.Vector{X: 0.1, Y: -0.05, Z: 2},
	}
}

// z = 0.3x - 0.2y + 0.1 written as A*x + B*y + C*z = D.
var testPlane = LinearConstraint{A: 0.3, B: -0.2, C: -1, D: -0.1}

func TestProjectionMatrixIdentityPose(t *testing.T) {
	k := testIntrinsics().Matrix()
	ppm, err := ProjectionMatrix(k, Pose{Translation: r3.Vector{X: 1, Y: 2, Z: 3}})
	test.That(t, err, test.ShouldBeNil)
	expected := mat.NewDense(3, 4, []float64{
		800, 0, 320, 800*1 + 320*3,
		0, 820, 240, 820*2 + 240*3,
		0, 0, 1, 3,
	})
	test.That(t, mat.EqualApprox(ppm, expected, 1e-9), test.ShouldBeTrue)
}

func TestProjectionMatrixBadShape(t *testing.T) {
	_, err := ProjectionMatrix(mat.NewDense(3, 4, nil), testPose())
	test.That(t, errors.Is(err, utils.ErrShapeMismatch), test.ShouldBeTrue)
	_, err = ProjectionMatrix(nil, testPose())
	test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)
}

func TestBackProjectRoundTrip(t *testing.T) {
	ppm, err := ProjectionMatrix(testIntrinsics().Matrix(), testPose())
	test.That(t, err, test.ShouldBeNil)

	for _, xy := range []r2.Point{{X: 0, Y: 0}, {X: 0.4, Y: -0.3}, {X: -0.25, Y: 0.5}, {X: 0.1, Y: 0.2}} {
		want := r3.Vector{X: xy.X, Y: xy.Y, Z: 0.3*xy.X - 0.2*xy.Y + 0.1}
		px, err := ProjectPoint(ppm, want)
		test.That(t, err, test.ShouldBeNil)

		got, err := BackProject(px, ppm, testPlane)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got.X, test.ShouldAlmostEqual, want.X, 1e-9)
		test.That(t, got.Y, test.ShouldAlmostEqual, want.Y, 1e-9)
		test.That(t, got.Z, test.ShouldAlmostEqual, want.Z, 1e-9)
	}
}

func TestBackProjectSingular(t *testing.T) {
	ppm, err := ProjectionMatrix(testIntrinsics().Matrix(), testPose())
	test.That(t, err, test.ShouldBeNil)
	px := r2.Point{X: 300, Y: 200}

	t.Run("no constraints", func(t *testing.T) {
		_, err := BackProject(px, ppm)
		test.That(t, errors.Is(err, ErrSingularSystem), test.ShouldBeTrue)
		var singular *SingularSystemError
		test.That(t, errors.As(err, &singular), test.ShouldBeTrue)
		test.That(t, singular.Rows, test.ShouldEqual, 2)
		test.That(t, err.Error(), test.ShouldContainSubstring, "(300, 200)")
	})

	t.Run("two dependent constraints", func(t *testing.T) {
		double := LinearConstraint{A: 2 * testPlane.A, B: 2 * testPlane.B, C: 2 * testPlane.C, D: 2 * testPlane.D}
		_, err := BackProject(px, ppm, testPlane, double)
		test.That(t, errors.Is(err, ErrSingularSystem), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "not square")
	})

	t.Run("constraint containing the ray", func(t *testing.T) {
		lhs, rhs := rayRows(px, ppm)
		ray := LinearConstraint{A: lhs[0].X, B: lhs[0].Y, C: lhs[0].Z, D: rhs[0]}
		_, err := BackProject(px, ppm, ray)
		test.That(t, errors.Is(err, ErrSingularSystem), test.ShouldBeTrue)
	})
}

func TestBackProjectMask(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ppm, err := ProjectionMatrix(testIntrinsics().Matrix(), testPose())
	test.That(t, err, test.ShouldBeNil)

	mask := image.NewGray(image.Rect(0, 0, 640, 480))
	mask.SetGray(320, 240, color.Gray{Y: 255})
	mask.SetGray(10, 470, color.Gray{Y: 255})

	rec, err := BackProjectMask(logger, mask, ppm, testPlane)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rec.Skipped, test.ShouldEqual, 0)
	test.That(t, rec.Points, test.ShouldHaveLength, 2)
	test.That(t, rec.Pixels, test.ShouldResemble, []r2.Point{{X: 320, Y: 240}, {X: 10, Y: 470}})
	for i, pt := range rec.Points {
		test.That(t, pt.Z, test.ShouldAlmostEqual, 0.3*pt.X-0.2*pt.Y+0.1, 1e-9)
		px, err := ProjectPoint(ppm, pt)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, px.X, test.ShouldAlmostEqual, rec.Pixels[i].X, 1e-6)
		test.That(t, px.Y, test.ShouldAlmostEqual, rec.Pixels[i].Y, 1e-6)
	}

	_, err = BackProjectMask(logger, mask, ppm)
	test.That(t, errors.Is(err, ErrSingularSystem), test.ShouldBeTrue)
}
