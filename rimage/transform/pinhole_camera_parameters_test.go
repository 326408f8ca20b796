package transform

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestPinholeCameraIntrinsicsCheckValid(t *testing.T) {
	var params *PinholeCameraIntrinsics
	test.That(t, errors.Is(params.CheckValid(), ErrNoIntrinsics), test.ShouldBeTrue)

	params = testIntrinsics()
	test.That(t, params.CheckValid(), test.ShouldBeNil)

	params.Fx = 0
	test.That(t, params.CheckValid().Error(), test.ShouldContainSubstring, "Invalid focal length Fx")
	params.Fx, params.Width = 800, 0
	test.That(t, params.CheckValid().Error(), test.ShouldContainSubstring, "Invalid size")
}

func TestIntrinsicsMatrixRoundTrip(t *testing.T) {
	params := testIntrinsics()
	k := params.Matrix()
	test.That(t, k.At(0, 0), test.ShouldEqual, 800.)
	test.That(t, k.At(1, 2), test.ShouldEqual, 240.)
	test.That(t, k.At(2, 2), test.ShouldEqual, 1.)

	back, err := NewPinholeCameraIntrinsicsFromMatrix(k, 640, 480)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back, test.ShouldResemble, params)

	k.Set(0, 1, 0.5)
	_, err = NewPinholeCameraIntrinsicsFromMatrix(k, 640, 480)
	test.That(t, err.Error(), test.ShouldContainSubstring, "skew")

	_, err = NewPinholeCameraIntrinsicsFromMatrix(mat.NewDense(2, 2, nil), 640, 480)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewPinholeCameraIntrinsicsFromJSONFile(t *testing.T) {
	path := writeTempFile(t, "intrinsics.json", `{"width_px": 640, "height_px": 480, "fx": 800, "fy": 820, "ppx": 320, "ppy": 240}`)
	params, err := NewPinholeCameraIntrinsicsFromJSONFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, params, test.ShouldResemble, testIntrinsics())
}
