package segmentation

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/planarscan/utils"
)

func TestPlaneFitConfig(t *testing.T) {
	cfg := PlaneFitConfig{}
	err := cfg.CheckValid()
	test.That(t, err.Error(), test.ShouldContainSubstring, "max_trials must be greater than 0")
	test.That(t, err.Error(), test.ShouldContainSubstring, "residual_threshold must be greater than 0")
	// invalid stop probability
	cfg.MaxTrials = 10
	cfg.ResidualThreshold = 0.1
	cfg.StopProbability = 2
	err = cfg.CheckValid()
	test.That(t, err.Error(), test.ShouldContainSubstring, "stop_probability must be between 0 and 1")
	// valid
	cfg.StopProbability = 0.9
	test.That(t, cfg.CheckValid(), test.ShouldBeNil)
	test.That(t, DefaultPlaneFitConfig().CheckValid(), test.ShouldBeNil)
}

func TestLineFitConfig(t *testing.T) {
	cfg := LineFitConfig{MaxTrials: 5, ResidualThreshold: -1}
	test.That(t, cfg.CheckValid().Error(), test.ShouldContainSubstring, "residual_threshold cannot be less than 0")
	cfg.ResidualThreshold = 0
	test.That(t, cfg.CheckValid(), test.ShouldBeNil)

	_, err := FitLine(nil, []r2.Point{{X: 1}, {X: 2}}, &LineFitConfig{}, nil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "max_trials must be greater than 0")
}

func TestSplitConfigJSON(t *testing.T) {
	var cfg SplitConfig
	err := json.Unmarshal([]byte(`{"line": {"max_trials": 50, "seed": 9}, "intercept_threshold": 30}`), &cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.CheckValid(), test.ShouldBeNil)
	test.That(t, cfg.Line.MaxTrials, test.ShouldEqual, 50)
	test.That(t, cfg.Line.Seed, test.ShouldEqual, int64(9))
	test.That(t, cfg.InterceptThreshold, test.ShouldEqual, 30.)

	cfg.Line = nil
	cfg.InterceptThreshold = -1
	err = cfg.CheckValid()
	test.That(t, err.Error(), test.ShouldContainSubstring, "line config is required")
	test.That(t, err.Error(), test.ShouldContainSubstring, "intercept_threshold cannot be less than 0")
}

func TestPartition(t *testing.T) {
	_, err := NewPartition([]int{1, 2, 3}, []bool{true})
	test.That(t, errors.Is(err, utils.ErrShapeMismatch), test.ShouldBeTrue)

	p, err := NewPartition([]string{"a", "b", "c", "d"}, []bool{true, false, false, true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Len(), test.ShouldEqual, 4)
	test.That(t, p.NumInliers(), test.ShouldEqual, 2)
	test.That(t, p.Inliers(), test.ShouldResemble, []string{"a", "d"})
	test.That(t, p.Outliers(), test.ShouldResemble, []string{"b", "c"})
	test.That(t, p.IsInlier(2), test.ShouldBeFalse)
}

func TestDynamicMaxTrials(t *testing.T) {
	test.That(t, dynamicMaxTrials(10, 10, 2, 0.99), test.ShouldEqual, 1.)
	// log(0.01) / log(1 - 0.5^2) = 16.008
	test.That(t, dynamicMaxTrials(50, 100, 2, 0.99), test.ShouldEqual, 17.)
	test.That(t, dynamicMaxTrials(0, 100, 2, 0.99), test.ShouldEqual, math.Inf(1))
	test.That(t, dynamicMaxTrials(50, 100, 2, 0), test.ShouldEqual, 0.)
}
