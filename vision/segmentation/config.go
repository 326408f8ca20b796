package segmentation

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	defaultPlaneMaxTrials         = 1000
	defaultPlaneResidualThreshold = 0.01
	defaultLineMaxTrials          = 100
	defaultStopProbability        = 0.99
	defaultInterceptThreshold     = 25.
	defaultSeed                   = 1
)

// PlaneFitConfig specifies the parameters of the robust plane fit.
type PlaneFitConfig struct {
	MaxTrials         int     `json:"max_trials"`
	ResidualThreshold float64 `json:"residual_threshold"`
	// StopProbability ends sampling early once a sample free of outliers has been drawn
	// with this confidence. 0 uses the default, 1 never stops early.
	StopProbability float64 `json:"stop_probability"`
	Seed            int64   `json:"seed"`
}

// DefaultPlaneFitConfig returns the parameters used when FitPlane receives a nil config.
func DefaultPlaneFitConfig() *PlaneFitConfig {
	return &PlaneFitConfig{
		MaxTrials:         defaultPlaneMaxTrials,
		ResidualThreshold: defaultPlaneResidualThreshold,
		StopProbability:   defaultStopProbability,
		Seed:              defaultSeed,
	}
}

// CheckValid checks if the fields for PlaneFitConfig have valid inputs.
func (cfg *PlaneFitConfig) CheckValid() error {
	var err error
	if cfg.MaxTrials <= 0 {
		err = multierr.Combine(err, errors.Errorf("max_trials must be greater than 0, got %d", cfg.MaxTrials))
	}
	if cfg.ResidualThreshold <= 0 {
		err = multierr.Combine(err, errors.Errorf("residual_threshold must be greater than 0, got %v", cfg.ResidualThreshold))
	}
	return multierr.Combine(err, checkStopProbability(cfg.StopProbability))
}

// LineFitConfig specifies the parameters of the robust line fit.
type LineFitConfig struct {
	MaxTrials int `json:"max_trials"`
	// ResidualThreshold of 0 uses the median absolute deviation of the y values.
	ResidualThreshold float64 `json:"residual_threshold"`
	StopProbability   float64 `json:"stop_probability"`
	Seed              int64   `json:"seed"`
}

// DefaultLineFitConfig returns the parameters used when FitLine receives a nil config.
func DefaultLineFitConfig() *LineFitConfig {
	return &LineFitConfig{
		MaxTrials:       defaultLineMaxTrials,
		StopProbability: defaultStopProbability,
		Seed:            defaultSeed,
	}
}

// CheckValid checks if the fields for LineFitConfig have valid inputs.
func (cfg *LineFitConfig) CheckValid() error {
	var err error
	if cfg.MaxTrials <= 0 {
		err = multierr.Combine(err, errors.Errorf("max_trials must be greater than 0, got %d", cfg.MaxTrials))
	}
	if cfg.ResidualThreshold < 0 {
		err = multierr.Combine(err, errors.Errorf("residual_threshold cannot be less than 0, got %v", cfg.ResidualThreshold))
	}
	return multierr.Combine(err, checkStopProbability(cfg.StopProbability))
}

// SplitConfig specifies the parameters of SplitMask. Both line fits use Line.
type SplitConfig struct {
	Line *LineFitConfig `json:"line"`
	// InterceptThreshold is how far the second line's intercept must be from the first's.
	InterceptThreshold float64 `json:"intercept_threshold"`
}

// DefaultSplitConfig returns the parameters used when SplitMask receives a nil config.
func DefaultSplitConfig() *SplitConfig {
	return &SplitConfig{Line: DefaultLineFitConfig(), InterceptThreshold: defaultInterceptThreshold}
}

// CheckValid checks if the fields for SplitConfig have valid inputs.
func (cfg *SplitConfig) CheckValid() error {
	var err error
	if cfg.Line == nil {
		err = errors.New("line config is required")
	} else {
		err = cfg.Line.CheckValid()
	}
	if cfg.InterceptThreshold < 0 {
		err = multierr.Combine(err, errors.Errorf("intercept_threshold cannot be less than 0, got %v", cfg.InterceptThreshold))
	}
	return err
}

func checkStopProbability(p float64) error {
	if p < 0 || p > 1 {
		return errors.Errorf("stop_probability must be between 0 and 1, got %v", p)
	}
	return nil
}

func stopProbabilityOrDefault(p float64) float64 {
	if p == 0 {
		return defaultStopProbability
	}
	return p
}
