package segmentation

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrFitFailure is wrapped by every FitFailureError.
var ErrFitFailure = errors.New("robust fit failed")

// FitFailureError is returned when a robust fit cannot produce a model, either because
// there are too few points or because no trial produced an acceptable candidate.
type FitFailureError struct {
	Model  string
	Trials int
	Reason string
}

func (e *FitFailureError) Error() string {
	if e.Trials == 0 {
		return fmt.Sprintf("%s fit failed: %s", e.Model, e.Reason)
	}
	return fmt.Sprintf("%s fit failed after %d trials: %s", e.Model, e.Trials, e.Reason)
}

// Unwrap returns ErrFitFailure.
func (e *FitFailureError) Unwrap() error {
	return ErrFitFailure
}
