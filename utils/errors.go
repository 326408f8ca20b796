package utils

import (
	"github.com/pkg/errors"
)

// ErrShapeMismatch is returned when index-aligned sequences do not have the same length.
var ErrShapeMismatch = errors.New("shape mismatch")

// NewShapeMismatchError is used when two sequences that must correspond index by index
// have different lengths. what names the pair, e.g. "object/image points".
func NewShapeMismatchError(what string, a, b int) error {
	return errors.Wrapf(ErrShapeMismatch, "%s: lengths %d and %d differ", what, a, b)
}
