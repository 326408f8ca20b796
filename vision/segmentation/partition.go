package segmentation

import (
	"go.viam.com/planarscan/utils"
)

// Partition pairs a sample sequence with a same-length inlier mask.
type Partition[T any] struct {
	samples []T
	inliers []bool
}

// NewPartition returns the partition of samples given by inliers. The slices are not copied.
func NewPartition[T any](samples []T, inliers []bool) (*Partition[T], error) {
	if len(samples) != len(inliers) {
		return nil, utils.NewShapeMismatchError("samples/inlier mask", len(samples), len(inliers))
	}
	return &Partition[T]{samples: samples, inliers: inliers}, nil
}

// Len returns the number of samples.
func (p *Partition[T]) Len() int {
	return len(p.samples)
}

// Samples returns all samples in input order.
func (p *Partition[T]) Samples() []T {
	return p.samples
}

// Mask returns the inlier mask; Mask()[i] corresponds to Samples()[i].
func (p *Partition[T]) Mask() []bool {
	return p.inliers
}

// IsInlier reports whether sample i is an inlier.
func (p *Partition[T]) IsInlier(i int) bool {
	return p.inliers[i]
}

// NumInliers returns the number of inliers.
func (p *Partition[T]) NumInliers() int {
	n := 0
	for _, in := range p.inliers {
		if in {
			n++
		}
	}
	return n
}

// Inliers returns the inlier samples in input order.
func (p *Partition[T]) Inliers() []T {
	return p.pick(true)
}

// Outliers returns the outlier samples in input order.
func (p *Partition[T]) Outliers() []T {
	return p.pick(false)
}

func (p *Partition[T]) pick(want bool) []T {
	out := make([]T, 0, len(p.samples))
	for i, s := range p.samples {
		if p.inliers[i] == want {
			out = append(out, s)
		}
	}
	return out
}
