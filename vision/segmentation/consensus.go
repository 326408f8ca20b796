package segmentation

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"go.viam.com/planarscan/logging"
	"go.viam.com/planarscan/utils"
)

// consensus describes one random sample consensus problem over samples of type T
// producing models of type M.
type consensus[T, M any] struct {
	name            string
	samples         []T
	minSamples      int
	maxTrials       int
	threshold       float64
	stopProbability float64
	seed            int64

	// fit is a least squares fit of M to the given samples.
	fit      func([]T) (M, error)
	residual func(M, T) float64
	// validSample rejects a minimal sample before fitting. nil accepts all.
	validSample func([]T) bool
	// validModel rejects a fitted candidate given the sample it came from. nil accepts all.
	validModel func(M, []T) bool
}

type consensusResult[M any] struct {
	model   M
	inliers []bool
	trials  int
}

// skip reasons, reported when no candidate is found
type consensusStats struct {
	invalidSamples int
	failedFits     int
	rejectedModels int
	noInliers      int
}

func (s consensusStats) String() string {
	return fmt.Sprintf("%d invalid samples, %d singular fits, %d models rejected by the validity predicate, %d models without inliers",
		s.invalidSamples, s.failedFits, s.rejectedModels, s.noInliers)
}

// dynamicMaxTrials returns the number of trials needed to draw at least one outlier free
// sample with the given probability, assuming nInliers of nSamples are inliers.
func dynamicMaxTrials(nInliers, nSamples, minSamples int, probability float64) float64 {
	const eps = 1e-16
	inlierRatio := float64(nInliers) / float64(nSamples)
	nom := math.Max(eps, 1-probability)
	denom := math.Max(eps, 1-math.Pow(inlierRatio, float64(minSamples)))
	if nom == 1 {
		return 0
	}
	if denom == 1 {
		return math.Inf(1)
	}
	return math.Abs(math.Ceil(math.Log(nom) / math.Log(denom)))
}

// run samples minimal subsets, keeps the fitted candidate with the most inliers (ties go
// to the smaller inlier residual sum of squares) and refits it on its inliers. If the
// refit fails or is rejected by validModel the winning candidate is returned instead.
func (c *consensus[T, M]) run(logger logging.Logger) (*consensusResult[M], error) {
	n := len(c.samples)
	if n < c.minSamples {
		return nil, &FitFailureError{
			Model:  c.name,
			Reason: fmt.Sprintf("need at least %d points, got %d", c.minSamples, n),
		}
	}

	r := rand.New(rand.NewSource(c.seed))
	scratch := utils.Range(n)
	subset := make([]T, c.minSamples)
	residuals := make([]float64, n)

	var (
		stats      consensusStats
		found      bool
		best       M
		bestMask   []bool
		bestCount  int
		bestSSE    float64
		trials     int
		trialLimit = float64(c.maxTrials)
	)
	for trials = 0; trials < c.maxTrials && float64(trials) < trialLimit; trials++ {
		for i, idx := range utils.SampleDistinctInts(c.minSamples, scratch, r) {
			subset[i] = c.samples[idx]
		}
		if c.validSample != nil && !c.validSample(subset) {
			stats.invalidSamples++
			continue
		}
		model, err := c.fit(subset)
		if err != nil {
			stats.failedFits++
			continue
		}
		if c.validModel != nil && !c.validModel(model, subset) {
			stats.rejectedModels++
			continue
		}

		count := 0
		for i, s := range c.samples {
			residuals[i] = c.residual(model, s)
			if residuals[i] <= c.threshold {
				count++
			}
		}
		if count == 0 {
			stats.noInliers++
			continue
		}
		if count < bestCount {
			continue
		}
		mask := make([]bool, n)
		inlierResiduals := make([]float64, 0, count)
		for i, res := range residuals {
			if res <= c.threshold {
				mask[i] = true
				inlierResiduals = append(inlierResiduals, res*res)
			}
		}
		sse := floats.Sum(inlierResiduals)
		if count == bestCount && sse >= bestSSE {
			continue
		}
		found, best, bestMask, bestCount, bestSSE = true, model, mask, count, sse
		trialLimit = dynamicMaxTrials(bestCount, n, c.minSamples, c.stopProbability)
	}

	if !found {
		return nil, &FitFailureError{
			Model:  c.name,
			Trials: trials,
			Reason: "trial budget exhausted without a valid candidate: " + stats.String(),
		}
	}

	inlierSamples := make([]T, 0, bestCount)
	for i, s := range c.samples {
		if bestMask[i] {
			inlierSamples = append(inlierSamples, s)
		}
	}
	final, err := c.fit(inlierSamples)
	switch {
	case err != nil:
		logger.Debugw("refit on inliers failed, keeping candidate", "model", c.name, "error", err)
		final = best
	case c.validModel != nil && !c.validModel(final, inlierSamples):
		logger.Debugw("refit on inliers rejected, keeping candidate", "model", c.name)
		final = best
	}

	logger.Debugw("consensus fit",
		"model", c.name,
		"trials", trials,
		"points", n,
		"inliers", bestCount,
		"threshold", c.threshold,
		"invalid_samples", stats.invalidSamples,
		"rejected_models", stats.rejectedModels)
	return &consensusResult[M]{model: final, inliers: bestMask, trials: trials}, nil
}
