// Package stats computes descriptive statistics over a simulated outcome set.
// Every entry point fails explicitly on an empty sample; nothing here returns
// silent zeros for missing data.
package stats

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrEmptyDataset is returned when statistics are requested on zero samples.
var ErrEmptyDataset = errors.New("empty dataset")

// Percentile computes the p-th percentile (0..100) using linear interpolation
// between the two bracketing order statistics of the sorted sample.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: percentile of zero samples", ErrEmptyDataset)
	}
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("percentile %.2f outside [0, 100]", p)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	slices.Sort(sorted)

	return percentileSorted(sorted, p), nil
}

// percentileSorted assumes a non-empty, ascending sample.
func percentileSorted(sorted []float64, p float64) float64 {
	idx := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleVariance uses the n-1 denominator. A single sample has variance 0.
func sampleVariance(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values)-1)
}
