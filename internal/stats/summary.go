package stats

import (
	"fmt"
	"math"
	"slices"
)

// Percentiles are the standard cut points reported for a sample.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// Summary is a read-only description of a sample. It is recomputed from an
// outcome set, never mutated in place.
type Summary struct {
	Mean        float64     `json:"mean"`
	Median      float64     `json:"median"`
	Mode        *float64    `json:"mode"` // nil when no value repeats
	Variance    float64     `json:"variance"`
	StdDev      float64     `json:"std_dev"`
	Min         float64     `json:"min"`
	Max         float64     `json:"max"`
	Range       float64     `json:"range"`
	Percentiles Percentiles `json:"percentiles"`
	Skewness    float64     `json:"skewness"`
	Kurtosis    float64     `json:"kurtosis"`
	Count       int         `json:"count"`
}

// Summarize computes the full descriptive summary of a sample.
func Summarize(values []float64) (*Summary, error) {
	n := len(values)
	if n == 0 {
		return nil, fmt.Errorf("%w: summary of zero samples", ErrEmptyDataset)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	slices.Sort(sorted)

	m := mean(sorted)
	variance := sampleVariance(sorted, m)
	stdDev := math.Sqrt(variance)

	s := &Summary{
		Mean:     m,
		Median:   percentileSorted(sorted, 50),
		Mode:     mode(sorted),
		Variance: variance,
		StdDev:   stdDev,
		Min:      sorted[0],
		Max:      sorted[n-1],
		Range:    sorted[n-1] - sorted[0],
		Percentiles: Percentiles{
			P5:  percentileSorted(sorted, 5),
			P10: percentileSorted(sorted, 10),
			P25: percentileSorted(sorted, 25),
			P50: percentileSorted(sorted, 50),
			P75: percentileSorted(sorted, 75),
			P90: percentileSorted(sorted, 90),
			P95: percentileSorted(sorted, 95),
		},
		Skewness: skewness(sorted, m, stdDev),
		Kurtosis: kurtosis(sorted, m, stdDev),
		Count:    n,
	}
	return s, nil
}

// mode returns the most frequent value by exact equality, or nil when no
// value occurs more than once. Ties resolve to the smallest value.
func mode(sorted []float64) *float64 {
	bestCount := 1
	var best float64

	i := 0
	for i < len(sorted) {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestCount {
			bestCount = j - i
			best = sorted[i]
		}
		i = j
	}

	if bestCount < 2 {
		return nil
	}
	return &best
}

// skewness is the bias-adjusted sample skewness (G1). Zero spread or fewer
// than three samples yield 0.
func skewness(values []float64, mean, stdDev float64) float64 {
	n := float64(len(values))
	if stdDev == 0 || n < 3 {
		return 0
	}
	var sum float64
	for _, v := range values {
		z := (v - mean) / stdDev
		sum += z * z * z
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// kurtosis is the bias-adjusted sample excess kurtosis (G2). Zero spread or
// fewer than four samples yield 0.
func kurtosis(values []float64, mean, stdDev float64) float64 {
	n := float64(len(values))
	if stdDev == 0 || n < 4 {
		return 0
	}
	var sum float64
	for _, v := range values {
		z := (v - mean) / stdDev
		sum += z * z * z * z
	}
	return n*(n+1)/((n-1)*(n-2)*(n-3))*sum - 3*(n-1)*(n-1)/((n-2)*(n-3))
}
