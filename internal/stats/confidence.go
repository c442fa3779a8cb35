package stats

import (
	"fmt"
	"math"
)

// zScores are the two-sided critical values for the supported confidence
// levels.
var zScores = map[int]float64{
	90: 1.645,
	95: 1.960,
	99: 2.576,
}

// ConfidenceInterval is a large-sample normal-approximation interval for the
// mean. It is NOT a t-interval: on small samples its coverage is weaker than
// the nominal level.
type ConfidenceInterval struct {
	Level int     `json:"level"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NewConfidenceInterval computes mean ± z(level) · stdDev/√n for level 90, 95
// or 99.
func NewConfidenceInterval(values []float64, level int) (*ConfidenceInterval, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: confidence interval on zero samples", ErrEmptyDataset)
	}
	z, ok := zScores[level]
	if !ok {
		return nil, fmt.Errorf("unsupported confidence level %d: choose 90, 95 or 99", level)
	}

	m := mean(values)
	stdDev := math.Sqrt(sampleVariance(values, m))
	margin := z * stdDev / math.Sqrt(float64(len(values)))

	return &ConfidenceInterval{
		Level: level,
		Lower: m - margin,
		Upper: m + margin,
	}, nil
}
