package stats

import (
	"fmt"
	"slices"
)

// DefaultBinCount is the bin count used when callers pass 0.
const DefaultBinCount = 30

// Bin is one histogram bucket over [Lower, Upper). The last bin includes its
// upper edge so the sample maximum is counted.
type Bin struct {
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Frequency int     `json:"frequency"`
	Density   float64 `json:"density"`
}

// Histogram partitions [min, max] into equal-width bins.
type Histogram struct {
	Bins     []Bin   `json:"bins"`
	BinWidth float64 `json:"bin_width"`
}

// NewHistogram bins a sample into binCount equal-width buckets. A sample with
// zero range degenerates to a single bin whose density equals its frequency.
func NewHistogram(values []float64, binCount int) (*Histogram, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: histogram of zero samples", ErrEmptyDataset)
	}
	if binCount <= 0 {
		binCount = DefaultBinCount
	}

	lo := slices.Min(values)
	hi := slices.Max(values)

	if hi == lo {
		return &Histogram{
			Bins:     []Bin{{Lower: lo, Upper: hi, Frequency: len(values), Density: float64(len(values))}},
			BinWidth: 0,
		}, nil
	}

	width := (hi - lo) / float64(binCount)
	bins := make([]Bin, binCount)
	for i := range bins {
		bins[i].Lower = lo + float64(i)*width
		bins[i].Upper = lo + float64(i+1)*width
	}
	bins[binCount-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= binCount {
			idx = binCount - 1
		}
		bins[idx].Frequency++
	}

	for i := range bins {
		bins[i].Density = float64(bins[i].Frequency) / width
	}

	return &Histogram{Bins: bins, BinWidth: width}, nil
}
