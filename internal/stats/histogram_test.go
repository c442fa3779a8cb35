package stats

import (
	"errors"
	"math"
	"testing"
)

func TestNewHistogram(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	h, err := NewHistogram(values, 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(h.Bins) != 5 {
		t.Fatalf("Expected 5 bins, got %d", len(h.Bins))
	}
	if h.BinWidth != 2 {
		t.Errorf("Expected bin width 2, got %f", h.BinWidth)
	}

	total := 0
	for _, b := range h.Bins {
		total += b.Frequency
	}
	if total != len(values) {
		t.Errorf("Expected frequencies to sum to %d, got %d", len(values), total)
	}

	// The maximum falls in the last bin, not past it.
	last := h.Bins[len(h.Bins)-1]
	if last.Frequency == 0 {
		t.Error("Expected the sample maximum to be counted in the last bin")
	}
	if last.Upper != 10 {
		t.Errorf("Expected last bin upper edge 10, got %f", last.Upper)
	}

	for i, b := range h.Bins {
		if math.Abs(b.Density-float64(b.Frequency)/h.BinWidth) > 1e-9 {
			t.Errorf("Bin %d: density %f inconsistent with frequency %d", i, b.Density, b.Frequency)
		}
	}
}

func TestNewHistogram_DefaultBinCount(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}

	h, err := NewHistogram(values, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Bins) != DefaultBinCount {
		t.Errorf("Expected %d bins for binCount 0, got %d", DefaultBinCount, len(h.Bins))
	}
}

func TestNewHistogram_ZeroRange(t *testing.T) {
	h, err := NewHistogram([]float64{3, 3, 3}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Bins) != 1 {
		t.Fatalf("Expected a single degenerate bin, got %d", len(h.Bins))
	}
	b := h.Bins[0]
	if b.Lower != 3 || b.Upper != 3 || b.Frequency != 3 || b.Density != 3 {
		t.Errorf("Unexpected degenerate bin: %+v", b)
	}
}

func TestNewHistogram_Empty(t *testing.T) {
	_, err := NewHistogram(nil, 10)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset, got %v", err)
	}
}
