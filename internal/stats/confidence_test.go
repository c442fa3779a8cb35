package stats

import (
	"errors"
	"math"
	"testing"
)

func TestNewConfidenceInterval(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	m := 5.0
	stdDev := math.Sqrt(32.0 / 7.0)

	ci, err := NewConfidenceInterval(values, 95)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	margin := 1.960 * stdDev / math.Sqrt(8)
	if math.Abs(ci.Lower-(m-margin)) > 1e-9 {
		t.Errorf("Expected lower %f, got %f", m-margin, ci.Lower)
	}
	if math.Abs(ci.Upper-(m+margin)) > 1e-9 {
		t.Errorf("Expected upper %f, got %f", m+margin, ci.Upper)
	}
	if ci.Level != 95 {
		t.Errorf("Expected level 95, got %d", ci.Level)
	}
}

func TestNewConfidenceInterval_WidensWithLevel(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	var prev float64
	for _, level := range []int{90, 95, 99} {
		ci, err := NewConfidenceInterval(values, level)
		if err != nil {
			t.Fatal(err)
		}
		width := ci.Upper - ci.Lower
		if width <= prev {
			t.Errorf("Expected level %d interval wider than the previous, got %f <= %f", level, width, prev)
		}
		prev = width
	}
}

func TestNewConfidenceInterval_UnsupportedLevel(t *testing.T) {
	if _, err := NewConfidenceInterval([]float64{1, 2}, 85); err == nil {
		t.Error("Expected error for unsupported level")
	}
}

func TestNewConfidenceInterval_Empty(t *testing.T) {
	_, err := NewConfidenceInterval(nil, 95)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset, got %v", err)
	}
}
