package stats

import (
	"errors"
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	values := []float64{10, 2, 8, 4, 6} // unsorted on purpose

	tests := []struct {
		p        float64
		expected float64
	}{
		{0, 2},
		{25, 4},
		{50, 6},
		{75, 8},
		{100, 10},
		{62.5, 7}, // interpolated between 6 and 8
	}

	for _, tt := range tests {
		got, err := Percentile(values, tt.p)
		if err != nil {
			t.Fatalf("P%.1f: unexpected error: %v", tt.p, err)
		}
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("P%.1f: expected %f, got %f", tt.p, tt.expected, got)
		}
	}
}

func TestPercentile_MedianEvenCount(t *testing.T) {
	got, err := Percentile([]float64{1, 2, 3, 4}, 50)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2.5 {
		t.Errorf("Expected median 2.5 for even count, got %f", got)
	}
}

func TestPercentile_Empty(t *testing.T) {
	_, err := Percentile(nil, 50)
	if err == nil {
		t.Fatal("Expected error on empty input")
	}
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset, got %v", err)
	}
}

func TestPercentile_OutOfRange(t *testing.T) {
	if _, err := Percentile([]float64{1}, -1); err == nil {
		t.Error("Expected error for p < 0")
	}
	if _, err := Percentile([]float64{1}, 101); err == nil {
		t.Error("Expected error for p > 100")
	}
}

func TestPercentile_SingleValue(t *testing.T) {
	for _, p := range []float64{0, 50, 100} {
		got, err := Percentile([]float64{7}, p)
		if err != nil {
			t.Fatal(err)
		}
		if got != 7 {
			t.Errorf("P%.0f of single value: expected 7, got %f", p, got)
		}
	}
}

func TestSampleVariance(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	m := mean(values)
	if m != 5 {
		t.Fatalf("Expected mean 5, got %f", m)
	}
	// Sum of squared deviations is 32; n-1 is 7.
	if got := sampleVariance(values, m); math.Abs(got-32.0/7.0) > 1e-9 {
		t.Errorf("Expected variance %f, got %f", 32.0/7.0, got)
	}

	if got := sampleVariance([]float64{3}, 3); got != 0 {
		t.Errorf("Expected single-sample variance 0, got %f", got)
	}
}
