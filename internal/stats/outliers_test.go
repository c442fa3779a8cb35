package stats

import (
	"errors"
	"testing"
)

func TestDetectOutliers(t *testing.T) {
	// A tight cluster plus one far point.
	values := []float64{10, 11, 12, 13, 14, 100}

	report, err := DetectOutliers(values)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if report.Count != 1 {
		t.Fatalf("Expected 1 outlier, got %d (%v)", report.Count, report.Outliers)
	}
	if report.Outliers[0] != 100 {
		t.Errorf("Expected outlier 100, got %f", report.Outliers[0])
	}
	if report.LowerBound >= report.UpperBound {
		t.Errorf("Expected lower bound below upper bound, got [%f, %f]", report.LowerBound, report.UpperBound)
	}
}

func TestDetectOutliers_None(t *testing.T) {
	report, err := DetectOutliers([]float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	if report.Count != 0 {
		t.Errorf("Expected no outliers, got %v", report.Outliers)
	}
	if report.Outliers == nil {
		t.Error("Expected an empty slice, not nil")
	}
}

func TestDetectOutliers_Empty(t *testing.T) {
	_, err := DetectOutliers(nil)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset, got %v", err)
	}
}
