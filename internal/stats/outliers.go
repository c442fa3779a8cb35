package stats

import (
	"fmt"
	"slices"
)

// OutlierReport holds the IQR fences and the values falling outside them.
type OutlierReport struct {
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
	Outliers   []float64 `json:"outliers"`
	Count      int       `json:"count"`
}

// DetectOutliers applies the 1.5×IQR rule: values outside
// [p25 − 1.5·IQR, p75 + 1.5·IQR] are outliers.
func DetectOutliers(values []float64) (*OutlierReport, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: outlier detection on zero samples", ErrEmptyDataset)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	slices.Sort(sorted)

	p25 := percentileSorted(sorted, 25)
	p75 := percentileSorted(sorted, 75)
	iqr := p75 - p25

	report := &OutlierReport{
		LowerBound: p25 - 1.5*iqr,
		UpperBound: p75 + 1.5*iqr,
		Outliers:   []float64{},
	}
	for _, v := range values {
		if v < report.LowerBound || v > report.UpperBound {
			report.Outliers = append(report.Outliers, v)
		}
	}
	report.Count = len(report.Outliers)
	return report, nil
}
