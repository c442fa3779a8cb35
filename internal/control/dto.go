package control

import (
	"fmt"
	"time"

	"lanesim/internal/distribution"
	"lanesim/internal/lane"
	"lanesim/internal/simulation"
	"lanesim/internal/stats"
)

// Wire forms of the caller-owned records. Conversion validates distribution
// specs up front, so malformed input is rejected before a run starts.

type factorDTO struct {
	Name           string                `json:"name"`
	Category       string                `json:"category"`
	MeanMultiplier float64               `json:"mean_multiplier"`
	Distribution   distribution.SpecJSON `json:"distribution"`
	Enabled        *bool                 `json:"enabled"`
}

type congestionDTO struct {
	Name         string  `json:"name"`
	Probability  float64 `json:"probability"`
	DelayPattern string  `json:"delay_pattern"`
}

type segmentDTO struct {
	Name         string                `json:"name"`
	BaselineDays float64               `json:"baseline_days"`
	Distribution distribution.SpecJSON `json:"distribution"`
	Congestion   []congestionDTO       `json:"congestion"`
}

type laneDTO struct {
	Origin               string       `json:"origin"`
	Destination          string       `json:"destination"`
	IndexValue           float64      `json:"index_value"`
	LaneRatio            float64      `json:"lane_ratio"`
	HistoricalVolatility float64      `json:"historical_volatility"`
	Factors              []factorDTO  `json:"factors"`
	Segments             []segmentDTO `json:"segments"`
}

type quoteDTO struct {
	Rate       float64 `json:"rate"`
	ValidUntil string  `json:"valid_until"`
}

func (d laneDTO) toLane() (lane.Lane, error) {
	l := lane.Lane{
		Origin:               d.Origin,
		Destination:          d.Destination,
		IndexValue:           d.IndexValue,
		LaneRatio:            d.LaneRatio,
		HistoricalVolatility: d.HistoricalVolatility,
	}

	for _, f := range d.Factors {
		spec, err := f.Distribution.Spec()
		if err != nil {
			return lane.Lane{}, fmt.Errorf("factor %q: %w", f.Name, err)
		}
		enabled := true
		if f.Enabled != nil {
			enabled = *f.Enabled
		}
		l.Factors = append(l.Factors, lane.RateFactor{
			Name:           f.Name,
			Category:       f.Category,
			MeanMultiplier: f.MeanMultiplier,
			Distribution:   spec,
			Enabled:        enabled,
		})
	}

	for _, s := range d.Segments {
		spec, err := s.Distribution.Spec()
		if err != nil {
			return lane.Lane{}, fmt.Errorf("segment %q: %w", s.Name, err)
		}
		seg := lane.TransitSegment{
			Name:         s.Name,
			BaselineDays: s.BaselineDays,
			Distribution: spec,
		}
		for _, c := range s.Congestion {
			seg.Congestion = append(seg.Congestion, lane.CongestionScenario{
				Name:         c.Name,
				Probability:  c.Probability,
				DelayPattern: c.DelayPattern,
			})
		}
		l.Segments = append(l.Segments, seg)
	}

	if err := l.Validate(); err != nil {
		return lane.Lane{}, err
	}
	return l, nil
}

func (d quoteDTO) toQuote() (lane.Quote, error) {
	q := lane.Quote{Rate: d.Rate}
	if d.ValidUntil != "" {
		t, err := time.Parse(time.RFC3339, d.ValidUntil)
		if err != nil {
			return lane.Quote{}, fmt.Errorf("%w: valid_until: %v", lane.ErrInvalidRecord, err)
		}
		q.ValidUntil = t
	}
	if err := q.Validate(); err != nil {
		return lane.Quote{}, err
	}
	return q, nil
}

// simulationResult is the statistics bundle handed back for a finished sweep.
type simulationResult struct {
	State          string                    `json:"state"`
	Iterations     int                       `json:"iterations"`
	RateSummary    *stats.Summary            `json:"rate_summary"`
	CostSummary    *stats.Summary            `json:"cost_summary"`
	RateHistogram  *stats.Histogram          `json:"rate_histogram"`
	RateOutliers   *stats.OutlierReport      `json:"rate_outliers"`
	RateConfidence *stats.ConfidenceInterval `json:"rate_confidence_95"`
	Outcomes       []simulation.Outcome      `json:"outcomes,omitempty"`
}

func (s *Server) buildResult(outcomes []simulation.Outcome, includeOutcomes bool) (*simulationResult, error) {
	rates := simulation.Rates(outcomes)
	costs := simulation.LandedCosts(outcomes)

	rateSummary, err := stats.Summarize(rates)
	if err != nil {
		return nil, err
	}
	costSummary, err := stats.Summarize(costs)
	if err != nil {
		return nil, err
	}
	histogram, err := stats.NewHistogram(rates, s.cfg.HistogramBins)
	if err != nil {
		return nil, err
	}
	outliers, err := stats.DetectOutliers(rates)
	if err != nil {
		return nil, err
	}
	ci, err := stats.NewConfidenceInterval(rates, 95)
	if err != nil {
		return nil, err
	}

	result := &simulationResult{
		State:          string(simulation.StateCompleted),
		Iterations:     len(outcomes),
		RateSummary:    rateSummary,
		CostSummary:    costSummary,
		RateHistogram:  histogram,
		RateOutliers:   outliers,
		RateConfidence: ci,
	}
	if includeOutcomes {
		result.Outcomes = outcomes
	}
	return result, nil
}
