// Package lane holds the caller-owned records the simulation core consumes:
// shipping lanes with their configured rate factors and transit segments, and
// observed price quotes. The core reads these records and never mutates them.
package lane

import (
	"errors"
	"fmt"
	"time"

	"lanesim/internal/distribution"
)

// ErrInvalidRecord is returned when a caller-supplied lane or quote record
// fails boundary validation.
var ErrInvalidRecord = errors.New("invalid record")

// RateFactor is one multiplicative source of rate uncertainty on a lane
// (fuel surcharge, capacity tightness, seasonality...). Disabled factors
// contribute a multiplier of exactly 1.0.
type RateFactor struct {
	Name           string
	Category       string
	MeanMultiplier float64
	Distribution   distribution.Spec
	Enabled        bool
}

// CongestionScenario is carried on a segment for display purposes. The core
// sampling math does not consume it.
type CongestionScenario struct {
	Name         string
	Probability  float64
	DelayPattern string
}

// TransitSegment is one leg of a lane's route. Its distribution describes the
// realized duration around BaselineDays and must be Normal or LogNormal.
type TransitSegment struct {
	Name         string
	BaselineDays float64
	Distribution distribution.Spec
	Congestion   []CongestionScenario
}

// Lane is an origin/destination pairing with a market-index baseline and
// configured uncertainty.
type Lane struct {
	Origin               string
	Destination          string
	IndexValue           float64
	LaneRatio            float64
	HistoricalVolatility float64
	Factors              []RateFactor
	Segments             []TransitSegment
}

// Quote is an observed carrier price for a lane.
type Quote struct {
	Rate       float64
	ValidUntil time.Time
}

// Baseline is the lane's market baseline rate: index value times lane ratio.
func (l Lane) Baseline() float64 {
	return l.IndexValue * l.LaneRatio
}

// Validate checks the lane record at the core's boundary.
func (l Lane) Validate() error {
	if l.IndexValue <= 0 {
		return fmt.Errorf("%w: lane index value %.6f <= 0", ErrInvalidRecord, l.IndexValue)
	}
	if l.LaneRatio <= 0 {
		return fmt.Errorf("%w: lane ratio %.6f <= 0", ErrInvalidRecord, l.LaneRatio)
	}
	if l.HistoricalVolatility < 0 {
		return fmt.Errorf("%w: lane volatility %.6f < 0", ErrInvalidRecord, l.HistoricalVolatility)
	}
	for _, f := range l.Factors {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	for _, s := range l.Segments {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the quote record at the core's boundary.
func (q Quote) Validate() error {
	if q.Rate <= 0 {
		return fmt.Errorf("%w: quote rate %.6f <= 0", ErrInvalidRecord, q.Rate)
	}
	return nil
}

// Validate checks a factor's invariants: non-negative multiplier and a valid
// distribution spec.
func (f RateFactor) Validate() error {
	if f.MeanMultiplier < 0 {
		return fmt.Errorf("%w: factor %q mean multiplier %.6f < 0", distribution.ErrInvalidSpec, f.Name, f.MeanMultiplier)
	}
	if f.Distribution == nil {
		return fmt.Errorf("%w: factor %q has no distribution", distribution.ErrInvalidSpec, f.Name)
	}
	return f.Distribution.Validate()
}

// Validate checks a segment's invariants: positive baseline and a valid
// Normal or LogNormal distribution.
func (s TransitSegment) Validate() error {
	if s.BaselineDays <= 0 {
		return fmt.Errorf("%w: segment %q baseline %.6f days <= 0", distribution.ErrInvalidSpec, s.Name, s.BaselineDays)
	}
	switch s.Distribution.(type) {
	case distribution.Normal, distribution.LogNormal:
	case nil:
		return fmt.Errorf("%w: segment %q has no distribution", distribution.ErrInvalidSpec, s.Name)
	default:
		return fmt.Errorf("%w: segment %q distribution must be normal or lognormal", distribution.ErrInvalidSpec, s.Name)
	}
	for _, c := range s.Congestion {
		if c.Probability < 0 || c.Probability > 1 {
			return fmt.Errorf("%w: segment %q congestion %q probability %.6f outside [0, 1]", distribution.ErrInvalidSpec, s.Name, c.Name, c.Probability)
		}
	}
	return s.Distribution.Validate()
}

// NormalFactor builds an enabled rate factor whose distribution is centered
// on its mean multiplier.
func NormalFactor(name, category string, multiplier, stdDev float64) RateFactor {
	return RateFactor{
		Name:           name,
		Category:       category,
		MeanMultiplier: multiplier,
		Distribution:   distribution.Normal{Mean: multiplier, StdDev: stdDev},
		Enabled:        true,
	}
}

// NormalSegment builds a transit segment whose duration is Normal around the
// baseline.
func NormalSegment(name string, baselineDays, stdDev float64) TransitSegment {
	return TransitSegment{
		Name:         name,
		BaselineDays: baselineDays,
		Distribution: distribution.Normal{Mean: baselineDays, StdDev: stdDev},
	}
}
