package simulation

import (
	"errors"
	"fmt"

	"lanesim/internal/lane"
)

// Errors a run can surface. InvalidParameter rejections happen before any
// iteration is scheduled; RuntimeFailure aborts a run mid-flight and discards
// partial results. Cancellation is a terminal state, not an error.
var (
	ErrInvalidParameter = errors.New("invalid simulation parameter")
	ErrRuntimeFailure   = errors.New("simulation runtime failure")
)

// Params fully describes one simulation run. The caller owns it for the
// duration of a run and must not mutate it after Start.
type Params struct {
	Iterations        int
	BaseRate          float64
	DelayCostFraction float64
	Factors           []lane.RateFactor
	Segments          []lane.TransitSegment
}

// FromLane builds run parameters from a lane record.
func FromLane(l lane.Lane, iterations int, delayCostFraction float64) Params {
	return Params{
		Iterations:        iterations,
		BaseRate:          l.Baseline(),
		DelayCostFraction: delayCostFraction,
		Factors:           l.Factors,
		Segments:          l.Segments,
	}
}

// Validate rejects malformed parameters before a run starts.
func (p Params) Validate() error {
	if p.Iterations <= 0 {
		return fmt.Errorf("%w: iterations %d <= 0", ErrInvalidParameter, p.Iterations)
	}
	if p.BaseRate <= 0 {
		return fmt.Errorf("%w: base rate %.6f <= 0", ErrInvalidParameter, p.BaseRate)
	}
	if p.DelayCostFraction < 0 {
		return fmt.Errorf("%w: delay cost fraction %.6f < 0", ErrInvalidParameter, p.DelayCostFraction)
	}
	for i, f := range p.Factors {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("%w: factor %d: %w", ErrInvalidParameter, i, err)
		}
	}
	for i, s := range p.Segments {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%w: segment %d: %w", ErrInvalidParameter, i, err)
		}
	}
	return nil
}

// BaselineTransitDays is the sum of the segments' baseline durations.
func (p Params) BaselineTransitDays() float64 {
	var total float64
	for _, s := range p.Segments {
		total += s.BaselineDays
	}
	return total
}
