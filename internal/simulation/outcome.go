package simulation

import (
	"fmt"
	"math"
	"time"

	"lanesim/internal/distribution"
)

// minSegmentDays is the floor applied to each sampled segment duration to
// prevent non-physical zero or negative transit times.
const minSegmentDays = 0.1

// Outcome is one simulated realization of a lane: rate, transit time and the
// derived costs. A run of N iterations produces exactly N outcomes ordered by
// iteration index.
type Outcome struct {
	Iteration       int       `json:"iteration"`
	Rate            float64   `json:"rate"`
	TransitDays     float64   `json:"transit_days"`
	ArrivalDate     time.Time `json:"arrival_date"`
	DelayCost       float64   `json:"delay_cost"`
	TotalLandedCost float64   `json:"total_landed_cost"`
}

// Compose produces one outcome from a single sampler pass. It is pure given
// the params and the sampler's random state, and reads nothing from prior
// iterations.
func Compose(iteration int, now time.Time, p Params, sampler *distribution.Sampler) (Outcome, error) {
	rate := p.BaseRate
	for _, f := range p.Factors {
		if !f.Enabled {
			continue
		}
		rate *= sampler.Sample(f.Distribution)
	}

	var transitDays float64
	for _, s := range p.Segments {
		days := sampler.Sample(s.Distribution)
		if days < minSegmentDays {
			days = minSegmentDays
		}
		transitDays += days
	}

	if math.IsNaN(rate) || math.IsInf(rate, 0) || math.IsNaN(transitDays) || math.IsInf(transitDays, 0) {
		return Outcome{}, fmt.Errorf("%w: iteration %d produced a non-finite sample (rate=%v, transit=%v)",
			ErrRuntimeFailure, iteration, rate, transitDays)
	}

	delayDays := transitDays - p.BaselineTransitDays()
	var delayCost float64
	if delayDays > 0 {
		delayCost = delayDays * rate * p.DelayCostFraction
	}

	return Outcome{
		Iteration:       iteration,
		Rate:            rate,
		TransitDays:     transitDays,
		ArrivalDate:     now.Add(time.Duration(transitDays * 24 * float64(time.Hour))),
		DelayCost:       delayCost,
		TotalLandedCost: rate + delayCost,
	}, nil
}

// Rates extracts the sampled rate series from an outcome set, in iteration
// order.
func Rates(outcomes []Outcome) []float64 {
	rates := make([]float64, len(outcomes))
	for i, o := range outcomes {
		rates[i] = o.Rate
	}
	return rates
}

// LandedCosts extracts the total landed cost series from an outcome set.
func LandedCosts(outcomes []Outcome) []float64 {
	costs := make([]float64, len(outcomes))
	for i, o := range outcomes {
		costs[i] = o.TotalLandedCost
	}
	return costs
}
