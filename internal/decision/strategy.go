package decision

import (
	"fmt"

	"lanesim/internal/lane"
	"lanesim/internal/stats"
)

// StrategyType tags a booking strategy.
type StrategyType string

const (
	StrategyBook    StrategyType = "book"
	StrategyWait    StrategyType = "wait"
	StrategySplit   StrategyType = "split"
	StrategyReroute StrategyType = "reroute"
)

// RiskLevel is the qualitative risk attached to a strategy.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// holdingCostFraction is the per-day holding cost, as a fraction of the rate,
// charged while a shipment waits for a later booking.
const holdingCostFraction = 0.001

// Strategy is one scored booking alternative.
type Strategy struct {
	Type         StrategyType       `json:"type"`
	ExpectedCost float64            `json:"expected_cost"`
	Confidence   float64            `json:"confidence"`
	RiskLevel    RiskLevel          `json:"risk_level"`
	Description  string             `json:"description"`
	Parameters   map[string]float64 `json:"parameters,omitempty"`
}

// StrategyConfig carries the tunables of the alternative evaluator.
type StrategyConfig struct {
	ConfidenceFloor  float64 // minimum confidence for a strategy to be recommendable
	WaitHorizonDays  int     // how long the wait strategy defers booking
	WaitRateDiscount float64 // expected rate improvement from waiting
	ReroutePremium   float64 // rate multiplier for the alternate routing
	SplitRatio       float64 // volume fraction booked immediately
}

// DefaultStrategyConfig mirrors the configuration defaults.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		ConfidenceFloor:  60,
		WaitHorizonDays:  7,
		WaitRateDiscount: 0.02,
		ReroutePremium:   1.08,
		SplitRatio:       0.5,
	}
}

// StrategySet holds every scored strategy plus the recommended one: the
// lowest expected cost among strategies whose confidence clears the floor.
type StrategySet struct {
	Strategies  []Strategy   `json:"strategies"`
	Recommended StrategyType `json:"recommended"`
}

// EvaluateStrategies scores the competing booking strategies for a quote
// against the lane's simulated rate distribution.
func EvaluateStrategies(q lane.Quote, l lane.Lane, summary *stats.Summary, cfg StrategyConfig) (*StrategySet, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if summary == nil || summary.Count == 0 {
		return nil, fmt.Errorf("%w: strategy evaluation without a simulated summary", stats.ErrEmptyDataset)
	}
	if cfg.SplitRatio < 0 || cfg.SplitRatio > 1 {
		return nil, fmt.Errorf("%w: split ratio %.4f outside [0, 1]", lane.ErrInvalidRecord, cfg.SplitRatio)
	}

	book := bookStrategy(q)
	wait := waitStrategy(l, summary, cfg)
	split := splitStrategy(book, wait, cfg)
	reroute := rerouteStrategy(summary, cfg)

	set := &StrategySet{Strategies: []Strategy{book, wait, split, reroute}}
	set.Recommended = recommendStrategy(set.Strategies, cfg.ConfidenceFloor)
	return set, nil
}

// bookStrategy commits at the quoted price. The cost is known, so confidence
// is at the evaluator's ceiling.
func bookStrategy(q lane.Quote) Strategy {
	return Strategy{
		Type:         StrategyBook,
		ExpectedCost: q.Rate,
		Confidence:   95,
		RiskLevel:    RiskLow,
		Description:  "Commit at the quoted rate now",
	}
}

// waitStrategy defers booking, trading a modest expected rate improvement
// against per-day holding cost and the lane's volatility.
func waitStrategy(l lane.Lane, summary *stats.Summary, cfg StrategyConfig) Strategy {
	days := float64(cfg.WaitHorizonDays)
	expectedRate := summary.Mean * (1 - cfg.WaitRateDiscount)
	holding := expectedRate * holdingCostFraction * days

	confidence := clamp(80-l.HistoricalVolatility*100, 0, 90)
	risk := RiskMedium
	if l.HistoricalVolatility > 0.25 {
		risk = RiskHigh
	}

	return Strategy{
		Type:         StrategyWait,
		ExpectedCost: expectedRate + holding,
		Confidence:   confidence,
		RiskLevel:    risk,
		Description:  fmt.Sprintf("Re-quote in %d days, absorbing holding cost", cfg.WaitHorizonDays),
		Parameters: map[string]float64{
			"wait_days":    days,
			"holding_cost": holding,
		},
	}
}

// splitStrategy blends an immediate and a delayed booking linearly by their
// volume fractions.
func splitStrategy(book, wait Strategy, cfg StrategyConfig) Strategy {
	r := cfg.SplitRatio
	return Strategy{
		Type:         StrategySplit,
		ExpectedCost: r*book.ExpectedCost + (1-r)*wait.ExpectedCost,
		Confidence:   r*book.Confidence + (1-r)*wait.Confidence,
		RiskLevel:    RiskMedium,
		Description:  fmt.Sprintf("Book %.0f%% now, defer the remainder", r*100),
		Parameters: map[string]float64{
			"split_ratio": r,
		},
	}
}

// rerouteStrategy prices the alternate routing at a fixed premium over the
// simulated mean. Confidence is low: there is little data on the alternate
// lane.
func rerouteStrategy(summary *stats.Summary, cfg StrategyConfig) Strategy {
	return Strategy{
		Type:         StrategyReroute,
		ExpectedCost: summary.Mean * cfg.ReroutePremium,
		Confidence:   50,
		RiskLevel:    RiskHigh,
		Description:  "Shift volume to an alternate routing at a rate premium",
		Parameters: map[string]float64{
			"rate_premium": cfg.ReroutePremium,
		},
	}
}

// recommendStrategy picks the lowest expected cost among strategies whose
// confidence clears the floor. If none clears it, the immediate booking wins:
// it is always actionable.
func recommendStrategy(strategies []Strategy, floor float64) StrategyType {
	best := StrategyBook
	bestCost := 0.0
	found := false
	for _, s := range strategies {
		if s.Confidence < floor {
			continue
		}
		if !found || s.ExpectedCost < bestCost {
			best = s.Type
			bestCost = s.ExpectedCost
			found = true
		}
	}
	return best
}
