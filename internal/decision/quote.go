// Package decision ranks observed quotes against a simulated rate
// distribution and scores alternative booking strategies. Everything here is
// synchronous and pure: results are value-like, replaced on re-evaluation,
// never mutated.
package decision

import (
	"fmt"

	"lanesim/internal/lane"
	"lanesim/internal/stats"
)

// Recommendation is the action the evaluator suggests for a quote.
type Recommendation string

const (
	BookNow   Recommendation = "BOOK_NOW"
	Wait      Recommendation = "WAIT"
	Negotiate Recommendation = "NEGOTIATE"
	Reject    Recommendation = "REJECT"
)

// CriterionResult is one explainable check behind an evaluation.
type CriterionResult struct {
	Name      string `json:"name"`
	Threshold string `json:"threshold"`
	Actual    string `json:"actual"`
	Pass      bool   `json:"pass"`
}

// QuoteEvaluation positions one observed quote within a simulated rate
// distribution. Derived once per (quote, simulation) pair and immutable.
type QuoteEvaluation struct {
	Quote          float64           `json:"quote"`
	MarketVariance float64           `json:"market_variance"` // vs. lane baseline
	ModelVariance  float64           `json:"model_variance"`  // vs. simulated mean
	Percentile     float64           `json:"percentile"`      // rank-based, 0..100
	RiskScore      float64           `json:"risk_score"`      // 0..10
	Recommendation Recommendation    `json:"recommendation"`
	Confidence     float64           `json:"confidence"` // 0..100
	Criteria       []CriterionResult `json:"criteria"`
}

// EvaluateQuote ranks a quote against a previously simulated rate
// distribution for the same lane.
func EvaluateQuote(q lane.Quote, l lane.Lane, rates []float64, summary *stats.Summary) (*QuoteEvaluation, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if len(rates) == 0 || summary == nil || summary.Count == 0 {
		return nil, fmt.Errorf("%w: quote evaluation without simulated rates", stats.ErrEmptyDataset)
	}

	baseline := l.Baseline()
	marketVariance := (q.Rate - baseline) / baseline
	modelVariance := (q.Rate - summary.Mean) / summary.Mean
	percentile := rankPercentile(rates, q.Rate)

	eval := &QuoteEvaluation{
		Quote:          q.Rate,
		MarketVariance: marketVariance,
		ModelVariance:  modelVariance,
		Percentile:     percentile,
		RiskScore:      riskScore(percentile),
		Recommendation: recommend(percentile, marketVariance),
		Confidence:     clamp(60+(40-abs(percentile-50)), 0, 95),
	}
	eval.Criteria = criteria(eval)
	return eval, nil
}

// rankPercentile is the fraction of samples strictly less than the value,
// expressed 0..100. Rank-based, not interpolated.
func rankPercentile(rates []float64, value float64) float64 {
	below := 0
	for _, r := range rates {
		if r < value {
			below++
		}
	}
	return float64(below) / float64(len(rates)) * 100
}

// riskScore maps the percentile onto [0, 10], monotonic and piecewise-linear.
func riskScore(percentile float64) float64 {
	var score float64
	switch {
	case percentile < 25:
		score = 2.0 + (percentile/25)*2
	case percentile < 75:
		score = 4.0 + ((percentile-25)/50)*3
	default:
		score = 7.0 + ((percentile-75)/25)*3
	}
	return clamp(score, 0, 10)
}

// recommend applies the banded recommendation thresholds. REJECT is evaluated
// first and takes priority over NEGOTIATE; a quote sitting exactly at the
// 90th percentile is rejected. WAIT is only reached between the cheap and
// expensive bands, and only while the quote is not well under market.
func recommend(percentile, marketVariance float64) Recommendation {
	switch {
	case percentile >= 90:
		return Reject
	case percentile > 75:
		return Negotiate
	case percentile < 10:
		return BookNow
	case percentile <= 40 && marketVariance > -0.05:
		return Wait
	default:
		return BookNow
	}
}

func criteria(e *QuoteEvaluation) []CriterionResult {
	return []CriterionResult{
		{
			Name:      "Below rejection band",
			Threshold: "percentile < 90",
			Actual:    fmt.Sprintf("%.1f", e.Percentile),
			Pass:      e.Percentile < 90,
		},
		{
			Name:      "Competitive vs market baseline",
			Threshold: "market variance <= 0",
			Actual:    fmt.Sprintf("%+.2f%%", e.MarketVariance*100),
			Pass:      e.MarketVariance <= 0,
		},
		{
			Name:      "At or under simulated mean",
			Threshold: "model variance <= 0",
			Actual:    fmt.Sprintf("%+.2f%%", e.ModelVariance*100),
			Pass:      e.ModelVariance <= 0,
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
