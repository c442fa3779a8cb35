package decision

import (
	"errors"
	"math"
	"testing"

	"lanesim/internal/lane"
	"lanesim/internal/stats"
)

func testLane() lane.Lane {
	return lane.Lane{
		Origin:               "Shanghai",
		Destination:          "Rotterdam",
		IndexValue:           1000,
		LaneRatio:            1.0,
		HistoricalVolatility: 0.10,
		Factors:              []lane.RateFactor{lane.NormalFactor("fuel", "surcharge", 1.0, 0.02)},
		Segments:             []lane.TransitSegment{lane.NormalSegment("ocean", 28, 2)},
	}
}

// rampRates returns n evenly spaced rates from 600 up, with mean near the
// middle of the ramp.
func rampRates(n int) []float64 {
	rates := make([]float64, n)
	for i := range rates {
		rates[i] = 600 + float64(i)
	}
	return rates
}

func mustSummarize(t *testing.T, values []float64) *stats.Summary {
	t.Helper()
	s, err := stats.Summarize(values)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	return s
}

func TestEvaluateQuote_CheapQuote(t *testing.T) {
	rates := rampRates(1000) // 600..1599
	summary := mustSummarize(t, rates)

	// Every simulated rate is at or above 600, so a 500 quote ranks at the
	// very bottom of the distribution.
	eval, err := EvaluateQuote(lane.Quote{Rate: 500}, testLane(), rates, summary)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if eval.Percentile != 0 {
		t.Errorf("Expected percentile 0, got %f", eval.Percentile)
	}
	if eval.Recommendation != BookNow {
		t.Errorf("Expected BOOK_NOW, got %s", eval.Recommendation)
	}
	if math.Abs(eval.RiskScore-2.0) > 1e-9 {
		t.Errorf("Expected risk score 2.0 at the distribution floor, got %f", eval.RiskScore)
	}
	if eval.MarketVariance >= 0 {
		t.Errorf("Expected negative market variance for a below-baseline quote, got %f", eval.MarketVariance)
	}
}

func TestEvaluateQuote_RejectionBoundary(t *testing.T) {
	rates := rampRates(1000)
	summary := mustSummarize(t, rates)

	// 1500 sits strictly above 900 of the 1000 samples: exactly the 90th
	// percentile, which is inside the rejection band.
	eval, err := EvaluateQuote(lane.Quote{Rate: 1500}, testLane(), rates, summary)
	if err != nil {
		t.Fatal(err)
	}
	if eval.Percentile != 90 {
		t.Fatalf("Expected percentile 90, got %f", eval.Percentile)
	}
	if eval.Recommendation != Reject {
		t.Errorf("Expected REJECT at the 90th percentile, got %s", eval.Recommendation)
	}

	// Just above the boundary stays rejected.
	eval, err = EvaluateQuote(lane.Quote{Rate: 1501}, testLane(), rates, summary)
	if err != nil {
		t.Fatal(err)
	}
	if eval.Recommendation != Reject {
		t.Errorf("Expected REJECT above the 90th percentile, got %s", eval.Recommendation)
	}
}

func TestEvaluateQuote_NegotiateBand(t *testing.T) {
	rates := rampRates(1000)
	summary := mustSummarize(t, rates)

	// 1400 ranks above 800 of 1000 samples: the 80th percentile.
	eval, err := EvaluateQuote(lane.Quote{Rate: 1400}, testLane(), rates, summary)
	if err != nil {
		t.Fatal(err)
	}
	if eval.Percentile != 80 {
		t.Fatalf("Expected percentile 80, got %f", eval.Percentile)
	}
	if eval.Recommendation != Negotiate {
		t.Errorf("Expected NEGOTIATE at the 80th percentile, got %s", eval.Recommendation)
	}
}

func TestEvaluateQuote_WaitBand(t *testing.T) {
	rates := rampRates(1000)
	summary := mustSummarize(t, rates)

	// 900 ranks above 300 of 1000 samples (the 30th percentile) and is 10%
	// under the 1000 baseline... market variance -0.10 is below -0.05, so
	// the well-under-market guard keeps it at BOOK_NOW.
	eval, err := EvaluateQuote(lane.Quote{Rate: 900}, testLane(), rates, summary)
	if err != nil {
		t.Fatal(err)
	}
	if eval.Percentile != 30 {
		t.Fatalf("Expected percentile 30, got %f", eval.Percentile)
	}
	if eval.Recommendation != BookNow {
		t.Errorf("Expected BOOK_NOW for a well-under-market quote, got %s", eval.Recommendation)
	}

	// The same rank with a baseline near the quote flips to WAIT.
	l := testLane()
	l.IndexValue = 900
	eval, err = EvaluateQuote(lane.Quote{Rate: 900}, l, rates, summary)
	if err != nil {
		t.Fatal(err)
	}
	if eval.Recommendation != Wait {
		t.Errorf("Expected WAIT at market parity in the mid band, got %s", eval.Recommendation)
	}
}

func TestEvaluateQuote_PercentileMonotonic(t *testing.T) {
	rates := rampRates(500)
	summary := mustSummarize(t, rates)

	prev := -1.0
	for quote := 550.0; quote <= 1150; quote += 25 {
		eval, err := EvaluateQuote(lane.Quote{Rate: quote}, testLane(), rates, summary)
		if err != nil {
			t.Fatal(err)
		}
		if eval.Percentile < prev {
			t.Fatalf("Percentile decreased at quote %f: %f < %f", quote, eval.Percentile, prev)
		}
		prev = eval.Percentile
	}
}

func TestRiskScore_Monotonic(t *testing.T) {
	prev := -1.0
	for p := 0.0; p <= 100; p += 0.5 {
		score := riskScore(p)
		if score < prev {
			t.Fatalf("Risk score decreased at percentile %f: %f < %f", p, score, prev)
		}
		if score < 0 || score > 10 {
			t.Fatalf("Risk score %f outside [0, 10] at percentile %f", score, p)
		}
		prev = score
	}

	if got := riskScore(100); got != 10 {
		t.Errorf("Expected risk score 10 at percentile 100, got %f", got)
	}
}

func TestEvaluateQuote_Confidence(t *testing.T) {
	rates := rampRates(1000)
	summary := mustSummarize(t, rates)

	// Mid-distribution quote: confidence peaks near the clamp ceiling.
	eval, err := EvaluateQuote(lane.Quote{Rate: 1100}, testLane(), rates, summary)
	if err != nil {
		t.Fatal(err)
	}
	if eval.Confidence < 0 || eval.Confidence > 95 {
		t.Errorf("Confidence %f outside [0, 95]", eval.Confidence)
	}

	// Tail quote: confidence drops relative to the mid-band one.
	tail, err := EvaluateQuote(lane.Quote{Rate: 1590}, testLane(), rates, summary)
	if err != nil {
		t.Fatal(err)
	}
	if tail.Confidence >= eval.Confidence {
		t.Errorf("Expected tail confidence below mid-band: %f >= %f", tail.Confidence, eval.Confidence)
	}
}

func TestEvaluateQuote_Criteria(t *testing.T) {
	rates := rampRates(1000)
	summary := mustSummarize(t, rates)

	eval, err := EvaluateQuote(lane.Quote{Rate: 500}, testLane(), rates, summary)
	if err != nil {
		t.Fatal(err)
	}
	if len(eval.Criteria) != 3 {
		t.Fatalf("Expected 3 criteria, got %d", len(eval.Criteria))
	}
	for _, c := range eval.Criteria {
		if !c.Pass {
			t.Errorf("Expected criterion %q to pass for a cheap quote, got %+v", c.Name, c)
		}
	}
}

func TestEvaluateQuote_Errors(t *testing.T) {
	rates := rampRates(100)
	summary := mustSummarize(t, rates)

	if _, err := EvaluateQuote(lane.Quote{Rate: 0}, testLane(), rates, summary); err == nil {
		t.Error("Expected error for invalid quote")
	}

	_, err := EvaluateQuote(lane.Quote{Rate: 1000}, testLane(), nil, summary)
	if !errors.Is(err, stats.ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset without rates, got %v", err)
	}

	l := testLane()
	l.IndexValue = -1
	if _, err := EvaluateQuote(lane.Quote{Rate: 1000}, l, rates, summary); err == nil {
		t.Error("Expected error for invalid lane")
	}
}
