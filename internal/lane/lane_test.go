package lane

import (
	"errors"
	"testing"

	"lanesim/internal/distribution"
)

func validLane() Lane {
	return Lane{
		Origin:               "Shanghai",
		Destination:          "Rotterdam",
		IndexValue:           1400,
		LaneRatio:            1.05,
		HistoricalVolatility: 0.12,
		Factors:              []RateFactor{NormalFactor("fuel", "surcharge", 1.08, 0.02)},
		Segments:             []TransitSegment{NormalSegment("ocean", 28, 2.5)},
	}
}

func TestLane_Baseline(t *testing.T) {
	l := Lane{IndexValue: 1400, LaneRatio: 1.05}
	if got := l.Baseline(); got != 1470 {
		t.Errorf("Expected baseline 1470, got %f", got)
	}
}

func TestLane_Validate(t *testing.T) {
	if err := validLane().Validate(); err != nil {
		t.Fatalf("Expected valid lane, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Lane)
	}{
		{"zero index value", func(l *Lane) { l.IndexValue = 0 }},
		{"negative ratio", func(l *Lane) { l.LaneRatio = -1 }},
		{"negative volatility", func(l *Lane) { l.HistoricalVolatility = -0.01 }},
		{"negative factor multiplier", func(l *Lane) { l.Factors[0].MeanMultiplier = -1 }},
		{"nil factor distribution", func(l *Lane) { l.Factors[0].Distribution = nil }},
		{"zero segment baseline", func(l *Lane) { l.Segments[0].BaselineDays = 0 }},
		{"nil segment distribution", func(l *Lane) { l.Segments[0].Distribution = nil }},
		{"exponential segment distribution", func(l *Lane) {
			l.Segments[0].Distribution = distribution.Exponential{Lambda: 1}
		}},
		{"congestion probability above one", func(l *Lane) {
			l.Segments[0].Congestion = []CongestionScenario{{Name: "port strike", Probability: 1.5}}
		}},
	}

	for _, tt := range tests {
		l := validLane()
		tt.mutate(&l)
		if err := l.Validate(); err == nil {
			t.Errorf("%s: expected validation error, got nil", tt.name)
		}
	}
}

func TestSegment_LogNormalAllowed(t *testing.T) {
	s := TransitSegment{
		Name:         "rail",
		BaselineDays: 4,
		Distribution: distribution.LogNormal{Mu: 1.4, Sigma: 0.2},
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Expected lognormal segment to validate, got %v", err)
	}
}

func TestQuote_Validate(t *testing.T) {
	if err := (Quote{Rate: 1500}).Validate(); err != nil {
		t.Errorf("Unexpected error for valid quote: %v", err)
	}

	err := (Quote{Rate: 0}).Validate()
	if err == nil {
		t.Fatal("Expected error for zero quote rate")
	}
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Expected ErrInvalidRecord, got %v", err)
	}
}
