package distribution

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidSpec is returned when a distribution is parameterized outside its
// valid domain. Malformed specs are rejected before a simulation starts rather
// than clamped mid-run.
var ErrInvalidSpec = errors.New("invalid distribution spec")

// Spec describes a probability distribution a Sampler can draw from.
// The variant set is sealed: only the distribution kinds defined in this
// package implement it, so an invalid kind/parameter combination is
// unrepresentable at the type level.
type Spec interface {
	Validate() error
	sample(rng *rand.Rand) float64
}

// Normal is a Gaussian distribution. StdDev of 0 degenerates to the constant Mean.
type Normal struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// LogNormal is the distribution of exp(N) for N ~ Normal(Mu, Sigma).
// Sigma of 0 degenerates to the constant exp(Mu).
type LogNormal struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// Triangular is a three-point distribution. Min == Mode == Max degenerates
// to a constant.
type Triangular struct {
	Min  float64 `json:"min"`
	Mode float64 `json:"mode"`
	Max  float64 `json:"max"`
}

// Exponential has rate Lambda (> 0).
type Exponential struct {
	Lambda float64 `json:"lambda"`
}

func (n Normal) Validate() error {
	if n.StdDev < 0 {
		return fmt.Errorf("%w: normal std_dev %.6f < 0", ErrInvalidSpec, n.StdDev)
	}
	return nil
}

func (l LogNormal) Validate() error {
	if l.Sigma < 0 {
		return fmt.Errorf("%w: lognormal sigma %.6f < 0", ErrInvalidSpec, l.Sigma)
	}
	return nil
}

func (t Triangular) Validate() error {
	if t.Max < t.Min {
		return fmt.Errorf("%w: triangular max %.6f < min %.6f", ErrInvalidSpec, t.Max, t.Min)
	}
	if t.Mode < t.Min || t.Mode > t.Max {
		return fmt.Errorf("%w: triangular mode %.6f outside [%.6f, %.6f]", ErrInvalidSpec, t.Mode, t.Min, t.Max)
	}
	return nil
}

func (e Exponential) Validate() error {
	if e.Lambda <= 0 {
		return fmt.Errorf("%w: exponential lambda %.6f <= 0", ErrInvalidSpec, e.Lambda)
	}
	return nil
}

// SpecJSON is the wire representation of a Spec: a kind tag plus the union of
// all parameter fields. Only the fields belonging to the tagged kind are read.
type SpecJSON struct {
	Kind   string  `json:"kind"`
	Mean   float64 `json:"mean,omitempty"`
	StdDev float64 `json:"std_dev,omitempty"`
	Mu     float64 `json:"mu,omitempty"`
	Sigma  float64 `json:"sigma,omitempty"`
	Min    float64 `json:"min,omitempty"`
	Mode   float64 `json:"mode,omitempty"`
	Max    float64 `json:"max,omitempty"`
	Lambda float64 `json:"lambda,omitempty"`
}

// Spec converts the wire form into a validated tagged variant.
func (s SpecJSON) Spec() (Spec, error) {
	var spec Spec
	switch s.Kind {
	case "normal":
		spec = Normal{Mean: s.Mean, StdDev: s.StdDev}
	case "lognormal":
		spec = LogNormal{Mu: s.Mu, Sigma: s.Sigma}
	case "triangular":
		spec = Triangular{Min: s.Min, Mode: s.Mode, Max: s.Max}
	case "exponential":
		spec = Exponential{Lambda: s.Lambda}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, s.Kind)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}
