package distribution

import (
	"math"
	"math/rand"
	"time"
)

// Sampler draws pseudorandom variates from distribution specs. Each Sampler
// owns its random stream, so concurrent workers each get their own Sampler
// and never contend.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a Sampler seeded from the wall clock.
func NewSampler() *Sampler {
	return NewSeededSampler(time.Now().UnixNano())
}

// NewSeededSampler creates a Sampler with a fixed seed for reproducible runs.
func NewSeededSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Sample returns one draw from the given spec. Specs are validated before a
// run starts; a degenerate spec (zero spread) returns its location constant.
func (s *Sampler) Sample(spec Spec) float64 {
	return spec.sample(s.rng)
}

func (n Normal) sample(rng *rand.Rand) float64 {
	if n.StdDev <= 0 {
		return n.Mean
	}
	return n.Mean + n.StdDev*boxMuller(rng)
}

func (l LogNormal) sample(rng *rand.Rand) float64 {
	if l.Sigma <= 0 {
		return math.Exp(l.Mu)
	}
	return math.Exp(l.Mu + l.Sigma*boxMuller(rng))
}

func (t Triangular) sample(rng *rand.Rand) float64 {
	width := t.Max - t.Min
	if width <= 0 {
		return t.Min
	}

	// Inverse CDF: split at the mode, sample the left or right triangle branch.
	u := rng.Float64()
	cut := (t.Mode - t.Min) / width
	if u < cut {
		return t.Min + math.Sqrt(u*width*(t.Mode-t.Min))
	}
	return t.Max - math.Sqrt((1-u)*width*(t.Max-t.Mode))
}

func (e Exponential) sample(rng *rand.Rand) float64 {
	// rng.Float64 is in [0, 1), so 1-u is in (0, 1] and the log is finite.
	u := rng.Float64()
	return -math.Log(1-u) / e.Lambda
}

// boxMuller returns one standard normal variate from two uniform draws.
// A uniform draw of exactly 0 is rejected to avoid log(0).
func boxMuller(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	for u1 == 0 {
		u1 = rng.Float64()
	}
	u2 := rng.Float64()
	for u2 == 0 {
		u2 = rng.Float64()
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
