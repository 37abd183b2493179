// Package suitability maps environmental factors to a 0-100 planting
// suitability score.
package suitability

import (
	"math"
	"math/rand"
)

// Factor weights. Vegetation dominates; water and soil split the remainder.
const (
	weightVegetation = 0.4
	weightWater      = 0.3
	weightSoil       = 0.3

	// jitterRange bounds the uniform perturbation applied to every score to
	// simulate micro-scale site variation.
	jitterRange = 5.0
)

// Scorer computes suitability scores. The random source is injectable so
// callers can make output reproducible; a nil source falls back to the
// global generator.
type Scorer struct {
	rng *rand.Rand
}

// New creates a Scorer using the given random source. rng may be nil.
func New(rng *rand.Rand) *Scorer {
	return &Scorer{rng: rng}
}

// Score combines vegetation, water, and soil factors into a single score.
// Inputs are nominally in [0,1] but are not rejected outside that range;
// the result is always clamped to [0,100] and rounded to one decimal.
func (s *Scorer) Score(vegetation, water, soil float64) float64 {
	score := (vegetation*weightVegetation + water*weightWater + soil*weightSoil) * 100

	score += s.uniform(-jitterRange, jitterRange)

	score = math.Max(0, math.Min(100, score))
	return math.Round(score*10) / 10
}

func (s *Scorer) uniform(lo, hi float64) float64 {
	if s.rng != nil {
		return lo + s.rng.Float64()*(hi-lo)
	}
	return lo + rand.Float64()*(hi-lo)
}
