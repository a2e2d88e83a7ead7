package sampleelim

import "math"

// WeightFunc scores how much point b crowds point a. dist2 is the squared
// distance between them and radius is the current elimination radius; the
// function is only called for pairs with dist2 <= radius*radius. It must
// return a non-negative value and be deterministic, since the contribution
// added when weights are built is subtracted again when a neighbor is
// eliminated.
//
// With Config.Workers > 1 the function is called from several goroutines
// while initial weights are built.
type WeightFunc func(a, b []float64, dist2, radius float64) float64

// DefaultWeight returns the weight function (1 - d/radius)^alpha, where d is
// the pair distance clamped from below to dMin. The clamp keeps near
// duplicates from dominating the elimination order.
func DefaultWeight(dMin, alpha float64) WeightFunc {
	return func(_, _ []float64, dist2, radius float64) float64 {
		d := math.Sqrt(dist2)
		if d < dMin {
			d = dMin
		}
		return math.Pow(1-d/radius, alpha)
	}
}

// UnclampedWeight returns (1 - d/radius)^alpha without a lower distance bound.
func UnclampedWeight(alpha float64) WeightFunc {
	return DefaultWeight(0, alpha)
}
