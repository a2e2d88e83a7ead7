package sampleelim

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Bounds is an axis-aligned box with one Min and one Max value per axis.
type Bounds struct {
	Min []float64
	Max []float64
}

// UnitBounds returns the box [0, 1]^dims.
func UnitBounds(dims int) Bounds {
	b := Bounds{Min: make([]float64, dims), Max: make([]float64, dims)}
	for d := range b.Max {
		b.Max[d] = 1
	}
	return b
}

// Dims returns the number of axes of the box.
func (b Bounds) Dims() int { return len(b.Min) }

// Extent returns Max[d] - Min[d].
func (b Bounds) Extent(d int) float64 { return b.Max[d] - b.Min[d] }

// Volume returns the product of the per-axis extents.
func (b Bounds) Volume() float64 {
	ext := make([]float64, len(b.Max))
	floats.SubTo(ext, b.Max, b.Min)
	return floats.Prod(ext)
}

// clone returns a deep copy so an Eliminator does not share slices with
// the caller's Config.
func (b Bounds) clone() Bounds {
	return Bounds{
		Min: append([]float64(nil), b.Min...),
		Max: append([]float64(nil), b.Max...),
	}
}

// MaxPoissonDiskRadius estimates the largest Poisson-disk radius that
// sampleCount points can reach in a dims-dimensional domain of the given
// volume. 2-D uses hexagonal packing and 3-D uses the FCC packing constant.
// Higher dimensions divide the per-sample volume by the volume of the unit
// dims-ball.
//
// sampleCount must be positive and dims must be at least 2.
func MaxPoissonDiskRadius(dims, sampleCount int, domainSize float64) float64 {
	sampleArea := domainSize / float64(sampleCount)
	switch dims {
	case 2:
		return math.Sqrt(sampleArea / (2 * math.Sqrt(3)))
	case 3:
		return math.Cbrt(sampleArea / (4 * math.Sqrt(2)))
	}
	c, start := math.Pi, 4
	if dims&1 == 1 {
		c, start = 2, 3
	}
	for d := start; d <= dims; d += 2 {
		c *= 2 * math.Pi / float64(d)
	}
	return math.Pow(sampleArea/c, 1/float64(dims))
}

// WeightLimitFraction returns (1 - (outputSize/inputSize)^gamma) * beta, the
// fraction of the elimination radius below which the default weight function
// stops growing. Custom weight functions can call it to clamp the same way.
func WeightLimitFraction(inputSize, outputSize int, beta, gamma float64) float64 {
	ratio := float64(outputSize) / float64(inputSize)
	return (1 - math.Pow(ratio, gamma)) * beta
}

// progressiveRadiusMultiplier scales the radius between progressive rounds.
// Halving the sample count grows the ideal radius by 2^(1/dims).
func progressiveRadiusMultiplier(dims int) float64 {
	if dims == 2 {
		return math.Sqrt2
	}
	return math.Pow(2, 1/float64(dims))
}
