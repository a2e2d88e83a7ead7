package sampleelim

import (
	"errors"
	"fmt"
	"math"
	"runtime"
)

// ErrInvalidArgument is returned, wrapped with details, for every invalid
// configuration or call. No output is written when it is returned.
var ErrInvalidArgument = errors.New("sampleelim: invalid argument")

// Config controls sample elimination behavior.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Dimensions is the number of components of every point. Options.Dimensions
	// may restrict sampling to the first few of them. Must be >= 2. Default: 2.
	Dimensions int

	// Bounds is the sampling domain. It is used for tiling and to derive the
	// elimination radius when none is given. Nil slices default to the unit
	// box. Default: [0, 1]^Dimensions.
	Bounds Bounds

	// Tiling treats the domain as a torus when collecting neighbors, so
	// points near one edge see points near the opposite edge. Default: true.
	Tiling bool

	// WeightLimiting clamps the pair distance used by the default weight
	// function from below, so near-duplicate points do not dominate the
	// elimination order. Ignored when Options.Weight is set. Default: true.
	WeightLimiting bool

	// Alpha is the exponent of the default weight function. Larger values
	// concentrate weight on the closest neighbors. Must be > 0. Default: 8.
	Alpha float64

	// Beta scales the weight limit fraction. Must be in [0, 1). Default: 0.65.
	Beta float64

	// Gamma controls how the weight limit fraction shrinks as the output size
	// approaches the input size. Must be > 0. Default: 1.5.
	Gamma float64

	// Index selects the spatial index used for radius queries.
	// Default: "auto".
	Index IndexKind

	// LeafSize controls the maximum number of points in a spatial tree leaf
	// node. Default: 16.
	LeafSize int

	// Workers controls the number of goroutines used to compute initial
	// weights. The elimination loop itself is always sequential. Results do
	// not depend on Workers. 0 means use runtime.NumCPU(). Default: 0 (auto).
	Workers int
}

// Options are the per-call parameters of an elimination.
type Options struct {
	// Progressive reorders the output so that every prefix is a well-spread
	// sample.
	Progressive bool

	// Radius is the neighborhood radius. Values <= 0 derive it as twice
	// the maximum Poisson-disk radius for the output size.
	Radius float64

	// Dimensions is the sampling dimensionality used by the derived radius
	// and the progressive radius growth. Tiling always wraps every axis.
	// 0 means Config.Dimensions.
	Dimensions int

	// Weight replaces the default weight function.
	Weight WeightFunc
}

// DefaultConfig returns a Config with reasonable defaults for 2-D sampling
// in the unit square.
func DefaultConfig() Config {
	return Config{
		Dimensions:     2,
		Bounds:         UnitBounds(2),
		Tiling:         true,
		WeightLimiting: true,
		Alpha:          8,
		Beta:           0.65,
		Gamma:          1.5,
		Index:          IndexAuto,
		LeafSize:       16,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 2
	}
	if cfg.Bounds.Min == nil && cfg.Bounds.Max == nil && cfg.Dimensions > 0 {
		cfg.Bounds = UnitBounds(cfg.Dimensions)
	}
	if cfg.Alpha == 0 {
		cfg.Alpha = 8
	}
	if cfg.Beta == 0 {
		cfg.Beta = 0.65
	}
	if cfg.Gamma == 0 {
		cfg.Gamma = 1.5
	}
	if cfg.Index == "" {
		cfg.Index = IndexAuto
	}
	if cfg.LeafSize == 0 {
		cfg.LeafSize = 16
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.Dimensions < 2 {
		return fmt.Errorf("%w: Dimensions must be >= 2, got %d", ErrInvalidArgument, cfg.Dimensions)
	}
	if len(cfg.Bounds.Min) != cfg.Dimensions || len(cfg.Bounds.Max) != cfg.Dimensions {
		return fmt.Errorf("%w: Bounds must have %d components per corner, got min=%d max=%d",
			ErrInvalidArgument, cfg.Dimensions, len(cfg.Bounds.Min), len(cfg.Bounds.Max))
	}
	for d := 0; d < cfg.Dimensions; d++ {
		if !(cfg.Bounds.Max[d] > cfg.Bounds.Min[d]) || math.IsInf(cfg.Bounds.Extent(d), 0) {
			return fmt.Errorf("%w: Bounds axis %d must have Min < Max, got [%g, %g]",
				ErrInvalidArgument, d, cfg.Bounds.Min[d], cfg.Bounds.Max[d])
		}
	}
	if !(cfg.Alpha > 0) {
		return fmt.Errorf("%w: Alpha must be > 0, got %f", ErrInvalidArgument, cfg.Alpha)
	}
	if !(cfg.Beta >= 0 && cfg.Beta < 1) {
		return fmt.Errorf("%w: Beta must be in [0, 1), got %f", ErrInvalidArgument, cfg.Beta)
	}
	if !(cfg.Gamma > 0) {
		return fmt.Errorf("%w: Gamma must be > 0, got %f", ErrInvalidArgument, cfg.Gamma)
	}
	if err := validIndexKind(cfg.Index); err != nil {
		return err
	}
	if cfg.LeafSize < 1 {
		return fmt.Errorf("%w: LeafSize must be >= 1, got %d", ErrInvalidArgument, cfg.LeafSize)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("%w: Workers must be >= 1 after defaulting, got %d", ErrInvalidArgument, cfg.Workers)
	}
	return nil
}

// Eliminator runs weighted sample elimination with a fixed configuration.
// It is immutable after New and safe for concurrent use.
type Eliminator struct {
	cfg Config
}

// New validates cfg and returns an Eliminator for it.
func New(cfg Config) (*Eliminator, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	cfg.Bounds = cfg.Bounds.clone()
	return &Eliminator{cfg: cfg}, nil
}

// Config returns the resolved configuration, with defaults applied.
func (e *Eliminator) Config() Config {
	cfg := e.cfg
	cfg.Bounds = cfg.Bounds.clone()
	return cfg
}

// MaxPoissonDiskRadius is the package-level MaxPoissonDiskRadius with
// domainSize <= 0 replaced by the volume of the configured bounds.
func (e *Eliminator) MaxPoissonDiskRadius(dims, sampleCount int, domainSize float64) float64 {
	if domainSize <= 0 {
		domainSize = e.cfg.Bounds.Volume()
	}
	return MaxPoissonDiskRadius(dims, sampleCount, domainSize)
}

// WeightLimitFraction is the package-level WeightLimitFraction using the
// configured Beta and Gamma.
func (e *Eliminator) WeightLimitFraction(inputSize, outputSize int) float64 {
	return WeightLimitFraction(inputSize, outputSize, e.cfg.Beta, e.cfg.Gamma)
}

// Eliminate selects len(output) of the input points and writes them to
// output. Every input row must have Config.Dimensions components. Output
// rows of the right length are overwritten in place; other rows are
// replaced with fresh slices. It returns an error wrapping
// ErrInvalidArgument, without touching output, if len(output) is not in
// [1, len(input)) or opts are invalid.
func (e *Eliminator) Eliminate(input, output [][]float64, opts Options) error {
	dims := e.cfg.Dimensions
	for i, row := range input {
		if len(row) != dims {
			return fmt.Errorf("%w: input point %d has %d components, want %d", ErrInvalidArgument, i, len(row), dims)
		}
	}
	if err := e.checkCall(len(input), len(output), &opts); err != nil {
		return err
	}

	flatIn := make([]float64, len(input)*dims)
	for i, row := range input {
		copy(flatIn[i*dims:], row)
	}
	flatOut := make([]float64, len(output)*dims)
	e.eliminate(flatIn, len(input), flatOut, len(output), opts)

	for i := range output {
		pt := flatOut[i*dims : (i+1)*dims]
		if len(output[i]) == dims {
			copy(output[i], pt)
		} else {
			output[i] = append([]float64(nil), pt...)
		}
	}
	return nil
}

// EliminateFlat is Eliminate over flat row-major buffers: input holds
// len(input)/Config.Dimensions points and output receives
// len(output)/Config.Dimensions of them.
func (e *Eliminator) EliminateFlat(input, output []float64, opts Options) error {
	dims := e.cfg.Dimensions
	if len(input)%dims != 0 {
		return fmt.Errorf("%w: input length %d is not a multiple of Dimensions %d", ErrInvalidArgument, len(input), dims)
	}
	if len(output)%dims != 0 {
		return fmt.Errorf("%w: output length %d is not a multiple of Dimensions %d", ErrInvalidArgument, len(output), dims)
	}
	n, m := len(input)/dims, len(output)/dims
	if err := e.checkCall(n, m, &opts); err != nil {
		return err
	}
	e.eliminate(input, n, output, m, opts)
	return nil
}

// Eliminate builds an Eliminator from cfg and returns outputSize points
// selected from data.
func Eliminate(data [][]float64, outputSize int, cfg Config, opts Options) ([][]float64, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if outputSize < 1 || outputSize >= len(data) {
		return nil, fmt.Errorf("%w: outputSize must be in [1, %d), got %d", ErrInvalidArgument, len(data), outputSize)
	}
	output := make([][]float64, outputSize)
	if err := e.Eliminate(data, output, opts); err != nil {
		return nil, err
	}
	return output, nil
}

// checkCall validates sizes and opts, resolving opts.Dimensions.
func (e *Eliminator) checkCall(inputSize, outputSize int, opts *Options) error {
	if inputSize == 0 {
		return fmt.Errorf("%w: input is empty", ErrInvalidArgument)
	}
	if outputSize >= inputSize {
		return fmt.Errorf("%w: output size %d must be less than input size %d", ErrInvalidArgument, outputSize, inputSize)
	}
	if outputSize < 1 {
		return fmt.Errorf("%w: output size must be >= 1, got %d", ErrInvalidArgument, outputSize)
	}
	if opts.Dimensions == 0 {
		opts.Dimensions = e.cfg.Dimensions
	}
	if opts.Dimensions < 2 || opts.Dimensions > e.cfg.Dimensions {
		return fmt.Errorf("%w: sampling Dimensions must be in [2, %d], got %d", ErrInvalidArgument, e.cfg.Dimensions, opts.Dimensions)
	}
	if math.IsNaN(opts.Radius) || math.IsInf(opts.Radius, 0) {
		return fmt.Errorf("%w: Radius must be finite, got %f", ErrInvalidArgument, opts.Radius)
	}
	return nil
}
