package sampleelim

import "log/slog"

// eliminate runs the full elimination of n flat input points down to m,
// writing the result to output. Arguments have already been validated and
// opts.Dimensions resolved.
func (e *Eliminator) eliminate(input []float64, n int, output []float64, m int, opts Options) {
	dims := opts.Dimensions
	radius := opts.Radius
	if radius <= 0 {
		radius = 2 * e.MaxPoissonDiskRadius(dims, m, 0)
	}

	wf := opts.Weight
	if wf == nil {
		if e.cfg.WeightLimiting {
			dMin := radius * e.WeightLimitFraction(n, m)
			wf = DefaultWeight(dMin, e.cfg.Alpha)
		} else {
			wf = UnclampedWeight(e.cfg.Alpha)
		}
	}

	log := Logger()
	log.Debug("sampleelim: eliminate",
		slog.Int("input", n),
		slog.Int("output", m),
		slog.Float64("radius", radius),
		slog.Int("dimensions", dims),
		slog.Bool("progressive", opts.Progressive),
		slog.Bool("tiling", e.cfg.Tiling))

	e.eliminateSamples(input, n, output, m, radius, wf, false)
	if !opts.Progressive {
		return
	}

	// Each round halves the kept head of the current buffer. The eliminated
	// tail of a round stays in output, so output[:k] is a valid sample for
	// every k once the head is down to fewer than 3 points.
	stride := e.cfg.Dimensions
	tmp := make([]float64, m*stride)
	inPts, outPts := output, tmp
	inIsOutput := true
	inSize, outSize := m, 0
	for inSize >= 3 {
		outSize = inSize / 2
		radius *= progressiveRadiusMultiplier(dims)
		log.Debug("sampleelim: progressive round",
			slog.Int("input", inSize),
			slog.Int("output", outSize),
			slog.Float64("radius", radius))

		e.eliminateSamples(inPts, inSize, outPts, outSize, radius, wf, true)
		if inIsOutput {
			copy(output[outSize*stride:inSize*stride], outPts[outSize*stride:inSize*stride])
		}
		inPts, outPts = outPts, inPts
		inIsOutput = !inIsOutput
		inSize = outSize
	}
	if !inIsOutput {
		copy(output[:outSize*stride], inPts[:outSize*stride])
	}
}

// eliminateSamples removes the n-m most crowded of the n input points at
// the given radius. The m survivors are written to output in heap order.
// With copyEliminated, the removed points follow them in reverse removal
// order, so output holds all n points and the last point removed sits at
// output[m].
func (e *Eliminator) eliminateSamples(input []float64, n int, output []float64, m int, radius float64, wf WeightFunc, copyEliminated bool) {
	stride := e.cfg.Dimensions
	idx := e.buildSampleIndex(input, n, radius)

	w := computeWeights(idx, input, n, stride, radius, wf, e.cfg.Workers)
	h := NewMaxHeap(w)

	for live := n; live > m; live-- {
		i := h.Top()
		h.Pop()
		point := input[i*stride : (i+1)*stride]
		idx.QueryRadius(point, radius, func(id int, q []float64, d2 float64) {
			if id >= n || id == i {
				return
			}
			h.Decrease(id, wf(point, q, d2, radius))
		})
	}

	target := m
	if copyEliminated {
		target = n
	}
	for k := 0; k < target; k++ {
		id := h.IDAt(k)
		copy(output[k*stride:(k+1)*stride], input[id*stride:(id+1)*stride])
	}
}

// buildSampleIndex indexes the n input points, adding periodic copies
// when tiling is enabled. Every coordinate axis wraps, including axes
// beyond the sampling dimensionality.
func (e *Eliminator) buildSampleIndex(input []float64, n int, radius float64) SpatialIndex {
	stride := e.cfg.Dimensions
	if !e.cfg.Tiling {
		return buildIndex(e.cfg.Index, input, n, stride, nil, e.cfg.LeafSize)
	}
	points, ids := tiledPoints(e.cfg.Bounds, input, n, stride, radius)
	return buildIndex(e.cfg.Index, points, len(ids), stride, ids, e.cfg.LeafSize)
}
