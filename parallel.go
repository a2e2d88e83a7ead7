package sampleelim

import "golang.org/x/sync/errgroup"

// pointWeight sums wf over the neighbors of point i, skipping self pairs and
// ids outside the eliminable range [0, n).
func pointWeight(idx SpatialIndex, point []float64, i, n int, radius float64, wf WeightFunc) float64 {
	var w float64
	idx.QueryRadius(point, radius, func(id int, q []float64, d2 float64) {
		if id >= n || id == i {
			return
		}
		w += wf(point, q, d2, radius)
	})
	return w
}

// computeWeights returns the initial weight of each of the n points in the
// flat row-major input. Rows are split across numWorkers goroutines; each
// weight is written by exactly one worker and summed in query order, so the
// result is bitwise identical to the single-threaded pass.
func computeWeights(idx SpatialIndex, input []float64, n, stride int, radius float64, wf WeightFunc, numWorkers int) []float64 {
	w := make([]float64, n)
	if numWorkers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			w[i] = pointWeight(idx, input[i*stride:(i+1)*stride], i, n, radius, wf)
		}
		return w
	}

	var g errgroup.Group
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for worker := 0; worker < numWorkers; worker++ {
		startRow := worker * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		g.Go(func() error {
			for i := startRow; i < endRow; i++ {
				w[i] = pointWeight(idx, input[i*stride:(i+1)*stride], i, n, radius, wf)
			}
			return nil
		})
	}

	_ = g.Wait() // workers never fail
	return w
}
