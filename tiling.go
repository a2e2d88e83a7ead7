package sampleelim

// tilePoint emits the periodic copies of point needed for radius queries on
// a torus. For every axis d >= dim on which point lies within radius of the
// upper bound, a copy shifted by -(Max[d]-Min[d]) is emitted; within radius
// of the lower bound, a copy shifted by +(Max[d]-Min[d]). Each copy is then
// tiled again over axes d+1.. so edge and corner copies are produced too.
// Copies carry the id of the original point.
func tilePoint(b Bounds, id int, point []float64, radius float64, dims, dim int, emit func(id int, p []float64)) {
	for d := dim; d < dims; d++ {
		if b.Max[d]-point[d] < radius {
			p := append([]float64(nil), point...)
			p[d] -= b.Extent(d)
			emit(id, p)
			tilePoint(b, id, p, radius, dims, d+1, emit)
		}
		if point[d]-b.Min[d] < radius {
			p := append([]float64(nil), point...)
			p[d] += b.Extent(d)
			emit(id, p)
			tilePoint(b, id, p, radius, dims, d+1, emit)
		}
	}
}

// tiledPoints returns input followed by all periodic copies of its n
// points, together with the id of each row. All stride axes are tiled.
func tiledPoints(b Bounds, input []float64, n, stride int, radius float64) ([]float64, []int) {
	points := make([]float64, n*stride, 2*n*stride)
	copy(points, input[:n*stride])
	ids := make([]int, n, 2*n)
	for i := range ids {
		ids[i] = i
	}
	emit := func(id int, p []float64) {
		points = append(points, p...)
		ids = append(ids, id)
	}
	for i := 0; i < n; i++ {
		tilePoint(b, i, input[i*stride:(i+1)*stride], radius, stride, 0, emit)
	}
	return points, ids
}
