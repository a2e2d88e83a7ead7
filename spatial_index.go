package sampleelim

// NodeData describes a single node in a spatial tree.
type NodeData struct {
	IdxStart, IdxEnd int
	IsLeaf           bool
	Radius           float64 // ball tree radius; 0 for KD-tree
}

// SpatialIndex answers fixed-radius neighbor queries over a point set.
// Implementations are read-only after construction, so queries may run
// concurrently.
type SpatialIndex interface {
	// QueryRadius calls visit for every indexed point whose squared distance
	// to center is <= radius*radius. Points are visited in no particular
	// order. id is the external id given at build time, or the build-order
	// index when no ids were given. point aliases index storage and must not
	// be modified or retained.
	QueryRadius(center []float64, radius float64, visit func(id int, point []float64, dist2 float64))

	// NumPoints returns the number of indexed points.
	NumPoints() int

	// NumFeatures returns the dimensionality of each point.
	NumFeatures() int
}

// Neighbor is one result of a radius query.
type Neighbor struct {
	ID    int
	Point []float64
	Dist2 float64
}

// QueryNeighbors collects the results of idx.QueryRadius into a slice.
// Each Neighbor.Point is a copy.
func QueryNeighbors(idx SpatialIndex, center []float64, radius float64) []Neighbor {
	var out []Neighbor
	idx.QueryRadius(center, radius, func(id int, p []float64, d2 float64) {
		out = append(out, Neighbor{ID: id, Point: append([]float64(nil), p...), Dist2: d2})
	})
	return out
}

// BruteIndex is a SpatialIndex that scans every point on each query. It is
// the fastest choice for very small inputs and the reference the trees are
// tested against.
type BruteIndex struct {
	data []float64
	ids  []int
	n    int
	dims int
}

// NewBruteIndex builds a linear-scan index over flat row-major data with n
// points of dimensionality dims. ids, if non-nil, must have length n.
func NewBruteIndex(data []float64, n, dims int, ids []int) *BruteIndex {
	return &BruteIndex{
		data: append([]float64(nil), data[:n*dims]...),
		ids:  copyIDs(ids, n),
		n:    n,
		dims: dims,
	}
}

func (b *BruteIndex) NumPoints() int   { return b.n }
func (b *BruteIndex) NumFeatures() int { return b.dims }

// QueryRadius implements SpatialIndex.
func (b *BruteIndex) QueryRadius(center []float64, radius float64, visit func(id int, point []float64, dist2 float64)) {
	r2 := radius * radius
	for i := 0; i < b.n; i++ {
		pt := b.data[i*b.dims : (i+1)*b.dims]
		if d2 := sqDist(center, pt); d2 <= r2 {
			visit(b.ids[i], pt, d2)
		}
	}
}

// copyIDs returns a copy of ids, or the identity mapping 0..n-1 when ids is nil.
func copyIDs(ids []int, n int) []int {
	out := make([]int, n)
	if ids == nil {
		for i := range out {
			out[i] = i
		}
		return out
	}
	copy(out, ids)
	return out
}

// sqDist returns the squared Euclidean distance between a and b.
func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
