package sampleelim

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// BallTree is a ball tree spatial index for fixed-radius neighbor queries.
// Each node stores a centroid and radius defining a ball that encloses all
// of its points. Ball trees prune better than KD-trees when the number of
// dimensions is high.
//
// The tree is stored as a complete binary tree in array form:
//   - node i has children at 2*i+1 and 2*i+2
type BallTree struct {
	data     []float64 // flat row-major point data (n * dims)
	ids      []int     // external id per build-order index
	n        int       // number of points
	dims     int       // dimensionality
	leafSize int
	idxArray []int      // permutation: tree-order position → build-order index
	nodes    []NodeData // one entry per tree node; Radius is used
	// centroids[node*dims .. (node+1)*dims) = centroid of node
	centroids []float64
	numNodes  int
}

// NewBallTree builds a ball tree from flat row-major data with n points
// of dimensionality dims. ids, if non-nil, supplies the id reported for
// each point. leafSize controls the max points per leaf node.
func NewBallTree(data []float64, n, dims int, ids []int, leafSize int) *BallTree {
	if leafSize < 1 {
		leafSize = 1
	}

	dataCopy := make([]float64, n*dims)
	copy(dataCopy, data)
	idxArray := make([]int, n)
	for i := range idxArray {
		idxArray[i] = i
	}

	maxNodes := kdMaxNodes(n, leafSize) // reuse the same upper bound
	t := &BallTree{
		data:      dataCopy,
		ids:       copyIDs(ids, n),
		n:         n,
		dims:      dims,
		leafSize:  leafSize,
		idxArray:  idxArray,
		nodes:     make([]NodeData, maxNodes),
		centroids: make([]float64, maxNodes*dims),
	}

	if n > 0 {
		t.buildNode(0, 0, n)
		t.numNodes = kdCountNodes(t.nodes, 0, len(t.nodes))
	}

	return t
}

// buildNode recursively builds the ball tree for points in idxArray[start:end].
func (t *BallTree) buildNode(nodeID, start, end int) {
	for nodeID >= len(t.nodes) {
		t.nodes = append(t.nodes, NodeData{})
		t.centroids = append(t.centroids, make([]float64, t.dims)...)
	}

	t.computeCentroid(nodeID, start, end)

	// Radius: max distance from centroid to any point in this node.
	centroid := t.centroids[nodeID*t.dims : (nodeID+1)*t.dims]
	var radius float64
	for i := start; i < end; i++ {
		ptIdx := t.idxArray[i]
		pt := t.data[ptIdx*t.dims : (ptIdx+1)*t.dims]
		if d := floats.Distance(centroid, pt, 2); d > radius {
			radius = d
		}
	}

	count := end - start
	if count <= t.leafSize {
		t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, IsLeaf: true, Radius: radius}
		return
	}

	t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, IsLeaf: false, Radius: radius}

	splitDim := t.findSpreadDim(start, end)
	t.sortByDim(start, end, splitDim)
	mid := start + count/2

	t.buildNode(2*nodeID+1, start, mid)
	t.buildNode(2*nodeID+2, mid, end)
}

// computeCentroid computes the mean of points idxArray[start:end] and stores
// it in the centroids array.
func (t *BallTree) computeCentroid(nodeID, start, end int) {
	centroid := t.centroids[nodeID*t.dims : (nodeID+1)*t.dims]
	for d := range centroid {
		centroid[d] = 0
	}
	for i := start; i < end; i++ {
		ptIdx := t.idxArray[i]
		floats.Add(centroid, t.data[ptIdx*t.dims:(ptIdx+1)*t.dims])
	}
	floats.Scale(1/float64(end-start), centroid)
}

// findSpreadDim returns the dimension with the greatest spread among
// points in idxArray[start:end].
func (t *BallTree) findSpreadDim(start, end int) int {
	bestDim := 0
	bestSpread := -1.0
	for d := 0; d < t.dims; d++ {
		minVal := math.Inf(1)
		maxVal := math.Inf(-1)
		for i := start; i < end; i++ {
			v := t.data[t.idxArray[i]*t.dims+d]
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
		spread := maxVal - minVal
		if spread > bestSpread {
			bestSpread = spread
			bestDim = d
		}
	}
	return bestDim
}

// sortByDim sorts idxArray[start:end] by the given dimension.
func (t *BallTree) sortByDim(start, end, dim int) {
	sub := t.idxArray[start:end]
	dims := t.dims
	data := t.data
	sort.Slice(sub, func(i, j int) bool {
		return data[sub[i]*dims+dim] < data[sub[j]*dims+dim]
	})
}

func (t *BallTree) NumPoints() int            { return t.n }
func (t *BallTree) NumFeatures() int          { return t.dims }
func (t *BallTree) NumNodes() int             { return t.numNodes }
func (t *BallTree) IdxArray() []int           { return t.idxArray }
func (t *BallTree) NodeDataArray() []NodeData { return t.nodes[:t.numNodes] }

// QueryRadius implements SpatialIndex.
func (t *BallTree) QueryRadius(center []float64, radius float64, visit func(id int, point []float64, dist2 float64)) {
	if t.n == 0 {
		return
	}
	t.radiusSearch(0, center, radius, visit)
}

func (t *BallTree) radiusSearch(nodeID int, center []float64, radius float64, visit func(int, []float64, float64)) {
	if nodeID >= len(t.nodes) {
		return
	}
	node := t.nodes[nodeID]
	if node.IdxStart == node.IdxEnd && nodeID != 0 {
		return
	}
	// The bound goes through a sqrt; leave slack so rounding never prunes a
	// point sitting exactly on the query radius.
	if t.minDistPoint(nodeID, center) > radius*(1+1e-9) {
		return
	}

	if node.IsLeaf {
		r2 := radius * radius
		for i := node.IdxStart; i < node.IdxEnd; i++ {
			ptIdx := t.idxArray[i]
			pt := t.data[ptIdx*t.dims : (ptIdx+1)*t.dims]
			if d2 := sqDist(center, pt); d2 <= r2 {
				visit(t.ids[ptIdx], pt, d2)
			}
		}
		return
	}

	t.radiusSearch(2*nodeID+1, center, radius, visit)
	t.radiusSearch(2*nodeID+2, center, radius, visit)
}

// minDistPoint returns a lower bound on the distance between a point and
// any point in the given node: max(0, |point - centroid| - radius).
func (t *BallTree) minDistPoint(node int, point []float64) float64 {
	centroid := t.centroids[node*t.dims : (node+1)*t.dims]
	dist := floats.Distance(point, centroid, 2) - t.nodes[node].Radius
	if dist < 0 {
		dist = 0
	}
	return dist
}
