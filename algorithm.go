package sampleelim

import "fmt"

// IndexKind selects the spatial index used for radius queries.
type IndexKind string

const (
	IndexAuto     IndexKind = "auto"
	IndexKDTree   IndexKind = "kdtree"
	IndexBallTree IndexKind = "balltree"
	IndexBrute    IndexKind = "brute"
)

// maxKDTreeDims is the dimensionality above which IndexAuto prefers the
// ball tree: box bounds stop pruning once most boxes span the query.
const maxKDTreeDims = 60

// selectIndex resolves IndexAuto into a concrete index kind based on the
// number of indexed points and their dimensionality.
func selectIndex(kind IndexKind, n, dims, leafSize int) IndexKind {
	if kind != IndexAuto {
		return kind
	}
	if n <= leafSize {
		return IndexBrute
	}
	if dims <= maxKDTreeDims {
		return IndexKDTree
	}
	return IndexBallTree
}

// validIndexKind reports an error for unknown index kinds.
func validIndexKind(kind IndexKind) error {
	switch kind {
	case IndexAuto, IndexKDTree, IndexBallTree, IndexBrute:
		return nil
	default:
		return fmt.Errorf("%w: unknown Index %q", ErrInvalidArgument, kind)
	}
}

// buildIndex constructs the spatial index chosen for n points.
func buildIndex(kind IndexKind, data []float64, n, dims int, ids []int, leafSize int) SpatialIndex {
	switch selectIndex(kind, n, dims, leafSize) {
	case IndexBallTree:
		return NewBallTree(data, n, dims, ids, leafSize)
	case IndexBrute:
		return NewBruteIndex(data, n, dims, ids)
	default:
		return NewKDTree(data, n, dims, ids, leafSize)
	}
}
