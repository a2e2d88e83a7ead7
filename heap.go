package sampleelim

// MaxHeap is an array-backed max-heap over a fixed set of ids 0..n-1, keyed
// by a weight per id. It tracks the slot of every id so a weight can be
// lowered in place.
//
// Popped ids are not discarded: Pop swaps the top into the last live slot
// and shrinks the live region, so the full array keeps every id. IDAt
// exposes that physical layout. After popping down to m live entries,
// IDAt(0..m-1) are the survivors in heap order and IDAt(m..n-1) are the
// popped ids, most recently popped first.
type MaxHeap struct {
	weights []float64 // weight per id
	heap    []int     // slot → id
	pos     []int     // id → slot
	count   int       // live entries occupy heap[:count]
}

// NewMaxHeap builds a heap over weights[i] for ids i = 0..len(weights)-1.
// The heap takes ownership of weights and updates them in place.
func NewMaxHeap(weights []float64) *MaxHeap {
	n := len(weights)
	h := &MaxHeap{
		weights: weights,
		heap:    make([]int, n),
		pos:     make([]int, n),
		count:   n,
	}
	for i := 0; i < n; i++ {
		h.heap[i] = i
		h.pos[i] = i
	}
	for i := n/2 - 1; i >= 0; i-- {
		h.siftDown(i)
	}
	return h
}

// Len returns the number of live entries.
func (h *MaxHeap) Len() int { return h.count }

// Top returns the id with the largest weight. The heap must not be empty.
func (h *MaxHeap) Top() int { return h.heap[0] }

// Pop removes the top id. It reports false if the heap was already empty.
func (h *MaxHeap) Pop() bool {
	if h.count == 0 {
		return false
	}
	h.count--
	h.swap(0, h.count)
	h.siftDown(0)
	return true
}

// Decrease lowers the weight of id by delta and restores the heap order.
// Weights of popped ids are still updated but their slots do not move.
func (h *MaxHeap) Decrease(id int, delta float64) {
	h.weights[id] -= delta
	if slot := h.pos[id]; slot < h.count {
		h.siftDown(slot)
	}
}

// Weight returns the current weight of id.
func (h *MaxHeap) Weight(id int) float64 { return h.weights[id] }

// Contains reports whether id has not been popped.
func (h *MaxHeap) Contains(id int) bool { return h.pos[id] < h.count }

// IDAt returns the id stored in the given slot of the heap array.
func (h *MaxHeap) IDAt(slot int) int { return h.heap[slot] }

func (h *MaxHeap) less(a, b int) bool {
	return h.weights[h.heap[a]] < h.weights[h.heap[b]]
}

func (h *MaxHeap) swap(a, b int) {
	h.heap[a], h.heap[b] = h.heap[b], h.heap[a]
	h.pos[h.heap[a]] = a
	h.pos[h.heap[b]] = b
}

// siftDown moves the entry at slot down until neither child is heavier.
func (h *MaxHeap) siftDown(slot int) {
	for {
		child := 2*slot + 1
		if child >= h.count {
			return
		}
		if right := child + 1; right < h.count && h.less(child, right) {
			child = right
		}
		if !h.less(slot, child) {
			return
		}
		h.swap(slot, child)
		slot = child
	}
}
