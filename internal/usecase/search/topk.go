package search

import (
	"container/heap"

	"github.com/kailas-cloud/marketlens/internal/domain"
)

// Compile time check to ensure matchHeap satisfies the heap interface.
var _ heap.Interface = (*matchHeap)(nil)

// matchHeap is a min-heap on match quality: the root is the worst match held.
// Lower similarity is worse; on equal similarity the larger lead id is worse,
// so evictions preserve the id ascending tie order of the final ranking.
type matchHeap struct {
	items []domain.Match
}

func (h *matchHeap) Len() int { return len(h.items) }

func (h *matchHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Similarity != b.Similarity {
		return a.Similarity < b.Similarity
	}
	return a.LeadID > b.LeadID
}

func (h *matchHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *matchHeap) Push(x any) { h.items = append(h.items, x.(domain.Match)) }

func (h *matchHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// topK keeps the best k matches seen so far. k <= 0 means unbounded.
type topK struct {
	k    int
	heap matchHeap
}

func newTopK(k int) *topK {
	return &topK{k: k}
}

func (t *topK) push(m domain.Match) {
	if t.k <= 0 || t.heap.Len() < t.k {
		heap.Push(&t.heap, m)
		return
	}
	worst := t.heap.items[0]
	if m.Similarity > worst.Similarity ||
		(m.Similarity == worst.Similarity && m.LeadID < worst.LeadID) {
		t.heap.items[0] = m
		heap.Fix(&t.heap, 0)
	}
}

func (t *topK) drain() []domain.Match {
	out := t.heap.items
	t.heap.items = nil
	return out
}
