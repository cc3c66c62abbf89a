package searcher

import "slices"

// TopK keeps the k best candidates seen so far.
//
// It is a min-heap on rank: the root is the worst retained candidate, so a
// new candidate only has to beat the root to get in.
// It does NOT implement container/heap to avoid interface overhead.
type TopK struct {
	k     int
	items []Candidate
}

// NewTopK creates a queue retaining at most k candidates.
func NewTopK(k int) *TopK {
	if k < 0 {
		k = 0
	}
	return &TopK{
		k:     k,
		items: make([]Candidate, 0, k),
	}
}

// Reset clears the queue for reuse with a new capacity.
func (q *TopK) Reset(k int) {
	if k < 0 {
		k = 0
	}
	q.k = k
	q.items = q.items[:0]
}

// Len returns the number of retained candidates.
func (q *TopK) Len() int {
	return len(q.items)
}

// Cap returns the capacity k.
func (q *TopK) Cap() int {
	return q.k
}

// Push offers a candidate and reports whether it was retained.
func (q *TopK) Push(c Candidate) bool {
	if q.k == 0 {
		return false
	}
	if len(q.items) < q.k {
		q.items = append(q.items, c)
		q.siftUp(len(q.items) - 1)
		return true
	}
	if !Better(c, q.items[0]) {
		return false
	}
	q.items[0] = c
	q.siftDown(0)
	return true
}

// Worst returns the lowest-ranked retained candidate.
func (q *TopK) Worst() (Candidate, bool) {
	if len(q.items) == 0 {
		return Candidate{}, false
	}
	return q.items[0], true
}

// AppendSorted appends the retained candidates best-first to dst.
// The queue is left unchanged.
func (q *TopK) AppendSorted(dst []Candidate) []Candidate {
	start := len(dst)
	dst = append(dst, q.items...)
	SortCandidates(dst[start:])
	return dst
}

// SortCandidates sorts candidates best-first.
func SortCandidates(cs []Candidate) {
	slices.SortFunc(cs, func(a, b Candidate) int {
		switch {
		case Better(a, b):
			return -1
		case Better(b, a):
			return 1
		default:
			return 0
		}
	})
}

// worse reports whether the element at i ranks behind the element at j.
func (q *TopK) worse(i, j int) bool {
	return Better(q.items[j], q.items[i])
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.worse(i, parent) {
			break
		}
		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		right := left + 1
		if right < n && q.worse(right, left) {
			child = right
		}
		if !q.worse(child, i) {
			break
		}
		q.items[i], q.items[child] = q.items[child], q.items[i]
		i = child
	}
}
