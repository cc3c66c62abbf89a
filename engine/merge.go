package engine

import (
	"container/heap"

	"github.com/hupe1980/vecmatch/index"
	"github.com/hupe1980/vecmatch/internal/searcher"
)

// cursor walks one shard's ranked row.
type cursor struct {
	scores []float32
	labels []int64
	offset int64
	pos    int
}

func (c *cursor) head() searcher.Candidate {
	return searcher.Candidate{
		ID:    c.labels[c.pos] + c.offset,
		Score: c.scores[c.pos],
	}
}

func (c *cursor) done() bool {
	return c.pos >= len(c.labels) || index.IsSentinel(c.labels[c.pos])
}

// mergeHeap orders cursors by their head candidate, best first.
type mergeHeap []*cursor

func (h mergeHeap) Len() int           { return len(h) }
func (h mergeHeap) Less(i, j int) bool { return searcher.Better(h[i].head(), h[j].head()) }
func (h mergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)        { *h = append(*h, x.(*cursor)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return c
}

// mergeResults k-way merges ranked per-shard rows into global rows.
//
// Every partial row is sorted by (score desc, label asc). Shard ranges are
// ordered and disjoint, so adding the range start keeps that order and
// makes ties across shards resolve to the lower corpus position.
func mergeResults(shards []Shard, partials []*index.Results, numQueries, k int) *index.Results {
	out := index.NewResults(numQueries, k)

	cursors := make([]cursor, len(shards))
	h := make(mergeHeap, 0, len(shards))
	buf := make([]searcher.Candidate, 0, k)

	for qi := 0; qi < numQueries; qi++ {
		h = h[:0]
		for si := range shards {
			scores, labels := partials[si].Row(qi)
			cursors[si] = cursor{
				scores: scores,
				labels: labels,
				offset: int64(shards[si].Range.Start),
			}
			if !cursors[si].done() {
				h = append(h, &cursors[si])
			}
		}
		heap.Init(&h)

		buf = buf[:0]
		for len(buf) < k && h.Len() > 0 {
			c := h[0]
			buf = append(buf, c.head())
			c.pos++
			if c.done() {
				heap.Pop(&h)
			} else {
				heap.Fix(&h, 0)
			}
		}

		out.SetRow(qi, buf)
	}

	return out
}
