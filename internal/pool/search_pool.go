// Package pool provides object pools for low-allocation shard scans.
// Uses sync.Pool for automatic memory reuse across queries and calls.
package pool

import (
	"sync"

	"github.com/hupe1980/vecmatch/internal/searcher"
)

// DefaultQueueCapacity is the initial capacity of pooled queues.
const DefaultQueueCapacity = 64

// maxPooledCapacity bounds the buffers kept in the pool.
const maxPooledCapacity = 1 << 16

// SearchContext contains reusable buffers for one shard scan.
type SearchContext struct {
	TopK   *searcher.TopK
	Sorted []searcher.Candidate
}

// searchContextPool is the global pool of SearchContext objects.
var searchContextPool = sync.Pool{
	New: func() any {
		return &SearchContext{
			TopK:   searcher.NewTopK(DefaultQueueCapacity),
			Sorted: make([]searcher.Candidate, 0, DefaultQueueCapacity),
		}
	},
}

// Get retrieves a SearchContext from the pool, ready for k results.
func Get(k int) *SearchContext {
	sc := searchContextPool.Get().(*SearchContext)
	sc.Reset(k)
	return sc
}

// Put returns a SearchContext to the pool for reuse.
func Put(sc *SearchContext) {
	if cap(sc.Sorted) > maxPooledCapacity {
		return
	}
	searchContextPool.Put(sc)
}

// Reset clears the SearchContext for a new query with k results.
func (sc *SearchContext) Reset(k int) {
	sc.TopK.Reset(k)
	sc.Sorted = sc.Sorted[:0]
}

// Collect drains the queue into Sorted, best first, and returns it.
// The slice is only valid until the next Reset.
func (sc *SearchContext) Collect() []searcher.Candidate {
	sc.Sorted = sc.TopK.AppendSorted(sc.Sorted[:0])
	return sc.Sorted
}
