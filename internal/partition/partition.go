// Package partition splits a corpus into contiguous shard ranges.
package partition

import (
	"errors"
	"fmt"
)

// MinChunkSize is the smallest chunk handed to a shard when the corpus is
// too small to give every requested shard floor(n/s) vectors of at least
// this size. Clustering needs at least two points per shard.
const MinChunkSize = 2

var (
	// ErrInvalidShardCount is returned when the requested shard count is not positive.
	ErrInvalidShardCount = errors.New("shard count must be positive")

	// ErrEmptyCorpus is returned when there is nothing to partition.
	ErrEmptyCorpus = errors.New("corpus is empty")
)

// Range is a half-open interval [Start, End) of corpus positions.
type Range struct {
	Start int
	End   int
}

// Len returns the number of positions in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// ChunkSize returns the nominal shard size for n vectors split into s shards.
func ChunkSize(n, s int) int {
	if s > 0 && n >= MinChunkSize*s {
		return n / s
	}
	return MinChunkSize
}

// Partition splits n positions into at most s contiguous ranges.
//
// Every range but the last has exactly ChunkSize(n, s) positions; the last
// absorbs the remainder. Fewer than s ranges are produced when the corpus
// cannot fill them, and no range is ever empty.
func Partition(n, s int) ([]Range, error) {
	if s <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShardCount, s)
	}
	if n <= 0 {
		return nil, ErrEmptyCorpus
	}

	c := ChunkSize(n, s)

	count := n / c
	if count < 1 {
		count = 1
	}
	if count > s {
		count = s
	}

	ranges := make([]Range, count)
	for i := range ranges {
		ranges[i] = Range{Start: i * c, End: (i + 1) * c}
	}
	ranges[count-1].End = n

	return ranges, nil
}
