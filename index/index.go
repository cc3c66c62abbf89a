package index

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Kind identifies the index structure.
type Kind int

const (
	// KindFlat is the exact brute-force index.
	KindFlat Kind = iota
	// KindIVF is the single-probe inverted-file index.
	KindIVF
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindFlat:
		return "Flat"
	case KindIVF:
		return "IVF"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// SentinelLabel marks a result slot without a match.
const SentinelLabel int64 = -1

// SentinelScore is the score of a result slot without a match.
var SentinelScore = float32(math.Inf(-1))

// IsSentinel reports whether label marks an empty result slot.
func IsSentinel(label int64) bool {
	return label < 0
}

// ErrInvalidK is returned when k is not positive.
var ErrInvalidK = errors.New("k must be positive")

// Index is a search structure over the vectors of one shard.
//
// Implementations are immutable after construction and safe for
// concurrent Search calls.
type Index interface {
	// Kind returns the index structure.
	Kind() Kind

	// Len returns the number of indexed vectors.
	Len() int

	// Dimension returns the vector dimension.
	Dimension() int

	// Search returns, for every query, the k best local labels ranked by
	// descending inner product with ascending label as tie-break.
	Search(ctx context.Context, queries [][]float32, k int) (*Results, error)

	// Close releases the memory reserved by the index.
	Close() error
}

// CheckQueries validates a query batch against an index dimension and k.
func CheckQueries(queries [][]float32, dim, k int) error {
	if k <= 0 {
		return ErrInvalidK
	}
	for i, q := range queries {
		if len(q) != dim {
			return &ErrDimensionMismatch{Expected: dim, Actual: len(q), Row: i}
		}
	}
	return nil
}

// MemoryAcquirer reserves memory for index storage.
type MemoryAcquirer interface {
	AcquireMemory(ctx context.Context, amount int64) error
	ReleaseMemory(amount int64)
}
