// Package flat provides the exact shard index.
//
// Flat keeps every vector of its shard in one contiguous arena and answers
// queries by scoring all of them: O(Len() * Dimension()) per query and
// always exact within the shard.
package flat

import (
	"context"
	"errors"

	"github.com/hupe1980/vecmatch/index"
	"github.com/hupe1980/vecmatch/internal/arena"
	"github.com/hupe1980/vecmatch/internal/math32"
	"github.com/hupe1980/vecmatch/internal/pool"
	"github.com/hupe1980/vecmatch/internal/searcher"
)

// Compile time check to ensure Flat satisfies the index interface.
var _ index.Index = (*Flat)(nil)

// Options configures a Flat index.
type Options struct {
	// Memory, if set, is charged for the arena.
	Memory index.MemoryAcquirer
}

// Option configures a Flat index.
type Option func(*Options)

// WithMemory charges the index storage to m.
func WithMemory(m index.MemoryAcquirer) Option {
	return func(o *Options) {
		o.Memory = m
	}
}

// Flat is an exact inner-product index over one shard.
type Flat struct {
	vectors *arena.Vectors
}

// New copies vectors into a new Flat index of the given dimension.
func New(ctx context.Context, vectors [][]float32, dim int, optFns ...Option) (*Flat, error) {
	if dim <= 0 {
		return nil, &index.ErrInvalidDimension{Dimension: dim}
	}

	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	var mem arena.MemoryAcquirer
	if opts.Memory != nil {
		mem = opts.Memory
	}

	v, err := arena.FromRows(ctx, vectors, dim, mem)
	if err != nil {
		return nil, translateArenaError(err)
	}

	return &Flat{vectors: v}, nil
}

// Kind implements index.Index.
func (f *Flat) Kind() index.Kind {
	return index.KindFlat
}

// Len implements index.Index.
func (f *Flat) Len() int {
	return f.vectors.Len()
}

// Dimension implements index.Index.
func (f *Flat) Dimension() int {
	return f.vectors.Dim()
}

// Search implements index.Index.
func (f *Flat) Search(ctx context.Context, queries [][]float32, k int) (*index.Results, error) {
	if err := index.CheckQueries(queries, f.Dimension(), k); err != nil {
		return nil, err
	}

	res := index.NewResults(len(queries), k)
	sc := pool.Get(min(k, f.Len()))
	defer pool.Put(sc)

	for qi, q := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sc.Reset(min(k, f.Len()))
		for i := 0; i < f.vectors.Len(); i++ {
			sc.TopK.Push(searcher.Candidate{
				ID:    int64(i),
				Score: math32.Dot(q, f.vectors.Row(i)),
			})
		}

		res.SetRow(qi, sc.Collect())
	}

	return res, nil
}

// Vector returns a view of the stored vector with local label id.
func (f *Flat) Vector(id int) []float32 {
	return f.vectors.Row(id)
}

// Close implements index.Index.
func (f *Flat) Close() error {
	f.vectors.Release()
	return nil
}

func translateArenaError(err error) error {
	var rd *arena.ErrRowDimension
	if errors.As(err, &rd) {
		return &index.ErrDimensionMismatch{Expected: rd.Expected, Actual: rd.Actual, Row: rd.Row}
	}
	return err
}
