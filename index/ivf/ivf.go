// Package ivf provides the quantized shard index.
//
// IVF trains NList centroids over the shard with inner-product k-means and
// files every vector under its best centroid. A query scores all centroids,
// probes the single best list and scores only that list's members.
//
// # Recall
//
// Probing one list is a deliberate speed-over-recall trade-off. A true
// top-k vector filed under another list is never seen, and a probed list
// with fewer than k members yields sentinel-padded rows. There is no
// multi-probe fallback and no exact rerank. With NList == 1 the index is
// equivalent to flat search.
package ivf

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/vecmatch/index"
	"github.com/hupe1980/vecmatch/internal/arena"
	"github.com/hupe1980/vecmatch/internal/conv"
	"github.com/hupe1980/vecmatch/internal/kmeans"
	"github.com/hupe1980/vecmatch/internal/math32"
	"github.com/hupe1980/vecmatch/internal/pool"
	"github.com/hupe1980/vecmatch/internal/searcher"
)

// Compile time check to ensure IVF satisfies the index interface.
var _ index.Index = (*IVF)(nil)

// ErrInvalidNList is returned when the list count is not positive.
var ErrInvalidNList = errors.New("ivf: nlist must be positive")

const (
	// DefaultMaxIterations bounds k-means training.
	DefaultMaxIterations = 25
	// DefaultSeed seeds centroid initialization.
	DefaultSeed int64 = 1
)

// Options configures an IVF index.
type Options struct {
	// Memory, if set, is charged for vectors and centroids.
	Memory index.MemoryAcquirer

	// MaxIterations bounds the k-means Lloyd iterations.
	MaxIterations int

	// Seed makes centroid initialization reproducible.
	Seed int64
}

// Option configures an IVF index.
type Option func(*Options)

// WithMemory charges the index storage to m.
func WithMemory(m index.MemoryAcquirer) Option {
	return func(o *Options) {
		o.Memory = m
	}
}

// WithMaxIterations sets the k-means iteration limit.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithSeed sets the centroid initialization seed.
func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}

// IVF is a single-probe inverted-file index over one shard.
type IVF struct {
	vectors   *arena.Vectors
	centroids *arena.Vectors
	lists     []*roaring.Bitmap
}

// New trains an IVF index with nlist lists over vectors.
//
// It fails with *index.ErrTooFewVectors when len(vectors) < nlist; there
// is no fallback to flat search.
func New(ctx context.Context, vectors [][]float32, dim, nlist int, optFns ...Option) (*IVF, error) {
	if dim <= 0 {
		return nil, &index.ErrInvalidDimension{Dimension: dim}
	}
	if nlist <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNList, nlist)
	}
	if len(vectors) < nlist {
		return nil, &index.ErrTooFewVectors{Have: len(vectors), Want: nlist}
	}

	opts := Options{
		MaxIterations: DefaultMaxIterations,
		Seed:          DefaultSeed,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	var mem arena.MemoryAcquirer
	if opts.Memory != nil {
		mem = opts.Memory
	}

	data, err := arena.FromRows(ctx, vectors, dim, mem)
	if err != nil {
		var rd *arena.ErrRowDimension
		if errors.As(err, &rd) {
			return nil, &index.ErrDimensionMismatch{Expected: rd.Expected, Actual: rd.Actual, Row: rd.Row}
		}
		return nil, err
	}

	idx, err := train(ctx, data, nlist, opts, mem)
	if err != nil {
		data.Release()
		return nil, err
	}
	return idx, nil
}

func train(ctx context.Context, data *arena.Vectors, nlist int, opts Options, mem arena.MemoryAcquirer) (*IVF, error) {
	dim := data.Dim()

	flat, err := kmeans.TrainKMeans(ctx, data.Data(), dim, nlist, opts.MaxIterations, rand.New(rand.NewSource(opts.Seed))) // nolint gosec
	if err != nil {
		return nil, fmt.Errorf("ivf: train: %w", err)
	}

	centroids, err := arena.New(ctx, dim, nlist, mem)
	if err != nil {
		return nil, err
	}
	for j := 0; j < nlist; j++ {
		if _, err := centroids.Append(flat[j*dim : (j+1)*dim]); err != nil {
			centroids.Release()
			return nil, err
		}
	}

	lists := make([]*roaring.Bitmap, nlist)
	for j := range lists {
		lists[j] = roaring.New()
	}
	for i := 0; i < data.Len(); i++ {
		label, err := conv.IntToUint32(i)
		if err != nil {
			centroids.Release()
			return nil, fmt.Errorf("ivf: label: %w", err)
		}
		c := kmeans.AssignPartition(data.Row(i), centroids.Data(), dim)
		lists[c].Add(label)
	}
	for _, l := range lists {
		l.RunOptimize()
	}

	return &IVF{
		vectors:   data,
		centroids: centroids,
		lists:     lists,
	}, nil
}

// Kind implements index.Index.
func (ivf *IVF) Kind() index.Kind {
	return index.KindIVF
}

// Len implements index.Index.
func (ivf *IVF) Len() int {
	return ivf.vectors.Len()
}

// Dimension implements index.Index.
func (ivf *IVF) Dimension() int {
	return ivf.vectors.Dim()
}

// NList returns the number of inverted lists.
func (ivf *IVF) NList() int {
	return len(ivf.lists)
}

// Probe returns the list a query is routed to.
func (ivf *IVF) Probe(query []float32) int {
	return kmeans.AssignPartition(query, ivf.centroids.Data(), ivf.Dimension())
}

// Search implements index.Index.
//
// Only the members of the probed list are scored; see the package
// documentation for the recall implications.
func (ivf *IVF) Search(ctx context.Context, queries [][]float32, k int) (*index.Results, error) {
	if err := index.CheckQueries(queries, ivf.Dimension(), k); err != nil {
		return nil, err
	}

	res := index.NewResults(len(queries), k)
	sc := pool.Get(k)
	defer pool.Put(sc)

	for qi, q := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		list := ivf.lists[ivf.Probe(q)]
		sc.Reset(min(k, int(list.GetCardinality())))

		it := list.Iterator()
		for it.HasNext() {
			id := it.Next()
			sc.TopK.Push(searcher.Candidate{
				ID:    int64(id),
				Score: math32.Dot(q, ivf.vectors.Row(int(id))),
			})
		}

		res.SetRow(qi, sc.Collect())
	}

	return res, nil
}

// Stats describes the list layout of an IVF index.
type Stats struct {
	NList      int
	Vectors    int
	ListSizes  []int
	EmptyLists int
	MaxList    int
}

// Stats returns the list layout.
func (ivf *IVF) Stats() Stats {
	s := Stats{
		NList:     len(ivf.lists),
		Vectors:   ivf.Len(),
		ListSizes: make([]int, len(ivf.lists)),
	}
	for j, l := range ivf.lists {
		n := int(l.GetCardinality())
		s.ListSizes[j] = n
		if n == 0 {
			s.EmptyLists++
		}
		if n > s.MaxList {
			s.MaxList = n
		}
	}
	return s
}

// Close implements index.Index.
func (ivf *IVF) Close() error {
	ivf.vectors.Release()
	ivf.centroids.Release()
	return nil
}
