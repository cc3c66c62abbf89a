package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"

	"github.com/hupe1980/vecmatch/index"
	"github.com/hupe1980/vecmatch/internal/partition"
	"github.com/hupe1980/vecmatch/internal/resource"
)

// Range is a half-open interval of corpus positions owned by one shard.
type Range = partition.Range

// Shard is one independently indexed slice of the corpus.
type Shard struct {
	ID    int
	Range Range
	Index index.Index
}

// shardCounters tracks per-shard search activity.
// Padded to keep concurrent shard workers off each other's cache lines.
type shardCounters struct {
	searches atomic.Int64
	queries  atomic.Int64
	results  atomic.Int64
	_        cpu.CacheLinePad
}

// ShardStats is a snapshot of one shard.
type ShardStats struct {
	ID       int
	Range    Range
	Kind     index.Kind
	Len      int
	Searches int64 // search calls served
	Queries  int64 // query rows scored
	Results  int64 // non-sentinel results returned
}

// Stats is a snapshot of a federation.
type Stats struct {
	Shards          []ShardStats
	Vectors         int
	Dimension       int
	MemoryUsage     int64
	PeakMemoryUsage int64
}

// Federation is an ordered collection of shards searched as one index.
//
// A Federation is immutable after Build and safe for concurrent Search calls.
type Federation struct {
	shards   []Shard
	counters []shardCounters
	dim      int
	n        int
	ctrl     *resource.Controller
	logger   *slog.Logger
	closed   atomic.Bool
}

// Build indexes every range of corpus with factory, in parallel.
//
// ranges must tile [0, len(corpus)) in order. If any shard fails the
// remaining builds are cancelled, the shards built so far are closed and
// the first failure is returned as a *ShardError.
func Build(ctx context.Context, corpus [][]float32, dim int, ranges []Range, factory Factory, optFns ...Option) (*Federation, error) {
	if factory == nil {
		return nil, errors.New("nil shard factory")
	}
	if err := checkRanges(ranges, len(corpus)); err != nil {
		return nil, err
	}

	opts := applyOptions(len(ranges), optFns)

	f := &Federation{
		shards:   make([]Shard, len(ranges)),
		counters: make([]shardCounters, len(ranges)),
		dim:      dim,
		n:        len(corpus),
		logger:   opts.logger,
		ctrl: resource.NewController(resource.Config{
			MemoryLimitBytes: opts.memoryLimit,
			MaxWorkers:       int64(opts.maxWorkers),
		}),
	}

	g, gctx := errgroup.WithContext(ctx)

	for i, r := range ranges {
		g.Go(func() error {
			if err := f.ctrl.AcquireWorker(gctx); err != nil {
				return &ShardError{Shard: i, Range: r, Err: err}
			}
			defer f.ctrl.ReleaseWorker()

			start := time.Now()

			idx, err := factory(gctx, i, corpus[r.Start:r.End], dim, f.ctrl)
			if err != nil {
				return &ShardError{Shard: i, Range: r, Err: err}
			}

			f.shards[i] = Shard{ID: i, Range: r, Index: idx}

			f.logger.LogAttrs(gctx, slog.LevelDebug, "shard built",
				slog.Int("shard", i),
				slog.String("range", r.String()),
				slog.String("kind", idx.Kind().String()),
				slog.Duration("duration", time.Since(start)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, s := range f.shards {
			if s.Index != nil {
				_ = s.Index.Close()
			}
		}
		return nil, err
	}

	return f, nil
}

func checkRanges(ranges []Range, n int) error {
	if len(ranges) == 0 {
		return ErrNoShards
	}
	next := 0
	for _, r := range ranges {
		if r.Start != next || r.Len() <= 0 {
			return fmt.Errorf("%w: %s after position %d", ErrIncompleteShards, r, next)
		}
		next = r.End
	}
	if next != n {
		return fmt.Errorf("%w: covers %d of %d positions", ErrIncompleteShards, next, n)
	}
	return nil
}

// Len returns the number of indexed vectors.
func (f *Federation) Len() int {
	return f.n
}

// Dimension returns the vector dimension.
func (f *Federation) Dimension() int {
	return f.dim
}

// NumShards returns the number of shards.
func (f *Federation) NumShards() int {
	return len(f.shards)
}

// Shards returns the shards in range order.
func (f *Federation) Shards() []Shard {
	return f.shards
}

// Search returns the k best corpus positions for every query.
//
// All shards are searched in parallel with the same query batch. Rows are
// padded with index sentinels when fewer than k candidates exist across
// all shards.
func (f *Federation) Search(ctx context.Context, queries [][]float32, k int) (*index.Results, error) {
	if f.closed.Load() {
		return nil, ErrClosed
	}
	if err := index.CheckQueries(queries, f.dim, k); err != nil {
		return nil, err
	}

	partials := make([]*index.Results, len(f.shards))

	g, gctx := errgroup.WithContext(ctx)

	for i := range f.shards {
		s := f.shards[i]
		g.Go(func() error {
			if err := f.ctrl.AcquireWorker(gctx); err != nil {
				return &ShardError{Shard: s.ID, Range: s.Range, Err: err}
			}
			defer f.ctrl.ReleaseWorker()

			res, err := s.Index.Search(gctx, queries, k)
			if err != nil {
				return &ShardError{Shard: s.ID, Range: s.Range, Err: err}
			}
			partials[i] = res

			c := &f.counters[i]
			c.searches.Add(1)
			c.queries.Add(int64(len(queries)))
			c.results.Add(countResults(res))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeResults(f.shards, partials, len(queries), k), nil
}

// Stats returns a snapshot of the federation.
func (f *Federation) Stats() Stats {
	st := Stats{
		Shards:          make([]ShardStats, len(f.shards)),
		Vectors:         f.n,
		Dimension:       f.dim,
		MemoryUsage:     f.ctrl.MemoryUsage(),
		PeakMemoryUsage: f.ctrl.PeakMemoryUsage(),
	}
	for i, s := range f.shards {
		c := &f.counters[i]
		st.Shards[i] = ShardStats{
			ID:       s.ID,
			Range:    s.Range,
			Kind:     s.Index.Kind(),
			Len:      s.Index.Len(),
			Searches: c.searches.Load(),
			Queries:  c.queries.Load(),
			Results:  c.results.Load(),
		}
	}
	return st
}

// Close releases every shard. Calling Close more than once is a no-op.
func (f *Federation) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	for _, s := range f.shards {
		if err := s.Index.Close(); err != nil {
			errs = append(errs, &ShardError{Shard: s.ID, Range: s.Range, Err: err})
		}
	}
	return errors.Join(errs...)
}

func countResults(r *index.Results) int64 {
	var n int64
	for _, l := range r.Labels {
		if !index.IsSentinel(l) {
			n++
		}
	}
	return n
}
