package vecmatch

import (
	"context"
	"slices"
	"time"

	"github.com/hupe1980/vecmatch/distance"
	"github.com/hupe1980/vecmatch/engine"
	"github.com/hupe1980/vecmatch/internal/partition"
)

// Engine runs sharded similarity searches with a fixed configuration.
//
// An Engine holds no index state between calls and is safe for concurrent use.
type Engine struct {
	opts options
}

// New creates an Engine. Invalid options fail with *ErrInvalidConfiguration.
func New(optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return nil, err
	}
	return &Engine{opts: o}, nil
}

// Search is a convenience wrapper for New followed by Engine.Search.
func Search(ctx context.Context, corpus, queries [][]float32, optFns ...Option) (*ResultSet, error) {
	e, err := New(optFns...)
	if err != nil {
		return nil, err
	}
	return e.Search(ctx, corpus, queries)
}

// NumMatches returns the number of entries per result row.
func (e *Engine) NumMatches() int {
	return e.opts.numMatches
}

// NumShards returns the requested shard count.
func (e *Engine) NumShards() int {
	return e.opts.numShards
}

// Search returns, for every query, the NumMatches most similar corpus vectors.
//
// Input is validated before any shard work: empty batches fail with
// *ErrEmptyInput and rows whose length differs from the first corpus row
// fail with *ErrDimensionMismatch.
func (e *Engine) Search(ctx context.Context, corpus, queries [][]float32) (_ *ResultSet, err error) {
	o := &e.opts
	start := time.Now()

	defer func() {
		o.metricsCollector.RecordSearch(len(queries), o.numMatches, time.Since(start), err)
	}()

	dim, err := checkInput(corpus, queries)
	if err != nil {
		o.logger.LogSearch(ctx, len(queries), o.numMatches, 0, err)
		return nil, err
	}

	if o.normalise {
		corpus = e.normalise(ctx, "corpus", corpus)
		queries = e.normalise(ctx, "query", queries)
	}

	fed, err := e.build(ctx, corpus, dim)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = fed.Close()
	}()

	res, err := fed.Search(ctx, queries, o.numMatches)
	if err != nil {
		err = translateError(err)
		o.logger.LogSearch(ctx, len(queries), o.numMatches, 0, err)
		return nil, err
	}

	rs := newResultSet(res)
	o.logger.LogSearch(ctx, len(queries), o.numMatches, rs.found(), nil)

	return rs, nil
}

func (e *Engine) build(ctx context.Context, corpus [][]float32, dim int) (_ *engine.Federation, err error) {
	o := &e.opts
	start := time.Now()

	var ranges []partition.Range
	defer func() {
		o.metricsCollector.RecordBuild(len(ranges), o.quantise, time.Since(start), err)
		o.logger.LogBuild(ctx, len(ranges), o.quantise, time.Since(start), err)
	}()

	ranges, err = partition.Partition(len(corpus), o.numShards)
	if err != nil {
		return nil, err
	}

	factory := engine.FlatFactory()
	if o.quantise {
		// Ranges are ordered, so the first too-small one is the lowest shard.
		for i, r := range ranges {
			if r.Len() < o.nlist {
				return nil, &ErrTraining{Shard: i, ShardSize: r.Len(), NList: o.nlist}
			}
		}
		factory = engine.IVFFactory(o.nlist, o.maxIterations, o.seed)
	}

	fed, err := engine.Build(ctx, corpus, dim, ranges, factory,
		engine.WithMaxWorkers(o.maxWorkers),
		engine.WithMemoryLimit(o.memoryLimit),
		engine.WithLogger(o.logger.Logger),
	)
	if err != nil {
		return nil, translateError(err)
	}

	return fed, nil
}

func (e *Engine) normalise(ctx context.Context, input string, vectors [][]float32) [][]float32 {
	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		out[i] = slices.Clone(v)
	}
	if zeros := distance.NormalizeBatch(out); zeros > 0 {
		e.opts.logger.DebugContext(ctx, "zero vectors left unnormalized",
			"input", input,
			"count", zeros,
		)
	}
	return out
}

func checkInput(corpus, queries [][]float32) (int, error) {
	if len(corpus) == 0 {
		return 0, &ErrEmptyInput{Input: "corpus"}
	}
	if len(queries) == 0 {
		return 0, &ErrEmptyInput{Input: "query"}
	}

	dim := len(corpus[0])
	if dim == 0 {
		return 0, &ErrEmptyInput{Input: "corpus"}
	}
	for i, v := range corpus {
		if len(v) != dim {
			return 0, &ErrDimensionMismatch{Input: "corpus", Row: i, Expected: dim, Actual: len(v)}
		}
	}
	for i, q := range queries {
		if len(q) != dim {
			return 0, &ErrDimensionMismatch{Input: "query", Row: i, Expected: dim, Actual: len(q)}
		}
	}
	return dim, nil
}
