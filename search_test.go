package vecmatch

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecmatch/internal/resource"
	"github.com/hupe1980/vecmatch/testutil"
)

func randomVectors(seed int64, n, dim int) [][]float32 {
	return testutil.NewRNG(seed).UniformRangeVectors(n, dim)
}

func TestSearch_SingleVectorManyShards(t *testing.T) {
	metrics := &BasicMetricsCollector{}

	res, err := Search(context.Background(), [][]float32{{3, 4}}, [][]float32{{1, 0}},
		WithNumShards(3),
		WithNumMatches(2),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)

	assert.Equal(t, []int{0, -1}, res.Indices[0])
	assert.InDelta(t, 0.6, res.Scores[0][0], 1e-6)
	assert.Equal(t, int64(1), metrics.GetStats().BuildShards)
}

func TestSearch_TrainingFailure(t *testing.T) {
	metrics := &BasicMetricsCollector{}

	_, err := Search(context.Background(), randomVectors(1, 3, 4), randomVectors(2, 1, 4),
		WithNumShards(1),
		WithQuantise(true),
		WithNList(5),
		WithMetricsCollector(metrics),
	)

	var te *ErrTraining
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.Shard)
	assert.Equal(t, 3, te.ShardSize)
	assert.Equal(t, 5, te.NList)
	assert.Equal(t, int64(1), metrics.GetStats().BuildErrors)
}

func TestSearch_TrainingFailureNamesLowestShard(t *testing.T) {
	// 10 vectors over 3 shards: sizes 3, 3, 4.
	_, err := Search(context.Background(), randomVectors(1, 10, 4), randomVectors(2, 1, 4),
		WithNumShards(3),
		WithQuantise(true),
		WithNList(4),
	)

	var te *ErrTraining
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.Shard)
	assert.Equal(t, 3, te.ShardSize)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	metrics := &BasicMetricsCollector{}

	_, err := Search(context.Background(), randomVectors(1, 4, 384), randomVectors(2, 2, 256),
		WithMetricsCollector(metrics),
	)

	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, "query", dm.Input)
	assert.Equal(t, 0, dm.Row)
	assert.Equal(t, 384, dm.Expected)
	assert.Equal(t, 256, dm.Actual)

	stats := metrics.GetStats()
	assert.Equal(t, int64(0), stats.BuildCount, "no shard work before validation")
	assert.Equal(t, int64(1), stats.SearchErrors)
}

func TestSearch_RaggedCorpus(t *testing.T) {
	corpus := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 1}}

	_, err := Search(context.Background(), corpus, [][]float32{{1, 0, 0}})

	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, "corpus", dm.Input)
	assert.Equal(t, 2, dm.Row)
}

func TestSearch_MoreMatchesThanCorpus(t *testing.T) {
	corpus := randomVectors(1, 3, 8)

	res, err := Search(context.Background(), corpus, randomVectors(2, 2, 8),
		WithNumMatches(5),
		WithNumShards(2),
	)
	require.NoError(t, err)
	require.Equal(t, 2, res.Len())

	for i := 0; i < res.Len(); i++ {
		row := res.Row(i)
		require.Len(t, row, 5)

		seen := map[int]bool{}
		for _, m := range row[:3] {
			assert.False(t, m.IsSentinel())
			assert.False(t, seen[m.Index], "duplicate index %d", m.Index)
			seen[m.Index] = true
		}
		for _, m := range row[3:] {
			assert.True(t, m.IsSentinel())
			assert.Equal(t, -1, m.Index)
			assert.True(t, math.IsInf(float64(m.Score), -1))
		}
		assert.Len(t, res.Matches(i), 3)
	}
}

func TestSearch_EmptyInput(t *testing.T) {
	_, err := Search(context.Background(), nil, [][]float32{{1}})
	var ei *ErrEmptyInput
	require.ErrorAs(t, err, &ei)
	assert.Equal(t, "corpus", ei.Input)

	_, err = Search(context.Background(), [][]float32{{1}}, [][]float32{})
	require.ErrorAs(t, err, &ei)
	assert.Equal(t, "query", ei.Input)
}

func TestNew_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		opt    Option
		option string
	}{
		{"num matches", WithNumMatches(0), "num_matches"},
		{"num shards", WithNumShards(0), "num_shards"},
		{"nlist", WithNList(0), "nlist"},
		{"max iterations", WithMaxIterations(0), "max_iterations"},
		{"max workers", WithMaxWorkers(-1), "max_workers"},
		{"memory limit", WithMemoryLimit(-1), "memory_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			var ic *ErrInvalidConfiguration
			require.ErrorAs(t, err, &ic)
			assert.Equal(t, tt.option, ic.Option)

			// Configuration is checked before input.
			_, err = Search(context.Background(), nil, nil, tt.opt)
			require.ErrorAs(t, err, &ic)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultNumMatches, e.NumMatches())
	assert.Equal(t, DefaultNumShards(), e.NumShards())
	assert.GreaterOrEqual(t, DefaultNumShards(), 1)
}

func TestSearch_ShardCountDoesNotChangeExactResults(t *testing.T) {
	corpus := randomVectors(5, 200, 16)
	queries := randomVectors(6, 12, 16)

	want, err := Search(context.Background(), corpus, queries, WithNumShards(1), WithNumMatches(7))
	require.NoError(t, err)

	for _, shards := range []int{2, 3, 8, 64} {
		got, err := Search(context.Background(), corpus, queries, WithNumShards(shards), WithNumMatches(7))
		require.NoError(t, err)
		assert.Equal(t, want.Indices, got.Indices, "shards=%d", shards)
		for i := range want.Scores {
			assert.InDeltaSlice(t, want.Scores[i], got.Scores[i], 1e-6)
		}
	}
}

func TestSearch_QuantiseSingleListIsExact(t *testing.T) {
	corpus := randomVectors(7, 60, 8)
	queries := randomVectors(8, 5, 8)

	flat, err := Search(context.Background(), corpus, queries, WithNumShards(3), WithNumMatches(4))
	require.NoError(t, err)

	ivf, err := Search(context.Background(), corpus, queries, WithNumShards(3), WithNumMatches(4), WithQuantise(true), WithNList(1))
	require.NoError(t, err)

	assert.Equal(t, flat.Indices, ivf.Indices)
}

func TestSearch_QuantiseDeterministic(t *testing.T) {
	corpus := randomVectors(9, 120, 8)
	queries := randomVectors(10, 6, 8)
	opts := []Option{WithNumShards(2), WithQuantise(true), WithNList(4), WithSeed(99), WithNumMatches(3)}

	a, err := Search(context.Background(), corpus, queries, opts...)
	require.NoError(t, err)
	b, err := Search(context.Background(), corpus, queries, opts...)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSearch_QuantiseFindsSelf(t *testing.T) {
	corpus := randomVectors(11, 90, 6)

	res, err := Search(context.Background(), corpus, corpus[:10],
		WithNumShards(3), WithQuantise(true), WithNList(3), WithNumMatches(1))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, i, res.Indices[i][0])
		assert.InDelta(t, 1.0, res.Scores[i][0], 1e-5)
	}
}

func TestSearch_DoesNotModifyInput(t *testing.T) {
	corpus := [][]float32{{3, 4}, {0, 2}}
	queries := [][]float32{{0, 5}}

	_, err := Search(context.Background(), corpus, queries)
	require.NoError(t, err)

	assert.Equal(t, [][]float32{{3, 4}, {0, 2}}, corpus)
	assert.Equal(t, [][]float32{{0, 5}}, queries)
}

func TestSearch_WithoutNormalise(t *testing.T) {
	corpus := [][]float32{{1, 0}, {10, 0}}

	res, err := Search(context.Background(), corpus, [][]float32{{1, 0}}, WithNormalise(false))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, res.Indices[0])
	assert.Equal(t, []float32{10, 1}, res.Scores[0])

	res, err = Search(context.Background(), corpus, [][]float32{{1, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, res.Indices[0], "equal cosine ties break by position")
}

func TestSearch_ZeroVectors(t *testing.T) {
	corpus := [][]float32{{0, 0}, {1, 1}, {0, 0}}

	res, err := Search(context.Background(), corpus, [][]float32{{0, 0}}, WithNumMatches(3))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res.Indices[0])
	assert.Equal(t, []float32{0, 0, 0}, res.Scores[0])
}

func TestSearch_MemoryLimit(t *testing.T) {
	_, err := Search(context.Background(), randomVectors(1, 100, 32), randomVectors(2, 1, 32),
		WithNumShards(2), WithMemoryLimit(256))
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
}

func TestSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, randomVectors(1, 10, 4), randomVectors(2, 1, 4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Metrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	e, err := New(WithMetricsCollector(metrics), WithNumShards(2), WithQuantise(true), WithNList(2))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := e.Search(context.Background(), randomVectors(int64(i), 20, 4), randomVectors(9, 4, 4))
		require.NoError(t, err)
	}

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.BuildCount)
	assert.Equal(t, int64(6), stats.BuildShards)
	assert.Equal(t, int64(3), stats.QuantizedBuilds)
	assert.Equal(t, int64(3), stats.SearchCount)
	assert.Equal(t, int64(12), stats.SearchQueries)
	assert.Equal(t, int64(0), stats.SearchErrors)
}

func TestSearch_QuantiseRecallOnClusteredData(t *testing.T) {
	rng := testutil.NewRNG(21)
	corpus := rng.ClusteredVectors(400, 16, 4, 0.05)
	queries := corpus[:20]

	res, err := Search(context.Background(), corpus, queries,
		WithNumShards(2), WithQuantise(true), WithNList(4), WithNumMatches(10))
	require.NoError(t, err)

	var recall float64
	for i, q := range queries {
		recall += testutil.ComputeRecall(testutil.ExactTopK(q, corpus, 10), res.Indices[i])
	}
	recall /= float64(len(queries))

	assert.Greater(t, recall, 0.5)
}
