package engine

import (
	"context"

	"github.com/hupe1980/vecmatch/index"
	"github.com/hupe1980/vecmatch/index/flat"
	"github.com/hupe1980/vecmatch/index/ivf"
)

// Factory builds the index of one shard.
//
// vectors is the shard's slice of the corpus; the index must copy what it
// keeps. mem is charged for the index storage.
type Factory func(ctx context.Context, shard int, vectors [][]float32, dim int, mem index.MemoryAcquirer) (index.Index, error)

// FlatFactory builds exact flat indexes.
func FlatFactory() Factory {
	return func(ctx context.Context, _ int, vectors [][]float32, dim int, mem index.MemoryAcquirer) (index.Index, error) {
		f, err := flat.New(ctx, vectors, dim, flat.WithMemory(mem))
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// IVFFactory builds single-probe IVF indexes with nlist lists.
//
// Shard i is seeded with seed+i so shards do not share an initialization
// while the federation as a whole stays reproducible.
func IVFFactory(nlist, maxIterations int, seed int64) Factory {
	return func(ctx context.Context, shard int, vectors [][]float32, dim int, mem index.MemoryAcquirer) (index.Index, error) {
		idx, err := ivf.New(ctx, vectors, dim, nlist,
			ivf.WithMemory(mem),
			ivf.WithMaxIterations(maxIterations),
			ivf.WithSeed(seed+int64(shard)),
		)
		if err != nil {
			return nil, err
		}
		return idx, nil
	}
}
