package kmeans

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/hupe1980/vecmatch/internal/math32"
)

// ErrNotEnoughVectors is returned when there are fewer points than clusters.
var ErrNotEnoughVectors = errors.New("kmeans: not enough vectors")

// ErrInvalidK is returned when k is not positive.
var ErrInvalidK = errors.New("kmeans: k must be positive")

// TrainKMeans trains k centroids from the given vectors using spherical
// Lloyd iterations: centroids are unit length after every update.
// vectors is row-major (n * dim). It returns the flattened centroids (k * dim).
//
// Initial centroids are k distinct points drawn with rng, so results are
// reproducible for a fixed seed.
func TrainKMeans(ctx context.Context, vectors []float32, dim int, k int, maxIter int, rng *rand.Rand) ([]float32, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if dim <= 0 {
		return nil, fmt.Errorf("kmeans: invalid dimension %d", dim)
	}
	n := len(vectors) / dim
	if n < k {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughVectors, n, k)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1)) // nolint gosec
	}

	centroids := make([]float32, k*dim)

	perm := rng.Perm(n)
	for i := 0; i < k; i++ {
		seed(centroids[i*dim:(i+1)*dim], vectors[perm[i]*dim:(perm[i]+1)*dim])
	}

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}
	counts := make([]int, k)
	sums := make([]float32, k*dim)

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed := false

		// Assignment step
		for i := 0; i < n; i++ {
			best := AssignPartition(vectors[i*dim:(i+1)*dim], centroids, dim)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		if !changed {
			break
		}

		// Update step
		clear(sums)
		clear(counts)

		for i := 0; i < n; i++ {
			c := assignments[i]
			math32.AddInPlace(sums[c*dim:(c+1)*dim], vectors[i*dim:(i+1)*dim])
			counts[c]++
		}

		for j := 0; j < k; j++ {
			center := centroids[j*dim : (j+1)*dim]
			if counts[j] > 0 {
				seed(center, sums[j*dim:(j+1)*dim])
			} else {
				// Re-seed an empty cluster with a random point.
				idx := rng.Intn(n)
				seed(center, vectors[idx*dim:(idx+1)*dim])
			}
		}
	}

	return centroids, nil
}

// seed copies src into center and projects it onto the unit sphere.
// Without the projection a long centroid wins every inner product.
func seed(center, src []float32) {
	copy(center, src)
	norm2 := math32.SquaredNorm(center)
	if norm2 > 0 {
		math32.ScaleInPlace(center, 1/math32.Sqrt(norm2))
	}
}

// AssignPartition returns the centroid with the highest inner product with vec.
// Ties go to the lowest centroid index.
func AssignPartition(vec []float32, centroids []float32, dim int) int {
	k := len(centroids) / dim

	best := -1
	bestScore := float32(math.Inf(-1))

	for j := 0; j < k; j++ {
		s := math32.Dot(vec, centroids[j*dim:(j+1)*dim])
		if best < 0 || s > bestScore {
			bestScore = s
			best = j
		}
	}

	return best
}
