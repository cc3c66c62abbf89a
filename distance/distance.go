package distance

import (
	"slices"

	"github.com/hupe1980/vecmatch/internal/math32"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	return math32.Dot(a, b)
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float32 {
	return math32.Sqrt(math32.SquaredNorm(v))
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v is empty or has zero L2 norm; v is left unchanged then.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := math32.SquaredNorm(v)
	if norm2 == 0 {
		return false
	}
	inv := 1 / math32.Sqrt(norm2)
	math32.ScaleInPlace(v, inv)
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}

// NormalizeBatch L2-normalizes every vector of the batch in place and
// returns the number of zero-norm vectors that were left untouched.
//
// A zero vector scores 0 against everything, so it is kept rather than
// rejected.
func NormalizeBatch(vectors [][]float32) int {
	skipped := 0
	for _, v := range vectors {
		if !NormalizeL2InPlace(v) {
			skipped++
		}
	}
	return skipped
}
