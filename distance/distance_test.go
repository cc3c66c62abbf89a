package distance

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
		{"Large", make([]float32, 1024), make([]float32, 1024), 0},
	}

	for i := range tests[5].a {
		tests[5].a[i] = 1
		tests[5].b[i] = 1
	}
	tests[5].expected = 1024

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dot(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestNormalizeL2(t *testing.T) {
	t.Run("InPlace", func(t *testing.T) {
		v := []float32{3, 4}
		ok := NormalizeL2InPlace(v)
		assert.True(t, ok)
		assert.InDelta(t, float32(0.6), v[0], 1e-5)
		assert.InDelta(t, float32(0.8), v[1], 1e-5)

		assert.InDelta(t, float32(1.0), float32(math.Sqrt(float64(v[0]*v[0]+v[1]*v[1]))), 1e-5)

		vZero := []float32{0, 0}
		ok = NormalizeL2InPlace(vZero)
		assert.False(t, ok)
		assert.Equal(t, []float32{0, 0}, vZero)

		vEmpty := []float32{}
		ok = NormalizeL2InPlace(vEmpty)
		assert.False(t, ok)
	})

	t.Run("Copy", func(t *testing.T) {
		v := []float32{1, 0}
		dst, ok := NormalizeL2Copy(v)
		assert.True(t, ok)
		assert.Equal(t, float32(1), dst[0])
		assert.NotSame(t, &v[0], &dst[0])

		vZero := []float32{0, 0}
		dst, ok = NormalizeL2Copy(vZero)
		assert.False(t, ok)
		assert.Nil(t, dst)
	})

	t.Run("Idempotent", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 50; i++ {
			v := make([]float32, 64)
			for j := range v {
				v[j] = rng.Float32()*2 - 1
			}
			NormalizeL2InPlace(v)
			again := append([]float32(nil), v...)
			NormalizeL2InPlace(again)
			for j := range v {
				assert.InDelta(t, v[j], again[j], 1e-6)
			}
			assert.InDelta(t, 1.0, Norm(again), 1e-5)
		}
	})
}

func TestNormalizeBatch(t *testing.T) {
	batch := [][]float32{
		{3, 4},
		{0, 0},
		{0, 5},
	}

	skipped := NormalizeBatch(batch)
	assert.Equal(t, 1, skipped)
	assert.InDelta(t, 0.6, batch[0][0], 1e-6)
	assert.Equal(t, []float32{0, 0}, batch[1])
	assert.Equal(t, []float32{0, 1}, batch[2])

	// Zero vectors score 0 against anything.
	assert.Equal(t, float32(0), Dot(batch[1], batch[0]))
}
