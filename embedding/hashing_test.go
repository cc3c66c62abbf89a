package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecmatch/distance"
)

func TestHashingProvider(t *testing.T) {
	p := NewHashingProvider(512)
	assert.Equal(t, 512, p.Dimensions())

	vecs, err := p.Embed(context.Background(), []string{"I like tomatoes", "tomato", "I like tomatoes", "!!"})
	require.NoError(t, err)
	require.Len(t, vecs, 4)

	for _, v := range vecs {
		assert.Len(t, v, 512)
	}
	assert.Equal(t, vecs[0], vecs[2], "deterministic")
	assert.InDelta(t, 1.0, distance.Norm(vecs[0]), 1e-5)
	assert.Equal(t, float32(0), distance.Norm(vecs[3]), "no words")
}

func TestHashingProvider_SimilarWordsScoreHigher(t *testing.T) {
	p := NewHashingProvider(1024)

	vecs, err := p.Embed(context.Background(), []string{"tomato", "tomatoes", "potatoes", "challenges"})
	require.NoError(t, err)

	tomatoes := distance.Dot(vecs[0], vecs[1])
	potatoes := distance.Dot(vecs[0], vecs[2])
	challenges := distance.Dot(vecs[0], vecs[3])

	assert.Greater(t, tomatoes, potatoes)
	assert.Greater(t, tomatoes, challenges)
}

func TestHashingProvider_CaseInsensitive(t *testing.T) {
	p := NewHashingProvider(64)

	vecs, err := p.Embed(context.Background(), []string{"Hello World", "hello, world"})
	require.NoError(t, err)
	assert.Equal(t, vecs[0], vecs[1])
}

func TestHashingProvider_Options(t *testing.T) {
	p := NewHashingProvider(0, func(o *HashingOptions) { o.NGram = 2 })
	assert.Equal(t, DefaultHashingDimensions, p.Dimensions())
	assert.Equal(t, 2, p.ngram)

	assert.Equal(t, []string{"<a>"}, ngrams([]rune("<a>"), 3))
	assert.Equal(t, []string{"<ab", "ab>"}, ngrams([]rune("<ab>"), 3))
}

func TestHashingProvider_Errors(t *testing.T) {
	p := NewHashingProvider(8)

	_, err := p.Embed(context.Background(), nil)
	var pe *ErrProvider
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, ErrUnsupportedInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Embed(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}
