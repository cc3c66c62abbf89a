package embedding

import (
	"context"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru"
)

// Compile time check to ensure CachedProvider satisfies the Provider interface.
var _ Provider = (*CachedProvider)(nil)

// CachedProvider serves repeated texts from an LRU cache and forwards only
// misses to the wrapped provider.
//
// Returned vectors are shared with the cache and must not be modified.
type CachedProvider struct {
	inner Provider
	cache *lru.Cache
}

// NewCachedProvider wraps p with an LRU cache of size entries.
func NewCachedProvider(p Provider, size int) (*CachedProvider, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedProvider{inner: p, cache: c}, nil
}

// Embed implements Provider.
func (c *CachedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var (
		missing []string
		slots   = map[string][]int{}
	)
	for i, t := range texts {
		if v, ok := c.cache.Get(t); ok {
			out[i] = v.([]float32)
			continue
		}
		if _, seen := slots[t]; !seen {
			missing = append(missing, t)
		}
		slots[t] = append(slots[t], i)
	}

	if len(missing) == 0 && len(texts) > 0 {
		return out, nil
	}

	vecs, err := c.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, &ErrProvider{Provider: "cache", Err: fmt.Errorf("got %d embeddings for %d texts", len(vecs), len(missing))}
	}

	for j, t := range missing {
		c.cache.Add(t, vecs[j])
		for _, i := range slots[t] {
			out[i] = vecs[j]
		}
	}
	return out, nil
}

// Dimensions implements Provider.
func (c *CachedProvider) Dimensions() int {
	return c.inner.Dimensions()
}

// Len returns the number of cached texts.
func (c *CachedProvider) Len() int {
	return c.cache.Len()
}

// Purge empties the cache.
func (c *CachedProvider) Purge() {
	c.cache.Purge()
}

// Close purges the cache and closes the wrapped provider.
func (c *CachedProvider) Close() error {
	c.cache.Purge()
	return c.inner.Close()
}

// Contains reports whether all texts are cached.
func (c *CachedProvider) Contains(texts ...string) bool {
	return !slices.ContainsFunc(texts, func(t string) bool {
		return !c.cache.Contains(t)
	})
}
