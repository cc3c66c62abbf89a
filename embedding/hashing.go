package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/hupe1980/vecmatch/distance"
)

const (
	// DefaultHashingDimensions is the vector length of NewHashingProvider(0).
	DefaultHashingDimensions = 256

	// DefaultNGram is the character n-gram size.
	DefaultNGram = 3
)

// Compile time check to ensure HashingProvider satisfies the Provider interface.
var _ Provider = (*HashingProvider)(nil)

// HashingOptions configures a HashingProvider.
type HashingOptions struct {
	// NGram is the character n-gram size.
	NGram int
}

// HashingProvider embeds text by hashing character n-grams into a fixed
// number of signed buckets.
//
// Each word is lower-cased and wrapped in '<' and '>' before n-grams are
// taken, so prefixes and suffixes carry their own features. Output vectors
// are L2-normalized. Texts without any word map to the zero vector.
type HashingProvider struct {
	dim   int
	ngram int
}

// NewHashingProvider creates a HashingProvider with dim buckets.
// dim <= 0 selects DefaultHashingDimensions.
func NewHashingProvider(dim int, optFns ...func(o *HashingOptions)) *HashingProvider {
	opts := HashingOptions{NGram: DefaultNGram}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.NGram <= 0 {
		opts.NGram = DefaultNGram
	}
	if dim <= 0 {
		dim = DefaultHashingDimensions
	}
	return &HashingProvider{dim: dim, ngram: opts.NGram}
}

// Embed implements Provider.
func (p *HashingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, &ErrProvider{Provider: p.name(), Err: fmt.Errorf("%w: empty batch", ErrUnsupportedInput)}
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, &ErrProvider{Provider: p.name(), Err: err}
		}
		out[i] = p.embed(text)
	}
	return out, nil
}

// Dimensions implements Provider.
func (p *HashingProvider) Dimensions() int {
	return p.dim
}

// Close implements Provider.
func (p *HashingProvider) Close() error {
	return nil
}

func (p *HashingProvider) name() string {
	return fmt.Sprintf("hashing-%dgram", p.ngram)
}

func (p *HashingProvider) embed(text string) []float32 {
	v := make([]float32, p.dim)
	h := fnv.New32a()

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	for _, w := range words {
		runes := []rune("<" + w + ">")
		for _, gram := range ngrams(runes, p.ngram) {
			h.Reset()
			_, _ = h.Write([]byte(gram))
			sum := h.Sum32()

			bucket := int(sum % uint32(p.dim))
			if sum&(1<<31) != 0 {
				v[bucket]--
			} else {
				v[bucket]++
			}
		}
	}

	distance.NormalizeL2InPlace(v)
	return v
}

// ngrams returns the n-grams of runes, or runes itself when shorter than n.
func ngrams(runes []rune, n int) []string {
	if len(runes) <= n {
		return []string{string(runes)}
	}
	out := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		out = append(out, string(runes[i:i+n]))
	}
	return out
}
