package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	// DefaultOpenAIModel is the embedding model used when none is configured.
	DefaultOpenAIModel = "text-embedding-3-small"

	// DefaultBatchSize caps the texts sent in one request.
	DefaultBatchSize = 256
)

// Compile time check to ensure OpenAIProvider satisfies the Provider interface.
var _ Provider = (*OpenAIProvider)(nil)

// OpenAIConfig configures an OpenAIProvider.
type OpenAIConfig struct {
	// BaseURL of an OpenAI-compatible API. Empty uses the OpenAI default.
	BaseURL string
	APIKey  string
	Model   string

	// Dimensions is the vector length. It is sent with every request, so
	// models that support shortened embeddings return vectors of this size.
	Dimensions int

	// BatchSize caps the texts per request. Zero selects DefaultBatchSize.
	BatchSize int

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64

	// HTTPClient overrides the HTTP client.
	HTTPClient *http.Client
}

// OpenAIProvider embeds texts with an OpenAI-compatible embeddings API.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	dim       int
	batchSize int
	limiter   *rate.Limiter
}

// NewOpenAIProvider creates an OpenAIProvider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("openai provider: dimensions must be positive, got %d", cfg.Dimensions)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientConfig.HTTPClient = cfg.HTTPClient
	}

	p := &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		dim:       cfg.Dimensions,
		batchSize: cfg.BatchSize,
	}
	if cfg.RequestsPerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return p, nil
}

// Embed implements Provider.
//
// Texts are sent in batches of at most BatchSize; response items are
// placed by their index so the output follows input order.
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, p.wrap(fmt.Errorf("%w: empty batch", ErrUnsupportedInput))
	}
	if slices.Contains(texts, "") {
		return nil, p.wrap(fmt.Errorf("%w: empty text", ErrUnsupportedInput))
	}

	out := make([][]float32, 0, len(texts))
	for batch := range slices.Chunk(texts, p.batchSize) {
		vecs, err := p.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (p *OpenAIProvider) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, p.wrap(err)
		}
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(p.model),
		Dimensions: p.dim,
	})
	if err != nil {
		return nil, p.wrap(fmt.Errorf("create embeddings: %w", err))
	}

	if len(resp.Data) != len(texts) {
		return nil, p.wrap(fmt.Errorf("got %d embeddings for %d texts", len(resp.Data), len(texts)))
	}

	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || vecs[d.Index] != nil {
			return nil, p.wrap(fmt.Errorf("invalid embedding index %d", d.Index))
		}
		if len(d.Embedding) != p.dim {
			return nil, p.wrap(fmt.Errorf("embedding %d has %d dimensions, want %d", d.Index, len(d.Embedding), p.dim))
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}

// Dimensions implements Provider.
func (p *OpenAIProvider) Dimensions() int {
	return p.dim
}

// Close implements Provider.
func (p *OpenAIProvider) Close() error {
	return nil
}

func (p *OpenAIProvider) wrap(err error) error {
	return &ErrProvider{Provider: "openai", Model: p.model, Err: err}
}

// IsRateLimited reports whether err is an HTTP 429 from the embeddings API.
func IsRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
