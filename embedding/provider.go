package embedding

import "context"

// Provider maps texts to embedding vectors.
type Provider interface {
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the length of every returned vector.
	Dimensions() int

	// Close releases provider resources.
	Close() error
}
