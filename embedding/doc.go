// Package embedding turns text into vectors for similarity search.
//
// A Provider maps a batch of strings to one vector per string, in input
// order. Three implementations are included:
//
//   - HashingProvider: offline, deterministic character n-gram hashing
//   - OpenAIProvider: any OpenAI-compatible embeddings endpoint
//   - CachedProvider: an LRU cache in front of another provider
//
// Every provider failure is reported as *ErrProvider.
package embedding
