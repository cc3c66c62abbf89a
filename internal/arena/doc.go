// Package arena provides per-shard contiguous vector storage.
//
// A Vectors arena owns one []float32 buffer holding every row back to back;
// row i lives at offset i*dim. Shards never share an arena, so concurrent
// construction and search need no locking.
//
// # Memory Accounting
//
// Arenas reserve their byte size from a MemoryAcquirer before allocating
// and give it back on Release. A nil acquirer disables accounting.
package arena
