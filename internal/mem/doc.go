// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides 64-byte (cache line) aligned allocation for shard arenas, so no
// two shards ever share a cache line at the edges of their buffers.
package mem
