// Package engine federates shard indexes into one globally ranked search.
//
// # Design
//
//   - The corpus is split into contiguous ranges; each range gets its own
//     index built from a Factory
//   - Shards are built in parallel; the first failure cancels the others and
//     no partial federation is ever returned
//   - Search fans out to every shard in parallel with the query batch
//     shared read-only, waits for all of them, then k-way merges the
//     per-shard rows
//   - Local labels become corpus positions by adding the shard start
//
// Ranking is by descending score with ascending corpus position as
// tie-break. Rows that cannot be filled are padded with index sentinels.
package engine
