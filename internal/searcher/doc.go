// Package searcher provides the bounded top-k queue shared by the shard
// indexes and the federation merge.
//
// Candidates are ranked by descending score; equal scores are ranked by
// ascending ID so every ranking is deterministic.
package searcher
