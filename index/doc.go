// Package index defines the shard-local search contract.
//
// vecmatch ships two shard indexes:
//
//   - flat: exact inner-product scan over every vector of the shard
//   - ivf: inverted-file index over k-means clusters, probing one list
//
// # Labels
//
// Indexes return LOCAL labels 0..Len()-1 in insertion order. The engine
// translates them into corpus positions by adding the shard offset.
//
// # Sentinels
//
// A query asking for more matches than an index can produce gets its row
// padded with SentinelScore / SentinelLabel. Sentinel entries always sort
// after every real entry and never name a corpus member.
package index
