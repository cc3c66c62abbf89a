// Package vecmatch finds, for every query vector, the most similar vectors of
// a reference corpus by inner product.
//
// The corpus is split into contiguous shards, each shard gets its own index
// (exact flat scan or a single-probe IVF quantizer), all shards are searched
// in parallel and their top-k lists are merged into one globally ranked
// answer per query.
//
// # Quick Start
//
//	res, err := vecmatch.Search(ctx, corpus, queries,
//	    vecmatch.WithNumMatches(3),
//	    vecmatch.WithNumShards(4),
//	)
//	for _, m := range res.Row(0) {
//	    if m.IsSentinel() {
//	        break
//	    }
//	    fmt.Println(m.Index, m.Score)
//	}
//
// # Results
//
// Row i of a ResultSet holds exactly NumMatches entries sorted by descending
// score with ascending corpus position as tie-break. When fewer candidates
// exist the row is padded with sentinels: score -Inf, index -1.
//
// # Quantization
//
// WithQuantise(true) trains an IVF index with WithNList lists per shard and
// probes only the list whose centroid is closest to the query. Recall drops
// for queries near list boundaries in exchange for scanning roughly
// 1/NList of each shard. There is no multi-probe and no exact re-ranking.
// Every shard must hold at least NList vectors or the call fails with
// *ErrTraining; it never falls back to a flat index.
//
// # Lifecycle
//
// Shard indexes are built per call and released before the call returns.
// Nothing is persisted.
package vecmatch
