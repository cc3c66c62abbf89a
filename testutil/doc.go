// Package testutil provides testing utilities for vecmatch.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random vectors, computing exact
// inner-product neighbors, and verifying search recall.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UnitVectors(1000, 128)       // on the unit sphere
//	vecs := rng.ClusteredVectors(1000, 128, 8, 0.05)
//
// # Exact Search (Ground Truth)
//
//	truth := testutil.ExactTopK(query, corpus, k)
//
// # Recall Verification
//
//	recall := testutil.ComputeRecall(truth, approx)
package testutil
