// Package distance provides inner-product scoring and L2 normalization.
//
// Scores are inner products. When both operands are L2-normalized the
// inner product equals the cosine of the angle between them, which is the
// similarity vecmatch reports by default.
//
// # Usage
//
//	sim := distance.Dot(a, b)
//	skipped := distance.NormalizeBatch(vectors) // zero vectors are left as-is
package distance
