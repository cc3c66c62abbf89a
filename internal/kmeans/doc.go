// Package kmeans implements k-means clustering for IVF training.
//
// Points are assigned to the centroid with the highest inner product, which
// matches how the quantized shard index probes its lists at query time.
// Centroids are kept at unit length (spherical k-means).
package kmeans
