// Package tablematch matches the columns of one table against the columns
// of another by comparing embeddings of their contents.
//
// Each column is turned into a single vector by an Adapter, and the column
// vectors are searched with vecmatch. The same table may be passed on both
// sides to find related columns within one table.
//
//	m := tablematch.NewMatcher(embedding.NewHashingProvider(0))
//	matches, err := m.ColumnSearch(ctx, left, right)
package tablematch
