package vecmatch

import (
	"github.com/hupe1980/vecmatch/index"
)

// Match is one entry of a result row.
type Match struct {
	Index int     // corpus position, -1 for a sentinel
	Score float32 // inner product, -Inf for a sentinel
}

// IsSentinel reports whether the entry is padding rather than a corpus match.
func (m Match) IsSentinel() bool {
	return m.Index < 0
}

// ResultSet holds one row of NumMatches entries per query.
//
// Rows are sorted by descending score, ties by ascending corpus position,
// and padded with sentinels when the corpus cannot fill them.
type ResultSet struct {
	Scores  [][]float32
	Indices [][]int
}

// Len returns the number of query rows.
func (r *ResultSet) Len() int {
	return len(r.Indices)
}

// Row returns the entries of query i, sentinels included.
func (r *ResultSet) Row(i int) []Match {
	row := make([]Match, len(r.Indices[i]))
	for j := range row {
		row[j] = Match{Index: r.Indices[i][j], Score: r.Scores[i][j]}
	}
	return row
}

// Matches returns the non-sentinel entries of query i.
func (r *ResultSet) Matches(i int) []Match {
	row := r.Row(i)
	for j, m := range row {
		if m.IsSentinel() {
			return row[:j]
		}
	}
	return row
}

func newResultSet(res *index.Results) *ResultSet {
	nq := res.NumQueries()
	rs := &ResultSet{
		Scores:  make([][]float32, nq),
		Indices: make([][]int, nq),
	}
	for i := 0; i < nq; i++ {
		scores, labels := res.Row(i)
		rs.Scores[i] = append([]float32(nil), scores...)
		idx := make([]int, len(labels))
		for j, l := range labels {
			idx[j] = int(l)
		}
		rs.Indices[i] = idx
	}
	return rs
}

func (r *ResultSet) found() int {
	n := 0
	for i := range r.Indices {
		n += len(r.Matches(i))
	}
	return n
}
