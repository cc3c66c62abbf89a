package index

import "github.com/hupe1980/vecmatch/internal/searcher"

// Results is a row-major NumQueries x K matrix of scores and labels.
type Results struct {
	K      int
	Scores []float32
	Labels []int64
}

// NewResults allocates a result matrix with every slot set to the sentinel.
func NewResults(numQueries, k int) *Results {
	r := &Results{
		K:      k,
		Scores: make([]float32, numQueries*k),
		Labels: make([]int64, numQueries*k),
	}
	for i := range r.Labels {
		r.Scores[i] = SentinelScore
		r.Labels[i] = SentinelLabel
	}
	return r
}

// NumQueries returns the number of rows.
func (r *Results) NumQueries() int {
	if r.K == 0 {
		return 0
	}
	return len(r.Labels) / r.K
}

// Row returns views of the scores and labels of query i.
func (r *Results) Row(i int) ([]float32, []int64) {
	lo, hi := i*r.K, (i+1)*r.K
	return r.Scores[lo:hi:hi], r.Labels[lo:hi:hi]
}

// SetRow writes ranked candidates into row i. Slots past len(cands) are
// reset to the sentinel.
func (r *Results) SetRow(i int, cands []searcher.Candidate) {
	scores, labels := r.Row(i)
	for j := range labels {
		if j < len(cands) {
			scores[j] = cands[j].Score
			labels[j] = cands[j].ID
			continue
		}
		scores[j] = SentinelScore
		labels[j] = SentinelLabel
	}
}
