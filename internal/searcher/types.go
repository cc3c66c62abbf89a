package searcher

// Candidate is a scored corpus member.
type Candidate struct {
	ID    int64
	Score float32
}

// Better reports whether a ranks ahead of b.
func Better(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ID < b.ID
}
