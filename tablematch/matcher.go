package tablematch

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/vecmatch"
	"github.com/hupe1980/vecmatch/embedding"
)

type options struct {
	aggregation   Aggregation
	headerCells   int
	searchOptions []vecmatch.Option
}

// Option configures a Matcher.
type Option func(*options)

// WithAggregation selects how columns are turned into vectors.
func WithAggregation(a Aggregation) Option {
	return func(o *options) {
		o.aggregation = a
	}
}

// WithHeaderCells sets how many cell values AggregateHeader appends to the header.
func WithHeaderCells(n int) Option {
	return func(o *options) {
		o.headerCells = n
	}
}

// WithSearchOptions forwards options to every vecmatch search.
func WithSearchOptions(opts ...vecmatch.Option) Option {
	return func(o *options) {
		o.searchOptions = append(o.searchOptions, opts...)
	}
}

// ScoredColumn is a column of the right-hand table with its similarity.
type ScoredColumn struct {
	Column string
	Score  float32
}

// ColumnMatch lists the columns most similar to one left-hand column.
type ColumnMatch struct {
	Column  string
	Matches []ScoredColumn
}

// Matcher compares table columns through an embedding provider.
type Matcher struct {
	adapter *Adapter
	opts    options
}

// NewMatcher creates a Matcher that embeds with p.
func NewMatcher(p embedding.Provider, optFns ...Option) *Matcher {
	opts := options{
		aggregation: AggregateMean,
		headerCells: DefaultHeaderCells,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := NewAdapter(p, opts.aggregation)
	if opts.headerCells > 0 {
		a.headerCells = opts.headerCells
	}

	return &Matcher{adapter: a, opts: opts}
}

// ColumnSearch returns, for every column of a, the most similar columns
// of b. The number of matches per column follows vecmatch.WithNumMatches.
func (m *Matcher) ColumnSearch(ctx context.Context, a, b *Table) ([]ColumnMatch, error) {
	res, err := m.search(ctx, a, b)
	if err != nil {
		return nil, err
	}

	out := make([]ColumnMatch, len(a.Columns))
	for i, col := range a.Columns {
		matches := res.Matches(i)
		cm := ColumnMatch{Column: col, Matches: make([]ScoredColumn, len(matches))}
		for j, match := range matches {
			cm.Matches[j] = ScoredColumn{Column: b.Columns[match.Index], Score: match.Score}
		}
		out[i] = cm
	}
	return out, nil
}

// SimilarityMatrix scores every column of a against every column of b.
func (m *Matcher) SimilarityMatrix(ctx context.Context, a, b *Table) (*SimilarityMatrix, error) {
	res, err := m.search(ctx, a, b, vecmatch.WithNumMatches(len(b.Columns)))
	if err != nil {
		return nil, err
	}

	sm := &SimilarityMatrix{
		Rows:   slices.Clone(a.Columns),
		Cols:   slices.Clone(b.Columns),
		Scores: make([][]float32, len(a.Columns)),
	}
	for i := range a.Columns {
		row := make([]float32, len(b.Columns))
		for _, match := range res.Matches(i) {
			row[match.Index] = match.Score
		}
		sm.Scores[i] = row
	}
	return sm, nil
}

// TableScore returns the mean, over the columns of a, of the best match
// score in b.
func (m *Matcher) TableScore(ctx context.Context, a, b *Table) (float32, error) {
	res, err := m.search(ctx, a, b, vecmatch.WithNumMatches(1))
	if err != nil {
		return 0, err
	}

	var sum float32
	for i := range a.Columns {
		if best := res.Matches(i); len(best) > 0 {
			sum += best[0].Score
		}
	}
	return sum / float32(len(a.Columns)), nil
}

// SearchTexts embeds queries and documents and returns, for every query,
// the most similar documents.
func (m *Matcher) SearchTexts(ctx context.Context, queries, documents []string) (*vecmatch.ResultSet, error) {
	if len(documents) == 0 {
		return nil, &vecmatch.ErrEmptyInput{Input: "corpus"}
	}
	if len(queries) == 0 {
		return nil, &vecmatch.ErrEmptyInput{Input: "query"}
	}

	vecs, err := m.adapter.provider.Embed(ctx, append(slices.Clone(documents), queries...))
	if err != nil {
		return nil, fmt.Errorf("embed texts: %w", err)
	}
	if len(vecs) != len(documents)+len(queries) {
		return nil, &embedding.ErrProvider{
			Provider: fmt.Sprintf("%T", m.adapter.provider),
			Err:      fmt.Errorf("got %d embeddings for %d texts", len(vecs), len(documents)+len(queries)),
		}
	}

	return vecmatch.Search(ctx, vecs[:len(documents)], vecs[len(documents):], m.opts.searchOptions...)
}

func (m *Matcher) search(ctx context.Context, a, b *Table, extra ...vecmatch.Option) (*vecmatch.ResultSet, error) {
	queries, err := m.adapter.Vectors(ctx, a)
	if err != nil {
		return nil, err
	}
	corpus, err := m.adapter.Vectors(ctx, b)
	if err != nil {
		return nil, err
	}

	opts := append(slices.Clone(m.opts.searchOptions), extra...)
	return vecmatch.Search(ctx, corpus, queries, opts...)
}

// SimilarityMatrix holds the score of every (row column, col column) pair.
type SimilarityMatrix struct {
	Rows   []string
	Cols   []string
	Scores [][]float32
}

// At returns the score of the pair, false if either column is unknown.
func (s *SimilarityMatrix) At(row, col string) (float32, bool) {
	i := slices.Index(s.Rows, row)
	j := slices.Index(s.Cols, col)
	if i < 0 || j < 0 {
		return 0, false
	}
	return s.Scores[i][j], true
}

// Best returns the highest scoring column for row, false if row is unknown.
// Ties go to the earlier column.
func (s *SimilarityMatrix) Best(row string) (string, float32, bool) {
	i := slices.Index(s.Rows, row)
	if i < 0 || len(s.Cols) == 0 {
		return "", 0, false
	}
	best := 0
	for j, score := range s.Scores[i] {
		if score > s.Scores[i][best] {
			best = j
		}
	}
	return s.Cols[best], s.Scores[i][best], true
}
