package tablematch

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/vecmatch/embedding"
	"github.com/hupe1980/vecmatch/internal/math32"
)

// Aggregation selects how a column becomes a single vector.
type Aggregation int

const (
	// AggregateMean averages the embeddings of the column's non-empty cells.
	AggregateMean Aggregation = iota

	// AggregateHeader embeds one text per column: the header followed by
	// the first distinct cell values.
	AggregateHeader
)

// String returns a string representation of the Aggregation.
func (a Aggregation) String() string {
	switch a {
	case AggregateMean:
		return "mean"
	case AggregateHeader:
		return "header"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// DefaultHeaderCells is the number of cell values AggregateHeader appends
// to the header.
const DefaultHeaderCells = 5

// Adapter turns table columns into embedding vectors.
type Adapter struct {
	provider    embedding.Provider
	aggregation Aggregation
	headerCells int
}

// NewAdapter creates an Adapter.
func NewAdapter(p embedding.Provider, aggregation Aggregation) *Adapter {
	return &Adapter{
		provider:    p,
		aggregation: aggregation,
		headerCells: DefaultHeaderCells,
	}
}

// Vectors returns one vector per column of t, in column order.
//
// The whole table is embedded with a single provider call. Columns
// without non-empty cells are represented by their header.
func (a *Adapter) Vectors(ctx context.Context, t *Table) ([][]float32, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	var cells [][]string
	switch a.aggregation {
	case AggregateMean:
		cells = a.meanTexts(t)
	case AggregateHeader:
		cells = a.headerTexts(t)
	default:
		return nil, fmt.Errorf("unknown aggregation %s", a.aggregation)
	}

	texts, pos := dedupe(cells)

	vecs, err := a.provider.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed table %q: %w", t.Name, err)
	}
	if len(vecs) != len(texts) {
		return nil, &embedding.ErrProvider{
			Provider: fmt.Sprintf("%T", a.provider),
			Err:      fmt.Errorf("table %q: got %d embeddings for %d texts", t.Name, len(vecs), len(texts)),
		}
	}

	dim := a.provider.Dimensions()
	out := make([][]float32, len(cells))
	for c, idx := range pos {
		mean := make([]float32, dim)
		for _, i := range idx {
			if len(vecs[i]) != dim {
				return nil, &embedding.ErrProvider{
					Provider: fmt.Sprintf("%T", a.provider),
					Err:      fmt.Errorf("table %q column %q: embedding has %d dimensions, want %d", t.Name, t.Columns[c], len(vecs[i]), dim),
				}
			}
			math32.AddInPlace(mean, vecs[i])
		}
		math32.ScaleInPlace(mean, 1/float32(len(idx)))
		out[c] = mean
	}
	return out, nil
}

// meanTexts returns the non-empty cells of every column, or its header
// when there are none.
func (a *Adapter) meanTexts(t *Table) [][]string {
	out := make([][]string, len(t.Columns))
	for c, header := range t.Columns {
		for _, cell := range t.Column(c) {
			if cell = strings.TrimSpace(cell); cell != "" {
				out[c] = append(out[c], cell)
			}
		}
		if len(out[c]) == 0 {
			out[c] = []string{header}
		}
	}
	return out
}

// headerTexts returns one "header: v1, v2, ..." text per column.
func (a *Adapter) headerTexts(t *Table) [][]string {
	out := make([][]string, len(t.Columns))
	for c, header := range t.Columns {
		var (
			values []string
			seen   = map[string]bool{}
		)
		for _, cell := range t.Column(c) {
			cell = strings.TrimSpace(cell)
			if cell == "" || seen[cell] {
				continue
			}
			seen[cell] = true
			values = append(values, cell)
			if len(values) == a.headerCells {
				break
			}
		}

		text := header
		if len(values) > 0 {
			text += ": " + strings.Join(values, ", ")
		}
		out[c] = []string{text}
	}
	return out
}

// dedupe flattens per-column texts into distinct texts and, per column,
// the positions of its texts in that list.
func dedupe(cells [][]string) ([]string, [][]int) {
	var (
		texts []string
		index = map[string]int{}
		pos   = make([][]int, len(cells))
	)
	for c, col := range cells {
		for _, s := range col {
			i, ok := index[s]
			if !ok {
				i = len(texts)
				index[s] = i
				texts = append(texts, s)
			}
			pos[c] = append(pos[c], i)
		}
	}
	return texts, pos
}
