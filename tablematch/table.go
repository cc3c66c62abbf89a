package tablematch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrRaggedTable is returned when a row has more cells than the header.
	ErrRaggedTable = errors.New("row length does not match header")

	// ErrNoColumns is returned for a table without a header row.
	ErrNoColumns = errors.New("table has no columns")

	// ErrUnknownColumn is returned when selecting a column that does not exist.
	ErrUnknownColumn = errors.New("unknown column")
)

// Table is a named grid of string cells with one header per column.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// Column returns the cells of column i, top to bottom.
func (t *Table) Column(i int) []string {
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Validate checks that the table has columns and every row matches the header.
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return ErrNoColumns
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: table %q row %d has %d cells, header has %d", ErrRaggedTable, t.Name, i, len(row), len(t.Columns))
		}
	}
	return nil
}

// Select returns a table holding only the named columns, in the given order.
func (t *Table) Select(columns ...string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j := slices.Index(t.Columns, c)
		if j < 0 {
			return nil, fmt.Errorf("%w: %q in table %q", ErrUnknownColumn, c, t.Name)
		}
		idx[i] = j
	}

	out := &Table{
		Name:    t.Name,
		Columns: slices.Clone(columns),
		Rows:    make([][]string, len(t.Rows)),
	}
	for r, row := range t.Rows {
		sel := make([]string, len(idx))
		for i, j := range idx {
			sel[i] = row[j]
		}
		out.Rows[r] = sel
	}
	return out, nil
}

// ReadCSV reads a table whose first record is the header.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		if errors.Is(err, csv.ErrFieldCount) {
			return nil, fmt.Errorf("%w: table %q: %w", ErrRaggedTable, name, err)
		}
		return nil, fmt.Errorf("read csv %q: %w", name, err)
	}

	return newTable(name, records)
}

// ReadXLSX reads a worksheet whose first row is the header. An empty sheet
// name selects the first sheet.
//
// Spreadsheets drop trailing empty cells, so short rows are padded with
// empty strings.
func ReadXLSX(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoColumns
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q", ErrNoColumns, sheet)
	}

	width := len(rows[0])
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) < width {
			rows[i] = append(rows[i], make([]string, width-len(rows[i]))...)
		}
	}

	return newTable(sheet, rows)
}

func newTable(name string, records [][]string) (*Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoColumns, name)
	}

	t := &Table{
		Name:    name,
		Columns: records[0],
		Rows:    records[1:],
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
