package arena

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/vecmatch/internal/mem"
)

// MemoryAcquirer is an interface for acquiring memory.
type MemoryAcquirer interface {
	AcquireMemory(ctx context.Context, amount int64) error
	ReleaseMemory(amount int64)
}

var (
	// ErrArenaFull is returned when appending beyond the reserved capacity.
	ErrArenaFull = errors.New("arena is full")
	// ErrInvalidDimension is returned for a non-positive dimension.
	ErrInvalidDimension = errors.New("arena: dimension must be positive")
)

// ErrRowDimension indicates a row whose length differs from the arena dimension.
type ErrRowDimension struct {
	Row      int
	Expected int
	Actual   int
}

func (e *ErrRowDimension) Error() string {
	return fmt.Sprintf("arena: row %d has dimension %d, expected %d", e.Row, e.Actual, e.Expected)
}

const bytesPerFloat32 = 4

// Vectors is a fixed-capacity, contiguous store of equal-length float32 rows.
type Vectors struct {
	dim      int
	data     []float32
	n        int
	reserved int64
	acq      MemoryAcquirer
}

// New reserves space for capacity rows of dim floats.
// The buffer starts on a cache line boundary.
func New(ctx context.Context, dim, capacity int, acq MemoryAcquirer) (*Vectors, error) {
	if dim <= 0 {
		return nil, ErrInvalidDimension
	}
	if capacity < 0 {
		capacity = 0
	}

	size := int64(dim) * int64(capacity) * bytesPerFloat32
	if acq != nil {
		if err := acq.AcquireMemory(ctx, size); err != nil {
			return nil, fmt.Errorf("arena: reserve %d bytes: %w", size, err)
		}
	}

	return &Vectors{
		dim:      dim,
		data:     mem.AllocAlignedFloat32(dim * capacity),
		reserved: size,
		acq:      acq,
	}, nil
}

// FromRows copies rows into a new arena sized exactly for them.
func FromRows(ctx context.Context, rows [][]float32, dim int, acq MemoryAcquirer) (*Vectors, error) {
	v, err := New(ctx, dim, len(rows), acq)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if _, err := v.Append(row); err != nil {
			v.Release()
			var rd *ErrRowDimension
			if errors.As(err, &rd) {
				rd.Row = i
			}
			return nil, err
		}
	}
	return v, nil
}

// Append copies row into the arena and returns its offset-derived index.
func (v *Vectors) Append(row []float32) (int, error) {
	if len(row) != v.dim {
		return 0, &ErrRowDimension{Row: v.n, Expected: v.dim, Actual: len(row)}
	}
	off := v.n * v.dim
	if off+v.dim > len(v.data) {
		return 0, ErrArenaFull
	}
	copy(v.data[off:off+v.dim], row)
	v.n++
	return v.n - 1, nil
}

// Row returns a view of row i. The view aliases the arena buffer.
func (v *Vectors) Row(i int) []float32 {
	off := i * v.dim
	return v.data[off : off+v.dim : off+v.dim]
}

// Len returns the number of stored rows.
func (v *Vectors) Len() int {
	return v.n
}

// Dim returns the row dimension.
func (v *Vectors) Dim() int {
	return v.dim
}

// Data returns the used portion of the underlying buffer.
func (v *Vectors) Data() []float32 {
	return v.data[:v.n*v.dim]
}

// Bytes returns the reserved size in bytes.
func (v *Vectors) Bytes() int64 {
	return v.reserved
}

// Release returns the reserved memory to the acquirer. It is idempotent.
func (v *Vectors) Release() {
	if v == nil || v.reserved == 0 {
		return
	}
	if v.acq != nil {
		v.acq.ReleaseMemory(v.reserved)
	}
	v.reserved = 0
}
