package arena

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAcquirer struct {
	used  int64
	limit int64
}

func (c *countingAcquirer) AcquireMemory(_ context.Context, amount int64) error {
	if c.limit > 0 && c.used+amount > c.limit {
		return errors.New("limit")
	}
	c.used += amount
	return nil
}

func (c *countingAcquirer) ReleaseMemory(amount int64) {
	c.used -= amount
}

func TestVectors(t *testing.T) {
	ctx := context.Background()

	t.Run("AppendAndRow", func(t *testing.T) {
		v, err := New(ctx, 3, 2, nil)
		require.NoError(t, err)

		id, err := v.Append([]float32{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, 0, id)

		id, err = v.Append([]float32{4, 5, 6})
		require.NoError(t, err)
		assert.Equal(t, 1, id)

		assert.Equal(t, 2, v.Len())
		assert.Equal(t, 3, v.Dim())
		assert.Equal(t, []float32{4, 5, 6}, v.Row(1))
		assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, v.Data())

		_, err = v.Append([]float32{7, 8, 9})
		assert.ErrorIs(t, err, ErrArenaFull)
	})

	t.Run("RowIsView", func(t *testing.T) {
		v, err := FromRows(ctx, [][]float32{{1, 1}, {2, 2}}, 2, nil)
		require.NoError(t, err)

		r := v.Row(0)
		r[0] = 9
		assert.Equal(t, float32(9), v.Row(0)[0])

		// Appending to a view must not clobber the neighbour row.
		_ = append(r, 42)
		assert.Equal(t, []float32{2, 2}, v.Row(1))
	})

	t.Run("CopiesInput", func(t *testing.T) {
		rows := [][]float32{{1, 2}}
		v, err := FromRows(ctx, rows, 2, nil)
		require.NoError(t, err)
		rows[0][0] = 100
		assert.Equal(t, float32(1), v.Row(0)[0])
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		_, err := FromRows(ctx, [][]float32{{1, 2}, {1, 2, 3}}, 2, nil)
		var rd *ErrRowDimension
		require.ErrorAs(t, err, &rd)
		assert.Equal(t, 1, rd.Row)
		assert.Equal(t, 2, rd.Expected)
		assert.Equal(t, 3, rd.Actual)
	})

	t.Run("InvalidDimension", func(t *testing.T) {
		_, err := New(ctx, 0, 4, nil)
		assert.ErrorIs(t, err, ErrInvalidDimension)
	})
}

func TestVectors_MemoryAccounting(t *testing.T) {
	ctx := context.Background()
	mem := &countingAcquirer{limit: 64}

	v, err := New(ctx, 4, 2, mem)
	require.NoError(t, err)
	assert.Equal(t, int64(32), mem.used)
	assert.Equal(t, int64(32), v.Bytes())

	_, err = New(ctx, 4, 3, mem)
	assert.Error(t, err)
	assert.Equal(t, int64(32), mem.used)

	v.Release()
	v.Release()
	assert.Equal(t, int64(0), mem.used)

	_, err = FromRows(ctx, [][]float32{{1, 2, 3, 4}, {1}}, 4, mem)
	assert.Error(t, err)
	assert.Equal(t, int64(0), mem.used, "failed build must release its reservation")
}
