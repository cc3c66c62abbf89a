package vecmatch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecmatch/engine"
	"github.com/hupe1980/vecmatch/index"
	"github.com/hupe1980/vecmatch/internal/kmeans"
)

// ErrEmptyInput indicates a corpus or query set without vectors.
type ErrEmptyInput struct {
	Input string // "corpus" or "query"
}

func (e *ErrEmptyInput) Error() string {
	return fmt.Sprintf("empty %s: at least one vector required", e.Input)
}

// ErrDimensionMismatch indicates a row whose length differs from the
// dimension of the first corpus row.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Input    string // "corpus" or "query"
	Row      int
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch in %s row %d: expected %d, got %d", e.Input, e.Row, e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidConfiguration indicates an option value outside its domain.
type ErrInvalidConfiguration struct {
	Option string
	Value  any
}

func (e *ErrInvalidConfiguration) Error() string {
	return fmt.Sprintf("invalid configuration: %s = %v", e.Option, e.Value)
}

// ErrTraining indicates a shard too small to train the requested number of
// IVF lists.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrTraining struct {
	Shard     int
	ShardSize int
	NList     int
	cause     error
}

func (e *ErrTraining) Error() string {
	return fmt.Sprintf("training failed for shard %d: %d vectors cannot form %d lists", e.Shard, e.ShardSize, e.NList)
}

func (e *ErrTraining) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var se *engine.ShardError
	shard := -1
	if errors.As(err, &se) {
		shard = se.Shard
	}

	var tf *index.ErrTooFewVectors
	if errors.As(err, &tf) {
		return &ErrTraining{Shard: shard, ShardSize: tf.Have, NList: tf.Want, cause: err}
	}
	if errors.Is(err, kmeans.ErrNotEnoughVectors) {
		t := &ErrTraining{Shard: shard, cause: err}
		if se != nil {
			t.ShardSize = se.Range.Len()
		}
		return t
	}

	var dm *index.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Input: "query", Row: dm.Row, Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	return err
}
