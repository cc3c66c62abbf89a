package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoShards is returned when a federation would have no shards.
	ErrNoShards = errors.New("at least one shard required")

	// ErrIncompleteShards is returned when shard ranges do not tile the corpus.
	ErrIncompleteShards = errors.New("shard ranges must cover the corpus without gaps or overlaps")

	// ErrClosed is returned when searching a closed federation.
	ErrClosed = errors.New("federation is closed")
)

// ShardError reports a failure of a single shard.
//
// The original underlying error can be accessed via errors.Unwrap.
type ShardError struct {
	Shard int
	Range Range
	Err   error
}

func (e *ShardError) Error() string {
	return fmt.Sprintf("shard %d %s: %v", e.Shard, e.Range, e.Err)
}

func (e *ShardError) Unwrap() error { return e.Err }
