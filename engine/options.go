package engine

import "log/slog"

type options struct {
	maxWorkers  int
	memoryLimit int64
	logger      *slog.Logger
}

// Option configures a Federation.
type Option func(*options)

// WithMaxWorkers caps how many shards are built or searched at once.
// Zero means one worker per shard.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}

// WithMemoryLimit caps the bytes all shard indexes may reserve.
// Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithLogger sets the logger used for shard lifecycle events.
// Pass nil to disable logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(numShards int, optFns []Option) options {
	o := options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.maxWorkers <= 0 {
		o.maxWorkers = numShards
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}
