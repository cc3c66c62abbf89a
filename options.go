package vecmatch

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/vecmatch/index/ivf"
)

const (
	// DefaultNumMatches is the number of results returned per query.
	DefaultNumMatches = 2

	// DefaultNList is the number of IVF lists trained per shard.
	DefaultNList = 1
)

type options struct {
	numMatches       int
	normalise        bool
	numShards        int
	quantise         bool
	nlist            int
	maxIterations    int
	seed             int64
	maxWorkers       int
	memoryLimit      int64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Engine.
type Option func(*options)

// DefaultNumShards returns half the usable CPUs, at least one.
//
// It is only consulted when WithNumShards is not given.
func DefaultNumShards() int {
	return max(1, runtime.GOMAXPROCS(0)/2)
}

// WithNumMatches sets how many results are returned per query.
func WithNumMatches(k int) Option {
	return func(o *options) {
		o.numMatches = k
	}
}

// WithNormalise controls L2 normalization of corpus and query vectors
// before indexing, which turns inner product into cosine similarity.
// Zero vectors are left unchanged. Normalization works on copies; the
// caller's vectors are never modified.
func WithNormalise(normalise bool) Option {
	return func(o *options) {
		o.normalise = normalise
	}
}

// WithNumShards sets the requested number of shards.
//
// Small corpora get fewer shards: every shard holds at least two vectors
// unless the whole corpus is smaller than that.
func WithNumShards(numShards int) Option {
	return func(o *options) {
		o.numShards = numShards
	}
}

// WithQuantise replaces the exact flat shard index with a single-probe IVF index.
func WithQuantise(quantise bool) Option {
	return func(o *options) {
		o.quantise = quantise
	}
}

// WithNList sets the number of IVF lists per shard. Only used with WithQuantise.
func WithNList(nlist int) Option {
	return func(o *options) {
		o.nlist = nlist
	}
}

// WithMaxIterations caps the k-means iterations of IVF training.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithSeed seeds IVF training. Equal seeds give equal results.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithMaxWorkers caps how many shards are built or searched concurrently.
// Zero means one worker per shard.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}

// WithMemoryLimit caps the bytes shard indexes may reserve during one call.
// Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecmatch.BasicMetricsCollector{}
//	eng, _ := vecmatch.New(vecmatch.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vecmatch.NewJSONLogger(slog.LevelInfo)
//	eng, _ := vecmatch.New(vecmatch.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		numMatches:       DefaultNumMatches,
		normalise:        true,
		numShards:        DefaultNumShards(),
		nlist:            DefaultNList,
		maxIterations:    ivf.DefaultMaxIterations,
		seed:             ivf.DefaultSeed,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

func (o *options) validate() error {
	switch {
	case o.numMatches < 1:
		return &ErrInvalidConfiguration{Option: "num_matches", Value: o.numMatches}
	case o.numShards < 1:
		return &ErrInvalidConfiguration{Option: "num_shards", Value: o.numShards}
	case o.nlist < 1:
		return &ErrInvalidConfiguration{Option: "nlist", Value: o.nlist}
	case o.maxIterations < 1:
		return &ErrInvalidConfiguration{Option: "max_iterations", Value: o.maxIterations}
	case o.maxWorkers < 0:
		return &ErrInvalidConfiguration{Option: "max_workers", Value: o.maxWorkers}
	case o.memoryLimit < 0:
		return &ErrInvalidConfiguration{Option: "memory_limit", Value: o.memoryLimit}
	}
	return nil
}
