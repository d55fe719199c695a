package gridkit

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/hupe1980/gridkit/codec"
	"github.com/hupe1980/gridkit/dataset"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	gridID           string
	rowIDKey         string
	pageSize         int
	datasetOptions   []dataset.Option
}

// Option configures a Grid.
type Option func(*options)

// WithCodec configures the codec used for JSON datasets.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = codec.OrDefault(c)
	}
}

// WithGridID sets the id the grid logs with and saves views under.
// Default: a random UUID.
func WithGridID(id string) Option {
	return func(o *options) {
		o.gridID = id
	}
}

// WithRowIDKey sets the row field that identifies a row across reloads.
// Per-row derived values are cached under it.
// Default: "id"
func WithRowIDKey(key string) Option {
	return func(o *options) {
		o.rowIDKey = key
	}
}

// WithPageSize sets the initial page size. 0 shows every row.
func WithPageSize(n int) Option {
	return func(o *options) {
		o.pageSize = n
	}
}

// WithDatasetOptions sets default options for LoadRows, such as a read rate
// limit. Options passed to LoadRows are applied after these.
func WithDatasetOptions(optFns ...dataset.Option) Option {
	return func(o *options) {
		o.datasetOptions = append(o.datasetOptions, optFns...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &gridkit.BasicMetricsCollector{}
//	g := gridkit.New(columns, gridkit.WithMetricsCollector(metrics))
//	// ... use g ...
//	stats := metrics.GetStats()
//	fmt.Printf("Filters: %d, Avg latency: %dns\n", stats.FilterCount, stats.FilterAvgNanos)
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
//	logger := gridkit.NewJSONLogger(slog.LevelInfo)
//	g := gridkit.New(columns, gridkit.WithLogger(logger))
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
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		rowIDKey:         "id",
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.gridID == "" {
		o.gridID = uuid.NewString()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
