package roadnet

import (
	"log/slog"

	"github.com/hupe1980/roadnet/resource"
)

type options struct {
	frameCount       int
	cellSize         float32
	controller       *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures DB open behavior.
type Option func(*options)

// WithFrameCount bounds the number of resident page frames in the live cache.
// Defaults to 32 frames; the access trace can still evaluate other sizes
// after the fact via the LRU simulation.
func WithFrameCount(frames int) Option {
	return func(o *options) {
		if frames > 0 {
			o.frameCount = frames
		}
	}
}

// WithCellSize sets the spatial grid cell edge length used by the object
// index. Defaults to spatial.DefaultCellSize.
func WithCellSize(size float32) Option {
	return func(o *options) {
		o.cellSize = size
	}
}

// WithResourceController attaches memory and I/O budget enforcement to the
// page store. Pass nil to run unconstrained.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
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
		frameCount:       DefaultFrameCount,
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
