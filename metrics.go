package roadnet

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLoadObjects is called after an object-file load.
	// count is the number of objects loaded, err is nil if successful.
	RecordLoadObjects(count int, duration time.Duration, err error)

	// RecordQuery is called after each group range query.
	// sources and results describe the query, duration is the time taken.
	RecordQuery(sources, results int, duration time.Duration, err error)

	// RecordDiameter is called after each diameter estimation.
	RecordDiameter(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoadObjects(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordQuery(int, int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordDiameter(time.Duration, error)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount        atomic.Int64
	LoadObjects      atomic.Int64
	LoadErrors       atomic.Int64
	QueryCount       atomic.Int64
	QueryErrors      atomic.Int64
	QueryResults     atomic.Int64
	QueryTotalNanos  atomic.Int64
	DiameterCount    atomic.Int64
	DiameterErrors   atomic.Int64
	DiameterTotNanos atomic.Int64
}

// RecordLoadObjects implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoadObjects(count int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadObjects.Add(int64(count))
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(sources, results int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryResults.Add(int64(results))
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordDiameter implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDiameter(duration time.Duration, err error) {
	b.DiameterCount.Add(1)
	b.DiameterTotNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DiameterErrors.Add(1)
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector counters.
type BasicMetricsStats struct {
	LoadCount      int64
	LoadObjects    int64
	LoadErrors     int64
	QueryCount     int64
	QueryErrors    int64
	QueryResults   int64
	QueryAvgNanos  int64
	DiameterCount  int64
	DiameterErrors int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		LoadCount:      b.LoadCount.Load(),
		LoadObjects:    b.LoadObjects.Load(),
		LoadErrors:     b.LoadErrors.Load(),
		QueryCount:     b.QueryCount.Load(),
		QueryErrors:    b.QueryErrors.Load(),
		QueryResults:   b.QueryResults.Load(),
		DiameterCount:  b.DiameterCount.Load(),
		DiameterErrors: b.DiameterErrors.Load(),
	}
	if s.QueryCount > 0 {
		s.QueryAvgNanos = b.QueryTotalNanos.Load() / s.QueryCount
	}
	return s
}
