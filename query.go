// This file implements the fluent group range query API.
package roadnet

import (
	"context"
	"time"

	"github.com/hupe1980/roadnet/search"
	"github.com/hupe1980/roadnet/trace"
)

// Result is one surviving (node, object) pair with its group aggregate cost.
type Result = search.Result

// QueryStats describes one executed group range query.
type QueryStats struct {
	// NodeFetches and EdgeFetches count paged-graph accesses during the run.
	NodeFetches int
	EdgeFetches int
	// Candidates is the spatially plausible hosting-node count before
	// refinement; FalseHits is how many of those refinement discarded.
	Candidates int
	FalseHits  int
	// PageTouches is the length of the access trace recorded for the query.
	PageTouches int
	// SimulatedHits holds the estimated LRU hit count per requested cache
	// size, in the order the sizes were passed to SimulateLRU.
	SimulatedHits []int
	// Duration is the wall-clock time of the search itself, excluding trace
	// analysis.
	Duration time.Duration
}

// GroupRangeResult bundles the result records with the run's statistics.
// Results are owned by the caller and sorted by (node, object).
type GroupRangeResult struct {
	Results []Result
	Stats   QueryStats
}

// GroupRange creates a fluent builder for a group range query.
//
// Example:
//
//	res, err := db.GroupRange().
//	    Source(42, 250.0).
//	    Source(1337, 180.0).
//	    SimulateLRU(1, 10, 50).
//	    Execute(ctx)
//
// Each Execute resets the store's access history before running, so the
// recorded trace covers exactly this query while the frame pool stays warm
// from earlier ones. Concurrent Executes on one DB interleave their traces;
// callers that need isolated traces must serialize queries.
func (db *DB) GroupRange() *GroupRangeBuilder {
	return &GroupRangeBuilder{db: db}
}

// GroupRangeBuilder is a fluent builder for group range queries.
type GroupRangeBuilder struct {
	db       *DB
	sources  []search.Source
	lruSizes []int
	keepHist bool
}

// Source adds one query origin with its own radius. Duplicate nodes are
// legal; each occurrence contributes separately to the aggregate cost.
func (b *GroupRangeBuilder) Source(node uint32, radius float32) *GroupRangeBuilder {
	b.sources = append(b.sources, search.Source{Node: node, Radius: radius})
	return b
}

// Sources adds several query origins at once.
func (b *GroupRangeBuilder) Sources(sources ...search.Source) *GroupRangeBuilder {
	b.sources = append(b.sources, sources...)
	return b
}

// SimulateLRU requests estimated LRU hit counts for the given cache sizes,
// computed from this query's access trace after the search completes.
func (b *GroupRangeBuilder) SimulateLRU(sizes ...int) *GroupRangeBuilder {
	b.lruSizes = append(b.lruSizes, sizes...)
	return b
}

// KeepHistory leaves the store's access history intact instead of resetting
// it before the run, accumulating a trace across several queries.
func (b *GroupRangeBuilder) KeepHistory() *GroupRangeBuilder {
	b.keepHist = true
	return b
}

// Execute runs the query and returns the results with statistics.
func (b *GroupRangeBuilder) Execute(ctx context.Context) (*GroupRangeResult, error) {
	if !b.keepHist {
		b.db.store.ResetHistory()
	}

	start := time.Now()
	results, stats, err := b.db.engine.GroupRange(ctx, b.sources)
	duration := time.Since(start)
	if err != nil {
		err = translateError(err)
		b.db.metrics.RecordQuery(len(b.sources), 0, duration, err)
		b.db.logger.LogQuery(ctx, len(b.sources), 0, duration, err)
		return nil, err
	}

	history := b.db.store.History()
	qs := QueryStats{
		NodeFetches: stats.NodeFetches,
		EdgeFetches: stats.EdgeFetches,
		Candidates:  stats.Candidates,
		FalseHits:   stats.FalseHits,
		PageTouches: len(history),
		Duration:    duration,
	}
	if len(b.lruSizes) > 0 {
		qs.SimulatedHits = trace.HitsForSizes(history, b.lruSizes)
	}

	b.db.metrics.RecordQuery(len(b.sources), len(results), duration, nil)
	b.db.logger.LogQuery(ctx, len(b.sources), len(results), duration, nil)
	return &GroupRangeResult{Results: results, Stats: qs}, nil
}

// MustExecute runs the query, panicking on error.
// Use this only in tests or when you're certain the query is valid.
func (b *GroupRangeBuilder) MustExecute(ctx context.Context) *GroupRangeResult {
	res, err := b.Execute(ctx)
	if err != nil {
		panic(err)
	}
	return res
}
