// Package roadnet is an embedded store for disk-resident road-network graphs
// with group range search over spatially indexed objects.
//
// A graph lives in a paged index file served through a bounded LRU frame
// cache, so graphs larger than memory stay tractable. Objects attach to graph
// nodes and are queried by true network-path distance from one or more source
// locations, each with its own radius. Every page touch is recorded, and a
// stack-distance simulator estimates LRU hit rates for cache sizes that were
// never allocated, from a single query run.
//
// # Quick Start
//
//	ctx := context.Background()
//	db, err := roadnet.Open(ctx, "./data", "graph.idx",
//	    roadnet.WithFrameCount(32),
//	)
//	if err != nil {
//	    panic(err)
//	}
//	defer db.Close()
//
//	f, _ := os.Open("object.dat")
//	defer f.Close()
//	if err := db.LoadObjects(ctx, f); err != nil {
//	    panic(err)
//	}
//
//	res, err := db.GroupRange().
//	    Source(42, 250.0).
//	    Source(1337, 180.0).
//	    SimulateLRU(1, 10, 50).
//	    Execute(ctx)
//
// Index files are built with graph.NewWriter and can also be served from
// object storage via the blobstore/s3 and blobstore/minio stores through
// OpenBlob.
package roadnet

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/roadnet/blobstore"
	"github.com/hupe1980/roadnet/codec"
	"github.com/hupe1980/roadnet/graph"
	"github.com/hupe1980/roadnet/pagestore"
	"github.com/hupe1980/roadnet/search"
	"github.com/hupe1980/roadnet/spatial"
)

// DefaultFrameCount is the resident frame budget used when none is configured.
const DefaultFrameCount = 32

// DB is a read-only road-network database: one paged graph index plus the
// spatial index of objects loaded onto it.
//
// Queries are safe to run concurrently with each other, but per-query access
// traces are only meaningful when queries run one at a time; see GroupRange.
type DB struct {
	store   *pagestore.Store
	view    *graph.View
	index   *spatial.Index
	engine  *search.Engine
	metrics MetricsCollector
	logger  *Logger
}

// Open opens the named graph index file under root.
func Open(ctx context.Context, root, name string, optFns ...Option) (*DB, error) {
	blob, err := blobstore.NewLocalStore(root).Open(ctx, name)
	if err != nil {
		return nil, err
	}
	db, err := OpenBlob(ctx, blob, optFns...)
	if err != nil {
		_ = blob.Close()
		return nil, err
	}
	db.logger.LogOpen(ctx, name, db.GraphPages(), db.NodeCount(), nil)
	return db, nil
}

// OpenBlob opens a graph index from any blob, local or remote. The DB takes
// ownership of the blob and closes it on Close.
func OpenBlob(ctx context.Context, blob blobstore.Blob, optFns ...Option) (*DB, error) {
	o := applyOptions(optFns)

	header, err := graph.ReadHeader(ctx, blob)
	if err != nil {
		return nil, translateError(err)
	}
	c, ok := codec.ByName(header.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: unknown page codec %q", ErrInvalidArgument, header.Codec)
	}

	store, err := pagestore.Open(blob, pagestore.Options{
		PageSize:   header.PageSize,
		FrameCount: o.frameCount,
		Codec:      c,
		Controller: o.controller,
	})
	if err != nil {
		return nil, translateError(err)
	}

	view, err := graph.Open(ctx, store)
	if err != nil {
		return nil, translateError(err)
	}

	index := spatial.New(o.cellSize)
	return &DB{
		store:   store,
		view:    view,
		index:   index,
		engine:  search.NewEngine(view, index),
		metrics: o.metricsCollector,
		logger:  o.logger,
	}, nil
}

// LoadObjects streams `nodeId objectId` pairs from r into the spatial index.
// A pair referencing a node outside the graph fails the whole load.
func (db *DB) LoadObjects(ctx context.Context, r io.Reader) error {
	start := time.Now()
	err := translateError(db.index.Load(ctx, r, db.view))

	db.metrics.RecordLoadObjects(db.index.Count(), time.Since(start), err)
	db.logger.LogLoadObjects(ctx, db.index.Count(), time.Since(start), err)
	return err
}

// Node returns an owned snapshot of a graph node.
func (db *DB) Node(ctx context.Context, id uint32) (graph.Node, error) {
	n, err := db.view.Node(ctx, id)
	return n, translateError(err)
}

// Diameter estimates the graph diameter: the maximum shortest-path cost
// reachable from source. Callers typically scale query radii by a fraction
// of this value.
func (db *DB) Diameter(ctx context.Context, source uint32) (float32, search.Stats, error) {
	start := time.Now()
	d, stats, err := search.Diameter(ctx, db.view, source)
	err = translateError(err)

	db.metrics.RecordDiameter(time.Since(start), err)
	db.logger.LogDiameter(ctx, source, d, time.Since(start), err)
	return d, stats, err
}

// NodeCount returns the number of nodes in the graph.
func (db *DB) NodeCount() int {
	return db.view.NodeCount()
}

// ObjectCount returns the number of loaded objects.
func (db *DB) ObjectCount() int {
	return db.index.Count()
}

// GraphPages returns the index size in pages, a crude size proxy.
func (db *DB) GraphPages() int {
	return db.store.Size()
}

// Store exposes the underlying page store for history and cache statistics.
func (db *DB) Store() *pagestore.Store {
	return db.store
}

// Close releases the frame pool and the backing blob.
func (db *DB) Close() error {
	return db.store.Close()
}
