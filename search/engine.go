package search

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/roadnet/graph"
	"github.com/hupe1980/roadnet/internal/visited"
	"github.com/hupe1980/roadnet/queue"
	"github.com/hupe1980/roadnet/spatial"
)

// ErrInvalidArgument is returned for malformed queries: no sources or a
// negative radius.
var ErrInvalidArgument = errors.New("search: invalid argument")

// Source is one query origin with its own reach limit.
type Source struct {
	Node   uint32
	Radius float32
}

// Result is one surviving (node, object) pair. Cost is the group aggregate:
// the sum of exact network distances from every source that reaches the node
// within its radius.
type Result struct {
	Node   uint32
	Object uint32
	Cost   float32
}

// QueryStats extends the expansion counters with filter-phase accounting.
type QueryStats struct {
	Stats
	// Candidates is the total number of spatially plausible hosting nodes
	// across all sources, before refinement.
	Candidates int
	// FalseHits is the number of candidates whose exact network distance
	// exceeded their source's radius.
	FalseHits int
}

// Engine answers group range queries against one graph and object index.
type Engine struct {
	view  *graph.View
	index *spatial.Index
}

// NewEngine creates an Engine over a graph view and its object index.
func NewEngine(view *graph.View, index *spatial.Index) *Engine {
	return &Engine{view: view, index: index}
}

// GroupRange finds every object whose exact network distance from at least
// one source is within that source's radius.
//
// Filter: each source's candidate set is the hosting nodes inside its radius
// bounding box. Refine: a merged multi-source Dijkstra, each source's frontier
// capped at its own radius, computes exact path costs; candidates the
// expansion never reaches are false hits and are dropped. A source id outside
// the graph aborts the whole query. Duplicate sources are legal and simply
// contribute twice to the aggregate.
func (e *Engine) GroupRange(ctx context.Context, sources []Source) ([]Result, QueryStats, error) {
	var stats QueryStats

	if len(sources) == 0 {
		return nil, stats, fmt.Errorf("%w: no sources", ErrInvalidArgument)
	}
	for i, src := range sources {
		if src.Radius < 0 {
			return nil, stats, fmt.Errorf("%w: source %d has negative radius %g", ErrInvalidArgument, i, src.Radius)
		}
	}

	// Filter phase: one candidate bitmap per source.
	candidates := make([]*candidateSet, len(sources))
	for i, src := range sources {
		n, err := e.view.Node(ctx, src.Node)
		if err != nil {
			return nil, stats, fmt.Errorf("source %d: %w", i, err)
		}
		stats.NodeFetches++

		bm := e.index.NodesInRect(spatial.Circle(n.X, n.Y, src.Radius))
		stats.Candidates += int(bm.GetCardinality())
		candidates[i] = &candidateSet{nodes: bm, reached: make(map[uint32]float32)}
	}

	// Refine phase: merged frontier, cheapest pending step first regardless
	// of which source it belongs to.
	seen := make([]*visited.Set, len(sources))
	for i := range seen {
		seen[i] = visited.New(e.view.NodeCount())
	}
	frontier := &queue.Frontier{}
	for i, src := range sources {
		heap.Push(frontier, &queue.FrontierItem{Node: src.Node, Source: i, Cost: 0})
	}

	for frontier.Len() > 0 {
		item, _ := heap.Pop(frontier).(*queue.FrontierItem)
		if seen[item.Source].Visited(item.Node) {
			continue
		}
		seen[item.Source].Visit(item.Node)

		cand := candidates[item.Source]
		if cand.nodes.Contains(item.Node) {
			cand.reached[item.Node] = item.Cost
		}

		n, err := e.view.Node(ctx, item.Node)
		if err != nil {
			return nil, stats, err
		}
		stats.NodeFetches++

		radius := sources[item.Source].Radius
		for _, edge := range n.Edges {
			stats.EdgeFetches++
			next := item.Cost + edge.Cost
			if next <= radius && !seen[item.Source].Visited(edge.To) {
				heap.Push(frontier, &queue.FrontierItem{Node: edge.To, Source: item.Source, Cost: next})
			}
		}
	}

	// Aggregate: sum the reaching sources' costs per node, then expand hosted
	// objects into result records.
	agg := make(map[uint32]float32)
	for _, cand := range candidates {
		stats.FalseHits += int(cand.nodes.GetCardinality()) - len(cand.reached)
		for node, cost := range cand.reached {
			agg[node] += cost
		}
	}

	results := make([]Result, 0, len(agg))
	for node, cost := range agg {
		for _, obj := range e.index.ObjectsAt(node) {
			results = append(results, Result{Node: node, Object: obj, Cost: cost})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Node != results[j].Node {
			return results[i].Node < results[j].Node
		}
		return results[i].Object < results[j].Object
	})
	return results, stats, nil
}

type candidateSet struct {
	nodes   *roaring.Bitmap
	reached map[uint32]float32
}
