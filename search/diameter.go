package search

import (
	"container/heap"
	"context"

	"github.com/hupe1980/roadnet/graph"
	"github.com/hupe1980/roadnet/internal/visited"
	"github.com/hupe1980/roadnet/queue"
)

// Stats counts the paged-graph accesses performed by an expansion.
type Stats struct {
	// NodeFetches is the number of node records decoded from the store.
	NodeFetches int
	// EdgeFetches is the number of adjacency entries scanned.
	EdgeFetches int
}

// Diameter runs a full single-source shortest-path expansion from source and
// returns the maximum settled cost, an approximation of the graph diameter
// from that vantage point. Deterministic for a fixed graph and source.
func Diameter(ctx context.Context, view *graph.View, source uint32) (float32, Stats, error) {
	var stats Stats

	seen := visited.New(view.NodeCount())
	frontier := &queue.Frontier{}
	heap.Push(frontier, &queue.FrontierItem{Node: source, Cost: 0})

	var max float32
	for frontier.Len() > 0 {
		item, _ := heap.Pop(frontier).(*queue.FrontierItem)
		if seen.Visited(item.Node) {
			continue
		}
		seen.Visit(item.Node)

		if item.Cost > max {
			max = item.Cost
		}

		n, err := view.Node(ctx, item.Node)
		if err != nil {
			return 0, stats, err
		}
		stats.NodeFetches++

		for _, e := range n.Edges {
			stats.EdgeFetches++
			if !seen.Visited(e.To) {
				heap.Push(frontier, &queue.FrontierItem{Node: e.To, Cost: item.Cost + e.Cost})
			}
		}
	}
	return max, stats, nil
}
