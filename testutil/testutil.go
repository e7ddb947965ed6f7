package testutil

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/roadnet/blobstore"
	"github.com/hupe1980/roadnet/codec"
	"github.com/hupe1980/roadnet/graph"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// NodeID picks a uniformly random node id in [0, nodeCount).
func (r *RNG) NodeID(nodeCount int) uint32 {
	return uint32(r.Intn(nodeCount))
}

// PathGraph builds a path 0-1-...-n-1 with bidirectional edges of the given
// cost and nodes placed on the x axis.
func PathGraph(n int, cost float32) []graph.Node {
	nodes := make([]graph.Node, n)
	for i := range nodes {
		nodes[i] = graph.Node{ID: uint32(i), X: float32(i), Y: 0}
		if i > 0 {
			nodes[i].Edges = append(nodes[i].Edges, graph.Edge{To: uint32(i - 1), Cost: cost})
		}
		if i < n-1 {
			nodes[i].Edges = append(nodes[i].Edges, graph.Edge{To: uint32(i + 1), Cost: cost})
		}
	}
	return nodes
}

// GridGraph builds a w*h lattice with bidirectional unit-spaced edges of the
// given cost. Node (col, row) has id row*w+col and coordinates (col, row).
func GridGraph(w, h int, cost float32) []graph.Node {
	nodes := make([]graph.Node, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			id := uint32(row*w + col)
			n := graph.Node{ID: id, X: float32(col), Y: float32(row)}
			if col > 0 {
				n.Edges = append(n.Edges, graph.Edge{To: id - 1, Cost: cost})
			}
			if col < w-1 {
				n.Edges = append(n.Edges, graph.Edge{To: id + 1, Cost: cost})
			}
			if row > 0 {
				n.Edges = append(n.Edges, graph.Edge{To: id - uint32(w), Cost: cost})
			}
			if row < h-1 {
				n.Edges = append(n.Edges, graph.Edge{To: id + uint32(w), Cost: cost})
			}
			nodes[id] = n
		}
	}
	return nodes
}

// EncodeIndex writes nodes into an index file image.
func EncodeIndex(nodes []graph.Node, pageSize int, c codec.Codec) ([]byte, error) {
	w := graph.NewWriter(graph.WriterOptions{PageSize: pageSize, Codec: c})
	for _, n := range nodes {
		if err := w.Add(n); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IndexBlob encodes nodes and serves the image from an in-memory blob store.
func IndexBlob(ctx context.Context, nodes []graph.Node, pageSize int, c codec.Codec) (blobstore.Blob, error) {
	data, err := EncodeIndex(nodes, pageSize, c)
	if err != nil {
		return nil, err
	}

	store := blobstore.NewMemoryStore()
	if err := store.Put(ctx, "graph.idx", data); err != nil {
		return nil, err
	}
	return store.Open(ctx, "graph.idx")
}

// ObjectFile renders (nodeId, objectId) pairs in the object-file text format.
func ObjectFile(pairs ...[2]uint32) *bytes.Reader {
	var buf bytes.Buffer
	for _, p := range pairs {
		fmt.Fprintf(&buf, "%d %d\n", p[0], p[1])
	}
	return bytes.NewReader(buf.Bytes())
}
