package graph

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/roadnet/blobstore"
	"github.com/hupe1980/roadnet/codec"
	"github.com/hupe1980/roadnet/pagestore"
)

func pathNodes(n int, cost float32) []Node {
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = Node{ID: uint32(i), X: float32(i), Y: 0}
		if i > 0 {
			nodes[i].Edges = append(nodes[i].Edges, Edge{To: uint32(i - 1), Cost: cost})
		}
		if i < n-1 {
			nodes[i].Edges = append(nodes[i].Edges, Edge{To: uint32(i + 1), Cost: cost})
		}
	}
	return nodes
}

func openView(t *testing.T, nodes []Node, pageSize int, c codec.Codec) *View {
	t.Helper()
	ctx := context.Background()

	w := NewWriter(WriterOptions{PageSize: pageSize, Codec: c})
	for _, n := range nodes {
		require.NoError(t, w.Add(n))
	}
	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)
	assert.Zero(t, buf.Len()%pageSize, "index must be whole pages")

	ms := blobstore.NewMemoryStore()
	require.NoError(t, ms.Put(ctx, "graph.idx", buf.Bytes()))
	blob, err := ms.Open(ctx, "graph.idx")
	require.NoError(t, err)

	store, err := pagestore.Open(blob, pagestore.Options{PageSize: pageSize, FrameCount: 8, Codec: c})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	view, err := Open(ctx, store)
	require.NoError(t, err)
	return view
}

func TestWriteAndReadBack(t *testing.T) {
	ctx := context.Background()
	nodes := pathNodes(50, 2.5)
	view := openView(t, nodes, 256, nil)

	assert.Equal(t, 50, view.NodeCount())
	assert.Equal(t, "none", view.Codec())

	for _, want := range nodes {
		got, err := view.Node(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestWriteAndReadBack_Compressed(t *testing.T) {
	ctx := context.Background()
	nodes := pathNodes(200, 1)

	for _, c := range []codec.Codec{codec.LZ4{}, codec.Zstd{}} {
		t.Run(c.Name(), func(t *testing.T) {
			view := openView(t, nodes, 512, c)
			assert.Equal(t, c.Name(), view.Codec())

			for _, id := range []uint32{0, 99, 199} {
				got, err := view.Node(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, nodes[id], got)
			}
		})
	}
}

func TestNode_NotFound(t *testing.T) {
	ctx := context.Background()
	view := openView(t, pathNodes(4, 1), 256, nil)

	_, err := view.Node(ctx, 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNode_ReturnsOwnedSnapshot(t *testing.T) {
	ctx := context.Background()
	view := openView(t, pathNodes(300, 1), 128, nil)

	// A frame pool of 8 cannot hold the whole graph, so earlier snapshots
	// outlive the eviction of their backing frames.
	first, err := view.Node(ctx, 0)
	require.NoError(t, err)
	snapshot := first.Edges[0]

	for id := uint32(0); id < 300; id++ {
		_, err := view.Node(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, snapshot, first.Edges[0])
}

func TestWriter_OutOfOrderAdd(t *testing.T) {
	w := NewWriter(WriterOptions{})
	require.NoError(t, w.Add(Node{ID: 0}))

	err := w.Add(Node{ID: 2})
	assert.Error(t, err)
}

func TestWriter_RecordExceedsPage(t *testing.T) {
	w := NewWriter(WriterOptions{PageSize: 64})

	n := Node{ID: 0}
	for i := 0; i < 100; i++ {
		// Incompressible adjacency, cannot fit a 64-byte page.
		n.Edges = append(n.Edges, Edge{To: uint32(i * 7919), Cost: float32(i) * 1.37})
	}
	require.NoError(t, w.Add(n))

	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	assert.Error(t, err)
}

func TestReadHeader_BadMagic(t *testing.T) {
	ctx := context.Background()

	page, err := codec.EncodePage(codec.None{}, []byte("not a graph index"), 64)
	require.NoError(t, err)

	ms := blobstore.NewMemoryStore()
	require.NoError(t, ms.Put(ctx, "bogus.idx", page))
	blob, err := ms.Open(ctx, "bogus.idx")
	require.NoError(t, err)

	_, err = ReadHeader(ctx, blob)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestHeaderRoundTrip(t *testing.T) {
	want := Header{PageSize: 4096, NodeCount: 1234, DirectoryStart: 99, Codec: "zstd"}

	got, err := decodeHeader(encodeHeader(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
