package graph

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/roadnet/pagestore"
)

// View exposes node lookup over a page store.
//
// The node directory is resident in memory for the lifetime of the view,
// mirroring how the index was built; node payloads stay paged and travel
// through the store's frame pool on every lookup.
type View struct {
	store  *pagestore.Store
	header Header
	dir    []dirEntry
}

// Open reads the header and directory through store and returns a View.
// The directory pages count toward the store's access history; callers that
// measure per-query cost reset the history after open.
func Open(ctx context.Context, store *pagestore.Store) (*View, error) {
	page0, err := store.FetchPage(ctx, 0)
	if err != nil {
		return nil, err
	}
	h, err := decodeHeader(page0)
	if err != nil {
		return nil, err
	}
	if h.PageSize != store.PageSize() {
		return nil, fmt.Errorf("%w: header page size %d, store page size %d", ErrCorrupt, h.PageSize, store.PageSize())
	}

	// Directory pages run from DirectoryStart to the end of the blob.
	var dirRaw []byte
	for p := h.DirectoryStart; int(p) < store.Size(); p++ {
		payload, err := store.FetchPage(ctx, pagestore.PageID(p))
		if err != nil {
			return nil, err
		}
		dirRaw = append(dirRaw, payload...)
	}
	if len(dirRaw) < h.NodeCount*dirEntrySize {
		return nil, fmt.Errorf("%w: directory holds %d bytes, need %d", ErrCorrupt, len(dirRaw), h.NodeCount*dirEntrySize)
	}

	dir := make([]dirEntry, h.NodeCount)
	for i := range dir {
		off := i * dirEntrySize
		dir[i] = dirEntry{
			page:   binary.LittleEndian.Uint32(dirRaw[off:]),
			offset: binary.LittleEndian.Uint32(dirRaw[off+4:]),
			length: binary.LittleEndian.Uint32(dirRaw[off+8:]),
		}
	}

	return &View{store: store, header: h, dir: dir}, nil
}

// NodeCount returns the number of nodes in the graph.
func (v *View) NodeCount() int {
	return v.header.NodeCount
}

// Codec returns the page codec name recorded in the index header.
func (v *View) Codec() string {
	return v.header.Codec
}

// Node returns an owned snapshot of the node. Ids outside [0, NodeCount)
// fail with ErrNotFound.
func (v *View) Node(ctx context.Context, id uint32) (Node, error) {
	if int(id) >= len(v.dir) {
		return Node{}, fmt.Errorf("%w: node %d, graph has %d nodes", ErrNotFound, id, len(v.dir))
	}

	e := v.dir[id]
	payload, err := v.store.FetchPage(ctx, pagestore.PageID(e.page))
	if err != nil {
		return Node{}, err
	}
	if int(e.offset+e.length) > len(payload) {
		return Node{}, fmt.Errorf("%w: node %d record outside page %d payload", ErrCorrupt, id, e.page)
	}

	n, err := decodeRecord(payload[e.offset : e.offset+e.length])
	if err != nil {
		return Node{}, fmt.Errorf("node %d: %w", id, err)
	}
	if n.ID != id {
		return Node{}, fmt.Errorf("%w: directory points node %d at record %d", ErrCorrupt, id, n.ID)
	}
	return n, nil
}

// Store returns the underlying page store, for history and stats access.
func (v *View) Store() *pagestore.Store {
	return v.store
}
