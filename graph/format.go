package graph

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/roadnet/blobstore"
	"github.com/hupe1980/roadnet/codec"
)

// Index file layout, all integers little-endian:
//
//	page 0:            header (always raw-framed, readable before the codec
//	                   is known)
//	pages 1..D:        data pages holding packed node records
//	pages D+1..end:    directory pages, 12 bytes per node:
//	                   [page uint32][offset uint32][length uint32]
//
// Node record: [id uint32][x float32][y float32][degree uint32]
// followed by degree * ([to uint32][cost float32]).
const (
	// Magic identifies a roadnet graph index file.
	Magic = uint32(0x524F4144) // "ROAD"
	// Version is the current format version.
	Version = uint32(1)

	headerFixedSize = 4 + 4 + 4 + 4 + 4 + 2 // magic, version, pageSize, nodeCount, dirStart, codec name length
	dirEntrySize    = 12
	recordFixedSize = 16
	edgeSize        = 8
)

var (
	// ErrBadMagic is returned when a blob is not a graph index file.
	ErrBadMagic = errors.New("graph: bad magic")
	// ErrBadVersion is returned for unsupported format versions.
	ErrBadVersion = errors.New("graph: unsupported format version")
	// ErrNotFound is returned when a node id is outside [0, NodeCount).
	ErrNotFound = errors.New("graph: node not found")
	// ErrCorrupt is returned when a page payload does not decode to the
	// expected record.
	ErrCorrupt = errors.New("graph: corrupt index")
)

// Edge is one directed adjacency entry with a nonnegative traversal cost.
type Edge struct {
	To   uint32
	Cost float32
}

// Node is an owned snapshot of a network vertex. It holds no reference back
// into the frame pool, so it stays valid across evictions.
type Node struct {
	ID    uint32
	X, Y  float32
	Edges []Edge
}

// Header describes an index file.
type Header struct {
	PageSize  int
	NodeCount int
	// DirectoryStart is the first directory page.
	DirectoryStart uint32
	// Codec is the page codec name, resolvable via codec.ByName.
	Codec string
}

func encodeHeader(h Header) []byte {
	buf := make([]byte, headerFixedSize+len(h.Codec))
	binary.LittleEndian.PutUint32(buf[0:], Magic)
	binary.LittleEndian.PutUint32(buf[4:], Version)
	binary.LittleEndian.PutUint32(buf[8:], uint32(h.PageSize))
	binary.LittleEndian.PutUint32(buf[12:], uint32(h.NodeCount))
	binary.LittleEndian.PutUint32(buf[16:], h.DirectoryStart)
	binary.LittleEndian.PutUint16(buf[20:], uint16(len(h.Codec)))
	copy(buf[headerFixedSize:], h.Codec)
	return buf
}

func decodeHeader(raw []byte) (Header, error) {
	if len(raw) < headerFixedSize {
		return Header{}, fmt.Errorf("%w: header truncated", ErrCorrupt)
	}
	if binary.LittleEndian.Uint32(raw[0:]) != Magic {
		return Header{}, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint32(raw[4:]); v != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}

	nameLen := int(binary.LittleEndian.Uint16(raw[20:]))
	if len(raw) < headerFixedSize+nameLen {
		return Header{}, fmt.Errorf("%w: header truncated", ErrCorrupt)
	}

	return Header{
		PageSize:       int(binary.LittleEndian.Uint32(raw[8:])),
		NodeCount:      int(binary.LittleEndian.Uint32(raw[12:])),
		DirectoryStart: binary.LittleEndian.Uint32(raw[16:]),
		Codec:          string(raw[headerFixedSize : headerFixedSize+nameLen]),
	}, nil
}

// ReadHeader reads the index header straight from a blob, before any page
// store exists. The header page is always raw-framed so it can be parsed
// without knowing the codec it names.
func ReadHeader(ctx context.Context, blob blobstore.Blob) (Header, error) {
	// Large enough for the frame header plus any built-in codec name.
	buf := make([]byte, 256)
	if n, err := blob.ReadAt(ctx, buf, 0); n < headerFixedSize+codec.PageHeaderSize {
		return Header{}, fmt.Errorf("graph: read header: %w", err)
	}

	rawLen := int(binary.LittleEndian.Uint32(buf[0:]))
	if compLen := binary.LittleEndian.Uint32(buf[4:]); compLen != 0 {
		return Header{}, fmt.Errorf("%w: compressed header page", ErrCorrupt)
	}
	if rawLen > len(buf)-codec.PageHeaderSize {
		return Header{}, fmt.Errorf("%w: oversized header", ErrCorrupt)
	}
	return decodeHeader(buf[codec.PageHeaderSize : codec.PageHeaderSize+rawLen])
}

func putUint32x3(dst []byte, a, b, c uint32) {
	binary.LittleEndian.PutUint32(dst[0:], a)
	binary.LittleEndian.PutUint32(dst[4:], b)
	binary.LittleEndian.PutUint32(dst[8:], c)
}

func recordSize(n Node) int {
	return recordFixedSize + edgeSize*len(n.Edges)
}

func encodeRecord(dst []byte, n Node) {
	binary.LittleEndian.PutUint32(dst[0:], n.ID)
	binary.LittleEndian.PutUint32(dst[4:], math.Float32bits(n.X))
	binary.LittleEndian.PutUint32(dst[8:], math.Float32bits(n.Y))
	binary.LittleEndian.PutUint32(dst[12:], uint32(len(n.Edges)))
	for i, e := range n.Edges {
		off := recordFixedSize + i*edgeSize
		binary.LittleEndian.PutUint32(dst[off:], e.To)
		binary.LittleEndian.PutUint32(dst[off+4:], math.Float32bits(e.Cost))
	}
}

func decodeRecord(raw []byte) (Node, error) {
	if len(raw) < recordFixedSize {
		return Node{}, fmt.Errorf("%w: record truncated", ErrCorrupt)
	}

	n := Node{
		ID: binary.LittleEndian.Uint32(raw[0:]),
		X:  math.Float32frombits(binary.LittleEndian.Uint32(raw[4:])),
		Y:  math.Float32frombits(binary.LittleEndian.Uint32(raw[8:])),
	}
	degree := int(binary.LittleEndian.Uint32(raw[12:]))
	if len(raw) < recordFixedSize+degree*edgeSize {
		return Node{}, fmt.Errorf("%w: record truncated", ErrCorrupt)
	}

	n.Edges = make([]Edge, degree)
	for i := range n.Edges {
		off := recordFixedSize + i*edgeSize
		n.Edges[i] = Edge{
			To:   binary.LittleEndian.Uint32(raw[off:]),
			Cost: math.Float32frombits(binary.LittleEndian.Uint32(raw[off+4:])),
		}
	}
	return n, nil
}
