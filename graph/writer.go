package graph

import (
	"fmt"
	"io"

	"github.com/hupe1980/roadnet/codec"
)

// WriterOptions configures index construction.
type WriterOptions struct {
	// PageSize is the on-disk page size. Defaults to 4096.
	PageSize int
	// Codec compresses page payloads. Defaults to codec.Default (raw pages).
	// With a compressing codec, a page's raw payload may exceed the page's
	// byte capacity as long as its compressed form still fits.
	Codec codec.Codec
}

// Writer builds a graph index file. Nodes must be added in id order starting
// at 0; records never span pages, so a single record must fit one page.
type Writer struct {
	pageSize int
	codec    codec.Codec
	nodes    []Node
}

// NewWriter creates a Writer.
func NewWriter(opts WriterOptions) *Writer {
	if opts.PageSize <= 0 {
		opts.PageSize = 4096
	}
	c := opts.Codec
	if c == nil {
		c = codec.Default
	}
	return &Writer{pageSize: opts.PageSize, codec: c}
}

// Add appends a node. The node's id must equal the number of nodes added so
// far: the directory is positional.
func (w *Writer) Add(n Node) error {
	if n.ID != uint32(len(w.nodes)) {
		return fmt.Errorf("graph: node %d added out of order, want %d", n.ID, len(w.nodes))
	}
	w.nodes = append(w.nodes, n)
	return nil
}

// WriteTo assembles the index and writes it to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	dataPages, dir, err := w.packRecords()
	if err != nil {
		return 0, err
	}

	dirStart := uint32(1 + len(dataPages))
	dirPages, err := w.packDirectory(dir)
	if err != nil {
		return 0, err
	}

	header, err := codec.EncodePage(codec.None{}, encodeHeader(Header{
		PageSize:       w.pageSize,
		NodeCount:      len(w.nodes),
		DirectoryStart: dirStart,
		Codec:          w.codec.Name(),
	}), w.pageSize)
	if err != nil {
		return 0, err
	}

	var written int64
	for _, page := range append(append([][]byte{header}, dataPages...), dirPages...) {
		n, err := out.Write(page)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

type dirEntry struct {
	page   uint32
	offset uint32
	length uint32
}

// packRecords packs node records into data pages greedily: a record joins the
// current page while the page still frames (raw or compressed); otherwise the
// page is flushed and a new one starts.
func (w *Writer) packRecords() ([][]byte, []dirEntry, error) {
	var (
		pages [][]byte
		dir   = make([]dirEntry, 0, len(w.nodes))
		raw   []byte
	)

	flush := func() error {
		if len(raw) == 0 {
			return nil
		}
		page, err := codec.EncodePage(w.codec, raw, w.pageSize)
		if err != nil {
			return err
		}
		pages = append(pages, page)
		raw = nil
		return nil
	}

	for _, n := range w.nodes {
		rec := make([]byte, recordSize(n))
		encodeRecord(rec, n)

		candidate := append(raw, rec...)
		fits, err := codec.PageFits(w.codec, candidate, w.pageSize)
		if err != nil {
			return nil, nil, err
		}
		if !fits {
			if len(raw) == 0 {
				return nil, nil, fmt.Errorf("graph: node %d record (%d bytes) exceeds page size %d", n.ID, len(rec), w.pageSize)
			}
			if err := flush(); err != nil {
				return nil, nil, err
			}
			if fits, err = codec.PageFits(w.codec, rec, w.pageSize); err != nil {
				return nil, nil, err
			} else if !fits {
				return nil, nil, fmt.Errorf("graph: node %d record (%d bytes) exceeds page size %d", n.ID, len(rec), w.pageSize)
			}
			candidate = rec
		}

		dir = append(dir, dirEntry{
			// Data pages start at page 1; the current page index is len(pages).
			page:   uint32(1 + len(pages)),
			offset: uint32(len(candidate) - len(rec)),
			length: uint32(len(rec)),
		})
		raw = candidate
	}

	if err := flush(); err != nil {
		return nil, nil, err
	}
	return pages, dir, nil
}

// packDirectory packs directory entries into pages with the same greedy rule.
// Entries are positional, so readers just concatenate directory payloads.
func (w *Writer) packDirectory(dir []dirEntry) ([][]byte, error) {
	var (
		pages [][]byte
		raw   []byte
	)

	flush := func() error {
		if len(raw) == 0 {
			return nil
		}
		page, err := codec.EncodePage(w.codec, raw, w.pageSize)
		if err != nil {
			return err
		}
		pages = append(pages, page)
		raw = nil
		return nil
	}

	for _, e := range dir {
		entry := make([]byte, dirEntrySize)
		putUint32x3(entry, e.page, e.offset, e.length)

		candidate := append(raw, entry...)
		fits, err := codec.PageFits(w.codec, candidate, w.pageSize)
		if err != nil {
			return nil, err
		}
		if !fits {
			if err := flush(); err != nil {
				return nil, err
			}
			candidate = entry
		}
		raw = candidate
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return pages, nil
}
