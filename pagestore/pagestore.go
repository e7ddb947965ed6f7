// Package pagestore serves fixed-size pages from a blob through a bounded
// LRU frame pool, recording every page touch in an access history.
//
// The frame pool is the live I/O path: it decides which reads hit memory and
// which go to the blob. The access history is the measurement path: the trace
// package replays it after the fact to estimate hit rates for frame counts
// that were never actually allocated.
package pagestore

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/roadnet/blobstore"
	"github.com/hupe1980/roadnet/codec"
	"github.com/hupe1980/roadnet/resource"
)

// PageID identifies a page: the page's byte offset in the blob divided by the
// page size.
type PageID uint32

var (
	// ErrPageOutOfRange is returned when a page id is past the end of the blob.
	ErrPageOutOfRange = errors.New("pagestore: page out of range")
)

// Options configures a Store.
type Options struct {
	// PageSize is the on-disk page size in bytes. Required.
	PageSize int
	// FrameCount bounds the number of resident frames. Required.
	FrameCount int
	// Codec decodes page payloads. Defaults to codec.Default (raw pages).
	Codec codec.Codec
	// Controller, if set, accounts frame memory and rate-limits miss reads.
	Controller *resource.Controller
}

// Store is a page cache over a read-only blob.
//
// All methods are safe for concurrent use, but the access history only has a
// meaningful order under one logical caller at a time; concurrent queries
// that need isolated traces must use separate Store instances.
type Store struct {
	blob      blobstore.Blob
	pageSize  int
	pageCount int
	codec     codec.Codec
	rc        *resource.Controller

	mu        sync.Mutex
	frames    map[PageID]*list.Element
	evictList *list.List
	capacity  int
	history   []PageID

	hits   atomic.Int64
	misses atomic.Int64
}

type frame struct {
	id      PageID
	payload []byte
}

// Open creates a Store over blob. The blob must be a whole number of pages.
func Open(blob blobstore.Blob, opts Options) (*Store, error) {
	if opts.PageSize <= codec.PageHeaderSize {
		return nil, fmt.Errorf("pagestore: invalid page size %d", opts.PageSize)
	}
	if opts.FrameCount <= 0 {
		return nil, fmt.Errorf("pagestore: invalid frame count %d", opts.FrameCount)
	}
	if blob.Size()%int64(opts.PageSize) != 0 {
		return nil, fmt.Errorf("pagestore: blob size %d is not a multiple of page size %d", blob.Size(), opts.PageSize)
	}

	c := opts.Codec
	if c == nil {
		c = codec.Default
	}

	return &Store{
		blob:      blob,
		pageSize:  opts.PageSize,
		pageCount: int(blob.Size() / int64(opts.PageSize)),
		codec:     c,
		rc:        opts.Controller,
		frames:    make(map[PageID]*list.Element),
		evictList: list.New(),
		capacity:  opts.FrameCount,
	}, nil
}

// FetchPage returns the decoded payload of the page. Resident pages are served
// from their frame; misses read from the blob and evict the least-recently-used
// frame. Every call, hit or miss, appends the page id to the access history.
//
// The returned slice belongs to the frame pool and may be reused after the
// next fetch; callers must copy out anything they retain.
func (s *Store) FetchPage(ctx context.Context, id PageID) ([]byte, error) {
	if int(id) >= s.pageCount {
		return nil, fmt.Errorf("%w: page %d, blob has %d pages", ErrPageOutOfRange, id, s.pageCount)
	}

	s.mu.Lock()
	s.history = append(s.history, id)
	if ent, ok := s.frames[id]; ok {
		s.evictList.MoveToFront(ent)
		payload := ent.Value.(*frame).payload
		s.mu.Unlock()
		s.hits.Add(1)
		return payload, nil
	}
	s.mu.Unlock()
	s.misses.Add(1)

	payload, err := s.readPage(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.install(id, payload)
	s.mu.Unlock()
	return payload, nil
}

// Preload warms frames for the given pages without touching the access
// history, coalescing contiguous misses into single blob reads. Use it to
// prime a store before a measured run.
func (s *Store) Preload(ctx context.Context, ids []PageID) error {
	missing := make([]PageID, 0, len(ids))
	s.mu.Lock()
	for _, id := range ids {
		if int(id) >= s.pageCount {
			s.mu.Unlock()
			return fmt.Errorf("%w: page %d, blob has %d pages", ErrPageOutOfRange, id, s.pageCount)
		}
		if _, ok := s.frames[id]; !ok {
			missing = append(missing, id)
		}
	}
	s.mu.Unlock()

	if len(missing) == 0 {
		return nil
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	// Coalesce contiguous runs of missing pages into one ranged read each.
	type run struct{ start, count PageID }
	var runs []run
	cur := run{start: missing[0], count: 1}
	for _, id := range missing[1:] {
		if id == cur.start+cur.count {
			cur.count++
			continue
		}
		if id == cur.start+cur.count-1 {
			continue // duplicate
		}
		runs = append(runs, cur)
		cur = run{start: id, count: 1}
	}
	runs = append(runs, cur)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, r := range runs {
		g.Go(func() error {
			buf := make([]byte, int(r.count)*s.pageSize)
			if err := s.rc.AcquireIO(gctx, len(buf)); err != nil {
				return err
			}
			n, err := s.blob.ReadAt(gctx, buf, int64(r.start)*int64(s.pageSize))
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			if n < len(buf) {
				return fmt.Errorf("pagestore: short read at page %d: %d of %d bytes", r.start, n, len(buf))
			}
			for i := PageID(0); i < r.count; i++ {
				payload, err := codec.DecodePage(s.codec, buf[int(i)*s.pageSize:int(i+1)*s.pageSize])
				if err != nil {
					return fmt.Errorf("pagestore: decode page %d: %w", r.start+i, err)
				}
				s.mu.Lock()
				s.install(r.start+i, payload)
				s.mu.Unlock()
			}
			return nil
		})
	}
	return g.Wait()
}

// ResetHistory clears the access history without touching resident frames,
// isolating per-query measurement while keeping the cache warm.
func (s *Store) ResetHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = s.history[:0]
}

// History returns a copy of the recorded page-touch sequence.
func (s *Store) History() []PageID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PageID, len(s.history))
	copy(out, s.history)
	return out
}

// Size returns the number of pages in the backing blob.
func (s *Store) Size() int {
	return s.pageCount
}

// PageSize returns the configured page size in bytes.
func (s *Store) PageSize() int {
	return s.pageSize
}

// Resident returns the number of currently resident frames.
func (s *Store) Resident() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Stats returns the live hit and miss counts since the store was opened.
func (s *Store) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

// Close releases all frames and closes the backing blob.
func (s *Store) Close() error {
	s.mu.Lock()
	for s.evictList.Len() > 0 {
		s.removeElement(s.evictList.Back())
	}
	s.history = nil
	s.mu.Unlock()
	return s.blob.Close()
}

func (s *Store) readPage(ctx context.Context, id PageID) ([]byte, error) {
	if err := s.rc.AcquireIO(ctx, s.pageSize); err != nil {
		return nil, err
	}

	buf := make([]byte, s.pageSize)
	n, err := s.blob.ReadAt(ctx, buf, int64(id)*int64(s.pageSize))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("pagestore: read page %d: %w", id, err)
	}
	if n < s.pageSize {
		return nil, fmt.Errorf("pagestore: short read at page %d: %d of %d bytes", id, n, s.pageSize)
	}

	payload, err := codec.DecodePage(s.codec, buf)
	if err != nil {
		return nil, fmt.Errorf("pagestore: decode page %d: %w", id, err)
	}
	return payload, nil
}

// install adds a decoded payload to the frame pool, evicting the LRU frame
// when the pool is full. Caller holds s.mu.
func (s *Store) install(id PageID, payload []byte) {
	if ent, ok := s.frames[id]; ok {
		// Raced with another fetch of the same page; keep the resident frame.
		s.evictList.MoveToFront(ent)
		return
	}

	for len(s.frames) >= s.capacity {
		s.removeElement(s.evictList.Back())
	}

	if !s.rc.TryAcquireMemory(int64(len(payload))) {
		// Over the memory budget: serve the payload without caching it.
		return
	}

	s.frames[id] = s.evictList.PushFront(&frame{id: id, payload: payload})
}

// removeElement drops a frame from the pool. Caller holds s.mu.
func (s *Store) removeElement(e *list.Element) {
	s.evictList.Remove(e)
	f := e.Value.(*frame)
	delete(s.frames, f.id)
	s.rc.ReleaseMemory(int64(len(f.payload)))
}
