package pagestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/roadnet/blobstore"
	"github.com/hupe1980/roadnet/codec"
)

const testPageSize = 64

// newTestStore builds a store over pages pages whose payload is a single
// marker byte equal to the page id.
func newTestStore(t *testing.T, pages, frames int) *Store {
	t.Helper()
	ctx := context.Background()

	var data []byte
	for i := 0; i < pages; i++ {
		page, err := codec.EncodePage(codec.None{}, []byte{byte(i)}, testPageSize)
		require.NoError(t, err)
		data = append(data, page...)
	}

	ms := blobstore.NewMemoryStore()
	require.NoError(t, ms.Put(ctx, "pages.bin", data))
	blob, err := ms.Open(ctx, "pages.bin")
	require.NoError(t, err)

	store, err := Open(blob, Options{PageSize: testPageSize, FrameCount: frames})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_Validation(t *testing.T) {
	ctx := context.Background()
	ms := blobstore.NewMemoryStore()
	require.NoError(t, ms.Put(ctx, "odd.bin", make([]byte, testPageSize+1)))
	blob, err := ms.Open(ctx, "odd.bin")
	require.NoError(t, err)

	_, err = Open(blob, Options{PageSize: testPageSize, FrameCount: 4})
	assert.Error(t, err)

	_, err = Open(blob, Options{PageSize: 0, FrameCount: 4})
	assert.Error(t, err)

	_, err = Open(blob, Options{PageSize: testPageSize, FrameCount: 0})
	assert.Error(t, err)
}

func TestFetchPage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 8, 4)

	for i := 0; i < 8; i++ {
		payload, err := store.FetchPage(ctx, PageID(i))
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i)}, payload)
	}
}

func TestFetchPage_OutOfRange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 4, 2)

	_, err := store.FetchPage(ctx, 4)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestFetchPage_HistoryRecordsHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 4, 4)

	for _, id := range []PageID{0, 1, 0} {
		_, err := store.FetchPage(ctx, id)
		require.NoError(t, err)
	}

	// The second fetch of page 0 is a hit but must still appear in the trace.
	assert.Equal(t, []PageID{0, 1, 0}, store.History())

	hits, misses := store.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
}

func TestLRUEviction(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 4, 2)

	_, err := store.FetchPage(ctx, 0)
	require.NoError(t, err)
	_, err = store.FetchPage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Resident())

	// Touch 0 so 1 becomes the LRU victim, then fault in 2.
	_, err = store.FetchPage(ctx, 0)
	require.NoError(t, err)
	_, err = store.FetchPage(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Resident())

	// 0 must still be resident: fetching it may not add a miss.
	_, misses := store.Stats()
	_, err = store.FetchPage(ctx, 0)
	require.NoError(t, err)
	_, missesAfter := store.Stats()
	assert.Equal(t, misses, missesAfter)

	// 1 was evicted: fetching it is a miss again.
	_, err = store.FetchPage(ctx, 1)
	require.NoError(t, err)
	_, missesFinal := store.Stats()
	assert.Equal(t, misses+1, missesFinal)
}

func TestResetHistory_KeepsFramesWarm(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 4, 4)

	for _, id := range []PageID{0, 1, 2} {
		_, err := store.FetchPage(ctx, id)
		require.NoError(t, err)
	}
	store.ResetHistory()
	assert.Empty(t, store.History())
	assert.Equal(t, 3, store.Resident())

	// Warm pages are hits after the reset but still traced.
	_, misses := store.Stats()
	_, err := store.FetchPage(ctx, 1)
	require.NoError(t, err)
	_, missesAfter := store.Stats()
	assert.Equal(t, misses, missesAfter)
	assert.Equal(t, []PageID{1}, store.History())
}

func TestIdenticalRunsProduceIdenticalTraces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 6, 2)

	run := func() []PageID {
		store.ResetHistory()
		for _, id := range []PageID{0, 3, 0, 5, 3, 1} {
			_, err := store.FetchPage(ctx, id)
			require.NoError(t, err)
		}
		return store.History()
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestPreload(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 8, 8)

	require.NoError(t, store.Preload(ctx, []PageID{0, 1, 2, 5}))
	assert.Equal(t, 4, store.Resident())
	assert.Empty(t, store.History(), "preload must not pollute the trace")

	// Preloaded pages are hits.
	_, misses := store.Stats()
	_, err := store.FetchPage(ctx, 5)
	require.NoError(t, err)
	_, missesAfter := store.Stats()
	assert.Equal(t, misses, missesAfter)
}

func TestPreload_OutOfRange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 4, 4)

	err := store.Preload(ctx, []PageID{0, 9})
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestCompressedPages(t *testing.T) {
	ctx := context.Background()

	// Payload larger than the raw page capacity but highly compressible.
	raw := make([]byte, 3*testPageSize)
	for i := range raw {
		raw[i] = byte(i % 4)
	}
	page, err := codec.EncodePage(codec.LZ4{}, raw, testPageSize)
	require.NoError(t, err)

	ms := blobstore.NewMemoryStore()
	require.NoError(t, ms.Put(ctx, "lz4.bin", page))
	blob, err := ms.Open(ctx, "lz4.bin")
	require.NoError(t, err)

	store, err := Open(blob, Options{PageSize: testPageSize, FrameCount: 2, Codec: codec.LZ4{}})
	require.NoError(t, err)
	defer store.Close()

	payload, err := store.FetchPage(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, raw, payload)
}
