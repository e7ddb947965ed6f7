package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePage_RawRoundTrip(t *testing.T) {
	raw := []byte("hello paged world")

	page, err := EncodePage(None{}, raw, 64)
	require.NoError(t, err)
	assert.Len(t, page, 64)

	got, err := DecodePage(None{}, page)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestEncodePage_EmptyPayload(t *testing.T) {
	page, err := EncodePage(None{}, nil, 32)
	require.NoError(t, err)

	got, err := DecodePage(None{}, page)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEncodePage_PayloadTooLarge(t *testing.T) {
	raw := bytes.Repeat([]byte{0xAB, 0xCD}, 64) // incompressible enough for None

	_, err := EncodePage(None{}, raw, 32)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDecodePage_TooSmall(t *testing.T) {
	_, err := DecodePage(None{}, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrPageTooSmall)
}

func TestCompressedRoundTrip(t *testing.T) {
	// Highly repetitive payload, larger than the page capacity raw but small
	// once compressed.
	raw := bytes.Repeat([]byte("roadroadroad"), 100)

	for _, c := range []Codec{LZ4{}, Zstd{}} {
		t.Run(c.Name(), func(t *testing.T) {
			fits, err := PageFits(c, raw, 256)
			require.NoError(t, err)
			require.True(t, fits, "payload should compress into one page")

			page, err := EncodePage(c, raw, 256)
			require.NoError(t, err)
			assert.Len(t, page, 256)

			got, err := DecodePage(c, page)
			require.NoError(t, err)
			assert.Equal(t, raw, got)
		})
	}
}

func TestPageFits_RawPath(t *testing.T) {
	fits, err := PageFits(None{}, make([]byte, PageCapacity(64)), 64)
	require.NoError(t, err)
	assert.True(t, fits)

	fits, err = PageFits(None{}, make([]byte, PageCapacity(64)+1), 64)
	require.NoError(t, err)
	assert.False(t, fits)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"none", "lz4", "zstd"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("snappy")
	assert.False(t, ok)
}
