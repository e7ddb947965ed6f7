package codec

import (
	"errors"

	"github.com/pierrec/lz4/v4"
)

// LZ4 compresses page payloads with LZ4 block compression.
// Fast to decode, so it suits the hot fetch path.
type LZ4 struct{}

// Compress implements Codec. Returns nil for incompressible input.
func (LZ4) Compress(src []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := lz4.CompressBlock(src, dst, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return dst[:n], nil
}

// Decompress implements Codec.
func (LZ4) Decompress(src []byte, rawLen int) ([]byte, error) {
	dst := make([]byte, rawLen)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, err
	}
	if n != rawLen {
		return nil, errors.New("codec: lz4 decompressed size mismatch")
	}
	return dst, nil
}

// Name implements Codec.
func (LZ4) Name() string { return "lz4" }
