package codec

import (
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Encoder/decoder pools: zstd contexts are expensive to build and safe to reuse.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Zstd compresses page payloads with zstd. Better ratio than LZ4 at a higher
// decode cost; suits indexes served from remote object storage.
type Zstd struct{}

// Compress implements Codec.
func (Zstd) Compress(src []byte) ([]byte, error) {
	enc := getZstdEncoder()
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(src, nil), nil
}

// Decompress implements Codec.
func (Zstd) Decompress(src []byte, rawLen int) ([]byte, error) {
	dec := getZstdDecoder()
	defer zstdDecoderPool.Put(dec)

	dst, err := dec.DecodeAll(src, make([]byte, 0, rawLen))
	if err != nil {
		return nil, err
	}
	if len(dst) != rawLen {
		return nil, errors.New("codec: zstd decompressed size mismatch")
	}
	return dst, nil
}

// Name implements Codec.
func (Zstd) Name() string { return "zstd" }
