// Package codec centralizes page payload compression.
//
// The codec name is recorded in the index header, so index files are
// self-describing: readers resolve the codec with ByName before the first
// page fetch. Changing a codec is a format-breaking change.
package codec

// Codec compresses and decompresses page payloads.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Compress returns the compressed form of src, or nil if src is
	// incompressible under this codec.
	Compress(src []byte) ([]byte, error)
	// Decompress expands src into a buffer of rawLen bytes.
	Decompress(src []byte, rawLen int) ([]byte, error)
	// Name is the stable identifier stored in index headers.
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = None{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "none":
		return None{}, true
	case "lz4":
		return LZ4{}, true
	case "zstd":
		return Zstd{}, true
	default:
		return nil, false
	}
}

// None is the identity codec. Pages are stored raw.
type None struct{}

// Compress reports src as incompressible, so pages are framed raw.
func (None) Compress([]byte) ([]byte, error) { return nil, nil }

// Decompress is never reached for raw-framed pages.
func (None) Decompress(src []byte, _ int) ([]byte, error) { return src, nil }

// Name implements Codec.
func (None) Name() string { return "none" }
