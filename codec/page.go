package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Page frame layout: [rawLen uint32][compLen uint32][payload][zero padding].
// compLen == 0 means the payload is stored raw. Every on-disk page is exactly
// pageSize bytes so a page id is always offset/pageSize.
const PageHeaderSize = 8

var (
	// ErrPageTooSmall is returned when a page cannot hold its own frame header.
	ErrPageTooSmall = errors.New("codec: page too small for frame header")
	// ErrPayloadTooLarge is returned when a payload does not fit a page even
	// after compression.
	ErrPayloadTooLarge = errors.New("codec: payload does not fit page")
)

// PageCapacity returns the raw payload bytes a page of pageSize can hold
// without compression.
func PageCapacity(pageSize int) int {
	return pageSize - PageHeaderSize
}

// EncodePage frames raw into a fixed pageSize block using c. If the raw
// payload fits it may be stored uncompressed; otherwise the compressed form
// must fit or ErrPayloadTooLarge is returned.
func EncodePage(c Codec, raw []byte, pageSize int) ([]byte, error) {
	if pageSize <= PageHeaderSize {
		return nil, ErrPageTooSmall
	}
	if c == nil {
		c = Default
	}

	page := make([]byte, pageSize)
	binary.LittleEndian.PutUint32(page[0:], uint32(len(raw)))

	if len(raw) <= pageSize-PageHeaderSize {
		// Raw fits; compression would only add decode cost.
		copy(page[PageHeaderSize:], raw)
		return page, nil
	}

	compressed, err := c.Compress(raw)
	if err != nil {
		return nil, err
	}
	if compressed == nil || len(compressed) > pageSize-PageHeaderSize {
		return nil, fmt.Errorf("%w: raw %d bytes, page %d bytes", ErrPayloadTooLarge, len(raw), pageSize)
	}

	binary.LittleEndian.PutUint32(page[4:], uint32(len(compressed)))
	copy(page[PageHeaderSize:], compressed)
	return page, nil
}

// PageFits reports whether raw can be framed into a page of pageSize under c.
func PageFits(c Codec, raw []byte, pageSize int) (bool, error) {
	if len(raw) <= pageSize-PageHeaderSize {
		return true, nil
	}
	if c == nil {
		c = Default
	}
	compressed, err := c.Compress(raw)
	if err != nil {
		return false, err
	}
	return compressed != nil && len(compressed) <= pageSize-PageHeaderSize, nil
}

// DecodePage extracts the raw payload from an on-disk page frame.
func DecodePage(c Codec, page []byte) ([]byte, error) {
	if len(page) < PageHeaderSize {
		return nil, ErrPageTooSmall
	}
	if c == nil {
		c = Default
	}

	rawLen := int(binary.LittleEndian.Uint32(page[0:]))
	compLen := int(binary.LittleEndian.Uint32(page[4:]))

	if compLen == 0 {
		if rawLen > len(page)-PageHeaderSize {
			return nil, fmt.Errorf("codec: raw payload %d exceeds page body %d", rawLen, len(page)-PageHeaderSize)
		}
		raw := make([]byte, rawLen)
		copy(raw, page[PageHeaderSize:PageHeaderSize+rawLen])
		return raw, nil
	}

	if compLen > len(page)-PageHeaderSize {
		return nil, fmt.Errorf("codec: compressed payload %d exceeds page body %d", compLen, len(page)-PageHeaderSize)
	}
	return c.Decompress(page[PageHeaderSize:PageHeaderSize+compLen], rawLen)
}
