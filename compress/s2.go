package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor provides S2 block compression.
//
// S2 is an extension of Snappy from klauspost/compress. It trades some ratio
// for very fast encoding and decoding, which suits geobuf payloads that are
// decoded far more often than they are written. Output is a single block
// without stream framing, so the whole payload must fit in memory.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor. It is stateless and safe for
// concurrent use.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data as a single S2 block.
// Empty input yields a nil result.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	// A nil destination lets s2 size the output buffer itself
	return s2.Encode(nil, data), nil
}

// Decompress decompresses a single S2 block.
//
// The block header carries the decoded length, so corrupted or non-S2 input
// is reported as an error rather than producing a truncated result.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
