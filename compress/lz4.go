package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances; each keeps a hash table worth reusing.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4 frame modes, stored in the first byte of the output.
const (
	lz4ModeRaw   byte = 0 // payload stored as-is, LZ4 could not shrink it
	lz4ModeBlock byte = 1 // payload is one LZ4 block
)

// lz4MaxSize bounds the decompressed size accepted from a header.
const lz4MaxSize = 256 * 1024 * 1024

var errLZ4Header = errors.New("invalid lz4 header")

// LZ4Compressor provides LZ4 block compression.
//
// LZ4 blocks record neither the decompressed size nor whether compression
// succeeded, so the output starts with a mode byte and the uvarint length of
// the original stream, followed by the block (or the raw stream when LZ4
// reports it as incompressible).
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
//
// Returns:
//   - LZ4Compressor: New LZ4 compressor instance
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using LZ4 compression.
//
// Uses a pooled lz4.Compressor for better performance.
//
// Parameters:
//   - data: Input data to compress
//
// Returns:
//   - []byte: Compressed data (nil if input is empty)
//   - error: Compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	head := 1 + binary.MaxVarintLen64
	dst := make([]byte, head+lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[head:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	out := make([]byte, 0, 1+binary.MaxVarintLen64+max(n, len(data)))
	if n == 0 || n >= len(data) {
		out = append(out, lz4ModeRaw)
		out = binary.AppendUvarint(out, uint64(len(data)))

		return append(out, data...), nil
	}

	out = append(out, lz4ModeBlock)
	out = binary.AppendUvarint(out, uint64(len(data)))

	return append(out, dst[head:head+n]...), nil
}

// Decompress decompresses data produced by Compress.
//
// Parameters:
//   - data: Compressed data to decompress
//
// Returns:
//   - []byte: Decompressed data (nil if input is empty)
//   - error: Invalid header, a declared size above 256MB, or a corrupt block
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	mode := data[0]
	size, n := binary.Uvarint(data[1:])
	if n <= 0 || size > lz4MaxSize {
		return nil, fmt.Errorf("lz4 decompression failed: %w", errLZ4Header)
	}
	payload := data[1+n:]

	switch mode {
	case lz4ModeRaw:
		if uint64(len(payload)) != size {
			return nil, fmt.Errorf("lz4 decompression failed: raw payload of %d bytes, header says %d", len(payload), size)
		}

		return append([]byte(nil), payload...), nil
	case lz4ModeBlock:
		buf := make([]byte, size)
		m, err := lz4.UncompressBlock(payload, buf)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if uint64(m) != size {
			return nil, fmt.Errorf("lz4 decompression failed: got %d bytes, header says %d", m, size)
		}

		return buf, nil
	default:
		return nil, fmt.Errorf("lz4 decompression failed: %w: mode %d", errLZ4Header, mode)
	}
}
