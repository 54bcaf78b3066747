package compress

import (
	"fmt"

	"github.com/arloliu/geobuf/format"
)

// Compressor compresses an encoded geobuf stream.
//
// The input is always a complete stream as produced by the encoder, from a
// few dozen bytes for a single point up to many megabytes for a large
// feature collection. Implementations compress it as one block.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Empty input yields a nil result for every built-in codec except
	// NoOpCompressor, which returns its input unchanged.
	//
	// Memory management:
	//   - Returned slice is owned by the caller unless documented otherwise (see NoOpCompressor)
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a stream produced by the matching Compressor.
//
// Example:
//
//	decompressor := NewZstdCompressor()
//	stream, err := decompressor.Decompress(packed)
//	if err != nil {
//	    return fmt.Errorf("decompression failed: %w", err)
//	}
//
// Thread Safety: the built-in implementations are safe for concurrent use.
// Custom implementations must be too, or document otherwise.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original stream.
	//
	// Error conditions:
	//   - Returns error if input data is corrupted or invalid
	//   - Returns error if data was compressed with a different algorithm
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
//
// Every format.CompressionType maps to exactly one Codec through GetCodec.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compression of an encoded stream.
//
// Encoder.EncodeStats fills these figures, and the CLI encode command logs
// them so users can pick a codec for their data.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of the encoded stream before compression
	OriginalSize int64

	// CompressedSize is the size after compression
	CompressedSize int64

	// Ratio is the ratio of compressed size to original size (< 1.0 for compression)
	Ratio float64

	// CompressionTimeNs is the time taken to compress the stream
	CompressionTimeNs int64

	// DecompressionTimeNs is the time taken to decompress the stream (if measured)
	DecompressionTimeNs int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
// Values greater than 1.0 indicate overhead, common for tiny documents.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
//
// Returns:
//   - float64: Space savings percentage, negative when compression grew the stream
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the shared built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
