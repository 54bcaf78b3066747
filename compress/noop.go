package compress

// NoOpCompressor passes the stream through unchanged.
//
// It is the codec behind format.CompressionNone and keeps the encoder and
// decoder free of special cases for the uncompressed path. It is useful for:
//   - Streams handed to a transport that compresses on its own (HTTP gzip, S3)
//   - Debugging, where the raw protobuf stream should stay inspectable
//   - Baseline measurements against the real codecs
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data as-is, without copying.
//
// Note: The returned slice shares memory with the input. Callers that keep
// the result must not modify the input afterwards.
//
// Parameters:
//   - data: Encoded stream (returned as-is)
//
// Returns:
//   - []byte: Same slice as data
//   - error: Always nil
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data as-is, without copying.
//
// Note: The returned slice shares memory with the input, so a decoder that
// retains string or byte views of the stream keeps data alive.
//
// Parameters:
//   - data: Stored stream (returned as-is)
//
// Returns:
//   - []byte: Same slice as data
//   - error: Always nil
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
