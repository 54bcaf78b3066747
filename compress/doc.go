// Package compress provides the optional whole-stream compression codecs for geobuf.
//
// A geobuf document is already dense: coordinates are delta coded varints and
// property keys are stored once in the header dictionary. General-purpose
// compression still pays off on documents with many repeated strings or long,
// regular coordinate runs, so the encoder can pass the finished stream
// through one of these codecs:
//   - None: No compression, the stream is returned as-is
//   - Zstd: Best ratio, moderate speed
//   - S2: Balanced ratio and speed
//   - LZ4: Fastest decompression, lower ratio
//
// Compression wraps the stream as a whole, so a compressed stream carries no
// marker of the algorithm used. The decoder must be told which codec to use
// (codec.WithDecompression), and concatenating two compressed documents does
// not produce a decodable stream; concatenate the uncompressed documents and
// compress the result instead.
//
// # Zstandard
//
// The default build uses the pure Go implementation from klauspost/compress
// with pooled encoders and decoders. Building with cgo enabled and the
// `gozstd` build tag switches to the cgo binding of the reference library:
//
//	go build -tags gozstd ./...
//
// Both produce standard zstd frames and can decode each other's output.
//
// # Thread Safety
//
// All codecs are stateless values and safe for concurrent use.
//
// # Example
//
//	codec, err := compress.CreateCodec(format.CompressionZstd, "stream")
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(stream)
package compress
