package codec

import (
	"github.com/arloliu/geobuf/compact"
	"github.com/arloliu/geobuf/compress"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/internal/options"
)

// DecoderConfig holds the decoder settings.
type DecoderConfig struct {
	compression format.CompressionType
	codec       compress.Codec
	compact     bool
	compactOpts []compact.Option
}

// NewDecoderConfig creates a configuration for uncompressed input without compaction.
func NewDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		compression: format.CompressionNone,
		codec:       compress.NewNoOpCompressor(),
	}
}

// Compression returns the expected payload compression.
func (c *DecoderConfig) Compression() format.CompressionType {
	return c.compression
}

// Compact reports whether decoded trees are passed through the memory compactor.
func (c *DecoderConfig) Compact() bool {
	return c.compact
}

// DecoderOption represents a functional option for configuring the DecoderConfig.
type DecoderOption = options.Option[*DecoderConfig]

// WithDecompression declares the compression the input was produced with.
func WithDecompression(comp format.CompressionType) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		codec, err := compress.CreateCodec(comp, "stream")
		if err != nil {
			return err
		}
		c.compression = comp
		c.codec = codec

		return nil
	})
}

// WithCompact runs the memory compactor over every decoded document.
//
// The compact options are applied on every call. Passing a shared cache
// (compact.WithNumericCache) deduplicates positions across documents but
// makes the decoder unsafe for concurrent use.
func WithCompact(opts ...compact.Option) DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		c.compact = true
		c.compactOpts = opts
	})
}
