package codec

import (
	"fmt"

	"github.com/arloliu/geobuf/compress"
	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/internal/options"
)

// EncoderConfig holds the encoder settings.
type EncoderConfig struct {
	compression  format.CompressionType
	codec        compress.Codec
	maxPrecision int
}

// NewEncoderConfig creates a configuration with no compression and the full 10^6 precision ceiling.
func NewEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		compression:  format.CompressionNone,
		codec:        compress.NewNoOpCompressor(),
		maxPrecision: encoding.MaxPrecision,
	}
}

// Compression returns the configured payload compression.
func (c *EncoderConfig) Compression() format.CompressionType {
	return c.compression
}

// MaxPrecision returns the precision ceiling.
func (c *EncoderConfig) MaxPrecision() int {
	return c.maxPrecision
}

func (c *EncoderConfig) setCompression(comp format.CompressionType) error {
	codec, err := compress.CreateCodec(comp, "stream")
	if err != nil {
		return err
	}
	c.compression = comp
	c.codec = codec

	return nil
}

func (c *EncoderConfig) setMaxPrecision(p int) error {
	if p < 0 || p > encoding.MaxPrecision {
		return fmt.Errorf("%w: %d is outside 0..%d", errs.ErrInvalidPrecision, p, encoding.MaxPrecision)
	}
	c.maxPrecision = p

	return nil
}

// EncoderOption represents a functional option for configuring the EncoderConfig.
type EncoderOption = options.Option[*EncoderConfig]

// WithCompression compresses the whole encoded stream with the given algorithm.
// The decoder must be configured with the same algorithm via WithDecompression.
func WithCompression(comp format.CompressionType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.setCompression(comp)
	})
}

// WithMaxPrecision lowers the precision ceiling below 10^6. Coordinates that
// need more decimals than the ceiling are rounded.
func WithMaxPrecision(precision int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.setMaxPrecision(precision)
	})
}
