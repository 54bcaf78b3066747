// Package config loads the optional YAML settings file of the geobuf command.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/geobuf/codec"
	"github.com/arloliu/geobuf/compact"
	"github.com/arloliu/geobuf/format"
)

// Config represents the settings file. Command line flags override it.
type Config struct {
	// Compression is the payload compression used by encode and expected by
	// decode: none, zstd, s2 or lz4.
	Compression string `yaml:"compression,omitempty"`
	// Precision caps the number of decimal digits kept for coordinates (0..6).
	Precision *int `yaml:"precision,omitempty"`
	// Compact runs the memory compactor after decoding.
	Compact bool `yaml:"compact,omitempty"`
	// NumericCache deduplicates equal positions when compacting.
	NumericCache bool `yaml:"numeric_cache,omitempty"`
	// LogLevel is used when the --log-level flag is not given.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
// An empty path, or a missing file when optional is set, yields a zero Config.
func Load(path string, optional bool) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}

		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks the field values without building any codec.
func (c *Config) Validate() error {
	if _, err := format.ParseCompressionType(c.Compression); err != nil {
		return err
	}
	if c.Precision != nil && (*c.Precision < 0 || *c.Precision > 6) {
		return fmt.Errorf("precision %d outside 0..6", *c.Precision)
	}

	return nil
}

// CompressionType returns the parsed compression; an empty value means none.
func (c *Config) CompressionType() format.CompressionType {
	comp, err := format.ParseCompressionType(c.Compression)
	if err != nil {
		return format.CompressionNone
	}

	return comp
}

// EncoderOptions translates the settings into encoder options.
func (c *Config) EncoderOptions() []codec.EncoderOption {
	opts := []codec.EncoderOption{codec.WithCompression(c.CompressionType())}
	if c.Precision != nil {
		opts = append(opts, codec.WithMaxPrecision(*c.Precision))
	}

	return opts
}

// DecoderOptions translates the settings into decoder options.
func (c *Config) DecoderOptions() []codec.DecoderOption {
	opts := []codec.DecoderOption{codec.WithDecompression(c.CompressionType())}
	if c.Compact {
		var copts []compact.Option
		if c.NumericCache {
			copts = append(copts, compact.WithNumericCache(compact.NewNumericCache()))
		}
		opts = append(opts, codec.WithCompact(copts...))
	}

	return opts
}
