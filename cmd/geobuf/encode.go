package main

import (
	"github.com/rs/zerolog/log"

	"github.com/arloliu/geobuf/codec"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geojson"
)

type encodeCommand struct {
	IOOptions

	Compression string `short:"z" long:"compression" description:"Payload compression (none, zstd, s2, lz4); overrides the config file"`
	Precision   *int   `short:"p" long:"precision"   description:"Maximum decimal digits kept for coordinates (0..6)"`
}

func (c *encodeCommand) Execute(_ []string) error {
	encOpts := cfg.EncoderOptions()
	if c.Compression != "" {
		comp, err := format.ParseCompressionType(c.Compression)
		if err != nil {
			return err
		}
		encOpts = append(encOpts, codec.WithCompression(comp))
	}
	if c.Precision != nil {
		encOpts = append(encOpts, codec.WithMaxPrecision(*c.Precision))
	}

	enc, err := codec.NewEncoder(encOpts...)
	if err != nil {
		return err
	}

	text, err := c.read()
	if err != nil {
		return err
	}
	obj, err := geojson.Unmarshal(text)
	if err != nil {
		return err
	}

	data, stats, err := enc.EncodeStats(obj)
	if err != nil {
		return err
	}

	log.Info().
		Str("type", obj.Type().String()).
		Int("geojson_bytes", len(text)).
		Int("geobuf_bytes", len(data)).
		Str("compression", enc.Config().Compression().String()).
		Float64("compression_ratio", stats.Ratio).
		Msg("Encoded")

	return c.write(data)
}
