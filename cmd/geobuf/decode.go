package main

import (
	"bytes"

	"github.com/rs/zerolog/log"

	"github.com/arloliu/geobuf/codec"
	"github.com/arloliu/geobuf/compact"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geo"
	"github.com/arloliu/geobuf/geojson"
)

// DecodeOptions are the flags every command reading a stream accepts.
type DecodeOptions struct {
	Decompression string `short:"z" long:"compression" description:"Payload compression the stream was written with; overrides the config file"`
}

func (o DecodeOptions) decoder(extra ...codec.DecoderOption) (*codec.Decoder, error) {
	decOpts := cfg.DecoderOptions()
	if o.Decompression != "" {
		comp, err := format.ParseCompressionType(o.Decompression)
		if err != nil {
			return nil, err
		}
		decOpts = append(decOpts, codec.WithDecompression(comp))
	}

	return codec.NewDecoder(append(decOpts, extra...)...)
}

func render(obj geo.Object, pretty bool) ([]byte, error) {
	if pretty {
		return geojson.MarshalIndent(obj, "", "  ")
	}

	return geojson.Marshal(obj)
}

type decodeCommand struct {
	IOOptions
	DecodeOptions

	Compact      bool `long:"compact"       description:"Run the memory compactor over decoded documents"`
	NumericCache bool `long:"numeric-cache" description:"Share equal positions when compacting (implies --compact)"`
	Pretty       bool `long:"pretty"        description:"Indent the GeoJSON output"`
}

func (c *decodeCommand) Execute(_ []string) error {
	var extra []codec.DecoderOption
	switch {
	case c.NumericCache:
		extra = append(extra, codec.WithCompact(compact.WithNumericCache(compact.NewNumericCache())))
	case c.Compact:
		extra = append(extra, codec.WithCompact())
	}

	dec, err := c.decoder(extra...)
	if err != nil {
		return err
	}

	data, err := c.read()
	if err != nil {
		return err
	}
	objs, err := dec.DecodeAll(data)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	for _, obj := range objs {
		text, err := render(obj, c.Pretty)
		if err != nil {
			return err
		}
		out.Write(text)
		out.WriteByte('\n')
	}

	log.Info().
		Int("documents", len(objs)).
		Int("geobuf_bytes", len(data)).
		Bool("compact", dec.Config().Compact()).
		Msg("Decoded")

	return c.write(out.Bytes())
}
