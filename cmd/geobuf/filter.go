package main

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/arloliu/geobuf/geo"
	"github.com/arloliu/geobuf/internal/index"
)

type filterCommand struct {
	IOOptions
	DecodeOptions

	BBox   string `short:"b" long:"bbox" description:"Bounding box minx,miny,maxx,maxy" required:"true"`
	Pretty bool   `long:"pretty"         description:"Indent the GeoJSON output"`
}

func (c *filterCommand) Execute(_ []string) error {
	box, err := index.ParseBBox(c.BBox)
	if err != nil {
		return err
	}

	dec, err := c.decoder()
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
	for i, obj := range objs {
		idx := index.Build(obj)
		matches := idx.Search(box)

		log.Debug().
			Int("document", i).
			Int("indexed", idx.Len()).
			Int("skipped", idx.Skipped()).
			Str("extent", idx.Extent().String()).
			Int("matched", len(matches)).
			Msg("Filtered")

		text, err := render(selection(obj, matches), c.Pretty)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		out.Write(text)
		out.WriteByte('\n')
	}

	return c.write(out.Bytes())
}

// selection keeps topologies intact apart from their object list, since
// members reference the shared arcs; everything else becomes a
// FeatureCollection of the matches.
func selection(obj geo.Object, matches []*index.Entry) geo.Object {
	if t, ok := obj.(*geo.Topology); ok {
		sub := &geo.Topology{Base: t.Base, Transform: t.Transform, Arcs: t.Arcs}
		for _, e := range matches {
			sub.Objects = append(sub.Objects, geo.NamedObject{Name: e.Name, Object: e.Object})
		}

		return sub
	}

	fc := &geo.FeatureCollection{Features: index.Features(matches)}
	if src, ok := obj.(*geo.FeatureCollection); ok {
		fc.Base = src.Base
	}

	return fc
}
