package main

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/arloliu/geobuf/format"
)

type infoCommand struct {
	IOOptions
	DecodeOptions
}

func (c *infoCommand) Execute(_ []string) error {
	dec, err := c.decoder()
	if err != nil {
		return err
	}

	data, err := c.read()
	if err != nil {
		return err
	}
	infos, err := dec.Inspect(data)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "bytes: %d\ndocuments: %d\n", len(data), len(infos))
	for i, info := range infos {
		fmt.Fprintf(&out, "document %d: %s\n", i, info.Root)
		fmt.Fprintf(&out, "  dimension: %d\n  precision: %d\n", info.Header.Dimension, info.Header.Precision)
		fmt.Fprintf(&out, "  keys: %d [%s]\n", len(info.Header.Keys), strings.Join(info.Header.Keys, ", "))
		fmt.Fprintf(&out, "  positions: %d\n  nodes: %d\n", info.Positions, info.NodeCount())

		types := make([]format.ObjectType, 0, len(info.Nodes))
		for t := range info.Nodes {
			types = append(types, t)
		}
		slices.Sort(types)
		for _, t := range types {
			fmt.Fprintf(&out, "    %s: %d\n", t, info.Nodes[t])
		}
	}

	return c.write(out.Bytes())
}
