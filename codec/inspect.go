package codec

import (
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geo"
	"github.com/arloliu/geobuf/section"
)

// DocumentInfo summarizes one document of a stream.
type DocumentInfo struct {
	// Header is the header in effect for the document. Documents without
	// their own header report the defaults or the previous header.
	Header section.Header
	// Root is the type of the top-level object.
	Root format.ObjectType
	// Nodes counts the objects of the document by type.
	Nodes map[format.ObjectType]int
	// Positions is the number of coordinate tuples, topology arcs included.
	Positions int
}

// NodeCount returns the total number of objects in the document.
func (di DocumentInfo) NodeCount() int {
	total := 0
	for _, n := range di.Nodes {
		total += n
	}

	return total
}

// Inspect decodes data and reports per-document statistics instead of the
// object trees. It fails exactly when DecodeAll fails.
func (d *Decoder) Inspect(data []byte) ([]DocumentInfo, error) {
	state, err := d.decode(data)
	if err != nil {
		return nil, err
	}

	infos := make([]DocumentInfo, len(state.results))
	for i, root := range state.results {
		info := DocumentInfo{
			Header: state.headers[i],
			Root:   root.Type(),
			Nodes:  make(map[format.ObjectType]int),
		}
		_ = geo.Walk(root, func(o geo.Object) error {
			if geo.IsNil(o) {
				return nil
			}
			info.Nodes[o.Type()]++
			geo.EachCoord(o, func(geo.Coord) { info.Positions++ })

			return nil
		})
		infos[i] = info
	}

	return infos, nil
}
