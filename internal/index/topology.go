package index

import "github.com/arloliu/geobuf/geo"

// topoBounds resolves boxes of topology members.
type topoBounds struct {
	transform *geo.Transform
	arcs      []BBox
}

// newTopoBounds computes the box of every arc of t in absolute coordinates.
// With a transform the arcs are delta-encoded quantized positions.
func newTopoBounds(t *geo.Topology) *topoBounds {
	tb := &topoBounds{transform: t.Transform, arcs: make([]BBox, len(t.Arcs))}
	for i, arc := range t.Arcs {
		b := emptyBBox()
		var x, y float64
		for _, c := range arc {
			if len(c) < 2 {
				continue
			}
			if tb.transform == nil {
				b = b.Extend(c)
				continue
			}
			x += c[0]
			y += c[1]
			b = b.Extend(tb.position(x, y))
		}
		tb.arcs[i] = b
	}

	return tb
}

func (tb *topoBounds) position(x, y float64) geo.Coord {
	t := tb.transform

	return geo.Coord{x*t.Scale[0] + t.Translate[0], y*t.Scale[1] + t.Translate[1]}
}

// ref returns the box of an arc reference; negative refs are reversed arcs (^i).
func (tb *topoBounds) ref(r int) BBox {
	if r < 0 {
		r = ^r
	}
	if r >= len(tb.arcs) {
		return emptyBBox()
	}

	return tb.arcs[r]
}

func (tb *topoBounds) refs(refs []int) BBox {
	b := emptyBBox()
	for _, r := range refs {
		b = b.Union(tb.ref(r))
	}

	return b
}

func (tb *topoBounds) ringRefs(parts [][]int) BBox {
	b := emptyBBox()
	for _, p := range parts {
		b = b.Union(tb.refs(p))
	}

	return b
}

// point transforms a quantized point position; point positions are not delta-encoded.
func (tb *topoBounds) point(c geo.Coord) geo.Coord {
	if tb.transform == nil || len(c) < 2 {
		return c
	}

	return tb.position(c[0], c[1])
}

// object returns the box of a topology member.
func (tb *topoBounds) object(obj geo.Object) BBox {
	b := emptyBBox()
	_ = geo.Walk(obj, func(o geo.Object) error {
		if geo.IsNil(o) {
			return nil
		}

		switch g := o.(type) {
		case *geo.Point:
			if g.Coordinates != nil {
				b = b.Extend(tb.point(g.Coordinates))
			}
		case *geo.MultiPoint:
			for _, c := range g.Coordinates {
				b = b.Extend(tb.point(c))
			}
		case *geo.LineString:
			b = b.Union(tb.refs(g.Arcs))
		case *geo.MultiLineString:
			b = b.Union(tb.ringRefs(g.Arcs))
		case *geo.Polygon:
			b = b.Union(tb.ringRefs(g.Arcs))
		case *geo.MultiPolygon:
			for _, poly := range g.Arcs {
				b = b.Union(tb.ringRefs(poly))
			}
		}

		return nil
	})

	return b
}

// TopologyBounds returns the box of obj, a member of t, with arc references
// resolved and quantized positions transformed.
func TopologyBounds(t *geo.Topology, obj geo.Object) BBox {
	return newTopoBounds(t).object(obj)
}
