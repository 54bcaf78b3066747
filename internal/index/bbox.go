package index

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/geobuf/geo"
)

// BBox is an axis-aligned bounding box in coordinate units.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// emptyBBox is the identity for Extend.
func emptyBBox() BBox {
	return BBox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

// IsEmpty reports whether b contains no position.
func (b BBox) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Extend grows b to contain the x and y components of c.
func (b BBox) Extend(c geo.Coord) BBox {
	if len(c) < 2 {
		return b
	}
	b.MinX = min(b.MinX, c[0])
	b.MinY = min(b.MinY, c[1])
	b.MaxX = max(b.MaxX, c[0])
	b.MaxY = max(b.MaxY, c[1])

	return b
}

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}

	return BBox{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

// Intersects reports whether b and o overlap, edges included.
func (b BBox) Intersects(o BBox) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// String formats b as "minx,miny,maxx,maxy", the form ParseBBox accepts.
func (b BBox) String() string {
	parts := []float64{b.MinX, b.MinY, b.MaxX, b.MaxY}
	out := make([]string, len(parts))
	for i, f := range parts {
		out[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}

	return strings.Join(out, ",")
}

// ParseBBox parses "minx,miny,maxx,maxy".
func ParseBBox(s string) (BBox, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return BBox{}, fmt.Errorf("bbox %q: want 4 comma-separated numbers, got %d", s, len(fields))
	}

	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = n
	}

	b := BBox{MinX: v[0], MinY: v[1], MaxX: v[2], MaxY: v[3]}
	if b.IsEmpty() {
		return BBox{}, fmt.Errorf("bbox %q: min exceeds max", s)
	}

	return b, nil
}

// Bounds returns the box around every position reachable from obj,
// descending into children. Geometries that reference topology arcs
// contribute nothing here; see TopologyBounds.
func Bounds(obj geo.Object) BBox {
	b := emptyBBox()
	_ = geo.Walk(obj, func(o geo.Object) error {
		if geo.IsNil(o) {
			return nil
		}
		if _, ok := o.(*geo.Topology); ok {
			return nil
		}
		geo.EachCoord(o, func(c geo.Coord) { b = b.Extend(c) })

		return nil
	})

	return b
}
