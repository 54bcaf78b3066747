package geo

// Children returns the direct child objects of obj in wire order:
// the geometries of a GeometryCollection, the features of a
// FeatureCollection, the geometry of a Feature (when present) and the
// named objects of a Topology. Leaf geometries have no children.
//
// A nil entry in a collection is returned as a nil Object.
func Children(obj Object) []Object {
	switch o := obj.(type) {
	case *GeometryCollection:
		return o.Geometries
	case *FeatureCollection:
		out := make([]Object, len(o.Features))
		for i, f := range o.Features {
			if f != nil {
				out[i] = f
			}
		}

		return out
	case *Feature:
		if o.Geometry == nil {
			return nil
		}

		return []Object{o.Geometry}
	case *Topology:
		out := make([]Object, len(o.Objects))
		for i, named := range o.Objects {
			out[i] = named.Object
		}

		return out
	default:
		return nil
	}
}

// Walk calls visit for obj and then, recursively, for each of its children
// in pre-order. It stops at the first error returned by visit. Nil objects,
// typed nil pointers included, are visited but never descended into.
//
// Walk is the single traversal shared by the analyzer and the encoder, so
// both passes see objects in exactly the same order.
func Walk(obj Object, visit func(Object) error) error {
	if err := visit(obj); err != nil {
		return err
	}
	if IsNil(obj) {
		return nil
	}

	for _, child := range Children(obj) {
		if err := Walk(child, visit); err != nil {
			return err
		}
	}

	return nil
}

// EachCoord calls fn for every position stored directly on obj, including
// the arcs of a Topology. It does not descend into children.
func EachCoord(obj Object, fn func(Coord)) {
	if IsNil(obj) {
		return
	}

	switch o := obj.(type) {
	case *Point:
		if o.Coordinates != nil {
			fn(o.Coordinates)
		}
	case *MultiPoint:
		eachLine(o.Coordinates, fn)
	case *LineString:
		eachLine(o.Coordinates, fn)
	case *MultiLineString:
		eachRings(o.Coordinates, fn)
	case *Polygon:
		eachRings(o.Coordinates, fn)
	case *MultiPolygon:
		for _, poly := range o.Coordinates {
			eachRings(poly, fn)
		}
	case *Topology:
		eachRings(o.Arcs, fn)
	}
}

func eachLine(line []Coord, fn func(Coord)) {
	for _, c := range line {
		fn(c)
	}
}

func eachRings(rings [][]Coord, fn func(Coord)) {
	for _, ring := range rings {
		eachLine(ring, fn)
	}
}
