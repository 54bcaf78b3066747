// Package geo defines the in-memory object tree geobuf encodes and decodes:
// the GeoJSON geometry types, features, feature collections and TopoJSON
// topologies, together with their identifiers and property values.
//
// The set of variants is closed. Every concrete type implements Object, and
// code that needs to handle each variant switches on Object.Type:
//
//	switch o := obj.(type) {
//	case *geo.Point:
//	    ...
//	case *geo.Feature:
//	    ...
//	}
//
// Unknown is the only open-ended variant. It is produced at decode
// boundaries (for example the GeoJSON reader) when a type name is not
// recognized, and the encoder rejects it.
package geo

import "github.com/arloliu/geobuf/format"

// Coord is a single position with 2 or 3 components (x, y[, z]).
type Coord []float64

// Object is implemented by every node of a geobuf object tree.
type Object interface {
	// Type returns the variant tag.
	Type() format.ObjectType
	// Common returns the fields shared by every variant.
	Common() *Base

	sealed()
}

// Base holds the fields every variant may carry.
type Base struct {
	// ID is the optional identifier. The zero value means "no id".
	ID ID
	// Properties is the canonical GeoJSON "properties" map.
	Properties map[string]Value
	// Extra holds non-standard top-level members, round-tripped verbatim.
	Extra map[string]Value
}

// Common returns b itself so embedding types satisfy Object.
func (b *Base) Common() *Base { return b }

func (b *Base) sealed() {}

// Point is a single position.
type Point struct {
	Base
	Coordinates Coord
}

// MultiPoint is a set of positions.
type MultiPoint struct {
	Base
	Coordinates []Coord
}

// LineString is an open sequence of positions.
//
// Inside a Topology, Arcs references the topology's arcs instead of
// carrying Coordinates.
type LineString struct {
	Base
	Coordinates []Coord
	Arcs        []int
}

// MultiLineString is a set of line strings.
type MultiLineString struct {
	Base
	Coordinates [][]Coord
	Arcs        [][]int
}

// Polygon is a set of closed linear rings; the first ring is the exterior.
type Polygon struct {
	Base
	Coordinates [][]Coord
	Arcs        [][]int
}

// MultiPolygon is a set of polygons.
type MultiPolygon struct {
	Base
	Coordinates [][][]Coord
	Arcs        [][][]int
}

// GeometryCollection owns an ordered list of child geometries.
type GeometryCollection struct {
	Base
	Geometries []Object
}

// Feature is a geometry with an identifier and properties. Geometry may be nil.
type Feature struct {
	Base
	Geometry Object
}

// FeatureCollection is an ordered list of features.
type FeatureCollection struct {
	Base
	Features []*Feature
}

// Transform is the TopoJSON quantization transform.
type Transform struct {
	Scale     [2]float64
	Translate [2]float64
}

// NamedObject is one entry of a topology's "objects" member.
type NamedObject struct {
	Name   string
	Object Object
}

// Topology is a TopoJSON topology. Arcs are shared coordinate sequences
// referenced by index from the geometries in Objects.
type Topology struct {
	Base
	Transform *Transform
	Arcs      [][]Coord
	Objects   []NamedObject
}

// Unknown is an object whose type name was not recognized by a decoder.
// It cannot be encoded.
type Unknown struct {
	Base
	TypeName string
}

func (*Point) Type() format.ObjectType              { return format.TypePoint }
func (*MultiPoint) Type() format.ObjectType         { return format.TypeMultiPoint }
func (*LineString) Type() format.ObjectType         { return format.TypeLineString }
func (*MultiLineString) Type() format.ObjectType    { return format.TypeMultiLineString }
func (*Polygon) Type() format.ObjectType            { return format.TypePolygon }
func (*MultiPolygon) Type() format.ObjectType       { return format.TypeMultiPolygon }
func (*GeometryCollection) Type() format.ObjectType { return format.TypeGeometryCollection }
func (*Feature) Type() format.ObjectType            { return format.TypeFeature }
func (*FeatureCollection) Type() format.ObjectType  { return format.TypeFeatureCollection }
func (*Topology) Type() format.ObjectType           { return format.TypeTopology }
func (*Unknown) Type() format.ObjectType            { return format.TypeUnknown }

// New returns an empty object of the given type, or nil if t is not in the type table.
func New(t format.ObjectType) Object {
	switch t {
	case format.TypePoint:
		return &Point{}
	case format.TypeMultiPoint:
		return &MultiPoint{}
	case format.TypeLineString:
		return &LineString{}
	case format.TypeMultiLineString:
		return &MultiLineString{}
	case format.TypePolygon:
		return &Polygon{}
	case format.TypeMultiPolygon:
		return &MultiPolygon{}
	case format.TypeGeometryCollection:
		return &GeometryCollection{}
	case format.TypeFeature:
		return &Feature{}
	case format.TypeFeatureCollection:
		return &FeatureCollection{}
	case format.TypeTopology:
		return &Topology{}
	default:
		return nil
	}
}

// IsNil reports whether obj is nil or holds a nil pointer of one of the variants.
func IsNil(obj Object) bool {
	switch o := obj.(type) {
	case nil:
		return true
	case *Point:
		return o == nil
	case *MultiPoint:
		return o == nil
	case *LineString:
		return o == nil
	case *MultiLineString:
		return o == nil
	case *Polygon:
		return o == nil
	case *MultiPolygon:
		return o == nil
	case *GeometryCollection:
		return o == nil
	case *Feature:
		return o == nil
	case *FeatureCollection:
		return o == nil
	case *Topology:
		return o == nil
	case *Unknown:
		return o == nil
	default:
		return false
	}
}
