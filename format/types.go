// Package format defines the small enumerations shared by the geobuf wire format
// and its configuration: the object type table and the payload compression types.
package format

import (
	"fmt"
	"strings"
)

type (
	ObjectType      uint8
	CompressionType uint8
)

// The object type table. Values are written as-is on the wire and must never be renumbered.
const (
	TypePoint              ObjectType = 0 // TypePoint is a single coordinate.
	TypeMultiPoint         ObjectType = 1 // TypeMultiPoint is an unordered set of coordinates.
	TypeLineString         ObjectType = 2 // TypeLineString is an open coordinate sequence.
	TypeMultiLineString    ObjectType = 3 // TypeMultiLineString is a set of line strings.
	TypePolygon            ObjectType = 4 // TypePolygon is a set of closed rings.
	TypeMultiPolygon       ObjectType = 5 // TypeMultiPolygon is a set of polygons.
	TypeGeometryCollection ObjectType = 6 // TypeGeometryCollection is a heterogeneous set of geometries.
	TypeFeature            ObjectType = 7 // TypeFeature is a geometry with id and properties.
	TypeFeatureCollection  ObjectType = 8 // TypeFeatureCollection is a set of features.
	TypeTopology           ObjectType = 9 // TypeTopology is a TopoJSON topology with shared arcs.

	// TypeUnknown marks an object whose type name was not recognized.
	TypeUnknown ObjectType = 0xFF
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

var objectTypeNames = [...]string{
	TypePoint:              "Point",
	TypeMultiPoint:         "MultiPoint",
	TypeLineString:         "LineString",
	TypeMultiLineString:    "MultiLineString",
	TypePolygon:            "Polygon",
	TypeMultiPolygon:       "MultiPolygon",
	TypeGeometryCollection: "GeometryCollection",
	TypeFeature:            "Feature",
	TypeFeatureCollection:  "FeatureCollection",
	TypeTopology:           "Topology",
}

// String returns the GeoJSON/TopoJSON type name.
func (t ObjectType) String() string {
	if t.Valid() {
		return objectTypeNames[t]
	}

	return "Unknown"
}

// Valid reports whether t is part of the type table.
func (t ObjectType) Valid() bool {
	return int(t) < len(objectTypeNames)
}

// IsGeometry reports whether t is one of the seven geometry types.
func (t ObjectType) IsGeometry() bool {
	return t <= TypeGeometryCollection
}

// ParseObjectType maps a GeoJSON/TopoJSON type name to its ObjectType.
// It returns TypeUnknown and false for names outside the type table.
func ParseObjectType(name string) (ObjectType, bool) {
	for i, n := range objectTypeNames {
		if n == name {
			return ObjectType(i), true //nolint:gosec
		}
	}

	return TypeUnknown, false
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a case-insensitive name ("none", "zstd", "s2", "lz4") to a CompressionType.
func ParseCompressionType(name string) (CompressionType, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression type %q", name)
	}
}
