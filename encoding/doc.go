// Package encoding provides the low-level codecs behind geobuf nodes: the
// coordinate codec and the property value codec.
//
// Most users should use the codec package (or the root geobuf package)
// instead. This package is useful for tools that inspect or build streams
// field by field.
//
// # Coordinate Encoding
//
// Coordinates are scaled by e = 10^precision, rounded to integers and stored
// as zigzag-varint deltas from the previous position of the same line:
//
//	enc := encoding.NewCoordEncoder(2, encoding.Scale(6))
//	enc.WriteLine([]geo.Coord{{30.5, 10.25}, {30.75, 10.5}})
//	deltas := enc.Deltas()  // [30500000 10250000 250000 250000]
//
// The delta chain restarts at the first position of every line, ring and
// arc, so a decoder can start from any lengths boundary.
//
// Positions with fewer components than the document dimension are padded
// with 0; the document dimension is at most MaxDim.
//
// Rings:
//
// A ring whose last position equals its first after scaling is written
// without the closing position, and the decoder appends a copy of the first
// position back. Rings that are not closed in the input are written in full
// and come back closed, as GeoJSON requires. Line strings are never closed.
//
// Lengths:
//
// Multi-part geometries carry a lengths list describing the part sizes:
//
//	MultiLineString, Polygon:  [n(part0), n(part1), ...]
//	MultiPolygon:              [numPolygons, numRings(p0), n(r0), n(r1), ..., numRings(p1), ...]
//
// A Polygon or MultiLineString with a single part omits the list, and so
// does a MultiPolygon made of one single-ring polygon.
//
// Topology arcs:
//
// Inside a TopoJSON topology, geometries reference shared arcs by index
// (negative indices, ^i, reverse arc i). Arc references use the same lengths
// layout as coordinates but are written unscaled and without deltas.
//
// # Value Encoding
//
// Property values are written as small sub-messages with exactly one field:
//
//	1  string
//	2  double          non-integral numbers
//	3  uint64          non-negative integers
//	4  uint64          magnitude of negative integers
//	5  bool
//	6  string          structured values (objects, arrays) as JSON text
//
// Splitting integers by sign keeps them exact up to 2^64 and avoids the
// double field for the common case. A null value is written as an empty
// message and decodes back to null.
//
// # Thread Safety
//
// CoordEncoder and CoordDecoder are not safe for concurrent use. WriteValue
// and ReadValue are stateless.
package encoding
