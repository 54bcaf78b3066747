package encoding

import (
	"math"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/geo"
	"github.com/arloliu/geobuf/internal/pool"
)

// MaxPrecision is the largest decimal precision exponent; scale factors are clamped at 10^6.
const MaxPrecision = 6

// DefaultDim is the dimensionality assumed when a document does not say otherwise.
const DefaultDim = 2

// MaxDim is the largest supported number of components per position.
const MaxDim = 3

var pow10 = [MaxPrecision + 1]float64{1, 10, 100, 1e3, 1e4, 1e5, 1e6}

// Scale returns the scale factor 10^precision. The precision is clamped to 0..MaxPrecision.
func Scale(precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	if precision > MaxPrecision {
		precision = MaxPrecision
	}

	return pow10[precision]
}

// CoordEncoder implements the scale and delta transform for the positions of one node.
//
// Every position is scaled by e, rounded to the nearest integer and written as
// dim zigzag deltas against the previous rounded position of the same part.
// The first position of each part is relative to zero.
//
// Because each delta is taken from the previously rounded value rather than
// from the original floats, the decoder's running sum reproduces every
// rounded position exactly and rounding error never accumulates.
//
// Multi-part geometries are flattened into one delta stream plus a lengths
// list. The lengths list is omitted for the common single-part case.
//
// Arc references of topology geometries are collected separately in Refs.
//
// Note: The CoordEncoder is NOT thread-safe and is reused across nodes via Reset.
type CoordEncoder struct {
	dim     int
	e       float64
	prev    [MaxDim]int64
	deltas  []int64
	lengths []uint64
	refs    []int64
	release []func()
}

// NewCoordEncoder creates a coordinate encoder for a document with the given
// dimensionality and scale factor.
//
// Parameters:
//   - dim: Number of components written per position (2 or 3)
//   - e: Scale factor, a power of ten between 1 and 10^6
//
// Returns:
//   - *CoordEncoder: A new encoder backed by pooled scratch slices; call Release when done
func NewCoordEncoder(dim int, e float64) *CoordEncoder {
	deltas, releaseDeltas := pool.GetInt64Slice(256)
	refs, releaseRefs := pool.GetInt64Slice(16)
	lengths, releaseLengths := pool.GetUint64Slice(16)

	return &CoordEncoder{
		dim:     dim,
		e:       e,
		deltas:  deltas,
		lengths: lengths,
		refs:    refs,
		release: []func(){releaseDeltas, releaseRefs, releaseLengths},
	}
}

// Deltas returns the delta stream written since the last Reset.
func (c *CoordEncoder) Deltas() []int64 { return c.deltas }

// Lengths returns the part lengths written since the last Reset, or nil when omitted.
func (c *CoordEncoder) Lengths() []uint64 { return c.lengths }

// Refs returns the arc references written since the last Reset.
func (c *CoordEncoder) Refs() []int64 { return c.refs }

// Reset clears the per-node output, keeping the allocated capacity.
func (c *CoordEncoder) Reset() {
	c.deltas = c.deltas[:0]
	c.lengths = c.lengths[:0]
	c.refs = c.refs[:0]
}

// Release returns the scratch slices to their pools. The encoder must not be used afterwards.
func (c *CoordEncoder) Release() {
	for _, fn := range c.release {
		fn()
	}
	c.release = nil
	c.deltas, c.lengths, c.refs = nil, nil, nil
}

func (c *CoordEncoder) round(p geo.Coord, d int) int64 {
	if d >= len(p) {
		return 0
	}

	return int64(math.Round(p[d] * c.e))
}

func (c *CoordEncoder) resetPrev() {
	c.prev = [MaxDim]int64{}
}

func (c *CoordEncoder) writeCoord(p geo.Coord) {
	for d := 0; d < c.dim; d++ {
		v := c.round(p, d)
		c.deltas = append(c.deltas, v-c.prev[d])
		c.prev[d] = v
	}
}

// isClosed reports whether the first and last positions of line coincide at the encoding scale.
func (c *CoordEncoder) isClosed(line []geo.Coord) bool {
	if len(line) < 2 {
		return false
	}

	first, last := line[0], line[len(line)-1]
	for d := 0; d < c.dim; d++ {
		if c.round(first, d) != c.round(last, d) {
			return false
		}
	}

	return true
}

// writeLine writes one part and returns the number of positions written.
//
// For closed geometries a ring whose last position repeats the first omits
// that last position; the decoder restores it. A ring that is not actually
// closed is written in full and comes back closed.
func (c *CoordEncoder) writeLine(line []geo.Coord, closed bool) int {
	c.resetPrev()

	n := len(line)
	if closed && c.isClosed(line) {
		n--
	}

	for _, p := range line[:n] {
		c.writeCoord(p)
	}

	return n
}

// WritePoint writes a single position.
func (c *CoordEncoder) WritePoint(p geo.Coord) {
	c.resetPrev()
	c.writeCoord(p)
}

// WriteLine writes a MultiPoint or LineString as a single part with no lengths list.
func (c *CoordEncoder) WriteLine(line []geo.Coord) {
	c.writeLine(line, false)
}

// WriteRings writes a MultiLineString (closed=false) or Polygon (closed=true).
//
// The lengths list is omitted when there is exactly one non-empty part.
func (c *CoordEncoder) WriteRings(rings [][]geo.Coord, closed bool) {
	start := len(c.lengths)
	for _, ring := range rings {
		n := c.writeLine(ring, closed)
		c.lengths = append(c.lengths, uint64(n)) //nolint:gosec
	}

	if len(rings) == 1 && c.lengths[start] > 0 {
		c.lengths = c.lengths[:start]
	}
}

// WriteMultiPolygon writes a MultiPolygon.
//
// The lengths list is [numPolygons, numRings(0), len(0,0), ..., numRings(1), ...]
// and is omitted when there is one polygon with one non-empty ring.
func (c *CoordEncoder) WriteMultiPolygon(polygons [][][]geo.Coord) {
	start := len(c.lengths)
	c.lengths = append(c.lengths, uint64(len(polygons)))
	for _, rings := range polygons {
		c.lengths = append(c.lengths, uint64(len(rings)))
		for _, ring := range rings {
			n := c.writeLine(ring, true)
			c.lengths = append(c.lengths, uint64(n)) //nolint:gosec
		}
	}

	if len(polygons) == 1 && len(polygons[0]) == 1 && c.lengths[start+2] > 0 {
		c.lengths = c.lengths[:start]
	}
}

// WriteArcs writes the shared arcs of a topology. One length per arc is always written.
func (c *CoordEncoder) WriteArcs(arcs [][]geo.Coord) {
	for _, arc := range arcs {
		n := c.writeLine(arc, false)
		c.lengths = append(c.lengths, uint64(n)) //nolint:gosec
	}
}

// WriteLineRefs writes the arc references of a topology LineString.
func (c *CoordEncoder) WriteLineRefs(arcs []int) {
	for _, a := range arcs {
		c.refs = append(c.refs, int64(a))
	}
}

// WriteRingRefs writes the arc references of a topology MultiLineString or Polygon.
// One length per part is always written.
func (c *CoordEncoder) WriteRingRefs(parts [][]int) {
	for _, part := range parts {
		c.lengths = append(c.lengths, uint64(len(part)))
		c.WriteLineRefs(part)
	}
}

// WritePolygonRefs writes the arc references of a topology MultiPolygon using
// the MultiPolygon lengths layout. The lengths list is always written.
func (c *CoordEncoder) WritePolygonRefs(polygons [][][]int) {
	c.lengths = append(c.lengths, uint64(len(polygons)))
	for _, rings := range polygons {
		c.lengths = append(c.lengths, uint64(len(rings)))
		for _, ring := range rings {
			c.lengths = append(c.lengths, uint64(len(ring)))
			c.WriteLineRefs(ring)
		}
	}
}

// CoordDecoder reverses CoordEncoder: it accumulates deltas per dimension and
// divides by the scale factor.
//
// Note: The CoordDecoder is NOT thread-safe.
type CoordDecoder struct {
	dim int
	e   float64
}

// NewCoordDecoder creates a decoder for a document with the given dimensionality and scale factor.
func NewCoordDecoder(dim int, e float64) *CoordDecoder {
	return &CoordDecoder{dim: dim, e: e}
}

// readLine reconstructs n positions starting at deltas[pos] and returns the new offset.
func (c *CoordDecoder) readLine(deltas []int64, pos, n int, closed bool) ([]geo.Coord, int, error) {
	if n < 0 || n > (len(deltas)-pos)/c.dim {
		return nil, pos, errs.Decode(errs.ErrCoordinateMismatch, "need %d positions at offset %d of %d values", n, pos, len(deltas))
	}

	size := n
	if closed && n > 0 {
		size++
	}

	line := make([]geo.Coord, 0, size)
	var acc [MaxDim]int64
	for i := 0; i < n; i++ {
		p := make(geo.Coord, c.dim)
		for d := 0; d < c.dim; d++ {
			acc[d] += deltas[pos]
			pos++
			p[d] = float64(acc[d]) / c.e
		}
		line = append(line, p)
	}

	if closed && n > 0 {
		first := make(geo.Coord, c.dim)
		copy(first, line[0])
		line = append(line, first)
	}

	return line, pos, nil
}

func (c *CoordDecoder) count(deltas []int64) (int, error) {
	if len(deltas)%c.dim != 0 {
		return 0, errs.Decode(errs.ErrCoordinateMismatch, "%d values is not a multiple of dimension %d", len(deltas), c.dim)
	}

	return len(deltas) / c.dim, nil
}

func (c *CoordDecoder) done(deltas []int64, pos int) error {
	if pos != len(deltas) {
		return errs.Decode(errs.ErrCoordinateMismatch, "%d trailing values", len(deltas)-pos)
	}

	return nil
}

// ReadPoint reconstructs a single position.
func (c *CoordDecoder) ReadPoint(deltas []int64) (geo.Coord, error) {
	if len(deltas) != c.dim {
		return nil, errs.Decode(errs.ErrCoordinateMismatch, "point has %d values, want %d", len(deltas), c.dim)
	}
	line, _, err := c.readLine(deltas, 0, 1, false)
	if err != nil {
		return nil, err
	}

	return line[0], nil
}

// ReadLine reconstructs a MultiPoint or LineString.
func (c *CoordDecoder) ReadLine(deltas []int64) ([]geo.Coord, error) {
	n, err := c.count(deltas)
	if err != nil {
		return nil, err
	}
	line, _, err := c.readLine(deltas, 0, n, false)

	return line, err
}

// ReadRings reconstructs a MultiLineString or Polygon. Without lengths the
// whole stream is a single part.
func (c *CoordDecoder) ReadRings(deltas []int64, lengths []uint64, closed bool) ([][]geo.Coord, error) {
	if len(lengths) == 0 {
		if len(deltas) == 0 {
			return nil, nil
		}
		n, err := c.count(deltas)
		if err != nil {
			return nil, err
		}
		ring, _, err := c.readLine(deltas, 0, n, closed)
		if err != nil {
			return nil, err
		}

		return [][]geo.Coord{ring}, nil
	}

	rings := make([][]geo.Coord, 0, len(lengths))
	pos := 0
	for _, l := range lengths {
		ring, next, err := c.readLine(deltas, pos, int(l), closed) //nolint:gosec
		if err != nil {
			return nil, err
		}
		pos = next
		rings = append(rings, ring)
	}

	return rings, c.done(deltas, pos)
}

// ReadMultiPolygon reconstructs a MultiPolygon from the MultiPolygon lengths layout.
func (c *CoordDecoder) ReadMultiPolygon(deltas []int64, lengths []uint64) ([][][]geo.Coord, error) {
	if len(lengths) == 0 {
		rings, err := c.ReadRings(deltas, nil, true)
		if err != nil || rings == nil {
			return nil, err
		}

		return [][][]geo.Coord{rings}, nil
	}

	var polygons [][][]geo.Coord
	pos := 0
	err := walkPolygonLengths(lengths, func(numRings int) {
		polygons = append(polygons, make([][]geo.Coord, 0, numRings))
	}, func(n int) error {
		ring, next, err := c.readLine(deltas, pos, n, true)
		if err != nil {
			return err
		}
		pos = next
		last := len(polygons) - 1
		polygons[last] = append(polygons[last], ring)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return polygons, c.done(deltas, pos)
}

// ReadArcs reconstructs the shared arcs of a topology.
func (c *CoordDecoder) ReadArcs(deltas []int64, lengths []uint64) ([][]geo.Coord, error) {
	arcs := make([][]geo.Coord, 0, len(lengths))
	pos := 0
	for _, l := range lengths {
		arc, next, err := c.readLine(deltas, pos, int(l), false) //nolint:gosec
		if err != nil {
			return nil, err
		}
		pos = next
		arcs = append(arcs, arc)
	}

	return arcs, c.done(deltas, pos)
}

// ReadLineRefs converts the arc references of a topology LineString.
func ReadLineRefs(refs []int64) []int {
	out := make([]int, len(refs))
	for i, r := range refs {
		out[i] = int(r)
	}

	return out
}

// ReadRingRefs splits arc references into parts using one length per part.
func ReadRingRefs(refs []int64, lengths []uint64) ([][]int, error) {
	parts := make([][]int, 0, len(lengths))
	pos := 0
	for _, l := range lengths {
		n := int(l) //nolint:gosec
		if n < 0 || n > len(refs)-pos {
			return nil, errs.Decode(errs.ErrCoordinateMismatch, "arc part of %d refs exceeds %d", n, len(refs)-pos)
		}
		parts = append(parts, ReadLineRefs(refs[pos:pos+n]))
		pos += n
	}
	if pos != len(refs) {
		return nil, errs.Decode(errs.ErrCoordinateMismatch, "%d trailing arc refs", len(refs)-pos)
	}

	return parts, nil
}

// ReadPolygonRefs splits arc references using the MultiPolygon lengths layout.
func ReadPolygonRefs(refs []int64, lengths []uint64) ([][][]int, error) {
	var polygons [][][]int
	pos := 0
	err := walkPolygonLengths(lengths, func(numRings int) {
		polygons = append(polygons, make([][]int, 0, numRings))
	}, func(n int) error {
		if n < 0 || n > len(refs)-pos {
			return errs.Decode(errs.ErrCoordinateMismatch, "arc ring of %d refs exceeds %d", n, len(refs)-pos)
		}
		last := len(polygons) - 1
		polygons[last] = append(polygons[last], ReadLineRefs(refs[pos:pos+n]))
		pos += n

		return nil
	})
	if err != nil {
		return nil, err
	}
	if pos != len(refs) {
		return nil, errs.Decode(errs.ErrCoordinateMismatch, "%d trailing arc refs", len(refs)-pos)
	}

	return polygons, nil
}

// walkPolygonLengths interprets [numPolygons, numRings, len, len, numRings, ...],
// calling polygon before each polygon's rings and ring for every ring length.
func walkPolygonLengths(lengths []uint64, polygon func(numRings int), ring func(n int) error) error {
	if len(lengths) == 0 {
		return nil
	}

	numPolygons := lengths[0]
	j := 1
	for i := uint64(0); i < numPolygons; i++ {
		if j >= len(lengths) {
			return errs.Decode(errs.ErrCoordinateMismatch, "lengths list ends before polygon %d", i)
		}
		numRings := lengths[j]
		j++
		if numRings > uint64(len(lengths)-j) { //nolint:gosec
			return errs.Decode(errs.ErrCoordinateMismatch, "polygon %d declares %d rings, %d lengths left", i, numRings, len(lengths)-j)
		}
		polygon(int(numRings)) //nolint:gosec
		for k := uint64(0); k < numRings; k++ {
			if err := ring(int(lengths[j])); err != nil { //nolint:gosec
				return err
			}
			j++
		}
	}
	if j != len(lengths) {
		return errs.Decode(errs.ErrCoordinateMismatch, "%d trailing lengths", len(lengths)-j)
	}

	return nil
}
