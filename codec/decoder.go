package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/arloliu/geobuf/compact"
	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geo"
	"github.com/arloliu/geobuf/internal/options"
	"github.com/arloliu/geobuf/internal/pbf"
	"github.com/arloliu/geobuf/section"
)

// maxPrealloc bounds slice preallocation driven by counts read from the input.
const maxPrealloc = 1024

// Decoder turns a geobuf stream back into object trees.
//
// Decoding is a single forward pass. Nodes arrive flat in pre-order; a small
// stack of open containers decides where each node is attached, so nested
// collections are rebuilt without an intermediate parse tree. A header field
// starts a new document, which is what makes concatenated streams decode into
// a sequence of documents.
//
// A Decoder holds only its configuration and may be reused.
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new Decoder.
//
// Parameters:
//   - opts: Optional configuration (WithDecompression, WithCompact)
//
// Returns:
//   - *Decoder: The configured decoder
//   - error: Invalid option value
func NewDecoder(opts ...DecoderOption) (*Decoder, error) {
	config := NewDecoderConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &Decoder{config: config}, nil
}

// Config returns the decoder configuration.
func (d *Decoder) Config() *DecoderConfig {
	return d.config
}

// Decode decodes a stream that holds exactly one document.
//
// Returns:
//   - geo.Object: The root object of the document
//   - error: ErrEmptyStream, ErrMultipleDocuments, or a decode error matching errs.ErrDecode
func (d *Decoder) Decode(data []byte) (geo.Object, error) {
	objs, err := d.DecodeAll(data)
	if err != nil {
		return nil, err
	}

	switch len(objs) {
	case 0:
		return nil, errs.ErrEmptyStream
	case 1:
		return objs[0], nil
	default:
		return nil, fmt.Errorf("%w: found %d", errs.ErrMultipleDocuments, len(objs))
	}
}

// DecodeAll decodes every top-level object in data, in stream order.
//
// data may be the byte-wise concatenation of independently encoded
// documents. No partial result is returned on error.
func (d *Decoder) DecodeAll(data []byte) ([]geo.Object, error) {
	state, err := d.decode(data)
	if err != nil {
		return nil, err
	}

	return state.results, nil
}

// decode runs one full decode and returns its final state.
func (d *Decoder) decode(data []byte) (*decodeState, error) {
	if d.config.compression != format.CompressionNone {
		raw, err := d.config.codec.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("%w: decompress %s stream: %w", errs.ErrDecode, d.config.compression, err)
		}
		data = raw
	}

	state := newDecodeState()
	if err := state.run(pbf.NewReader(data)); err != nil {
		return nil, err
	}

	if d.config.compact {
		for i, obj := range state.results {
			out, err := compact.Compress(obj, d.config.compactOpts...)
			if err != nil {
				return nil, err
			}
			state.results[i] = out
		}
	}

	return state, nil
}

// frame is an open container waiting for its remaining children.
type frame struct {
	obj       geo.Object
	remaining uint64
	names     []string
	next      int
	topology  bool
}

// add attaches child to the container held by f.
func (f *frame) add(child geo.Object) error {
	t := child.Type()

	switch o := f.obj.(type) {
	case *geo.FeatureCollection:
		feature, ok := child.(*geo.Feature)
		if !ok {
			return errs.Decode(errs.ErrInvalidChild, "%s inside FeatureCollection", t)
		}
		o.Features = append(o.Features, feature)
	case *geo.Feature:
		if !t.IsGeometry() {
			return errs.Decode(errs.ErrInvalidChild, "%s as Feature geometry", t)
		}
		o.Geometry = child
	case *geo.GeometryCollection:
		if !t.IsGeometry() {
			return errs.Decode(errs.ErrInvalidChild, "%s inside GeometryCollection", t)
		}
		o.Geometries = append(o.Geometries, child)
	case *geo.Topology:
		if !t.IsGeometry() {
			return errs.Decode(errs.ErrInvalidChild, "%s inside Topology", t)
		}
		var name string
		if f.next < len(f.names) {
			name = f.names[f.next]
		}
		f.next++
		o.Objects = append(o.Objects, geo.NamedObject{Name: name, Object: child})
	}

	return nil
}

// decodeState is the per-call context of one decode.
type decodeState struct {
	header  section.Header
	coords  *encoding.CoordDecoder
	stack   []frame
	results []geo.Object
	// headers[i] is the header in effect when results[i] started
	headers []section.Header

	// per-node scratch, cleared before every node
	node nodeFields
}

// nodeFields collects the raw fields of one node before it is built.
type nodeFields struct {
	typ       uint64
	children  uint64
	id        geo.ID
	transform *geo.Transform
	names     []string
	lengths   []uint64
	deltas    []int64
	refs      []int64
	values    []geo.Value
	props     []uint64
	extra     []uint64
}

func (n *nodeFields) reset() {
	n.typ = 0
	n.children = 0
	n.id = geo.ID{}
	n.transform = nil
	n.names = nil
	n.lengths = n.lengths[:0]
	n.deltas = n.deltas[:0]
	n.refs = n.refs[:0]
	n.values = n.values[:0]
	n.props = n.props[:0]
	n.extra = n.extra[:0]
}

func newDecodeState() *decodeState {
	s := &decodeState{}
	s.setHeader(section.NewHeader())

	return s
}

func (s *decodeState) setHeader(h section.Header) {
	s.header = h
	s.coords = encoding.NewCoordDecoder(h.Dimension, encoding.Scale(h.Precision))
}

// run consumes the top-level fields of the stream.
func (s *decodeState) run(r *pbf.Reader) error {
	for !r.EOF() {
		num, typ, err := r.ReadTag()
		if err != nil {
			return err
		}

		switch num {
		case section.FieldHeader:
			if err := r.Expect(num, typ, pbf.BytesType); err != nil {
				return err
			}
			if len(s.stack) > 0 {
				return errs.Decode(errs.ErrUnclosedContainer, "header at offset %d while %s expects %d more children",
					r.Pos(), s.stack[len(s.stack)-1].obj.Type(), s.stack[len(s.stack)-1].remaining)
			}
			sub, err := r.ReadMessage()
			if err != nil {
				return err
			}
			h, err := section.ParseHeader(sub)
			if err != nil {
				return err
			}
			s.setHeader(h)
		case section.FieldNode:
			if err := r.Expect(num, typ, pbf.BytesType); err != nil {
				return err
			}
			sub, err := r.ReadMessage()
			if err != nil {
				return err
			}
			if err := s.readNode(sub); err != nil {
				return err
			}
		default:
			if err := r.Skip(num, typ); err != nil {
				return err
			}
		}
	}

	if len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		return errs.Decode(errs.ErrUnclosedContainer, "stream ended while %s expects %d more children", top.obj.Type(), top.remaining)
	}

	return nil
}

// readNode decodes one node and attaches it to the open container, if any.
func (s *decodeState) readNode(r *pbf.Reader) error {
	n := &s.node
	n.reset()

	if err := s.readFields(r, n); err != nil {
		return err
	}

	t := format.ObjectType(n.typ) //nolint:gosec
	if n.typ > uint64(format.TypeTopology) || !t.Valid() {
		return errs.Decode(errs.ErrUnknownObjectType, "type %d", n.typ)
	}

	obj := geo.New(t)
	if n.children > 0 {
		switch t {
		case format.TypeFeatureCollection, format.TypeGeometryCollection, format.TypeTopology:
		case format.TypeFeature:
			if n.children > 1 {
				return errs.Decode(errs.ErrInvalidChild, "Feature declares %d geometries", n.children)
			}
		default:
			return errs.Decode(errs.ErrInvalidChild, "%s declares %d children", t, n.children)
		}
	}

	inTopology := len(s.stack) > 0 && s.stack[len(s.stack)-1].topology
	if err := s.buildGeometry(obj, n, inTopology); err != nil {
		return err
	}
	if err := s.buildProperties(obj.Common(), n); err != nil {
		return err
	}
	obj.Common().ID = n.id

	return s.attach(obj, n)
}

func (s *decodeState) readFields(r *pbf.Reader, n *nodeFields) error {
	for !r.EOF() {
		num, typ, err := r.ReadTag()
		if err != nil {
			return err
		}

		switch num {
		case section.NodeType:
			if err := r.Expect(num, typ, pbf.VarintType); err != nil {
				return err
			}
			n.typ, err = r.ReadVarint()
		case section.NodeChildren:
			if err := r.Expect(num, typ, pbf.VarintType); err != nil {
				return err
			}
			n.children, err = r.ReadVarint()
		case section.NodeLengths:
			n.lengths, err = readUvarints(r, num, typ, n.lengths)
		case section.NodeCoords:
			n.deltas, err = readSvarints(r, num, typ, n.deltas)
		case section.NodeArcs:
			n.refs, err = readSvarints(r, num, typ, n.refs)
		case section.NodeProperties:
			n.props, err = readUvarints(r, num, typ, n.props)
		case section.NodeCustomProperties:
			n.extra, err = readUvarints(r, num, typ, n.extra)
		case section.NodeID:
			if err := r.Expect(num, typ, pbf.BytesType); err != nil {
				return err
			}
			var id string
			id, err = r.ReadString()
			n.id = geo.StringID(id)
		case section.NodeIntID:
			if err := r.Expect(num, typ, pbf.VarintType); err != nil {
				return err
			}
			var id int64
			id, err = r.ReadSVarint()
			n.id = geo.IntID(id)
		case section.NodeValues:
			if err := r.Expect(num, typ, pbf.BytesType); err != nil {
				return err
			}
			var sub *pbf.Reader
			if sub, err = r.ReadMessage(); err != nil {
				return err
			}
			var v geo.Value
			v, err = encoding.ReadValue(sub)
			n.values = append(n.values, v)
		case section.NodeNames:
			if err := r.Expect(num, typ, pbf.BytesType); err != nil {
				return err
			}
			var name string
			name, err = r.ReadString()
			n.names = append(n.names, name)
		case section.NodeTransform:
			if err := r.Expect(num, typ, pbf.BytesType); err != nil {
				return err
			}
			var sub *pbf.Reader
			if sub, err = r.ReadMessage(); err != nil {
				return err
			}
			n.transform, err = readTransform(sub)
		default:
			err = r.Skip(num, typ)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// readUvarints accepts both the packed and the unpacked encoding of a repeated uvarint field.
func readUvarints(r *pbf.Reader, num int, typ protowire.Type, dst []uint64) ([]uint64, error) {
	if typ == pbf.VarintType {
		v, err := r.ReadVarint()
		return append(dst, v), err
	}
	if err := r.Expect(num, typ, pbf.BytesType); err != nil {
		return dst, err
	}

	return r.ReadPackedVarint(dst)
}

// readSvarints accepts both the packed and the unpacked encoding of a repeated zigzag field.
func readSvarints(r *pbf.Reader, num int, typ protowire.Type, dst []int64) ([]int64, error) {
	if typ == pbf.VarintType {
		v, err := r.ReadSVarint()
		return append(dst, v), err
	}
	if err := r.Expect(num, typ, pbf.BytesType); err != nil {
		return dst, err
	}

	return r.ReadPackedSVarint(dst)
}

func readTransform(r *pbf.Reader) (*geo.Transform, error) {
	t := &geo.Transform{}
	for !r.EOF() {
		num, typ, err := r.ReadTag()
		if err != nil {
			return nil, err
		}

		var dst *float64
		switch num {
		case section.TransformScaleX:
			dst = &t.Scale[0]
		case section.TransformScaleY:
			dst = &t.Scale[1]
		case section.TransformTranslateX:
			dst = &t.Translate[0]
		case section.TransformTranslateY:
			dst = &t.Translate[1]
		default:
			if err := r.Skip(num, typ); err != nil {
				return nil, err
			}

			continue
		}

		if err := r.Expect(num, typ, pbf.Fixed64Type); err != nil {
			return nil, err
		}
		if *dst, err = r.ReadDouble(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// buildGeometry fills the coordinates or arc references of obj.
// Inside a topology, line and polygon geometries carry arc references
// unless the node holds coordinates of its own.
func (s *decodeState) buildGeometry(obj geo.Object, n *nodeFields, inTopology bool) error {
	c := s.coords
	useRefs := inTopology && len(n.deltas) == 0
	var err error

	switch o := obj.(type) {
	case *geo.Point:
		if len(n.deltas) > 0 {
			o.Coordinates, err = c.ReadPoint(n.deltas)
		}
	case *geo.MultiPoint:
		if len(n.deltas) > 0 {
			o.Coordinates, err = c.ReadLine(n.deltas)
		}
	case *geo.LineString:
		switch {
		case useRefs:
			o.Arcs = encoding.ReadLineRefs(n.refs)
		case len(n.deltas) > 0:
			o.Coordinates, err = c.ReadLine(n.deltas)
		}
	case *geo.MultiLineString:
		if useRefs {
			o.Arcs, err = encoding.ReadRingRefs(n.refs, n.lengths)
		} else {
			o.Coordinates, err = c.ReadRings(n.deltas, n.lengths, false)
		}
	case *geo.Polygon:
		if useRefs {
			o.Arcs, err = encoding.ReadRingRefs(n.refs, n.lengths)
		} else {
			o.Coordinates, err = c.ReadRings(n.deltas, n.lengths, true)
		}
	case *geo.MultiPolygon:
		if useRefs {
			o.Arcs, err = encoding.ReadPolygonRefs(n.refs, n.lengths)
		} else {
			o.Coordinates, err = c.ReadMultiPolygon(n.deltas, n.lengths)
		}
	case *geo.Topology:
		o.Transform = n.transform
		if len(n.lengths) > 0 || len(n.deltas) > 0 {
			o.Arcs, err = c.ReadArcs(n.deltas, n.lengths)
		}
	}

	return err
}

// buildProperties resolves the (keyIndex, valueSlot) pairs of the node.
func (s *decodeState) buildProperties(base *geo.Base, n *nodeFields) error {
	var err error
	if base.Properties, err = s.resolvePairs(n.props, n.values); err != nil {
		return err
	}
	base.Extra, err = s.resolvePairs(n.extra, n.values)

	return err
}

func (s *decodeState) resolvePairs(pairs []uint64, values []geo.Value) (map[string]geo.Value, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	if len(pairs)%2 != 0 {
		return nil, errs.Decode(errs.ErrValueIndexOutOfRange, "odd property pair list of %d entries", len(pairs))
	}

	keys := s.header.Keys
	m := make(map[string]geo.Value, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, v := pairs[i], pairs[i+1]
		if k >= uint64(len(keys)) {
			return nil, errs.Decode(errs.ErrKeyIndexOutOfRange, "key %d of %d", k, len(keys))
		}
		if v >= uint64(len(values)) {
			return nil, errs.Decode(errs.ErrValueIndexOutOfRange, "value %d of %d", v, len(values))
		}
		m[keys[k]] = values[v]
	}

	return m, nil
}

// attach places obj under the innermost open container, or starts a new
// result when no container is open, then updates the container stack.
func (s *decodeState) attach(obj geo.Object, n *nodeFields) error {
	topology := false
	if len(s.stack) == 0 {
		s.results = append(s.results, obj)
		s.headers = append(s.headers, s.header)
	} else {
		top := &s.stack[len(s.stack)-1]
		if err := top.add(obj); err != nil {
			return err
		}
		top.remaining--
		topology = top.topology
	}

	if n.children > 0 {
		if t, ok := obj.(*geo.Topology); ok {
			topology = true
			t.Objects = make([]geo.NamedObject, 0, min(n.children, maxPrealloc))
		}
		s.stack = append(s.stack, frame{
			obj:       obj,
			remaining: n.children,
			names:     n.names,
			topology:  topology,
		})
	}

	for len(s.stack) > 0 && s.stack[len(s.stack)-1].remaining == 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}

	return nil
}
