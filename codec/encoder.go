package codec

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/arloliu/geobuf/compress"
	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geo"
	"github.com/arloliu/geobuf/internal/options"
	"github.com/arloliu/geobuf/internal/pbf"
	"github.com/arloliu/geobuf/section"
)

// Encoder turns an object tree into a geobuf stream.
//
// Encoding is two ordered passes over the same immutable tree: Analyze
// derives the key dictionary, dimension and precision, then the writing pass
// emits one header followed by one node per object in pre-order. The writing
// pass never recomputes anything the analysis decided.
//
// An Encoder holds only its configuration, so one instance may be reused for
// many documents. It is safe for concurrent use as long as the configured
// compression codec is (all built-in codecs are).
type Encoder struct {
	config *EncoderConfig
}

// NewEncoder creates a new Encoder.
//
// Parameters:
//   - opts: Optional configuration (WithCompression, WithMaxPrecision)
//
// Returns:
//   - *Encoder: The configured encoder
//   - error: Invalid option value
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	config := NewEncoderConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &Encoder{config: config}, nil
}

// Config returns the encoder configuration.
func (e *Encoder) Config() *EncoderConfig {
	return e.config
}

// Encode encodes obj as a single geobuf document.
//
// The returned slice is owned by the caller. On failure no bytes are returned.
//
// Returns:
//   - []byte: The encoded (and optionally compressed) document
//   - error: ErrNilObject, ErrSchema for types outside the type table,
//     ErrInvalidDimension for positions with more than 3 components
func (e *Encoder) Encode(obj geo.Object) ([]byte, error) {
	data, _, err := e.EncodeStats(obj)
	return data, err
}

// EncodeStats encodes obj like Encode and also reports the size of the raw
// stream, the size after compression and the time spent compressing.
func (e *Encoder) EncodeStats(obj geo.Object) ([]byte, compress.CompressionStats, error) {
	stats := compress.CompressionStats{Algorithm: e.config.compression}

	raw, err := e.encodeRaw(obj)
	if err != nil {
		return nil, stats, err
	}
	stats.OriginalSize = int64(len(raw))

	if e.config.compression == format.CompressionNone {
		stats.CompressedSize = stats.OriginalSize
		stats.Ratio = 1.0

		return raw, stats, nil
	}

	start := time.Now()
	data, err := e.config.codec.Compress(raw)
	if err != nil {
		return nil, stats, fmt.Errorf("compress stream with %s: %w", e.config.compression, err)
	}
	stats.CompressionTimeNs = time.Since(start).Nanoseconds()
	stats.CompressedSize = int64(len(data))
	stats.Ratio = stats.CompressionRatio()

	return data, stats, nil
}

func (e *Encoder) encodeRaw(obj geo.Object) ([]byte, error) {
	if geo.IsNil(obj) {
		return nil, errs.ErrNilObject
	}

	analysis, err := Analyze(obj, e.config.maxPrecision)
	if err != nil {
		return nil, err
	}

	w := pbf.NewWriter()
	defer w.Release()

	header := section.Header{Keys: analysis.Keys, Dimension: analysis.Dim, Precision: analysis.Precision}
	err = w.WriteMessage(section.FieldHeader, func(hw *pbf.Writer) error {
		header.WriteTo(hw)
		return nil
	})
	if err != nil {
		return nil, err
	}

	state := newEncodeState(analysis)
	defer state.release()

	err = geo.Walk(obj, func(o geo.Object) error {
		return w.WriteMessage(section.FieldNode, func(nw *pbf.Writer) error {
			return state.writeNode(nw, o)
		})
	})
	if err != nil {
		return nil, err
	}

	// the writer's buffer goes back to the pool on return
	return slices.Clone(w.Bytes()), nil
}

// encodeState is the per-call context of the writing pass.
type encodeState struct {
	analysis *Analysis
	coords   *encoding.CoordEncoder
	values   []geo.Value
}

func newEncodeState(analysis *Analysis) *encodeState {
	return &encodeState{
		analysis: analysis,
		coords:   encoding.NewCoordEncoder(analysis.Dim, analysis.Scale()),
	}
}

func (s *encodeState) release() {
	s.coords.Release()
}

// writeNode writes the fields of one node. Children are written by the
// caller as separate nodes right after this one.
func (s *encodeState) writeNode(w *pbf.Writer, obj geo.Object) error {
	if geo.IsNil(obj) {
		return fmt.Errorf("%w: nil child object", errs.ErrNilObject)
	}

	t := obj.Type()
	if !t.Valid() {
		if u, ok := obj.(*geo.Unknown); ok {
			return fmt.Errorf("%w: %q", errs.ErrSchema, u.TypeName)
		}

		return fmt.Errorf("%w: %T", errs.ErrSchema, obj)
	}

	w.WriteVarintField(section.NodeType, uint64(t))

	if err := checkChildren(obj); err != nil {
		return err
	}
	if n := len(geo.Children(obj)); n > 0 {
		w.WriteVarintField(section.NodeChildren, uint64(n))
	}

	base := obj.Common()
	if id, ok := base.ID.Int(); ok {
		w.WriteSVarintField(section.NodeIntID, id)
	} else if id, ok := base.ID.Str(); ok {
		w.WriteStringField(section.NodeID, id)
	}

	if err := s.writeGeometry(w, obj); err != nil {
		return err
	}

	return s.writeProperties(w, base)
}

// checkChildren rejects children whose type cannot appear under obj.
func checkChildren(obj geo.Object) error {
	switch o := obj.(type) {
	case *geo.Feature:
		if o.Geometry != nil && !o.Geometry.Type().IsGeometry() {
			return fmt.Errorf("%w: feature geometry is %s", errs.ErrSchema, o.Geometry.Type())
		}
	case *geo.GeometryCollection, *geo.Topology:
		for _, child := range geo.Children(obj) {
			if child != nil && !child.Type().IsGeometry() {
				return fmt.Errorf("%w: %s cannot contain %s", errs.ErrSchema, obj.Type(), child.Type())
			}
		}
	}

	return nil
}

func (s *encodeState) writeGeometry(w *pbf.Writer, obj geo.Object) error {
	c := s.coords
	c.Reset()

	switch o := obj.(type) {
	case *geo.Point:
		if len(o.Coordinates) > 0 {
			c.WritePoint(o.Coordinates)
		}
	case *geo.MultiPoint:
		c.WriteLine(o.Coordinates)
	case *geo.LineString:
		if o.Arcs != nil {
			c.WriteLineRefs(o.Arcs)
		} else {
			c.WriteLine(o.Coordinates)
		}
	case *geo.MultiLineString:
		if o.Arcs != nil {
			c.WriteRingRefs(o.Arcs)
		} else {
			c.WriteRings(o.Coordinates, false)
		}
	case *geo.Polygon:
		if o.Arcs != nil {
			c.WriteRingRefs(o.Arcs)
		} else {
			c.WriteRings(o.Coordinates, true)
		}
	case *geo.MultiPolygon:
		if o.Arcs != nil {
			c.WritePolygonRefs(o.Arcs)
		} else {
			c.WriteMultiPolygon(o.Coordinates)
		}
	case *geo.Topology:
		if err := writeTopology(w, o); err != nil {
			return err
		}
		c.WriteArcs(o.Arcs)
	}

	w.WritePackedVarint(section.NodeLengths, c.Lengths())
	w.WritePackedSVarint(section.NodeCoords, c.Deltas())
	w.WritePackedSVarint(section.NodeArcs, c.Refs())

	return nil
}

func writeTopology(w *pbf.Writer, t *geo.Topology) error {
	if t.Transform != nil {
		tr := t.Transform
		err := w.WriteMessage(section.NodeTransform, func(tw *pbf.Writer) error {
			tw.WriteDoubleField(section.TransformScaleX, tr.Scale[0])
			tw.WriteDoubleField(section.TransformScaleY, tr.Scale[1])
			tw.WriteDoubleField(section.TransformTranslateX, tr.Translate[0])
			tw.WriteDoubleField(section.TransformTranslateY, tr.Translate[1])

			return nil
		})
		if err != nil {
			return err
		}
	}

	for _, named := range t.Objects {
		w.WriteStringField(section.NodeNames, named.Name)
	}

	return nil
}

// writeProperties writes the per-node value list followed by the standard
// and custom (keyIndex, valueSlot) pair lists.
func (s *encodeState) writeProperties(w *pbf.Writer, base *geo.Base) error {
	s.values = s.values[:0]

	props, err := s.collectPairs(base.Properties)
	if err != nil {
		return err
	}
	extra, err := s.collectPairs(base.Extra)
	if err != nil {
		return err
	}

	for _, v := range s.values {
		err := w.WriteMessage(section.NodeValues, func(vw *pbf.Writer) error {
			return encoding.WriteValue(vw, v)
		})
		if err != nil {
			return err
		}
	}

	w.WritePackedVarint(section.NodeProperties, props)
	w.WritePackedVarint(section.NodeCustomProperties, extra)

	return nil
}

// collectPairs appends the values of m to the node's value list in sorted
// key order and returns the flattened pair list.
func (s *encodeState) collectPairs(m map[string]geo.Value) ([]uint64, error) {
	if len(m) == 0 {
		return nil, nil
	}

	pairs := make([]uint64, 0, 2*len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		idx, ok := s.analysis.KeyIndex(k)
		if !ok {
			return nil, fmt.Errorf("key %q missing from dictionary", k)
		}
		pairs = append(pairs, uint64(idx), uint64(len(s.values)))
		s.values = append(s.values, m[k])
	}

	return pairs, nil
}
