package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/compact"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geo"
	"github.com/arloliu/geobuf/internal/pbf"
	"github.com/arloliu/geobuf/section"
)

// buildStream assembles a raw stream from a header body and node bodies.
func buildStream(t *testing.T, header func(*pbf.Writer), nodes ...func(*pbf.Writer)) []byte {
	t.Helper()

	w := pbf.NewWriter()
	defer w.Release()

	if header != nil {
		require.NoError(t, w.WriteMessage(section.FieldHeader, func(hw *pbf.Writer) error {
			header(hw)
			return nil
		}))
	}
	for _, node := range nodes {
		require.NoError(t, w.WriteMessage(section.FieldNode, func(nw *pbf.Writer) error {
			node(nw)
			return nil
		}))
	}

	return append([]byte(nil), w.Bytes()...)
}

func keysHeader(keys ...string) func(*pbf.Writer) {
	return func(w *pbf.Writer) {
		section.Header{Keys: keys, Dimension: section.DefaultDimension, Precision: section.DefaultPrecision}.WriteTo(w)
	}
}

func typeNode(t format.ObjectType, children uint64) func(*pbf.Writer) {
	return func(w *pbf.Writer) {
		w.WriteVarintField(section.NodeType, uint64(t))
		if children > 0 {
			w.WriteVarintField(section.NodeChildren, children)
		}
	}
}

func newTestDecoder(t *testing.T, opts ...DecoderOption) *Decoder {
	t.Helper()

	dec, err := NewDecoder(opts...)
	require.NoError(t, err)

	return dec
}

func encodeDoc(t *testing.T, obj geo.Object) []byte {
	t.Helper()

	enc, err := NewEncoder()
	require.NoError(t, err)
	data, err := enc.Encode(obj)
	require.NoError(t, err)

	return data
}

func TestDecoder_Concatenation(t *testing.T) {
	a := sampleCollection()
	b := &geo.Feature{
		Base:     geo.Base{ID: geo.IntID(-5), Properties: map[string]geo.Value{"other": geo.Float(0.5)}},
		Geometry: &geo.Point{Coordinates: geo.Coord{1.123456, 2, 3}},
	}
	dataA := encodeDoc(t, a)
	dataB := encodeDoc(t, b)

	dec := newTestDecoder(t)
	wantA, err := dec.Decode(dataA)
	require.NoError(t, err)
	wantB, err := dec.Decode(dataB)
	require.NoError(t, err)

	stream := append(append([]byte(nil), dataA...), dataB...)
	all, err := dec.DecodeAll(stream)
	require.NoError(t, err)
	require.Equal(t, []geo.Object{wantA, wantB}, all)

	_, err = dec.Decode(stream)
	require.ErrorIs(t, err, errs.ErrMultipleDocuments)
}

func TestDecoder_EmptyStream(t *testing.T) {
	dec := newTestDecoder(t)

	all, err := dec.DecodeAll(nil)
	require.NoError(t, err)
	require.Empty(t, all)

	_, err = dec.Decode(nil)
	require.ErrorIs(t, err, errs.ErrEmptyStream)
}

func TestDecoder_HeaderlessNodes(t *testing.T) {
	data := buildStream(t, nil,
		func(w *pbf.Writer) {
			w.WriteVarintField(section.NodeType, uint64(format.TypePoint))
			w.WritePackedSVarint(section.NodeCoords, []int64{1_500_000, -2_000_000})
		},
		typeNode(format.TypeFeatureCollection, 0),
	)

	all, err := newTestDecoder(t).DecodeAll(data)
	require.NoError(t, err)
	require.Equal(t, []geo.Object{
		&geo.Point{Coordinates: geo.Coord{1.5, -2}},
		&geo.FeatureCollection{},
	}, all)
}

func TestDecoder_SkipsUnknownFields(t *testing.T) {
	data := buildStream(t,
		func(w *pbf.Writer) {
			keysHeader("kind")(w)
			w.WriteStringField(9, "future header field")
		},
		func(w *pbf.Writer) {
			typeNode(format.TypeFeature, 1)(w)
			w.WriteDoubleField(20, 3.14)
			w.WriteStringField(21, "future node field")
			require.NoError(t, w.WriteMessage(section.NodeValues, func(vw *pbf.Writer) error {
				vw.WriteStringField(1, "road")
				vw.WriteVarintField(30, 7)
				return nil
			}))
			w.WritePackedVarint(section.NodeProperties, []uint64{0, 0})
		},
		func(w *pbf.Writer) {
			typeNode(format.TypePoint, 0)(w)
			w.WritePackedSVarint(section.NodeCoords, []int64{1_000_000, 1_000_000})
		},
	)
	// unknown top-level fields of every wire type
	w := pbf.NewWriter()
	w.WriteVarintField(7, 1)
	w.WriteDoubleField(8, 2)
	w.WriteStringField(9, "tail")
	data = append(data, w.Bytes()...)
	w.Release()

	out, err := newTestDecoder(t).Decode(data)
	require.NoError(t, err)
	require.Equal(t, &geo.Feature{
		Base:     geo.Base{Properties: map[string]geo.Value{"kind": geo.String("road")}},
		Geometry: &geo.Point{Coordinates: geo.Coord{1, 1}},
	}, out)
}

func TestDecoder_UnpackedRepeatedFields(t *testing.T) {
	data := buildStream(t, nil, func(w *pbf.Writer) {
		typeNode(format.TypeLineString, 0)(w)
		for _, v := range []int64{1_000_000, 0, 1_000_000, 2_000_000} {
			w.WriteSVarintField(section.NodeCoords, v)
		}
	})

	out, err := newTestDecoder(t).Decode(data)
	require.NoError(t, err)
	require.Equal(t, &geo.LineString{Coordinates: []geo.Coord{{1, 0}, {2, 2}}}, out)
}

func TestDecoder_ValueWithoutKnownFieldIsNull(t *testing.T) {
	data := buildStream(t, keysHeader("x"), func(w *pbf.Writer) {
		typeNode(format.TypeFeature, 0)(w)
		require.NoError(t, w.WriteMessage(section.NodeValues, func(vw *pbf.Writer) error {
			vw.WriteVarintField(40, 1)
			return nil
		}))
		w.WritePackedVarint(section.NodeProperties, []uint64{0, 0})
	})

	out, err := newTestDecoder(t).Decode(data)
	require.NoError(t, err)
	require.True(t, out.Common().Properties["x"].IsNull())
}

func TestDecoder_Malformed(t *testing.T) {
	valid := encodeDoc(t, sampleCollection())

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{
			name: "truncated stream",
			data: valid[:len(valid)-3],
			want: errs.ErrDecode,
		},
		{
			name: "truncated varint",
			data: []byte{0x18, 0x80},
			want: errs.ErrTruncated,
		},
		{
			name: "length prefix beyond buffer",
			data: []byte{0x12, 0x7f, 0x08, 0x00},
			want: errs.ErrDecode,
		},
		{
			name: "key index out of range",
			data: buildStream(t, keysHeader("a"), func(w *pbf.Writer) {
				typeNode(format.TypeFeature, 0)(w)
				require.NoError(t, w.WriteMessage(section.NodeValues, func(vw *pbf.Writer) error {
					vw.WriteBoolField(5, true)
					return nil
				}))
				w.WritePackedVarint(section.NodeProperties, []uint64{1, 0})
			}),
			want: errs.ErrKeyIndexOutOfRange,
		},
		{
			name: "value index out of range",
			data: buildStream(t, keysHeader("a"), func(w *pbf.Writer) {
				typeNode(format.TypeFeature, 0)(w)
				w.WritePackedVarint(section.NodeCustomProperties, []uint64{0, 0})
			}),
			want: errs.ErrValueIndexOutOfRange,
		},
		{
			name: "unknown object type",
			data: buildStream(t, nil, typeNode(format.ObjectType(42), 0)),
			want: errs.ErrUnknownObjectType,
		},
		{
			name: "unclosed container",
			data: buildStream(t, nil,
				typeNode(format.TypeFeatureCollection, 2),
				typeNode(format.TypeFeature, 0),
			),
			want: errs.ErrUnclosedContainer,
		},
		{
			name: "collection missing children",
			data: buildStream(t, nil, typeNode(format.TypeGeometryCollection, 1)),
			want: errs.ErrUnclosedContainer,
		},
		{
			name: "geometry inside feature collection",
			data: buildStream(t, nil,
				typeNode(format.TypeFeatureCollection, 1),
				typeNode(format.TypePoint, 0),
			),
			want: errs.ErrInvalidChild,
		},
		{
			name: "point with children",
			data: buildStream(t, nil, typeNode(format.TypePoint, 1)),
			want: errs.ErrInvalidChild,
		},
		{
			name: "coordinates not matching dimension",
			data: buildStream(t, nil, func(w *pbf.Writer) {
				typeNode(format.TypeLineString, 0)(w)
				w.WritePackedSVarint(section.NodeCoords, []int64{1, 2, 3})
			}),
			want: errs.ErrCoordinateMismatch,
		},
		{
			name: "ring lengths exceed coordinates",
			data: buildStream(t, nil, func(w *pbf.Writer) {
				typeNode(format.TypePolygon, 0)(w)
				w.WritePackedVarint(section.NodeLengths, []uint64{3, 5})
				w.WritePackedSVarint(section.NodeCoords, []int64{0, 0, 1, 0, 0, 1})
			}),
			want: errs.ErrCoordinateMismatch,
		},
		{
			name: "invalid header dimension",
			data: buildStream(t, func(w *pbf.Writer) {
				w.WriteVarintField(section.HeaderDimension, 4)
			}),
			want: errs.ErrInvalidDimension,
		},
		{
			name: "wrong wire type for node",
			data: []byte{0x10, 0x01},
			want: errs.ErrInvalidWireType,
		},
		{
			name: "malformed structured value",
			data: buildStream(t, keysHeader("a"), func(w *pbf.Writer) {
				typeNode(format.TypeFeature, 0)(w)
				require.NoError(t, w.WriteMessage(section.NodeValues, func(vw *pbf.Writer) error {
					vw.WriteStringField(6, "{not json")
					return nil
				}))
				w.WritePackedVarint(section.NodeProperties, []uint64{0, 0})
			}),
			want: errs.ErrInvalidValue,
		},
	}

	dec := newTestDecoder(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := dec.DecodeAll(tt.data)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, errs.ErrDecode)
			require.Nil(t, out)
		})
	}
}

func TestDecoder_HeaderInsideOpenContainer(t *testing.T) {
	data := buildStream(t, nil, typeNode(format.TypeGeometryCollection, 1))
	data = append(data, buildStream(t, keysHeader("k"), typeNode(format.TypePoint, 0))...)

	_, err := newTestDecoder(t).DecodeAll(data)
	require.ErrorIs(t, err, errs.ErrUnclosedContainer)
}

func TestDecoder_Compact(t *testing.T) {
	cache := compact.NewNumericCache()
	dec := newTestDecoder(t, WithCompact(compact.WithNumericCache(cache)))
	require.True(t, dec.Config().Compact())

	fc := &geo.FeatureCollection{Features: []*geo.Feature{
		{Geometry: &geo.Point{Coordinates: geo.Coord{3, 4}}},
		{Geometry: &geo.LineString{Coordinates: []geo.Coord{{1, 2}, {3, 4}}}},
	}}
	out, err := dec.Decode(encodeDoc(t, fc))
	require.NoError(t, err)
	require.Equal(t, fc, out)

	got, ok := out.(*geo.FeatureCollection)
	require.True(t, ok)
	pt, ok := got.Features[0].Geometry.(*geo.Point)
	require.True(t, ok)
	line, ok := got.Features[1].Geometry.(*geo.LineString)
	require.True(t, ok)
	require.Same(t, &pt.Coordinates[0], &line.Coordinates[1][0])
	require.Equal(t, 2, cache.Len())
}
