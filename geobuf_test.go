package geobuf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/codec"
	"github.com/arloliu/geobuf/compact"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geo"
)

func TestEncodeDecode(t *testing.T) {
	f := &geo.Feature{
		Base: geo.Base{
			ID:         geo.IntID(3),
			Properties: map[string]geo.Value{"name": geo.String("pier"), "len": geo.Float(12.5)},
		},
		Geometry: &geo.Point{Coordinates: geo.Coord{-122.41, 37.8}},
	}

	data, err := Encode(f)
	require.NoError(t, err)

	obj, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, f, obj)
}

func TestEncode_Errors(t *testing.T) {
	_, err := Encode(nil)
	require.ErrorIs(t, err, errs.ErrNilObject)

	_, err = Encode(&geo.Unknown{TypeName: "Circle"})
	require.ErrorIs(t, err, errs.ErrSchema)

	_, err = Encode(&geo.Point{}, codec.WithMaxPrecision(9))
	require.ErrorIs(t, err, errs.ErrInvalidPrecision)
}

func TestDecodeAll_Concatenated(t *testing.T) {
	a, err := Encode(&geo.Point{Coordinates: geo.Coord{1, 2}})
	require.NoError(t, err)
	b, err := Encode(&geo.LineString{Coordinates: []geo.Coord{{0, 0}, {0.5, 0.5}}})
	require.NoError(t, err)

	objs, err := DecodeAll(append(a, b...))
	require.NoError(t, err)
	require.Len(t, objs, 2)
	require.Equal(t, format.TypePoint, objs[0].Type())
	require.Equal(t, format.TypeLineString, objs[1].Type())

	_, err = Decode(append(a, b...))
	require.ErrorIs(t, err, errs.ErrMultipleDocuments)
}

func TestGeoJSON_RoundTrip(t *testing.T) {
	text := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"a","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},"properties":{"tags":["x"],"n":-2}},
		{"type":"Feature","geometry":null,"properties":null}
	]}`)

	for _, comp := range []format.CompressionType{format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(comp.String(), func(t *testing.T) {
			data, err := FromGeoJSON(text, codec.WithCompression(comp))
			require.NoError(t, err)

			out, err := ToGeoJSON(data, codec.WithDecompression(comp))
			require.NoError(t, err)
			require.JSONEq(t, string(text), string(out))
		})
	}

	_, err := FromGeoJSON([]byte(`{"type":"Circle"}`))
	require.ErrorIs(t, err, errs.ErrSchema)
}

func TestCompress(t *testing.T) {
	line := &geo.LineString{Coordinates: make([]geo.Coord, 2, 16)}
	line.Coordinates[0] = geo.Coord{1, 1}
	line.Coordinates[1] = geo.Coord{1, 1}

	cache := compact.NewNumericCache()
	obj, err := Compress(line, compact.WithNumericCache(cache))
	require.NoError(t, err)

	out, ok := obj.(*geo.LineString)
	require.True(t, ok)
	require.Equal(t, 2, cap(out.Coordinates))
	require.Same(t, &out.Coordinates[0][0], &out.Coordinates[1][0])
}
