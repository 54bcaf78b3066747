package geojson

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geo"
)

func TestUnmarshal_FeatureCollection(t *testing.T) {
	doc := `{
		"type": "FeatureCollection",
		"bbox": [0, 0, 10, 10],
		"features": [
			{
				"type": "Feature",
				"id": 7,
				"geometry": {"type": "Point", "coordinates": [1.5, 2.25]},
				"properties": {"name": "a", "n": 3, "neg": -4, "f": 0.5, "ok": true, "none": null, "tags": ["x", 1]}
			},
			{
				"type": "Feature",
				"id": "road-1",
				"geometry": null,
				"properties": null,
				"foo": "bar"
			}
		]
	}`

	obj, err := Unmarshal([]byte(doc))
	require.NoError(t, err)

	fc, ok := obj.(*geo.FeatureCollection)
	require.True(t, ok)
	require.Len(t, fc.Features, 2)
	require.Equal(t, geo.JSON([]any{0.0, 0.0, 10.0, 10.0}), fc.Extra["bbox"])

	first := fc.Features[0]
	require.Equal(t, geo.IntID(7), first.ID)
	require.Equal(t, &geo.Point{Coordinates: geo.Coord{1.5, 2.25}}, first.Geometry)
	require.Equal(t, geo.String("a"), first.Properties["name"])
	require.Equal(t, geo.Uint(3), first.Properties["n"])
	require.Equal(t, geo.Int(-4), first.Properties["neg"])
	require.Equal(t, geo.Float(0.5), first.Properties["f"])
	require.Equal(t, geo.Bool(true), first.Properties["ok"])
	require.True(t, first.Properties["none"].IsNull())
	require.Equal(t, geo.JSON([]any{"x", 1.0}), first.Properties["tags"])

	second := fc.Features[1]
	require.Equal(t, geo.StringID("road-1"), second.ID)
	require.Nil(t, second.Geometry)
	require.Nil(t, second.Properties)
	require.Equal(t, geo.String("bar"), second.Extra["foo"])
}

func TestUnmarshal_Geometries(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want geo.Object
	}{
		{
			name: "multipoint",
			doc:  `{"type":"MultiPoint","coordinates":[[0,0],[1,1,1]]}`,
			want: &geo.MultiPoint{Coordinates: []geo.Coord{{0, 0}, {1, 1, 1}}},
		},
		{
			name: "linestring",
			doc:  `{"type":"LineString","coordinates":[[0,0],[1,2]]}`,
			want: &geo.LineString{Coordinates: []geo.Coord{{0, 0}, {1, 2}}},
		},
		{
			name: "polygon",
			doc:  `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`,
			want: &geo.Polygon{Coordinates: [][]geo.Coord{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}},
		},
		{
			name: "multipolygon",
			doc:  `{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[0,0]]],[]]}`,
			want: &geo.MultiPolygon{Coordinates: [][][]geo.Coord{{{{0, 0}, {1, 0}, {0, 0}}}, {}}},
		},
		{
			name: "collection with props",
			doc:  `{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,2]}],"properties":{"k":"v"}}`,
			want: &geo.GeometryCollection{
				Base:       geo.Base{Properties: map[string]geo.Value{"k": geo.String("v")}},
				Geometries: []geo.Object{&geo.Point{Coordinates: geo.Coord{1, 2}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unmarshal([]byte(tt.doc))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshal_IDs(t *testing.T) {
	tests := []struct {
		raw  string
		want geo.ID
	}{
		{`12`, geo.IntID(12)},
		{`-3`, geo.IntID(-3)},
		{`"abc"`, geo.StringID("abc")},
		{`1.5`, geo.StringID("1.5")},
		{`null`, geo.ID{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			obj, err := Unmarshal([]byte(`{"type":"Feature","geometry":null,"properties":{},"id":` + tt.raw + `}`))
			require.NoError(t, err)
			require.Equal(t, tt.want, obj.Common().ID)
		})
	}
}

func TestUnmarshal_Topology(t *testing.T) {
	doc := `{
		"type": "Topology",
		"transform": {"scale": [0.5, 0.25], "translate": [100, 50]},
		"arcs": [[[0, 0], [1, 1]], [[1, 1], [2, 0]]],
		"objects": {
			"roads": {"type": "LineString", "arcs": [0, -2]},
			"area": {"type": "Polygon", "arcs": [[0, 1]], "properties": {"name": "z"}},
			"spot": {"type": "Point", "coordinates": [3, 4]}
		}
	}`

	obj, err := Unmarshal([]byte(doc))
	require.NoError(t, err)

	topo, ok := obj.(*geo.Topology)
	require.True(t, ok)
	require.Equal(t, &geo.Transform{Scale: [2]float64{0.5, 0.25}, Translate: [2]float64{100, 50}}, topo.Transform)
	require.Len(t, topo.Arcs, 2)

	names := make([]string, len(topo.Objects))
	for i, named := range topo.Objects {
		names[i] = named.Name
	}
	require.Equal(t, []string{"area", "roads", "spot"}, names)

	require.Equal(t, &geo.Polygon{
		Base: geo.Base{Properties: map[string]geo.Value{"name": geo.String("z")}},
		Arcs: [][]int{{0, 1}},
	}, topo.Objects[0].Object)
	require.Equal(t, &geo.LineString{Arcs: []int{0, -2}}, topo.Objects[1].Object)
	require.Equal(t, &geo.Point{Coordinates: geo.Coord{3, 4}}, topo.Objects[2].Object)
}

func TestUnmarshal_UnknownType(t *testing.T) {
	obj, err := Unmarshal([]byte(`{"type":"Circle","radius":3}`))
	require.NoError(t, err)

	u, ok := obj.(*geo.Unknown)
	require.True(t, ok)
	require.Equal(t, "Circle", u.TypeName)
	require.Equal(t, format.TypeUnknown, u.Type())
	require.Equal(t, geo.Uint(3), u.Extra["radius"])

	out, err := Marshal(u)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"Circle","radius":3}`, string(out))
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing type", `{"coordinates":[1,2]}`},
		{"null document", `null`},
		{"string coordinate", `{"type":"Point","coordinates":["a",2]}`},
		{"coordinates not array", `{"type":"LineString","coordinates":{}}`},
		{"properties not object", `{"type":"Feature","geometry":null,"properties":[1]}`},
		{"non-feature in features", `{"type":"FeatureCollection","features":[{"type":"Point","coordinates":[0,0]}]}`},
		{"bad transform", `{"type":"Topology","transform":{"scale":[1],"translate":[0,0]},"arcs":[],"objects":{}}`},
		{"fractional arc", `{"type":"Topology","arcs":[],"objects":{"a":{"type":"LineString","arcs":[0.5]}}}`},
		{"boolean id", `{"type":"Feature","id":true,"geometry":null,"properties":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Unmarshal([]byte(`{"type":`))
	require.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	docs := []string{
		`{"type":"Point","coordinates":[1.5,-2]}`,
		`{"type":"Feature","id":"x","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{"a":1,"b":[1,2],"c":null}}`,
		`{"type":"Feature","id":5,"geometry":null,"properties":null,"title":"t"}`,
		`{"type":"FeatureCollection","features":[],"crs":{"type":"name"}}`,
		`{"type":"GeometryCollection","geometries":[{"type":"MultiPoint","coordinates":[[0,0,1]]}]}`,
		`{"type":"Topology","arcs":[[[0,0],[1,1]]],"objects":{"a":{"type":"MultiLineString","arcs":[[0]]}},"transform":{"scale":[1,1],"translate":[0,0]}}`,
	}
	for _, doc := range docs {
		obj, err := Unmarshal([]byte(doc))
		require.NoError(t, err)

		out, err := Marshal(obj)
		require.NoError(t, err)
		require.JSONEq(t, doc, string(out))
	}
}

func TestMarshal_Topology(t *testing.T) {
	topo := &geo.Topology{
		Arcs: [][]geo.Coord{{{0, 0}, {1, 1}}},
		Objects: []geo.NamedObject{
			{Name: "shared", Object: &geo.LineString{Arcs: []int{0, -1}}},
			{Name: "free", Object: &geo.LineString{Coordinates: []geo.Coord{{5, 5}, {6, 6}}}},
		},
	}

	out, err := Marshal(topo)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type": "Topology",
		"arcs": [[[0, 0], [1, 1]]],
		"objects": {
			"shared": {"type": "LineString", "arcs": [0, -1]},
			"free": {"type": "LineString", "coordinates": [[5, 5], [6, 6]]}
		}
	}`, string(out))

	_, err = Marshal(&geo.Topology{Objects: []geo.NamedObject{{Name: "gone", Object: (*geo.Polygon)(nil)}}})
	require.ErrorIs(t, err, errs.ErrNilObject)
}

func TestMarshal_Deterministic(t *testing.T) {
	f := &geo.Feature{
		Base: geo.Base{Properties: map[string]geo.Value{
			"z": geo.Int(1), "a": geo.Int(2), "m": geo.Int(3),
		}},
		Geometry: &geo.Point{Coordinates: geo.Coord{0, 0}},
	}

	first, err := Marshal(f)
	require.NoError(t, err)
	for range 10 {
		again, err := Marshal(f)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}

	indented, err := MarshalIndent(f, "", "  ")
	require.NoError(t, err)
	require.JSONEq(t, string(first), string(indented))
	require.Contains(t, string(indented), "\n  ")
}

func TestMarshal_Errors(t *testing.T) {
	_, err := Marshal(nil)
	require.ErrorIs(t, err, errs.ErrNilObject)

	_, err = Marshal(&geo.FeatureCollection{Features: []*geo.Feature{nil}})
	require.ErrorIs(t, err, errs.ErrNilObject)

	_, err = Marshal(&geo.GeometryCollection{Geometries: []geo.Object{nil}})
	require.ErrorIs(t, err, errs.ErrNilObject)
}
