package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/encoding"
	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/geo"
)

func TestAnalyze_Precision(t *testing.T) {
	tests := []struct {
		name         string
		coords       []geo.Coord
		maxPrecision int
		want         int
	}{
		{"integers", []geo.Coord{{1, 2}, {-30, 40}}, 6, 0},
		{"one decimal", []geo.Coord{{1.5, 2}}, 6, 1},
		{"two decimals", []geo.Coord{{1.5, 2.25}}, 6, 2},
		{"widest component wins", []geo.Coord{{1.5, 2}, {0.001, 3}}, 6, 3},
		{"clamped at ceiling", []geo.Coord{{0.123456789, 1}}, 6, 6},
		{"clamped at option", []geo.Coord{{0.123456789, 1}}, 3, 3},
		{"large magnitude fits", []geo.Coord{{1e9, 0}, {0.000001, 0}}, 6, 6},
		{"large magnitude lowers precision", []geo.Coord{{1e10, 0}, {0.000001, 0}}, 6, 5},
		{"huge magnitude drops fractions", []geo.Coord{{1e15, 0}, {0.000001, 0}}, 6, 0},
		{"magnitude seen after fraction", []geo.Coord{{0.5, 0}, {-1e16, 0}}, 6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Analyze(&geo.MultiPoint{Coordinates: tt.coords}, tt.maxPrecision)
			require.NoError(t, err)
			require.Equal(t, tt.want, a.Precision)
			require.Equal(t, encoding.Scale(tt.want), a.Scale())
		})
	}
}

func TestAnalyze_CoordinateRange(t *testing.T) {
	tests := []struct {
		name  string
		coord geo.Coord
	}{
		{"nan", geo.Coord{math.NaN(), 0}},
		{"positive infinity", geo.Coord{0, math.Inf(1)}},
		{"negative infinity", geo.Coord{math.Inf(-1), 0}},
		{"beyond int64 deltas", geo.Coord{1e19, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(&geo.Point{Coordinates: tt.coord}, encoding.MaxPrecision)
			require.ErrorIs(t, err, errs.ErrCoordinateRange)
		})
	}
}

func TestAnalyze_Dimension(t *testing.T) {
	a, err := Analyze(&geo.LineString{Coordinates: []geo.Coord{{1, 2}, {3, 4, 5}}}, encoding.MaxPrecision)
	require.NoError(t, err)
	require.Equal(t, 3, a.Dim)

	a, err = Analyze(&geo.Point{Coordinates: geo.Coord{1}}, encoding.MaxPrecision)
	require.NoError(t, err)
	require.Equal(t, 2, a.Dim)

	_, err = Analyze(&geo.Point{Coordinates: geo.Coord{1, 2, 3, 4}}, encoding.MaxPrecision)
	require.ErrorIs(t, err, errs.ErrInvalidDimension)
}

func TestAnalyze_KeyDictionary(t *testing.T) {
	fc := &geo.FeatureCollection{
		Base: geo.Base{Extra: map[string]geo.Value{"name": geo.String("roads")}},
		Features: []*geo.Feature{
			{
				Base: geo.Base{
					Properties: map[string]geo.Value{"width": geo.Int(3), "kind": geo.String("road")},
					Extra:      map[string]geo.Value{"bbox": geo.JSON([]any{0.0, 0.0, 1.0, 1.0})},
				},
				Geometry: &geo.Point{Coordinates: geo.Coord{0, 0}},
			},
			{
				Base: geo.Base{
					Properties: map[string]geo.Value{"kind": geo.String("path"), "surface": geo.Null()},
				},
			},
		},
	}

	a, err := Analyze(fc, encoding.MaxPrecision)
	require.NoError(t, err)
	require.Equal(t, []string{"name", "kind", "width", "bbox", "surface"}, a.Keys)

	for i, k := range a.Keys {
		idx, ok := a.KeyIndex(k)
		require.True(t, ok)
		require.Equal(t, uint32(i), idx)
	}
	_, ok := a.KeyIndex("missing")
	require.False(t, ok)
}

func TestAnalyze_VisitsTopology(t *testing.T) {
	topo := &geo.Topology{
		Arcs: [][]geo.Coord{{{0, 0}, {0.5, 1}}},
		Objects: []geo.NamedObject{
			{Name: "a", Object: &geo.LineString{Base: geo.Base{Properties: map[string]geo.Value{"id": geo.Int(1)}}, Arcs: []int{0}}},
			{Name: "b", Object: &geo.GeometryCollection{Geometries: []geo.Object{
				&geo.Point{Base: geo.Base{Properties: map[string]geo.Value{"z": geo.Bool(true)}}, Coordinates: geo.Coord{1, 2, 3}},
			}}},
		},
	}

	a, err := Analyze(topo, encoding.MaxPrecision)
	require.NoError(t, err)
	require.Equal(t, 1, a.Precision)
	require.Equal(t, 3, a.Dim)
	require.Equal(t, []string{"id", "z"}, a.Keys)
}

func TestAnalyze_DoesNotMutate(t *testing.T) {
	pt := &geo.Point{Coordinates: geo.Coord{1.123, 2}}
	_, err := Analyze(pt, encoding.MaxPrecision)
	require.NoError(t, err)
	require.Equal(t, geo.Coord{1.123, 2}, pt.Coordinates)
	require.Nil(t, pt.Properties)
}
