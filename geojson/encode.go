package geojson

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/geo"
)

// Marshal renders obj as compact GeoJSON / TopoJSON text.
//
// Object members are emitted in sorted key order, so equal trees always
// produce identical bytes.
func Marshal(obj geo.Object) ([]byte, error) {
	m, err := toMap(obj, false)
	if err != nil {
		return nil, err
	}

	return json.Marshal(m)
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(obj geo.Object, prefix, indent string) ([]byte, error) {
	m, err := toMap(obj, false)
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(m, prefix, indent)
}

func toMap(obj geo.Object, inTopology bool) (map[string]any, error) {
	if geo.IsNil(obj) {
		return nil, errs.ErrNilObject
	}

	base := obj.Common()
	m := make(map[string]any, len(base.Extra)+4)
	for k, v := range base.Extra {
		m[k] = v.Interface()
	}

	switch o := obj.(type) {
	case *geo.Unknown:
		m["type"] = o.TypeName
		return m, nil
	case *geo.Point:
		if o.Coordinates != nil {
			m["coordinates"] = o.Coordinates
		}
	case *geo.MultiPoint:
		m["coordinates"] = nonNil(o.Coordinates)
	case *geo.LineString:
		setShape(m, inTopology && o.Arcs != nil, o.Arcs, o.Coordinates)
	case *geo.MultiLineString:
		setShape(m, inTopology && o.Arcs != nil, o.Arcs, o.Coordinates)
	case *geo.Polygon:
		setShape(m, inTopology && o.Arcs != nil, o.Arcs, o.Coordinates)
	case *geo.MultiPolygon:
		setShape(m, inTopology && o.Arcs != nil, o.Arcs, o.Coordinates)
	case *geo.GeometryCollection:
		geoms := make([]any, 0, len(o.Geometries))
		for _, g := range o.Geometries {
			gm, err := toMap(g, inTopology)
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, gm)
		}
		m["geometries"] = geoms
	case *geo.Feature:
		m["geometry"] = nil
		if o.Geometry != nil {
			gm, err := toMap(o.Geometry, false)
			if err != nil {
				return nil, err
			}
			m["geometry"] = gm
		}
		// properties is a required Feature member
		m["properties"] = properties(base.Properties)
	case *geo.FeatureCollection:
		features := make([]any, 0, len(o.Features))
		for _, f := range o.Features {
			if f == nil {
				return nil, fmt.Errorf("%w: nil feature", errs.ErrNilObject)
			}
			fm, err := toMap(f, false)
			if err != nil {
				return nil, err
			}
			features = append(features, fm)
		}
		m["features"] = features
	case *geo.Topology:
		if err := writeTopologyMembers(m, o); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unsupported object %T", errs.ErrSchema, obj)
	}

	m["type"] = obj.Type().String()
	if !base.ID.IsZero() {
		if n, ok := base.ID.Int(); ok {
			m["id"] = n
		} else {
			m["id"] = base.ID.String()
		}
	}
	if _, isFeature := obj.(*geo.Feature); !isFeature && base.Properties != nil {
		m["properties"] = properties(base.Properties)
	}

	return m, nil
}

func setShape[A, C any](m map[string]any, useArcs bool, arcs []A, coords []C) {
	if useArcs {
		m["arcs"] = arcs
		return
	}
	m["coordinates"] = nonNil(coords)
}

// nonNil keeps an absent coordinate list from rendering as null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}

func properties(props map[string]geo.Value) map[string]any {
	if props == nil {
		return nil
	}

	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v.Interface()
	}

	return out
}

func writeTopologyMembers(m map[string]any, t *geo.Topology) error {
	if t.Transform != nil {
		m["transform"] = map[string]any{
			"scale":     t.Transform.Scale[:],
			"translate": t.Transform.Translate[:],
		}
	}
	m["arcs"] = nonNil(t.Arcs)

	objects := make(map[string]any, len(t.Objects))
	for _, named := range t.Objects {
		om, err := toMap(named.Object, true)
		if err != nil {
			return fmt.Errorf("object %q: %w", named.Name, err)
		}
		objects[named.Name] = om
	}
	m["objects"] = objects

	return nil
}
