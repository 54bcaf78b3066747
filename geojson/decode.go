package geojson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/arloliu/geobuf/format"
	"github.com/arloliu/geobuf/geo"
)

// ErrInvalid is returned for well-formed JSON that is not a valid GeoJSON object.
var ErrInvalid = errors.New("geojson: invalid object")

// standard members per object kind; everything else goes to Base.Extra
var (
	geometryMembers   = []string{"type", "coordinates", "id", "properties"}
	collectionMembers = []string{"type", "geometries", "id", "properties"}
	topoGeomMembers   = []string{"type", "arcs", "coordinates", "geometries", "id", "properties"}
	featureMembers    = []string{"type", "id", "properties", "geometry"}
	fcMembers         = []string{"type", "features"}
	topologyMembers   = []string{"type", "transform", "arcs", "objects"}
	unknownMembers    = []string{"type"}
)

// Unmarshal parses one GeoJSON or TopoJSON object.
//
// Parameters:
//   - data: JSON text of a single object
//
// Returns:
//   - geo.Object: The parsed object; *geo.Unknown for an unrecognized "type"
//   - error: Malformed JSON, or ErrInvalid for a structurally invalid object
func Unmarshal(data []byte) (geo.Object, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one GeoJSON or TopoJSON object from r.
func Decode(r io.Reader) (geo.Object, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null document", ErrInvalid)
	}

	return parseObject(raw, false)
}

func parseObject(m map[string]any, inTopology bool) (geo.Object, error) {
	name, ok := m["type"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing \"type\" member", ErrInvalid)
	}

	t, known := format.ParseObjectType(name)
	if !known {
		u := &geo.Unknown{TypeName: name}
		return u, fillBase(&u.Base, m, unknownMembers, false)
	}

	obj := geo.New(t)
	members := geometryMembers
	var err error

	switch o := obj.(type) {
	case *geo.Point:
		o.Coordinates, err = parseCoord(m["coordinates"])
	case *geo.MultiPoint:
		o.Coordinates, err = parseLine(m["coordinates"])
	case *geo.LineString:
		if inTopology {
			o.Arcs, err = parseRefs(m["arcs"])
		} else {
			o.Coordinates, err = parseLine(m["coordinates"])
		}
	case *geo.MultiLineString:
		if inTopology {
			o.Arcs, err = parseRingRefs(m["arcs"])
		} else {
			o.Coordinates, err = parseRings(m["coordinates"])
		}
	case *geo.Polygon:
		if inTopology {
			o.Arcs, err = parseRingRefs(m["arcs"])
		} else {
			o.Coordinates, err = parseRings(m["coordinates"])
		}
	case *geo.MultiPolygon:
		if inTopology {
			o.Arcs, err = parsePolygonRefs(m["arcs"])
		} else {
			o.Coordinates, err = parsePolygons(m["coordinates"])
		}
	case *geo.GeometryCollection:
		members = collectionMembers
		o.Geometries, err = parseGeometries(m["geometries"], inTopology)
	case *geo.Feature:
		members = featureMembers
		o.Geometry, err = parseGeometry(m["geometry"])
	case *geo.FeatureCollection:
		members = fcMembers
		o.Features, err = parseFeatures(m["features"])
	case *geo.Topology:
		members = topologyMembers
		err = parseTopology(o, m)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if inTopology {
		members = topoGeomMembers
	}

	return obj, fillBase(obj.Common(), m, members, t != format.TypeFeatureCollection && t != format.TypeTopology)
}

// fillBase sets the id, the properties and the extra members of base.
func fillBase(base *geo.Base, m map[string]any, members []string, hasProps bool) error {
	if raw, ok := m["id"]; ok && slices.Contains(members, "id") {
		id, err := parseID(raw)
		if err != nil {
			return err
		}
		base.ID = id
	}

	if hasProps {
		if raw, ok := m["properties"]; ok && raw != nil {
			props, ok := raw.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: \"properties\" is %T, want object", ErrInvalid, raw)
			}
			base.Properties = make(map[string]geo.Value, len(props))
			for k, v := range props {
				base.Properties[k] = toValue(v)
			}
		}
	}

	for k, v := range m {
		if slices.Contains(members, k) {
			continue
		}
		if base.Extra == nil {
			base.Extra = make(map[string]geo.Value)
		}
		base.Extra[k] = toValue(v)
	}

	return nil
}

// parseID maps integral numbers to an integer id and everything else to a string id.
func parseID(raw any) (geo.ID, error) {
	switch v := raw.(type) {
	case nil:
		return geo.ID{}, nil
	case string:
		return geo.StringID(v), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return geo.IntID(n), nil
		}

		return geo.StringID(v.String()), nil
	default:
		return geo.ID{}, fmt.Errorf("%w: id of type %T", ErrInvalid, raw)
	}
}

// toValue converts a decoded JSON value to a property value.
func toValue(raw any) geo.Value {
	switch v := raw.(type) {
	case nil:
		return geo.Null()
	case string:
		return geo.String(v)
	case bool:
		return geo.Bool(v)
	case json.Number:
		return numberValue(v)
	default:
		return geo.JSON(plain(v))
	}
}

func numberValue(n json.Number) geo.Value {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return geo.Int(i)
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return geo.Uint(u)
	}
	f, err := n.Float64()
	if err != nil {
		return geo.String(n.String())
	}

	return geo.Float(f)
}

// plain replaces json.Number leaves with float64 so structured values have
// the same shape whether they come from GeoJSON or from a geobuf stream.
func plain(raw any) any {
	switch v := raw.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = plain(e)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = plain(e)
		}

		return out
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return v.String()
		}

		return f
	default:
		return v
	}
}

func toFloat(raw any) (float64, error) {
	n, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: coordinate %v is not a number", ErrInvalid, raw)
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: coordinate %q: %w", ErrInvalid, n, err)
	}
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: coordinate %q out of range", ErrInvalid, n)
	}

	return f, nil
}

func toArray(raw any) ([]any, error) {
	if raw == nil {
		return nil, nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T where an array is expected", ErrInvalid, raw)
	}

	return arr, nil
}

// parseNested converts a JSON array whose elements are parsed by fn.
func parseNested[T any](raw any, fn func(any) (T, error)) ([]T, error) {
	arr, err := toArray(raw)
	if err != nil || arr == nil {
		return nil, err
	}

	out := make([]T, len(arr))
	for i, e := range arr {
		if out[i], err = fn(e); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func parseCoord(raw any) (geo.Coord, error) {
	arr, err := toArray(raw)
	if err != nil || arr == nil {
		return nil, err
	}

	c := make(geo.Coord, len(arr))
	for i, e := range arr {
		if c[i], err = toFloat(e); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func parseLine(raw any) ([]geo.Coord, error) { return parseNested(raw, parseCoord) }

func parseRings(raw any) ([][]geo.Coord, error) { return parseNested(raw, parseLine) }

func parsePolygons(raw any) ([][][]geo.Coord, error) { return parseNested(raw, parseRings) }

func parseRef(raw any) (int, error) {
	n, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: arc reference %v is not a number", ErrInvalid, raw)
	}
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, fmt.Errorf("%w: arc reference %q: %w", ErrInvalid, n, err)
	}

	return i, nil
}

func parseRefs(raw any) ([]int, error) { return parseNested(raw, parseRef) }

func parseRingRefs(raw any) ([][]int, error) { return parseNested(raw, parseRefs) }

func parsePolygonRefs(raw any) ([][][]int, error) { return parseNested(raw, parseRingRefs) }

func asObject(raw any) (map[string]any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T where an object is expected", ErrInvalid, raw)
	}

	return m, nil
}

// parseGeometry parses a Feature's geometry; null yields a nil geometry.
func parseGeometry(raw any) (geo.Object, error) {
	if raw == nil {
		return nil, nil
	}
	m, err := asObject(raw)
	if err != nil {
		return nil, err
	}

	return parseObject(m, false)
}

func parseGeometries(raw any, inTopology bool) ([]geo.Object, error) {
	return parseNested(raw, func(e any) (geo.Object, error) {
		m, err := asObject(e)
		if err != nil {
			return nil, err
		}

		return parseObject(m, inTopology)
	})
}

func parseFeatures(raw any) ([]*geo.Feature, error) {
	return parseNested(raw, func(e any) (*geo.Feature, error) {
		m, err := asObject(e)
		if err != nil {
			return nil, err
		}
		obj, err := parseObject(m, false)
		if err != nil {
			return nil, err
		}
		f, ok := obj.(*geo.Feature)
		if !ok {
			return nil, fmt.Errorf("%w: %s inside \"features\"", ErrInvalid, obj.Type())
		}

		return f, nil
	})
}

func parseTopology(t *geo.Topology, m map[string]any) error {
	var err error
	if raw, ok := m["transform"]; ok && raw != nil {
		if t.Transform, err = parseTransform(raw); err != nil {
			return err
		}
	}
	if t.Arcs, err = parseRings(m["arcs"]); err != nil {
		return err
	}

	raw, ok := m["objects"]
	if !ok || raw == nil {
		return nil
	}
	objects, err := asObject(raw)
	if err != nil {
		return err
	}

	// JSON objects are unordered; names are sorted for a stable encoding
	names := make([]string, 0, len(objects))
	for name := range objects {
		names = append(names, name)
	}
	slices.Sort(names)

	t.Objects = make([]geo.NamedObject, 0, len(names))
	for _, name := range names {
		om, err := asObject(objects[name])
		if err != nil {
			return err
		}
		obj, err := parseObject(om, true)
		if err != nil {
			return fmt.Errorf("object %q: %w", name, err)
		}
		t.Objects = append(t.Objects, geo.NamedObject{Name: name, Object: obj})
	}

	return nil
}

func parseTransform(raw any) (*geo.Transform, error) {
	m, err := asObject(raw)
	if err != nil {
		return nil, err
	}

	tr := &geo.Transform{}
	for key, dst := range map[string]*[2]float64{"scale": &tr.Scale, "translate": &tr.Translate} {
		c, err := parseCoord(m[key])
		if err != nil {
			return nil, err
		}
		if len(c) != 2 {
			return nil, fmt.Errorf("%w: transform %s needs 2 values, got %d", ErrInvalid, key, len(c))
		}
		*dst = [2]float64{c[0], c[1]}
	}

	return tr, nil
}
