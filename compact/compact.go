package compact

import (
	"github.com/arloliu/geobuf/geo"
	"github.com/arloliu/geobuf/internal/options"
)

// Config holds the caches used by one Compress call.
type Config struct {
	identity *IdentityCache
	numeric  *NumericCache
}

// Option represents a functional option for configuring Compress.
type Option = options.Option[*Config]

// WithIdentityCache reuses an identity cache across calls. Objects already
// visited through the cache are skipped on later calls.
func WithIdentityCache(cache *IdentityCache) Option {
	return options.NoError(func(c *Config) {
		c.identity = cache
	})
}

// WithNumericCache enables value deduplication of positions through cache.
// Passing the same cache to several calls deduplicates across documents.
func WithNumericCache(cache *NumericCache) Option {
	return options.NoError(func(c *Config) {
		c.numeric = cache
	})
}

// Compress compacts obj in place and returns it.
//
// Every coordinate, ring, arc reference and child slice is right-sized, as
// are the arrays nested in structured property values. Each object is
// visited at most once, so cyclic trees terminate. See the
// package documentation for the sharing rules.
//
// Parameters:
//   - obj: Root of the tree to compact; nil is returned unchanged
//   - opts: Optional caches (WithIdentityCache, WithNumericCache)
//
// Returns:
//   - geo.Object: obj itself
//   - error: Option failure
func Compress(obj geo.Object, opts ...Option) (geo.Object, error) {
	cfg := &Config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.identity == nil {
		cfg.identity = NewIdentityCache()
	}

	c := &compactor{identity: cfg.identity, numeric: cfg.numeric}
	c.object(obj)

	return obj, nil
}

type compactor struct {
	identity *IdentityCache
	numeric  *NumericCache
}

func (c *compactor) object(obj geo.Object) {
	if geo.IsNil(obj) || c.identity.visit(obj) {
		return
	}

	base := obj.Common()
	c.values(base.Properties)
	c.values(base.Extra)

	switch o := obj.(type) {
	case *geo.Point:
		o.Coordinates = c.coord(o.Coordinates)
	case *geo.MultiPoint:
		o.Coordinates = c.line(o.Coordinates)
	case *geo.LineString:
		o.Coordinates = c.line(o.Coordinates)
		o.Arcs = c.refs(o.Arcs)
	case *geo.MultiLineString:
		o.Coordinates = c.rings(o.Coordinates)
		o.Arcs = c.ringRefs(o.Arcs)
	case *geo.Polygon:
		o.Coordinates = c.rings(o.Coordinates)
		o.Arcs = c.ringRefs(o.Arcs)
	case *geo.MultiPolygon:
		o.Coordinates = compactSlice(c.identity, o.Coordinates, kindPolygons, c.rings)
		o.Arcs = compactSlice(c.identity, o.Arcs, kindPolygonRefs, c.ringRefs)
	case *geo.GeometryCollection:
		o.Geometries = compactSlice(c.identity, o.Geometries, kindObjects, func(g geo.Object) geo.Object {
			c.object(g)
			return g
		})
	case *geo.Feature:
		c.object(o.Geometry)
	case *geo.FeatureCollection:
		o.Features = compactSlice(c.identity, o.Features, kindFeatures, func(f *geo.Feature) *geo.Feature {
			if f != nil {
				c.object(f)
			}

			return f
		})
	case *geo.Topology:
		o.Arcs = c.rings(o.Arcs)
		o.Objects = compactSlice(c.identity, o.Objects, kindNamed, func(n geo.NamedObject) geo.NamedObject {
			c.object(n.Object)
			return n
		})
	}
}

// coord right-sizes p, or interns it when a numeric cache is configured.
func (c *compactor) coord(p geo.Coord) geo.Coord {
	if c.numeric == nil {
		return compactSlice(c.identity, p, kindCoord, nil)
	}
	if len(p) == 0 {
		return p[:0:0]
	}

	key := keyOf(p, kindCoord)
	if prev, ok := c.identity.slices[key]; ok {
		return prev.([]float64) //nolint:forcetypeassert
	}

	out := c.numeric.intern(p)
	c.identity.slices[key] = []float64(out)

	return out
}

func (c *compactor) line(line []geo.Coord) []geo.Coord {
	return compactSlice(c.identity, line, kindLine, c.coord)
}

func (c *compactor) rings(rings [][]geo.Coord) [][]geo.Coord {
	return compactSlice(c.identity, rings, kindRings, c.line)
}

func (c *compactor) refs(refs []int) []int {
	return compactSlice(c.identity, refs, kindRefs, nil)
}

func (c *compactor) ringRefs(parts [][]int) [][]int {
	return compactSlice(c.identity, parts, kindRingRefs, c.refs)
}

// values compacts the structured payloads held in m.
func (c *compactor) values(m map[string]geo.Value) {
	for k, v := range m {
		if payload, ok := v.Structured(); ok {
			m[k] = geo.JSON(c.structured(payload))
		}
	}
}

// structured right-sizes the arrays of a JSON payload and descends into
// its objects. Scalars are returned unchanged.
func (c *compactor) structured(v any) any {
	switch x := v.(type) {
	case []any:
		return compactSlice(c.identity, x, kindJSONArray, c.structured)
	case map[string]any:
		if x == nil || c.identity.visitMap(x) {
			return x
		}
		for k, e := range x {
			x[k] = c.structured(e)
		}

		return x
	default:
		return v
	}
}
