package compact

import (
	"math"
	"reflect"
	"unsafe"

	"github.com/arloliu/geobuf/geo"
	"github.com/arloliu/geobuf/internal/hash"
)

// sliceKind distinguishes slices of different element types sharing a start address.
type sliceKind uint8

const (
	kindCoord sliceKind = iota
	kindLine
	kindRings
	kindPolygons
	kindRefs
	kindRingRefs
	kindPolygonRefs
	kindObjects
	kindFeatures
	kindNamed
	kindJSONArray
)

// sliceKey identifies a slice by its backing array start, length and element type.
type sliceKey struct {
	ptr  unsafe.Pointer
	n    int
	kind sliceKind
}

// IdentityCache remembers every object and slice already visited by Compress.
//
// A revisited object is not descended into again, which bounds the work on
// cyclic trees. A revisited slice is replaced by the same compacted slice
// produced on its first visit, so aliasing present in the input is preserved.
//
// Note: IdentityCache is NOT thread-safe. Its entries keep the visited
// objects and slices reachable for as long as the cache lives.
type IdentityCache struct {
	objects map[geo.Object]struct{}
	slices  map[sliceKey]any
	maps    map[uintptr]struct{}
}

// NewIdentityCache creates an empty identity cache.
func NewIdentityCache() *IdentityCache {
	return &IdentityCache{
		objects: make(map[geo.Object]struct{}),
		slices:  make(map[sliceKey]any),
		maps:    make(map[uintptr]struct{}),
	}
}

// Len returns the number of objects and slices recorded.
func (c *IdentityCache) Len() int {
	return len(c.objects) + len(c.slices) + len(c.maps)
}

// visit records obj and reports whether it was seen before.
func (c *IdentityCache) visit(obj geo.Object) bool {
	if _, ok := c.objects[obj]; ok {
		return true
	}
	c.objects[obj] = struct{}{}

	return false
}

// visitMap records the structured map m and reports whether it was seen before.
func (c *IdentityCache) visitMap(m map[string]any) bool {
	key := reflect.ValueOf(m).Pointer()
	if _, ok := c.maps[key]; ok {
		return true
	}
	c.maps[key] = struct{}{}

	return false
}

func keyOf[T any](s []T, kind sliceKind) sliceKey {
	return sliceKey{ptr: unsafe.Pointer(unsafe.SliceData(s)), n: len(s), kind: kind}
}

// compactSlice returns the compacted form of s, computing it with fn on first sight.
//
// The result is recorded before fn runs on its elements, so a slice reached
// again while its own elements are being compacted resolves to the same result.
func compactSlice[T any](c *IdentityCache, s []T, kind sliceKind, fn func(T) T) []T {
	if len(s) == 0 {
		return s[:0:0]
	}

	key := keyOf(s, kind)
	if prev, ok := c.slices[key]; ok {
		return prev.([]T) //nolint:forcetypeassert
	}

	out := s
	if cap(s) > len(s) {
		out = make([]T, len(s))
		copy(out, s)
	}
	c.slices[key] = out

	if fn != nil {
		for i, v := range out {
			out[i] = fn(v)
		}
	}

	return out
}

// NumericCache interns positions by value.
//
// Positions are bucketed by the xxHash64 of their canonical text fingerprint
// and matched within a bucket by exact bit pattern, so -0 and 0 stay
// distinct entries even though they compare equal as numbers.
//
// Note: NumericCache is NOT thread-safe.
type NumericCache struct {
	buckets map[uint64][]geo.Coord
	buf     []byte
	size    int
	hits    int
}

// NewNumericCache creates an empty numeric cache.
func NewNumericCache() *NumericCache {
	return &NumericCache{
		buckets: make(map[uint64][]geo.Coord),
		buf:     make([]byte, 0, 64),
	}
}

// Len returns the number of distinct positions interned.
func (c *NumericCache) Len() int {
	return c.size
}

// Hits returns how many positions were replaced by a previously interned one.
func (c *NumericCache) Hits() int {
	return c.hits
}

// intern returns the canonical instance of p, registering a right-sized copy on first sight.
func (c *NumericCache) intern(p geo.Coord) geo.Coord {
	var h uint64
	h, c.buf = hash.Fingerprint(c.buf, p)

	for _, q := range c.buckets[h] {
		if sameBits(p, q) {
			c.hits++
			return q
		}
	}

	canon := p
	if cap(p) > len(p) {
		canon = make(geo.Coord, len(p))
		copy(canon, p)
	}
	c.buckets[h] = append(c.buckets[h], canon)
	c.size++

	return canon
}

func sameBits(a, b geo.Coord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}

	return true
}
