// Package index provides an in-memory R-tree over the features of a decoded
// object tree, used to select the features that intersect a bounding box.
package index

import (
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/arloliu/geobuf/geo"
)

// minExtent keeps degenerate boxes (points, axis-aligned lines) non-empty;
// the R-tree requires positive side lengths.
const minExtent = 1e-9

// Entry is one indexed object.
type Entry struct {
	// Pos is the insertion order, used to return results in document order.
	Pos int
	// Name is the topology object name; empty for features.
	Name string
	// Object is the indexed feature or topology member.
	Object geo.Object
	// BBox is the object's bounding box.
	BBox BBox
}

// Bounds implements rtreego.Spatial.
func (e *Entry) Bounds() rtreego.Rect {
	return toRect(e.BBox)
}

func toRect(b BBox) rtreego.Rect {
	point := rtreego.Point{b.MinX, b.MinY}
	lengths := []float64{
		max(b.MaxX-b.MinX, minExtent),
		max(b.MaxY-b.MinY, minExtent),
	}
	rect, _ := rtreego.NewRect(point, lengths)

	return rect
}

// Index is a spatial index over features. It is not safe for concurrent
// mutation; concurrent Search calls are safe once built.
type Index struct {
	rtree   *rtreego.Rtree
	entries []*Entry
	skipped int
}

// New returns an empty index.
func New() *Index {
	return &Index{rtree: rtreego.NewTree(2, 25, 50)}
}

// Build indexes every feature reachable from obj. A bare geometry is indexed
// as a single entry, and each named object of a Topology gets its own entry
// with arc references resolved.
//
// Objects without any position (null geometries, empty collections) are
// counted by Skipped and never returned by Search.
func Build(obj geo.Object) *Index {
	idx := New()
	idx.Add(obj)

	return idx
}

// Add indexes the features reachable from obj. See Build.
func (idx *Index) Add(obj geo.Object) {
	if geo.IsNil(obj) {
		return
	}

	switch o := obj.(type) {
	case *geo.FeatureCollection:
		for _, f := range o.Features {
			if f != nil {
				idx.insert("", f, Bounds(f))
			}
		}
	case *geo.Topology:
		tb := newTopoBounds(o)
		for _, named := range o.Objects {
			if !geo.IsNil(named.Object) {
				idx.insert(named.Name, named.Object, tb.object(named.Object))
			}
		}
	default:
		idx.insert("", obj, Bounds(obj))
	}
}

func (idx *Index) insert(name string, obj geo.Object, b BBox) {
	if b.IsEmpty() {
		idx.skipped++
		return
	}

	e := &Entry{Pos: len(idx.entries) + idx.skipped, Name: name, Object: obj, BBox: b}
	idx.entries = append(idx.entries, e)
	idx.rtree.Insert(e)
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Skipped returns the number of objects that had no position to index.
func (idx *Index) Skipped() int {
	return idx.skipped
}

// Extent returns the box around every indexed entry.
func (idx *Index) Extent() BBox {
	b := emptyBBox()
	for _, e := range idx.entries {
		b = b.Union(e.BBox)
	}

	return b
}

// Search returns the entries whose bounding box intersects b, in insertion order.
func (idx *Index) Search(b BBox) []*Entry {
	if b.IsEmpty() || len(idx.entries) == 0 {
		return nil
	}

	// the R-tree treats touching boxes as disjoint, so widen the query
	query := BBox{MinX: b.MinX - minExtent, MinY: b.MinY - minExtent, MaxX: b.MaxX + minExtent, MaxY: b.MaxY + minExtent}
	spatials := idx.rtree.SearchIntersect(toRect(query))
	result := make([]*Entry, 0, len(spatials))
	for _, s := range spatials {
		e, ok := s.(*Entry)
		if !ok {
			continue
		}
		// padding widens both sides, so confirm against the real boxes
		if e.BBox.Intersects(b) {
			result = append(result, e)
		}
	}
	slices.SortFunc(result, func(a, b *Entry) int { return a.Pos - b.Pos })

	return result
}

// Features returns the matching entries as features. Topology members and
// bare geometries are wrapped in a Feature, and a topology member's name
// becomes the id of its wrapper.
func Features(entries []*Entry) []*geo.Feature {
	out := make([]*geo.Feature, 0, len(entries))
	for _, e := range entries {
		if f, ok := e.Object.(*geo.Feature); ok {
			out = append(out, f)
			continue
		}

		f := &geo.Feature{Geometry: e.Object}
		if e.Name != "" {
			f.ID = geo.StringID(e.Name)
		}
		out = append(out, f)
	}

	return out
}
