package geo

import "strconv"

type idKind uint8

const (
	idNone idKind = iota
	idString
	idInt
)

// ID is an optional feature or geometry identifier: a string or an integer,
// never both. The zero ID is absent.
type ID struct {
	kind idKind
	str  string
	num  int64
}

// StringID returns a string identifier.
func StringID(s string) ID { return ID{kind: idString, str: s} }

// IntID returns an integer identifier.
func IntID(n int64) ID { return ID{kind: idInt, num: n} }

// IsZero reports whether the id is absent.
func (id ID) IsZero() bool { return id.kind == idNone }

// Str returns the string id and whether id is a string.
func (id ID) Str() (string, bool) { return id.str, id.kind == idString }

// Int returns the integer id and whether id is an integer.
func (id ID) Int() (int64, bool) { return id.num, id.kind == idInt }

// String formats the id; an absent id formats as "".
func (id ID) String() string {
	switch id.kind {
	case idString:
		return id.str
	case idInt:
		return strconv.FormatInt(id.num, 10)
	default:
		return ""
	}
}
