package jsontree

import (
	"strconv"
	"strings"
)

// Segment is one step in a path: either an object key or an array index.
// The zero value is the index 0.
type Segment struct {
	key   string
	index int
	isKey bool
}

// Key returns a Segment addressing the object member with the given key.
func Key(key string) Segment {
	return Segment{key: key, isKey: true}
}

// Index returns a Segment addressing the array element at the given position.
func Index(idx int) Segment {
	return Segment{index: idx}
}

// IsKey reports whether the segment is an object key (as opposed to an array
// index).
func (s Segment) IsKey() bool { return s.isKey }

// Key returns the object key, or "" for index segments.
func (s Segment) Key() string { return s.key }

// Index returns the array index, or 0 for key segments.
func (s Segment) Index() int { return s.index }

// String returns the unescaped display form: the key itself, or the decimal
// index.
func (s Segment) String() string {
	if s.isKey {
		return s.key
	}
	return strconv.Itoa(s.index)
}

// appendPointer writes the RFC 6901 reference token for the segment, with its
// leading "/", into b. Keys escape "~" to "~0" before "/" to "~1"; indices
// render as plain decimals.
func (s Segment) appendPointer(b *strings.Builder) {
	b.WriteByte('/')
	if !s.isKey {
		b.WriteString(strconv.Itoa(s.index))
		return
	}
	escaped := strings.ReplaceAll(s.key, "~", "~0")
	escaped = strings.ReplaceAll(escaped, "/", "~1")
	b.WriteString(escaped)
}

// Path is the ordered sequence of segments addressing one node within a
// document. The empty path addresses the document root.
//
// A Path uniquely addresses a node within one document snapshot. Equal paths
// across frames are assumed, but not guaranteed if the document's shape
// changed, to refer to the same conceptual node for state persistence.
type Path []Segment

// Pointer returns the JSON Pointer string for the path. The empty path yields
// "".
func (p Path) Pointer() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range p {
		seg.appendPointer(&b)
	}
	return b.String()
}

// Parent returns the path with the final segment removed. ok is false iff the
// path is empty. The returned path shares backing storage with p.
func (p Path) Parent() (parent Path, ok bool) {
	if len(p) == 0 {
		return nil, false
	}
	return p[:len(p)-1], true
}

// Last returns the final segment. ok is false iff the path is empty.
func (p Path) Last() (seg Segment, ok bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// clone returns an independent copy safe to retain beyond the current render
// unit. Render contexts hand out paths that alias the traversal stack.
func (p Path) clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}
