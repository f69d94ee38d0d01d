package jsontree

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ValueKind is the semantic type of a node.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name as it appears in JSON terminology.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Entry is one (segment, child) pair of an expandable value, in document
// order.
type Entry struct {
	Segment Segment
	Value   Valuer
}

// TreeValue is the uniform per-frame projection of one value: either a base
// (terminal) value with a display string, or an expandable container with its
// ordered children. It is recomputed every frame and never persisted.
type TreeValue struct {
	// Kind classifies the value. KindArray and KindObject are expandable,
	// everything else is a base value.
	Kind ValueKind
	// Display is the rendered text for base values. Strings carry their raw
	// content without surrounding quotes; the renderer adds those.
	Display string
	// Entries holds the ordered children of an expandable value.
	Entries []Entry
}

// Expandable reports whether the value is an array or object.
func (t TreeValue) Expandable() bool {
	return t.Kind == KindArray || t.Kind == KindObject
}

// Valuer adapts a document type for display in a tree. Implementations must
// be cheap to call repeatedly (once per node per frame) and must yield object
// members in insertion order so node identity stays stable across frames.
type Valuer interface {
	TreeValue() TreeValue
}

// Value is an ordered, immutable JSON document value. Unlike a Go map, an
// object Value preserves the member order of the source document, which keeps
// paths (and therefore persisted collapse state) stable across frames.
type Value struct {
	kind    ValueKind
	boolean bool
	// lit holds the number literal as written, or the decoded string content.
	lit     string
	elems   []*Value
	keys    []string
	members []*Value // parallel to keys
}

// Null returns the JSON null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a JSON boolean value.
func Bool(b bool) *Value { return &Value{kind: KindBool, boolean: b} }

// Number returns a JSON number from its literal representation. The literal
// is displayed exactly as given.
func Number(lit string) *Value { return &Value{kind: KindNumber, lit: lit} }

// String returns a JSON string value.
func String(s string) *Value { return &Value{kind: KindString, lit: s} }

// Array returns a JSON array of the given elements.
func Array(elems ...*Value) *Value { return &Value{kind: KindArray, elems: elems} }

// Object returns an empty JSON object. Members are added with With, which
// preserves insertion order.
func Object() *Value { return &Value{kind: KindObject} }

// With appends a member to an object value and returns the value for
// chaining. Calling With on a non-object panics; it is a construction helper,
// not a mutation protocol.
func (v *Value) With(key string, member *Value) *Value {
	if v.kind != KindObject {
		panic("jsontree: With called on non-object value")
	}
	v.keys = append(v.keys, key)
	v.members = append(v.members, member)
	return v
}

// Kind returns the value's semantic type.
func (v *Value) Kind() ValueKind { return v.kind }

// Len returns the number of children for arrays and objects, and 0 otherwise.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindObject:
		return len(v.keys)
	default:
		return 0
	}
}

// TreeValue implements Valuer.
func (v *Value) TreeValue() TreeValue {
	switch v.kind {
	case KindNull:
		return TreeValue{Kind: KindNull, Display: "null"}
	case KindBool:
		return TreeValue{Kind: KindBool, Display: strconv.FormatBool(v.boolean)}
	case KindNumber, KindString:
		return TreeValue{Kind: v.kind, Display: v.lit}
	case KindArray:
		entries := make([]Entry, len(v.elems))
		for i, elem := range v.elems {
			entries[i] = Entry{Segment: Index(i), Value: elem}
		}
		return TreeValue{Kind: KindArray, Entries: entries}
	case KindObject:
		entries := make([]Entry, len(v.keys))
		for i, key := range v.keys {
			entries[i] = Entry{Segment: Key(key), Value: v.members[i]}
		}
		return TreeValue{Kind: KindObject, Entries: entries}
	default:
		return TreeValue{Kind: KindNull, Display: "null"}
	}
}

// Lookup resolves a path against the value. ok is false if any segment does
// not address an existing child.
func (v *Value) Lookup(path Path) (value *Value, ok bool) {
	cur := v
	for _, seg := range path {
		switch {
		case seg.IsKey() && cur.kind == KindObject:
			found := false
			for i, key := range cur.keys {
				if key == seg.Key() {
					cur = cur.members[i]
					found = true
					break
				}
			}
			if !found {
				return nil, false
			}
		case !seg.IsKey() && cur.kind == KindArray:
			idx := seg.Index()
			if idx < 0 || idx >= len(cur.elems) {
				return nil, false
			}
			cur = cur.elems[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// LookupPointer resolves an RFC 6901 JSON Pointer against the value. Whether
// a reference token is a key or an index is decided by the value it is
// applied to, so "/0" addresses element 0 of an array but the member named
// "0" of an object. ok is false if any token does not address an existing
// child.
func (v *Value) LookupPointer(pointer string) (value *Value, ok bool) {
	if pointer == "" {
		return v, true
	}
	if pointer[0] != '/' {
		return nil, false
	}
	cur := v
	for _, token := range strings.Split(pointer[1:], "/") {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")
		switch cur.kind {
		case KindObject:
			child, found := (*Value)(nil), false
			for i, key := range cur.keys {
				if key == token {
					child, found = cur.members[i], true
					break
				}
			}
			if !found {
				return nil, false
			}
			cur = child
		case KindArray:
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 0 || idx >= len(cur.elems) {
				return nil, false
			}
			cur = cur.elems[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// JSON serializes the value back to compact JSON, preserving object member
// order.
func (v *Value) JSON() []byte {
	var b bytes.Buffer
	v.appendJSON(&b)
	return b.Bytes()
}

func (v *Value) appendJSON(b *bytes.Buffer) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		b.WriteString(v.lit)
	case KindString:
		writeJSONString(b, v.lit)
	case KindArray:
		b.WriteByte('[')
		for i, elem := range v.elems {
			if i > 0 {
				b.WriteByte(',')
			}
			elem.appendJSON(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, key)
			b.WriteByte(':')
			v.members[i].appendJSON(b)
		}
		b.WriteByte('}')
	}
}

func writeJSONString(b *bytes.Buffer, s string) {
	encoded, err := json.Marshal(s)
	if err != nil {
		// Marshalling a string cannot fail; fall back to a bare quote wrap.
		b.WriteByte('"')
		b.WriteString(s)
		b.WriteByte('"')
		return
	}
	b.Write(encoded)
}

// Parse decodes JSON bytes into a Value, preserving object member order. It
// decodes through the token stream rather than into Go maps, which would lose
// ordering.
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("jsontree: parse: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("jsontree: parse: trailing data after top-level value")
	}
	return v, nil
}

// ParseString is Parse for a string input.
func ParseString(data string) (*Value, error) {
	return Parse([]byte(data))
}

func parseValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t.String()), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			arr := &Value{kind: KindArray}
			for dec.More() {
				elem, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr.elems = append(arr.elems, elem)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		case '{':
			obj := &Value{kind: KindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", keyTok)
				}
				member, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				obj.keys = append(obj.keys, key)
				obj.members = append(obj.members, member)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// FromGo converts a plain Go value into a Value. Map keys are sorted so the
// result is deterministic; if member order matters, parse the source document
// with Parse instead. Types outside the JSON value model round-trip through
// JSON encoding.
func FromGo(val any) (*Value, error) {
	switch t := val.(type) {
	case nil:
		return Null(), nil
	case *Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case int:
		return Number(strconv.Itoa(t)), nil
	case int64:
		return Number(strconv.FormatInt(t, 10)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case float64:
		return Number(formatFloat(t)), nil
	case []any:
		elems := make([]*Value, len(t))
		for i, e := range t {
			elem, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			elems[i] = elem
		}
		return Array(elems...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := Object()
		for _, k := range keys {
			member, err := FromGo(t[k])
			if err != nil {
				return nil, err
			}
			obj.With(k, member)
		}
		return obj, nil
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("jsontree: cannot adapt %T: %w", val, err)
		}
		return Parse(encoded)
	}
}

// formatFloat renders a float the way encoding/json does, so FromGo and Parse
// agree on display strings.
func formatFloat(f float64) string {
	out, err := json.Marshal(f)
	if err != nil {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strings.TrimSpace(string(out))
}
