package jsontree

// Delimiter is a bracket or brace token emitted for an expandable value.
// Collapsed tokens differ between "has children" and "empty" so the two are
// visually distinct.
type Delimiter int

const (
	CollapsedArray Delimiter = iota
	CollapsedEmptyArray
	OpeningArray
	ClosingArray
	CollapsedObject
	CollapsedEmptyObject
	OpeningObject
	ClosingObject
)

// String returns the token text.
func (d Delimiter) String() string {
	switch d {
	case CollapsedArray:
		return "[...]"
	case CollapsedEmptyArray:
		return "[]"
	case OpeningArray:
		return "["
	case ClosingArray:
		return "]"
	case CollapsedObject:
		return "{...}"
	case CollapsedEmptyObject:
		return "{}"
	case OpeningObject:
		return "{"
	case ClosingObject:
		return "}"
	default:
		return "?"
	}
}

// delimiters groups the four tokens for one container kind.
type delimiters struct {
	collapsed      Delimiter
	collapsedEmpty Delimiter
	opening        Delimiter
	closing        Delimiter
}

var (
	arrayDelimiters  = delimiters{CollapsedArray, CollapsedEmptyArray, OpeningArray, ClosingArray}
	objectDelimiters = delimiters{CollapsedObject, CollapsedEmptyObject, OpeningObject, ClosingObject}
)

func delimitersFor(kind ValueKind) *delimiters {
	if kind == KindArray {
		return &arrayDelimiters
	}
	return &objectDelimiters
}

// spacingDelimiter is the punctuation between render units. Spacing is not
// exposed to render hooks; only properties, base values and expandable
// delimiters are interceptable.
type spacingDelimiter int

const (
	spacingEmpty spacingDelimiter = iota
	spacingComma
	spacingColon
)

func (s spacingDelimiter) String() string {
	switch s {
	case spacingComma:
		return ", "
	case spacingColon:
		return ": "
	default:
		return " "
	}
}
