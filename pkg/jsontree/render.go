package jsontree

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// ParentStatus tells a base-value render call how its surroundings are laid
// out.
type ParentStatus int

const (
	// NoParent: the base value is the document root.
	NoParent ParentStatus = iota
	// ExpandedParent: the value sits on its own line inside an expanded
	// container.
	ExpandedParent
	// CollapsedRoot: the value is rendered inline inside the single-line form
	// of a collapsed root container.
	CollapsedRoot
)

// CollapseState is a mutable handle to one expandable node's open/closed
// state for the duration of a single render unit. Mutations are flushed to
// the Store before Show returns; the handle must not be retained past the
// render call it was passed to.
type CollapseState struct {
	id   ID
	open bool
}

// ID returns the identity the state is stored under.
func (c *CollapseState) ID() ID { return c.id }

// IsOpen reports whether the node is expanded.
func (c *CollapseState) IsOpen() bool { return c.open }

// SetOpen sets the node's state for subsequent frames. The current frame's
// layout is not re-entered; the change is visible on the next render.
func (c *CollapseState) SetOpen(open bool) { c.open = open }

// Toggle flips the node's state.
func (c *CollapseState) Toggle() { c.open = !c.open }

// PropertyContext is the render call for an object key or array index.
type PropertyContext struct {
	// Property is the key or index being rendered.
	Property Segment
	// Value is the value under this property.
	Value Valuer
	// Path is the full path to the value under this property. It aliases the
	// traversal stack; use Path.clone semantics (copy) before retaining.
	Path Path
	// Style the tree was configured with.
	Style *Style
	// Collapse is the state handle for the array/object under this property,
	// or nil when the property names a base value.
	Collapse *CollapseState

	term searchTerm
}

// SearchTerm returns the active search term, or "" when no search-driven
// policy is in effect.
func (c *PropertyContext) SearchTerm() string { return string(c.term) }

// RenderDefault renders the property the way the built-in renderer would.
func (c *PropertyContext) RenderDefault(f *Frame) {
	renderProperty(f, c.Style, c.Property, c.term)
}

// BaseValueContext is the render call for a terminal (non-recursive) value.
type BaseValueContext struct {
	// Value is the node being rendered.
	Value Valuer
	// Display is the text representation; strings carry no surrounding
	// quotes.
	Display string
	// Kind is the semantic type of the value.
	Kind ValueKind
	// Path is the full path to the value. Aliases the traversal stack.
	Path Path
	// Style the tree was configured with.
	Style *Style
	// Parent describes the surrounding layout.
	Parent ParentStatus

	term searchTerm
}

// SearchTerm returns the active search term, or "".
func (c *BaseValueContext) SearchTerm() string { return string(c.term) }

// RenderDefault renders the value the way the built-in renderer would.
func (c *BaseValueContext) RenderDefault(f *Frame) {
	renderBaseValue(f, c.Style, c.Display, c.Kind, c.term)
}

// DelimiterContext is the render call for array brackets or object braces.
type DelimiterContext struct {
	// Delimiter is the specific token being rendered.
	Delimiter Delimiter
	// Value is the array or object the delimiter belongs to.
	Value Valuer
	// Path is the full path to that array or object. Aliases the traversal
	// stack.
	Path Path
	// Style the tree was configured with.
	Style *Style
	// Collapse is the state handle for the expandable node currently being
	// rendered. For inline delimiters within a collapsed root's single-line
	// form this is the root's handle, matching the node that actually owns
	// the line.
	Collapse *CollapseState
}

// RenderDefault renders the delimiter the way the built-in renderer would.
func (c *DelimiterContext) RenderDefault(f *Frame) {
	f.styled(c.Style.Punctuation, c.Delimiter.String())
}

// Renderer intercepts the production of render units. Implementations may
// render nothing, delegate via the context's RenderDefault, or write fully
// custom content into the Frame. Each method is invoked exactly once per
// render unit per frame, in traversal order, so pointer-based identification
// inside a Renderer is reliable.
type Renderer interface {
	RenderProperty(f *Frame, ctx *PropertyContext)
	RenderBaseValue(f *Frame, ctx *BaseValueContext)
	RenderDelimiter(f *Frame, ctx *DelimiterContext)
}

// defaultRenderer is the built-in Renderer: plain delegation to the default
// appearance.
type defaultRenderer struct{}

func (defaultRenderer) RenderProperty(f *Frame, ctx *PropertyContext)   { ctx.RenderDefault(f) }
func (defaultRenderer) RenderBaseValue(f *Frame, ctx *BaseValueContext) { ctx.RenderDefault(f) }
func (defaultRenderer) RenderDelimiter(f *Frame, ctx *DelimiterContext) { ctx.RenderDefault(f) }

func renderProperty(f *Frame, style *Style, property Segment, term searchTerm) {
	if !property.IsKey() {
		f.styled(style.ArrayIndex, strconv.Itoa(property.Index()))
		return
	}
	f.styled(style.ObjectKey, `"`)
	writeHighlighted(f, style.ObjectKey, style, property.Key(), term)
	f.styled(style.ObjectKey, `"`)
}

func renderBaseValue(f *Frame, style *Style, display string, kind ValueKind, term searchTerm) {
	base := style.styleFor(kind)
	if kind == KindString {
		f.styled(base, `"`)
	}
	writeHighlighted(f, base, style, display, term)
	if kind == KindString {
		f.styled(base, `"`)
	}
}

// writeHighlighted writes text in the base style, layering the highlight
// background over each span that matches the active search term. Byte ranges
// come from the ASCII-folded text, which has the same length as the original.
func writeHighlighted(f *Frame, base lipgloss.Style, style *Style, text string, term searchTerm) {
	ranges := term.matchRanges(text)
	if len(ranges) == 0 {
		f.styled(base, text)
		return
	}
	highlighted := base.Inherit(style.Highlight)
	prev := 0
	for _, r := range ranges {
		if r[0] > prev {
			f.styled(base, text[prev:r[0]])
		}
		f.styled(highlighted, text[r[0]:r[1]])
		prev = r[1]
	}
	if prev < len(text) {
		f.styled(base, text[prev:])
	}
}
