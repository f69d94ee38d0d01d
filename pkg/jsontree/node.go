package jsontree

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// treeWalk carries the per-pass fixtures through the depth-first render walk:
// resolved expand policy, active search term, the store, the frame, and the
// one-shot reset flag. Nothing here survives the pass.
type treeWalk struct {
	tree     ID
	style    *Style
	renderer Renderer
	store    *Store
	frame    *Frame
	expand   resolvedExpand
	term     searchTerm
	reset    bool
	abbrRoot bool
}

// showValue renders the node at path. The path slice is the shared traversal
// stack; callers push the child segment before recursing and pop after.
func (w *treeWalk) showValue(value Valuer, path *Path) {
	tv := value.TreeValue()
	if tv.Expandable() {
		w.showExpandable(value, tv, path)
		return
	}

	w.frame.beginLine(Row{
		Pointer: path.Pointer(),
		ID:      nodeID(w.tree, *path),
		Depth:   len(*path),
	})
	w.padToggleColumn()

	if property, ok := path.Last(); ok {
		w.renderer.RenderProperty(w.frame, &PropertyContext{
			Property: property,
			Value:    value,
			Path:     *path,
			Style:    w.style,
			Collapse: nil,
			term:     w.term,
		})
		w.spacing(spacingColon)
	}

	parent := NoParent
	if len(*path) > 0 {
		parent = ExpandedParent
	}
	w.renderer.RenderBaseValue(w.frame, &BaseValueContext{
		Value:   value,
		Display: tv.Display,
		Kind:    tv.Kind,
		Path:    *path,
		Style:   w.style,
		Parent:  parent,
		term:    w.term,
	})
	w.frame.endLine()
}

func (w *treeWalk) showExpandable(value Valuer, tv TreeValue, path *Path) {
	delims := delimitersFor(tv.Kind)
	id := nodeID(w.tree, *path)

	defaultOpen := w.expand.defaultOpen(*path, id)
	open, _ := w.store.Load(id, defaultOpen)
	if w.reset {
		open = defaultOpen
	}
	state := &CollapseState{id: id, open: open}

	// isExpanded drives this frame's layout even if a render hook mutates the
	// state mid-pass; the mutation takes effect next frame.
	isExpanded := open

	w.frame.beginLine(Row{
		Pointer:    path.Pointer(),
		ID:         id,
		Depth:      len(*path),
		Expandable: true,
		Open:       isExpanded,
		Toggleable: w.style.ToggleButtons.interactive(),
	})
	w.writeToggle(isExpanded)

	switch {
	case len(*path) == 0 && !isExpanded && w.abbrRoot:
		// Abbreviated collapsed root: one token, children not shown at all.
		w.renderer.RenderDelimiter(w.frame, &DelimiterContext{
			Delimiter: delims.collapsed,
			Value:     value,
			Path:      *path,
			Style:     w.style,
			Collapse:  state,
		})
		w.frame.endLine()

	case len(*path) == 0 && !isExpanded:
		w.showCollapsedRootInline(value, tv, path, delims, state)

	default:
		if property, ok := path.Last(); ok {
			w.renderer.RenderProperty(w.frame, &PropertyContext{
				Property: property,
				Value:    value,
				Path:     *path,
				Style:    w.style,
				Collapse: state,
				term:     w.term,
			})
			w.spacing(spacingColon)
		}

		delim := delims.opening
		if !isExpanded {
			delim = delims.collapsed
			if len(tv.Entries) == 0 {
				delim = delims.collapsedEmpty
			}
		}
		w.renderer.RenderDelimiter(w.frame, &DelimiterContext{
			Delimiter: delim,
			Value:     value,
			Path:      *path,
			Style:     w.style,
			Collapse:  state,
		})
		w.frame.endLine()
	}

	if isExpanded {
		for _, entry := range tv.Entries {
			*path = append(*path, entry.Segment)
			w.showValue(entry.Value, path)
			*path = (*path)[:len(*path)-1]
		}

		w.frame.beginLine(Row{
			Pointer:    path.Pointer(),
			ID:         id,
			Depth:      len(*path),
			Expandable: true,
			Open:       true,
		})
		w.padToggleColumn()
		w.renderer.RenderDelimiter(w.frame, &DelimiterContext{
			Delimiter: delims.closing,
			Value:     value,
			Path:      *path,
			Style:     w.style,
			Collapse:  state,
		})
		w.frame.endLine()
	}

	// Write back unconditionally so reset overwrites and hook toggles are
	// never lost within the frame they occurred.
	w.store.Set(id, state.open)
}

// showCollapsedRootInline renders the single-line form of a collapsed,
// unabbreviated root: children appear inline without recursing into their
// bodies. Object keys are shown, array indices are not.
func (w *treeWalk) showCollapsedRootInline(value Valuer, tv TreeValue, path *Path, delims *delimiters, state *CollapseState) {
	w.renderer.RenderDelimiter(w.frame, &DelimiterContext{
		Delimiter: delims.opening,
		Value:     value,
		Path:      *path,
		Style:     w.style,
		Collapse:  state,
	})
	w.spacing(spacingEmpty)

	for i, entry := range tv.Entries {
		*path = append(*path, entry.Segment)

		if tv.Kind == KindObject {
			w.renderer.RenderProperty(w.frame, &PropertyContext{
				Property: entry.Segment,
				Value:    entry.Value,
				Path:     *path,
				Style:    w.style,
				Collapse: state,
				term:     w.term,
			})
			w.spacing(spacingColon)
		}

		child := entry.Value.TreeValue()
		if child.Expandable() {
			nested := delimitersFor(child.Kind)
			delim := nested.collapsed
			if len(child.Entries) == 0 {
				delim = nested.collapsedEmpty
			}
			w.renderer.RenderDelimiter(w.frame, &DelimiterContext{
				Delimiter: delim,
				Value:     entry.Value,
				Path:      *path,
				Style:     w.style,
				Collapse:  state,
			})
		} else {
			w.renderer.RenderBaseValue(w.frame, &BaseValueContext{
				Value:   entry.Value,
				Display: child.Display,
				Kind:    child.Kind,
				Path:    *path,
				Style:   w.style,
				Parent:  CollapsedRoot,
				term:    w.term,
			})
		}

		if i == len(tv.Entries)-1 {
			w.spacing(spacingEmpty)
		} else {
			w.spacing(spacingComma)
		}

		*path = (*path)[:len(*path)-1]
	}

	w.renderer.RenderDelimiter(w.frame, &DelimiterContext{
		Delimiter: delims.closing,
		Value:     value,
		Path:      *path,
		Style:     w.style,
		Collapse:  state,
	})
	w.frame.endLine()
}

// spacing writes a colon, comma or plain space in punctuation style. Spacing
// is never routed through the Renderer.
func (w *treeWalk) spacing(s spacingDelimiter) {
	w.frame.styled(w.style.Punctuation, s.String())
}

// writeToggle renders the toggle glyph column on an expandable header line.
func (w *treeWalk) writeToggle(open bool) {
	if !w.style.ToggleButtons.visible() {
		return
	}
	glyph := w.style.ToggleClosed
	if open {
		glyph = w.style.ToggleOpen
	}
	if w.style.ToggleButtons.enabled() {
		w.frame.styled(w.style.Punctuation, glyph)
	} else {
		w.frame.styled(w.style.ToggleDisabled, glyph)
	}
}

// padToggleColumn keeps non-toggle lines aligned with toggle-bearing ones.
func (w *treeWalk) padToggleColumn() {
	if !w.style.ToggleButtons.visible() {
		return
	}
	w.frame.WriteString(strings.Repeat(" ", runewidth.StringWidth(w.style.ToggleOpen)))
}
