// Package jsontree renders an interactive, collapsible tree view of a JSON
// document for per-frame (immediate-mode) terminal UIs.
//
// The document is re-projected from scratch on every render; nothing about
// the tree itself is retained between frames. What does persist is per-node
// collapse state, keyed by a stable identity derived from (tree name, path)
// and held in an explicit Store owned by the embedding application:
//
//	doc, _ := jsontree.Parse(data)
//	store := jsontree.NewStore()
//	tree := jsontree.New("response", doc,
//		jsontree.WithDefaultExpand(jsontree.ExpandToLevel(1)))
//
//	frame := jsontree.NewFrame()
//	resp := tree.Show(frame, store)   // once per UI frame
//	view := frame.View()
//
// User toggles arrive between frames: map the cursor row to a node via
// frame.Rows() and flip its bit with store.Toggle. Custom rendering goes
// through the Renderer strategy; the reset protocol (Response.ResetExpanded,
// or the automatic reset when the default-expand policy changes) snaps every
// node back to its policy default on the next render.
package jsontree

// Tree is a configured tree view over one document value. A Tree is cheap to
// construct; build it fresh each frame or retain it, either works, since all
// cross-frame state lives in the Store.
type Tree struct {
	name           string
	id             ID
	value          Valuer
	style          Style
	defaultExpand  DefaultExpand
	abbreviateRoot bool
	autoReset      bool
	renderer       Renderer
}

// Option configures a Tree.
type Option func(*Tree)

// WithStyle overrides the colors and layout tokens used for rendering.
func WithStyle(style Style) Option {
	return func(t *Tree) { t.style = style }
}

// WithDefaultExpand sets the policy for which nodes start open. Defaults to
// ExpandNone.
func WithDefaultExpand(d DefaultExpand) Option {
	return func(t *Tree) { t.defaultExpand = d }
}

// WithAbbreviateRoot controls whether a collapsed root renders as a bare
// "{...}" instead of the single-line form that previews direct children.
func WithAbbreviateRoot(abbreviate bool) Option {
	return func(t *Tree) { t.abbreviateRoot = abbreviate }
}

// WithToggleButtons sets the visibility and interactivity of the toggle
// glyph column.
func WithToggleButtons(state ToggleButtonsState) Option {
	return func(t *Tree) { t.style.ToggleButtons = state }
}

// WithAutoResetExpanded controls whether a change to the default-expand
// policy automatically resets all collapse state to the new defaults on the
// next render. Enabled by default; a manual reset via
// Response.ResetExpanded is always available.
func WithAutoResetExpanded(auto bool) Option {
	return func(t *Tree) { t.autoReset = auto }
}

// WithRenderer installs a custom Renderer strategy. Pass nil to restore the
// built-in renderer.
func WithRenderer(r Renderer) Option {
	return func(t *Tree) {
		if r == nil {
			r = defaultRenderer{}
		}
		t.renderer = r
	}
}

// New creates a tree view of value. The name must be unique among trees
// sharing one Store; it namespaces all persisted state.
func New(name string, value Valuer, opts ...Option) *Tree {
	t := &Tree{
		name:          name,
		id:            TreeID(name),
		value:         value,
		style:         DefaultStyle(nil),
		defaultExpand: ExpandNone(),
		autoReset:     true,
		renderer:      defaultRenderer{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the tree's identity namespace.
func (t *Tree) ID() ID { return t.id }

// Show renders one frame of the tree into f, loading and writing collapse
// state through store. It runs single-threaded and to completion; collapsed
// subtrees are not traversed for rendering (search still visits everything
// when a search-driven policy is active).
func (t *Tree) Show(f *Frame, store *Store) Response {
	// Reset protocol: fingerprint the policy, arm the one-shot flag when it
	// changed, then consume the flag whether it was armed here or by a prior
	// Response.ResetExpanded call.
	if t.autoReset {
		hash := t.defaultExpand.hash()
		if stored, ok := store.policy(t.id); !ok || stored != hash {
			store.setPolicy(t.id, hash)
			store.RequestReset(t.id)
		}
	}
	reset := store.takeReset(t.id)

	expand, term := t.defaultExpand.resolve(t.value, t.id, t.abbreviateRoot)

	f.Reset()
	f.indent = t.style.Indent

	walk := &treeWalk{
		tree:     t.id,
		style:    &t.style,
		renderer: t.renderer,
		store:    store,
		frame:    f,
		expand:   expand,
		term:     term,
		reset:    reset,
		abbrRoot: t.abbreviateRoot,
	}

	var path Path
	walk.showValue(t.value, &path)
	f.endLine()

	return Response{tree: t.id}
}

// Response is the handle returned by Show.
type Response struct {
	tree ID
}

// ResetExpanded forces every node of this tree back to its policy-determined
// default on the next render, discarding manual expand/collapse changes.
func (r Response) ResetExpanded(store *Store) {
	store.RequestReset(r.tree)
}
