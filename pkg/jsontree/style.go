package jsontree

import "github.com/charmbracelet/lipgloss"

// ToggleButtonsState controls the visibility and interactivity of the
// expand/collapse toggle glyphs rendered in front of arrays and objects.
type ToggleButtonsState int

const (
	// ToggleVisibleEnabled shows toggle glyphs and lets the embedding UI act
	// on them.
	ToggleVisibleEnabled ToggleButtonsState = iota
	// ToggleVisibleDisabled shows dimmed toggle glyphs; rows report as
	// non-toggleable.
	ToggleVisibleDisabled
	// ToggleHidden renders no toggle column at all.
	ToggleHidden
)

// visible reports whether a toggle column is rendered.
func (t ToggleButtonsState) visible() bool { return t != ToggleHidden }

// enabled reports whether rendered toggles are interactive.
func (t ToggleButtonsState) enabled() bool { return t == ToggleVisibleEnabled }

// interactive reports whether rows may be toggled by the user. Hiding the
// glyph column is cosmetic; only ToggleVisibleDisabled turns interaction off.
func (t ToggleButtonsState) interactive() bool { return t != ToggleVisibleDisabled }

// Style carries the lipgloss styles for JSON syntax highlighting and search
// match highlighting, plus the layout knobs of the text renderer. Styles here
// follow the same adaptive-color discipline as the viewer theme: construct
// them from a lipgloss.Renderer so color degradation matches the terminal.
type Style struct {
	ObjectKey   lipgloss.Style
	ArrayIndex  lipgloss.Style
	Null        lipgloss.Style
	Bool        lipgloss.Style
	Number      lipgloss.Style
	String      lipgloss.Style
	Punctuation lipgloss.Style
	// Highlight is layered over the matched span of keys and values when a
	// search-driven expand policy is active.
	Highlight lipgloss.Style
	// ToggleOpen, ToggleClosed and ToggleDisabled are the glyphs of the
	// toggle column, including any trailing spacing.
	ToggleOpen     string
	ToggleClosed   string
	ToggleDisabled lipgloss.Style
	// Indent is prepended once per nesting level on expanded bodies.
	Indent string

	ToggleButtons ToggleButtonsState
}

// DefaultStyle returns the standard Dracula-inspired style (adaptive), bound
// to the given renderer. A nil renderer uses the lipgloss default.
func DefaultStyle(r *lipgloss.Renderer) Style {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	scalar := lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#679AD1"}
	return Style{
		ObjectKey:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#2E5E87", Dark: "#A1CEEB"}),
		ArrayIndex:  r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6067A8"}),
		Null:        r.NewStyle().Foreground(scalar),
		Bool:        r.NewStyle().Foreground(scalar),
		Number:      r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#447744", Dark: "#B5C7A6"}),
		String:      r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A0522D", Dark: "#C2927A"}),
		Punctuation: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BFBFBF"}),
		Highlight: r.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#FFE066", Dark: "#484848"}),
		ToggleOpen:     "▾ ",
		ToggleClosed:   "▸ ",
		ToggleDisabled: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"}),
		Indent:         "  ",
		ToggleButtons:  ToggleVisibleEnabled,
	}
}

// styleFor returns the style for a base value kind.
func (s *Style) styleFor(kind ValueKind) lipgloss.Style {
	switch kind {
	case KindNull:
		return s.Null
	case KindBool:
		return s.Bool
	case KindNumber:
		return s.Number
	case KindString:
		return s.String
	default:
		return s.Punctuation
	}
}
