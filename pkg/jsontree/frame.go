package jsontree

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row describes one rendered line for interaction mapping: an embedding UI
// keeps a cursor over rows and translates "toggle the selected row" into a
// Store mutation keyed by the row's ID.
type Row struct {
	// Pointer is the JSON Pointer of the node that owns the line.
	Pointer string
	// ID is the identity of the owning node.
	ID ID
	// Depth is the nesting level of the line, root = 0.
	Depth int
	// Expandable reports whether the owning node is an array or object.
	Expandable bool
	// Open reports the owning node's collapse state as rendered this frame.
	// Meaningful only when Expandable.
	Open bool
	// Toggleable reports whether the UI should let the user toggle this row:
	// the node is expandable, toggles are not disabled, and the line is the
	// node's header line rather than its closing delimiter.
	Toggleable bool
}

// Frame is the output surface for one render pass. Render units are laid out
// into indented, styled lines; one Row is recorded per line. A Frame is
// transient: allocate one per pass (or Reset a retained one) and read the
// result after Show returns.
type Frame struct {
	lines []string
	rows  []Row

	cur    strings.Builder
	curRow Row
	open   bool // a line is in progress
	indent string
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{}
}

// Reset clears the frame for reuse.
func (f *Frame) Reset() {
	f.lines = f.lines[:0]
	f.rows = f.rows[:0]
	f.cur.Reset()
	f.curRow = Row{}
	f.open = false
}

// WriteString appends raw text to the current line. Render hooks use this for
// custom content; line structure stays renderer-controlled.
func (f *Frame) WriteString(s string) {
	f.cur.WriteString(s)
}

// styled appends text rendered in the given style.
func (f *Frame) styled(style lipgloss.Style, s string) {
	f.cur.WriteString(style.Render(s))
}

// beginLine starts a new line owned by the given row, writing its indent.
func (f *Frame) beginLine(row Row) {
	if f.open {
		f.endLine()
	}
	f.curRow = row
	f.open = true
	f.cur.WriteString(strings.Repeat(f.indent, row.Depth))
}

// endLine completes the current line.
func (f *Frame) endLine() {
	if !f.open {
		return
	}
	f.lines = append(f.lines, f.cur.String())
	f.rows = append(f.rows, f.curRow)
	f.cur.Reset()
	f.curRow = Row{}
	f.open = false
}

// Lines returns the rendered lines of the last pass.
func (f *Frame) Lines() []string {
	return f.lines
}

// Rows returns the per-line interaction records, parallel to Lines.
func (f *Frame) Rows() []Row {
	return f.rows
}

// View returns the rendered frame as a single string.
func (f *Frame) View() string {
	return strings.Join(f.lines, "\n")
}
