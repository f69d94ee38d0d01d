package testutil

import (
	"regexp"
	"testing"

	"github.com/vanderheijden86/jsontree/pkg/jsontree"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape sequences so rendered output can be compared
// as plain text.
func StripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// AssertRowCount verifies the number of rendered rows in a frame.
func AssertRowCount(t *testing.T, f *jsontree.Frame, expected int) {
	t.Helper()
	if got := len(f.Rows()); got != expected {
		t.Errorf("expected %d rows, got %d", expected, got)
	}
}

// AssertPointerExists verifies that a JSON Pointer resolves in the document.
func AssertPointerExists(t *testing.T, doc *jsontree.Value, pointer string) {
	t.Helper()
	if _, ok := doc.LookupPointer(pointer); !ok {
		t.Errorf("pointer %q does not resolve", pointer)
	}
}

// AssertRowPointers verifies that every row's pointer resolves against the
// document it was rendered from.
func AssertRowPointers(t *testing.T, doc *jsontree.Value, f *jsontree.Frame) {
	t.Helper()
	for i, row := range f.Rows() {
		if _, ok := doc.LookupPointer(row.Pointer); !ok {
			t.Errorf("row %d: pointer %q does not resolve", i, row.Pointer)
		}
	}
}

// AssertUniqueRowIDs verifies header rows carry distinct node identities.
// Closing delimiter rows legitimately repeat their header's ID and are
// skipped.
func AssertUniqueRowIDs(t *testing.T, f *jsontree.Frame) {
	t.Helper()
	seen := make(map[jsontree.ID]bool)
	for i, row := range f.Rows() {
		if row.Expandable && !row.Toggleable {
			continue // closing delimiter line
		}
		if seen[row.ID] {
			t.Errorf("row %d: duplicate node ID %d", i, row.ID)
		}
		seen[row.ID] = true
	}
}
