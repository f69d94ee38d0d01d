package ui

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/jsontree/pkg/config"
	"github.com/vanderheijden86/jsontree/pkg/jsontree"
	"github.com/vanderheijden86/jsontree/pkg/watcher"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string { return ansiRe.ReplaceAllString(s, "") }

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	watch := false
	cfg.Watch.Enabled = &watch
	cfg.View.Expand = "all"
	return cfg
}

func newTestModel(t *testing.T, src string, cfg config.Config) Model {
	t.Helper()
	doc, err := jsontree.ParseString(src)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return NewModel("test", "", doc, cfg)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func press(m Model, keys ...string) Model {
	for _, key := range keys {
		next, _ := m.Update(keyMsg(key))
		m = next.(Model)
	}
	return m
}

func typeRunes(m Model, s string) Model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

const fixture = `{"name":"jv","nested":{"deep":{"leaf":1}},"tags":["a","b"]}`

func TestModelStartsExpanded(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())

	if len(m.rows) < 7 {
		t.Fatalf("expected fully expanded tree, got %d rows", len(m.rows))
	}
	if m.cursor != 0 {
		t.Errorf("cursor should start at 0, got %d", m.cursor)
	}
}

func TestModelNavigation(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())

	m = press(m, "j", "j")
	if m.cursor != 2 {
		t.Errorf("after jj: cursor = %d, want 2", m.cursor)
	}
	m = press(m, "k")
	if m.cursor != 1 {
		t.Errorf("after k: cursor = %d, want 1", m.cursor)
	}
	m = press(m, "G")
	if m.cursor != len(m.rows)-1 {
		t.Errorf("after G: cursor = %d, want %d", m.cursor, len(m.rows)-1)
	}
	m = press(m, "g")
	if m.cursor != 0 {
		t.Errorf("after g: cursor = %d, want 0", m.cursor)
	}
	// Moving past the ends clamps
	m = press(m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.cursor)
	}
}

func TestModelToggleCollapsesRoot(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())
	expanded := len(m.rows)

	m = press(m, "enter")
	if len(m.rows) >= expanded {
		t.Fatalf("expected fewer rows after collapsing root, got %d (was %d)", len(m.rows), expanded)
	}

	m = press(m, "enter")
	if len(m.rows) != expanded {
		t.Errorf("expected %d rows after re-expanding, got %d", expanded, len(m.rows))
	}
}

func TestModelCollapseAllExpandAll(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())
	expanded := len(m.rows)

	m = press(m, "c")
	if len(m.rows) != 1 {
		t.Fatalf("after c: expected single collapsed root row, got %d", len(m.rows))
	}

	m = press(m, "e")
	if len(m.rows) != expanded {
		t.Errorf("after e: expected %d rows, got %d", expanded, len(m.rows))
	}
}

func TestModelManualToggleThenReset(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())
	expanded := len(m.rows)

	// Collapse the nested object manually.
	for i, row := range m.rows {
		if row.Pointer == "/nested" && row.Toggleable {
			m.cursor = i
			break
		}
	}
	m = press(m, "enter")
	if len(m.rows) >= expanded {
		t.Fatalf("expected manual collapse to drop rows, got %d", len(m.rows))
	}

	// R discards manual state, restoring the expand-all policy.
	m = press(m, "R")
	if len(m.rows) != expanded {
		t.Errorf("after R: expected %d rows, got %d", expanded, len(m.rows))
	}
}

func TestModelCollapseOrAscend(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())

	// Move onto /nested/deep/leaf (a base row) and press h twice: first jump
	// to the parent header, then collapse it.
	leaf := -1
	for i, row := range m.rows {
		if row.Pointer == "/nested/deep/leaf" {
			leaf = i
			break
		}
	}
	if leaf == -1 {
		t.Fatal("fixture row /nested/deep/leaf not found")
	}
	m.cursor = leaf

	m = press(m, "h")
	row, ok := m.SelectedRow()
	if !ok || row.Pointer == "/nested/deep/leaf" {
		t.Fatalf("h should ascend from a base row, cursor still on %q", row.Pointer)
	}
	if !row.Expandable {
		t.Fatalf("expected an expandable ancestor, got %q", row.Pointer)
	}

	before := len(m.rows)
	m = press(m, "h")
	if len(m.rows) >= before {
		t.Errorf("second h should collapse %q, rows %d -> %d", row.Pointer, before, len(m.rows))
	}
}

func TestModelSearchExpandsMatches(t *testing.T) {
	cfg := testConfig()
	cfg.View.Expand = "0" // everything collapsed below the root
	m := newTestModel(t, fixture, cfg)
	collapsed := len(m.rows)

	m = press(m, "/")
	if m.focused != focusSearch {
		t.Fatal("'/' should focus the search input")
	}
	m = typeRunes(m, "leaf")
	if len(m.rows) <= collapsed {
		t.Fatalf("search for 'leaf' should expand ancestors, rows %d -> %d", collapsed, len(m.rows))
	}

	m = press(m, "enter")
	if m.focused != focusTree {
		t.Error("enter should return focus to the tree")
	}
	if m.searchInput.Value() != "leaf" {
		t.Errorf("committed term = %q, want 'leaf'", m.searchInput.Value())
	}

	// esc clears the filter and restores the base policy.
	m = press(m, "esc")
	if len(m.rows) != collapsed {
		t.Errorf("after esc: expected %d rows, got %d", collapsed, len(m.rows))
	}
}

func TestModelSearchCancel(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())
	base := len(m.rows)

	m = press(m, "/")
	m = typeRunes(m, "zzz-no-match")
	m = press(m, "esc")

	if m.focused != focusTree {
		t.Error("esc should leave search mode")
	}
	if m.searchInput.Value() != "" {
		t.Errorf("esc should clear the term, got %q", m.searchInput.Value())
	}
	if len(m.rows) != base {
		t.Errorf("esc should restore the base expansion, rows %d -> %d", base, len(m.rows))
	}
}

func TestModelReload(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())

	doc, err := jsontree.ParseString(`{"replaced":true}`)
	if err != nil {
		t.Fatal(err)
	}
	next, _ := m.Update(DocReloadedMsg{Doc: doc})
	m = next.(Model)

	joined := stripANSI(strings.Join(m.lines, "\n"))
	if !strings.Contains(joined, "replaced") {
		t.Errorf("reloaded document not rendered:\n%s", joined)
	}
}

func TestModelReloadError(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())
	before := len(m.rows)

	next, _ := m.Update(DocReloadedMsg{Err: errFixture("boom")})
	m = next.(Model)

	if !m.statusIsError {
		t.Error("reload error should set an error status")
	}
	if len(m.rows) != before {
		t.Error("reload error must not touch the rendered document")
	}
}

type errFixture string

func (e errFixture) Error() string { return string(e) }

func TestModelHelpOverlay(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())

	m = press(m, "?")
	if m.focused != focusHelp {
		t.Fatal("'?' should open help")
	}
	if v := m.View(); v == "" {
		t.Error("help view should not be empty")
	}

	m = press(m, "esc")
	if m.focused != focusTree {
		t.Error("esc should close help")
	}
}

func TestModelViewShowsPointer(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())
	m = press(m, "j")

	row, _ := m.SelectedRow()
	view := stripANSI(m.View())
	if row.Pointer != "" && !strings.Contains(view, row.Pointer) {
		t.Errorf("status bar should show pointer %q", row.Pointer)
	}
}

func TestModelExpandNoneStartsCollapsed(t *testing.T) {
	cfg := testConfig()
	cfg.View.Expand = "none"
	m := newTestModel(t, fixture, cfg)

	if len(m.rows) != 1 {
		t.Fatalf("expand 'none': expected the collapsed root row only, got %d rows", len(m.rows))
	}
	if row, _ := m.SelectedRow(); row.Open {
		t.Error("expand 'none': root row should be closed")
	}
}

func TestExpandPolicyMapping(t *testing.T) {
	tests := []struct {
		value string
		want  jsontree.DefaultExpand
	}{
		{"all", jsontree.ExpandAll()},
		{"", jsontree.ExpandAll()},
		{"none", jsontree.ExpandNone()},
		{"0", jsontree.ExpandToLevel(0)},
		{"3", jsontree.ExpandToLevel(3)},
		{"bogus", jsontree.ExpandToLevel(1)},
	}
	for _, tt := range tests {
		if got := expandPolicy(tt.value); got != tt.want {
			t.Errorf("expandPolicy(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestModelOpenFavorite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beta.json")
	if err := os.WriteFile(path, []byte(`{"beta":true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.Documents = []config.Document{{Name: "beta", Path: path}}
	cfg.SetFavorite(2, "beta")
	m := newTestModel(t, fixture, cfg)

	next, cmd := m.Update(keyMsg("2"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("pressing 2 should issue an open command")
	}
	msg, ok := cmd().(DocOpenedMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("open command returned %#v", msg)
	}

	next, _ = m.Update(msg)
	m = next.(Model)
	if m.docName != "beta" {
		t.Errorf("docName = %q, want 'beta'", m.docName)
	}
	if joined := stripANSI(strings.Join(m.lines, "\n")); !strings.Contains(joined, "beta") {
		t.Errorf("favorite document not rendered:\n%s", joined)
	}
}

func TestModelOpenFavoriteUnbound(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())

	next, cmd := m.Update(keyMsg("5"))
	m = next.(Model)
	if cmd != nil {
		t.Error("unbound favorite must not issue a command")
	}
	if !m.statusIsError {
		t.Error("unbound favorite should set an error status")
	}
}

func TestModelFavoriteCurrentSavesConfig(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgDir)

	docDir := t.TempDir()
	path := filepath.Join(docDir, "data.json")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := jsontree.ParseString(fixture)
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel("data.json", path, doc, testConfig())

	m = press(m, "F")
	if m.statusIsError {
		t.Fatalf("favoriting failed: %s", m.statusMsg)
	}

	saved, err := config.LoadFrom(filepath.Join(cfgDir, "jv", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if saved.Favorites[1] != "data.json" {
		t.Errorf("favorite 1 = %q, want 'data.json'", saved.Favorites[1])
	}
	if d := saved.FindDocument("data.json"); d == nil || d.Path != path {
		t.Errorf("document registration missing or wrong: %+v", d)
	}

	// A second press is a no-op, not a second slot.
	m = press(m, "F")
	saved, err = config.LoadFrom(filepath.Join(cfgDir, "jv", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if saved.Favorites[2] != "" {
		t.Errorf("re-favoriting claimed slot 2: %q", saved.Favorites[2])
	}
}

func TestModelWatchErrorSetsStatus(t *testing.T) {
	doc, err := jsontree.ParseString(fixture)
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel("doc.json", "/tmp/doc.json", doc, testConfig())
	before := len(m.rows)

	next, _ := m.Update(FileChangedMsg{Err: watcher.ErrRemoved})
	m = next.(Model)

	if !m.statusIsError {
		t.Error("a watch error should set an error status")
	}
	if len(m.rows) != before {
		t.Error("a watch error must not touch the rendered document")
	}
}

func TestModelWindowResizeClampsScroll(t *testing.T) {
	m := newTestModel(t, fixture, testConfig())
	m = press(m, "G")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 6})
	m = next.(Model)

	if m.cursor < m.scroll || m.cursor >= m.scroll+m.bodyHeight() {
		t.Errorf("cursor %d not visible in window [%d, %d)", m.cursor, m.scroll, m.scroll+m.bodyHeight())
	}
}
