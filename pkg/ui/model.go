package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vanderheijden86/jsontree/pkg/config"
	"github.com/vanderheijden86/jsontree/pkg/debug"
	"github.com/vanderheijden86/jsontree/pkg/jsontree"
	"github.com/vanderheijden86/jsontree/pkg/watcher"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// focus represents which UI element has keyboard focus
type focus int

const (
	focusTree focus = iota
	focusSearch
	focusHelp
)

// FileChangedMsg is sent when the watcher reports on the viewed file. A nil
// Err means the file changed; otherwise the file itself is in trouble.
type FileChangedMsg struct {
	Err error
}

// DocReloadedMsg carries the result of re-reading the viewed file
type DocReloadedMsg struct {
	Doc *jsontree.Value
	Err error
}

// DocOpenedMsg carries the result of opening another registered document.
type DocOpenedMsg struct {
	Name string
	Path string
	Doc  *jsontree.Value
	Err  error
}

// WatchFileCmd waits for the next watcher notification.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		ev := <-w.Events()
		return FileChangedMsg{Err: ev.Err}
	}
}

// ReloadFileCmd re-reads and re-parses the viewed file.
func ReloadFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		data, err := os.ReadFile(path)
		if err != nil {
			return DocReloadedMsg{Err: fmt.Errorf("reading %s: %w", path, err)}
		}
		doc, err := jsontree.Parse(data)
		if err != nil {
			return DocReloadedMsg{Err: fmt.Errorf("parsing %s: %w", path, err)}
		}
		debug.LogTiming("reload", time.Since(start))
		return DocReloadedMsg{Doc: doc}
	}
}

// OpenDocCmd loads a registered document for viewing.
func OpenDocCmd(name, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return DocOpenedMsg{Name: name, Err: fmt.Errorf("reading %s: %w", path, err)}
		}
		doc, err := jsontree.Parse(data)
		if err != nil {
			return DocOpenedMsg{Name: name, Err: fmt.Errorf("parsing %s: %w", path, err)}
		}
		return DocOpenedMsg{Name: name, Path: path, Doc: doc}
	}
}

// Model is the bubbletea model for the JSON tree viewer.
type Model struct {
	docName string
	path    string
	doc     *jsontree.Value
	cfg     config.Config

	theme     Theme
	treeStyle jsontree.Style
	store     *jsontree.Store
	frame     *jsontree.Frame

	// basePolicy is the expansion policy without search; policy is the
	// effective one currently driving renders.
	basePolicy     jsontree.DefaultExpand
	policy         jsontree.DefaultExpand
	abbreviateRoot bool

	searchInput textinput.Model

	focused  focus
	helpView string

	// Frame snapshot of the last render; rows is parallel to lines.
	lines []string
	rows  []jsontree.Row
	resp  jsontree.Response

	cursor int
	scroll int
	width  int
	height int

	statusMsg     string
	statusIsError bool

	watcher *watcher.Watcher
}

// NewModel builds a viewer for the given document. path may be empty when
// the document came from stdin; live reload is then disabled.
func NewModel(docName, path string, doc *jsontree.Value, cfg config.Config) Model {
	theme := DefaultTheme(lipgloss.NewRenderer(os.Stdout))

	style := theme.TreeStyle()
	style.Indent = strings.Repeat(" ", cfg.View.Indent)
	switch cfg.View.Toggles {
	case "off":
		style.ToggleButtons = jsontree.ToggleHidden
	case "dimmed":
		style.ToggleButtons = jsontree.ToggleVisibleDisabled
	default:
		style.ToggleButtons = jsontree.ToggleVisibleEnabled
	}

	policy := expandPolicy(cfg.View.Expand)

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search"
	ti.CharLimit = 256
	ti.PromptStyle = theme.SearchPrompt
	ti.Cursor.Style = theme.SearchPrompt

	// Default dimensions for immediate ready state (updated when
	// WindowSizeMsg arrives), so the UI is usable before the terminal
	// reports its size.
	const defaultWidth = 120
	const defaultHeight = 40

	m := Model{
		docName:        docName,
		path:           path,
		doc:            doc,
		cfg:            cfg,
		theme:          theme,
		treeStyle:      style,
		store:          jsontree.NewStore(),
		frame:          jsontree.NewFrame(),
		basePolicy:     policy,
		policy:         policy,
		abbreviateRoot: cfg.View.AbbreviateRoot,
		searchInput:    ti,
		width:          defaultWidth,
		height:         defaultHeight,
	}
	m.startWatcher()
	m.render()
	return m
}

// expandPolicy maps the config expansion setting to a tree policy.
func expandPolicy(v string) jsontree.DefaultExpand {
	switch v {
	case "all", "":
		return jsontree.ExpandAll()
	case "none":
		return jsontree.ExpandNone()
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return jsontree.ExpandToLevel(n)
	}
	return jsontree.ExpandToLevel(1)
}

// startWatcher replaces any active watcher with one for the current path and
// returns the command that waits for its first notification.
func (m *Model) startWatcher() tea.Cmd {
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
	if m.path == "" || !m.cfg.WatchEnabled() {
		return nil
	}
	w, err := watcher.New(m.path,
		watcher.WithDebounce(time.Duration(m.cfg.Watch.DebounceMS)*time.Millisecond),
	)
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		m.setStatus(fmt.Sprintf("Live reload unavailable: %v", err), true)
		return nil
	}
	m.watcher = w
	return WatchFileCmd(w)
}

// render re-projects the document into the frame and refreshes the cached
// lines and rows.
func (m *Model) render() {
	tree := jsontree.New(m.docName, m.doc,
		jsontree.WithStyle(m.treeStyle),
		jsontree.WithDefaultExpand(m.policy),
		jsontree.WithAbbreviateRoot(m.abbreviateRoot),
	)
	m.resp = tree.Show(m.frame, m.store)
	m.lines = append(m.lines[:0], m.frame.Lines()...)
	m.rows = append(m.rows[:0], m.frame.Rows()...)

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	body := m.bodyHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+body {
		m.scroll = m.cursor - body + 1
	}
	if max := len(m.lines) - body; m.scroll > max {
		m.scroll = max
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// bodyHeight is the number of tree lines visible between the header and the
// status bar.
func (m Model) bodyHeight() int {
	h := m.height - 2
	if m.focused == focusSearch {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsError = isErr
}

// SelectedRow returns the row under the cursor.
func (m Model) SelectedRow() (jsontree.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return jsontree.Row{}, false
	}
	return m.rows[m.cursor], true
}

// Store exposes the collapse state store, mainly for tests.
func (m Model) Store() *jsontree.Store { return m.store }

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureVisible()
		return m, nil

	case FileChangedMsg:
		if m.path == "" {
			return m, nil
		}
		var rearm tea.Cmd
		if m.watcher != nil {
			rearm = WatchFileCmd(m.watcher)
		}
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("Watch: %v", msg.Err), true)
			return m, rearm
		}
		return m, tea.Batch(ReloadFileCmd(m.path), rearm)

	case DocOpenedMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return m, nil
		}
		m.docName = msg.Name
		m.path = msg.Path
		m.doc = msg.Doc
		m.cursor = 0
		m.scroll = 0
		m.searchInput.SetValue("")
		m.policy = m.basePolicy
		m.setStatus(fmt.Sprintf("Opened %s", msg.Name), false)
		cmd := m.startWatcher()
		m.render()
		return m, cmd

	case DocReloadedMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return m, nil
		}
		m.doc = msg.Doc
		m.setStatus(fmt.Sprintf("Reloaded %s", m.path), false)
		m.render()
		return m, nil

	case tea.KeyMsg:
		// Clear status message on any keypress
		m.statusMsg = ""
		m.statusIsError = false

		switch m.focused {
		case focusHelp:
			return m.handleHelpKeys(msg)
		case focusSearch:
			return m.handleSearchKeys(msg)
		default:
			return m.handleTreeKeys(msg)
		}
	}

	return m, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?", "enter":
		m.focused = focusTree
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Cancel search: restore the policy from before '/'
		m.focused = focusTree
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.policy = m.basePolicy
		m.render()
		return m, nil

	case "enter":
		// Keep the search results, return focus to the tree
		m.focused = focusTree
		m.searchInput.Blur()
		if m.searchInput.Value() == "" {
			m.policy = m.basePolicy
		}
		m.render()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		// Live-update the expansion as the term changes. The policy hash
		// changes with the term, so stale collapse state auto-resets.
		m.policy = jsontree.ExpandSearchResultsOrAll(after)
		m.render()
	}
	return m, cmd
}

func (m Model) handleTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.watcher != nil {
			m.watcher.Stop()
		}
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.ensureVisible()
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}

	case "g", "home":
		m.cursor = 0
		m.ensureVisible()

	case "G", "end":
		m.cursor = len(m.rows) - 1
		m.ensureVisible()

	case "ctrl+d", "pgdown":
		m.cursor += m.bodyHeight()
		if m.cursor > len(m.rows)-1 {
			m.cursor = len(m.rows) - 1
		}
		m.ensureVisible()

	case "ctrl+u", "pgup":
		m.cursor -= m.bodyHeight()
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureVisible()

	case "enter", " ":
		if row, ok := m.SelectedRow(); ok && row.Toggleable {
			m.store.Toggle(row.ID, row.Open)
			m.render()
		}

	case "h", "left":
		m.collapseOrAscend()

	case "l", "right":
		m.expandOrDescend()

	case "e":
		// Expand everything; the policy change auto-resets stored state.
		m.basePolicy = jsontree.ExpandAll()
		m.policy = m.basePolicy
		m.render()

	case "c":
		m.basePolicy = jsontree.ExpandNone()
		m.policy = m.basePolicy
		m.render()

	case "R":
		// Re-apply the current policy, discarding manual toggles.
		m.resp.ResetExpanded(m.store)
		m.render()

	case "r":
		if m.path != "" {
			return m, ReloadFileCmd(m.path)
		}

	case "y":
		if row, ok := m.SelectedRow(); ok {
			if err := clipboard.WriteAll(row.Pointer); err != nil {
				m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
			} else {
				m.setStatus(fmt.Sprintf("Copied pointer %q", row.Pointer), false)
			}
		}

	case "Y":
		if row, ok := m.SelectedRow(); ok {
			if sub, found := m.doc.LookupPointer(row.Pointer); found {
				if err := clipboard.WriteAll(string(sub.JSON())); err != nil {
					m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
				} else {
					m.setStatus(fmt.Sprintf("Copied value at %q", row.Pointer), false)
				}
			}
		}

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return m, m.openFavorite(int(msg.String()[0] - '0'))

	case "F":
		m.favoriteCurrent()

	case "/":
		m.focused = focusSearch
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink

	case "esc":
		// Clear an active search filter
		if m.policy != m.basePolicy {
			m.policy = m.basePolicy
			m.searchInput.SetValue("")
			m.render()
		}

	case "?":
		if m.helpView == "" {
			m.helpView = renderHelp(m.width)
		}
		m.focused = focusHelp
	}

	return m, nil
}

// openFavorite loads the document bound to number key n.
func (m *Model) openFavorite(n int) tea.Cmd {
	doc := m.cfg.FavoriteDocument(n)
	if doc == nil {
		m.setStatus(fmt.Sprintf("No favorite bound to %d", n), true)
		return nil
	}
	return OpenDocCmd(doc.Name, doc.ResolvedPath())
}

// favoriteCurrent registers the current document under the lowest free number
// key and persists the config.
func (m *Model) favoriteCurrent() {
	if m.path == "" {
		m.setStatus("Cannot favorite stdin input", true)
		return
	}
	for n := 1; n <= 9; n++ {
		if strings.EqualFold(m.cfg.Favorites[n], m.docName) {
			m.setStatus(fmt.Sprintf("%s is already favorite %d", m.docName, n), false)
			return
		}
	}
	slot := 0
	for n := 1; n <= 9; n++ {
		if m.cfg.Favorites[n] == "" {
			slot = n
			break
		}
	}
	if slot == 0 {
		m.setStatus("All favorite slots are taken", true)
		return
	}
	if m.cfg.FindDocument(m.docName) == nil {
		m.cfg.Documents = append(m.cfg.Documents, config.Document{Name: m.docName, Path: m.path})
	}
	m.cfg.SetFavorite(slot, m.docName)
	if err := config.Save(m.cfg); err != nil {
		m.setStatus(fmt.Sprintf("Saving config: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Favorited %s as %d", m.docName, slot), false)
}

// collapseOrAscend collapses the current node, or moves to its parent when it
// is already collapsed or not expandable.
func (m *Model) collapseOrAscend() {
	row, ok := m.SelectedRow()
	if !ok {
		return
	}
	if row.Toggleable && row.Open {
		m.store.Set(row.ID, false)
		m.render()
		return
	}
	// Jump to the closest row above with a smaller depth.
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].Depth < row.Depth {
			m.cursor = i
			m.ensureVisible()
			return
		}
	}
}

// expandOrDescend expands the current node, or moves into its first child
// when it is already expanded.
func (m *Model) expandOrDescend() {
	row, ok := m.SelectedRow()
	if !ok {
		return
	}
	if row.Toggleable && !row.Open {
		m.store.Set(row.ID, true)
		m.render()
		return
	}
	if row.Expandable && row.Open && m.cursor < len(m.rows)-1 {
		m.cursor++
		m.ensureVisible()
	}
}

func (m Model) View() string {
	var b strings.Builder

	// Header
	title := fmt.Sprintf("jv %s %s", m.docName, m.theme.MutedText.Render(m.path))
	b.WriteString(m.theme.Header.Render(title))
	b.WriteString("\n")

	// Body window
	body := m.bodyHeight()
	end := m.scroll + body
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for i := m.scroll; i < end; i++ {
		line := m.lines[i]
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := end - m.scroll; i < body; i++ {
		b.WriteString("\n")
	}

	// Search input
	if m.focused == focusSearch {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	// Status bar
	b.WriteString(m.statusLine())

	view := b.String()
	if m.focused == focusHelp {
		return m.helpOverlay()
	}
	return view
}

func (m Model) statusLine() string {
	if m.statusMsg != "" {
		if m.statusIsError {
			return m.theme.StatusError.Render(m.statusMsg)
		}
		return m.theme.StatusBar.Render(m.statusMsg)
	}

	pointer := ""
	if row, ok := m.SelectedRow(); ok {
		pointer = row.Pointer
	}
	left := fmt.Sprintf("%s  %d/%d", pointer, m.cursor+1, len(m.rows))
	if term := m.searchInput.Value(); term != "" {
		left += fmt.Sprintf("  /%s", term)
	}
	return m.theme.StatusBar.Render(left)
}

func (m Model) helpOverlay() string {
	content := m.helpView
	if content == "" {
		content = renderHelp(m.width)
	}
	box := m.theme.HelpBox.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
