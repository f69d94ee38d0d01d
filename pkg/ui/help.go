package ui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# jv keys

## Navigation

| Key | Action |
|-----|--------|
| j / ↓ | Move down |
| k / ↑ | Move up |
| g / G | Jump to top / bottom |
| ctrl+d / ctrl+u | Page down / up |

## Tree

| Key | Action |
|-----|--------|
| enter / space | Toggle the selected node |
| h / l | Collapse or ascend / expand or descend |
| e / c | Expand all / collapse all |
| R | Reset to the default expansion |

## Search

| Key | Action |
|-----|--------|
| / | Search keys and values |
| enter | Keep results, leave search |
| esc | Clear the search filter |

## Other

| Key | Action |
|-----|--------|
| y | Copy the JSON Pointer of the selection |
| Y | Copy the selected subtree as JSON |
| r | Reload the file |
| 1-9 | Open the favorite document on that key |
| F | Favorite the current document |
| ? | Toggle this help |
| q | Quit |
`

// renderHelp renders the help markdown for the terminal. Falls back to the
// raw markdown if glamour cannot build a renderer.
func renderHelp(width int) string {
	wrap := width - 8
	if wrap > 72 {
		wrap = 72
	}
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
