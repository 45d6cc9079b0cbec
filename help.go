package main

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# elemerge

Drag elements from the sidebar onto the canvas. Drop one tile on top of
another to find out what they make. New discoveries join the sidebar.

## Mouse

| Action | Effect |
|--------|--------|
| Drag a sidebar entry | Pick up a fresh tile |
| Drag a tile | Move it |
| Release near another tile | Merge the two |
| Release outside the canvas | Cancel |
| Wheel over the sidebar | Scroll |

## Keys

| Key | Effect |
|-----|--------|
| ` + "`/`" + ` | Filter the sidebar |
| ` + "`j` `k` `↑` `↓`" + ` | Move the sidebar selection (shift for 5) |
| ` + "`enter`" + ` | Drop the selected element in the middle of the canvas |
| ` + "`y`" + ` | Copy every discovery to the clipboard |
| ` + "`p`" + ` | Paste the clipboard into the filter |
| ` + "`s`" + ` | Export the canvas as PNG |
| ` + "`t`" + ` | Export the canvas as text |
| ` + "`x`" + ` | Clear the canvas |
| ` + "`esc`" + ` | Cancel a drag or leave the filter |
| ` + "`?`" + ` | Toggle this help |
| ` + "`q`" + ` | Quit |

Merges that the service cannot answer leave the tile where you dropped it.
`

func newHelpRenderer(style string, width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return renderer
}

func (m *model) helpLines() []string {
	text := helpMarkdown
	if m.helpRenderer != nil {
		if out, err := m.helpRenderer.Render(helpMarkdown); err == nil {
			text = out
		}
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func (m *model) maxHelpScroll() int {
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	maxScroll := len(m.helpLines()) - visibleHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	return maxScroll
}

func (m model) helpView() string {
	lines := m.helpLines()
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	start := m.helpScroll
	if start > len(lines) {
		start = len(lines)
	}
	end := start + visibleHeight
	if end > len(lines) {
		end = len(lines)
	}

	var result strings.Builder
	for _, line := range lines[start:end] {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString(statusStyle.Render("j/k scroll · esc close"))
	return result.String()
}
