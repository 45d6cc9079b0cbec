package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"elemerge/internal/catalog"
)

var (
	sidebarBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2a3850"))
	sidebarTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	sidebarEntryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f2f2f2"))
	sidebarActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#141d2b")).Background(lipgloss.Color("#8BC34A"))
	sidebarMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7a90"))
)

func (m *model) sidebarWidth() int {
	w := m.config.SidebarWidth
	if w < minSidebarWidth {
		w = minSidebarWidth
	}
	if w > m.width {
		w = m.width
	}
	return w
}

func (m *model) canvasWidth() int {
	w := m.width - m.sidebarWidth()
	if w < 0 {
		return 0
	}
	return w
}

func (m *model) canvasHeight() int {
	h := m.height - headerRows - statusRows
	if h < 0 {
		return 0
	}
	return h
}

// sidebarLeft is the screen column of the sidebar's border.
func (m *model) sidebarLeft() int {
	return m.canvasWidth()
}

// entryLeft is the screen column where an entry's label starts.
func (m *model) entryLeft() int {
	return m.sidebarLeft() + 2
}

func (m *model) visibleKinds() []catalog.Kind {
	return m.catalog.Filter(m.filter.Value())
}

func (m *model) listRows() int {
	rows := m.height - statusRows - sidebarListTop
	if rows < 0 {
		return 0
	}
	return rows
}

// entryAt returns the catalog entry drawn on the screen row, if any.
func (m *model) entryAt(col, row int) (catalog.Kind, int, bool) {
	if col <= m.sidebarLeft() || row < sidebarListTop || row >= sidebarListTop+m.listRows() {
		return catalog.Kind{}, -1, false
	}
	kinds := m.visibleKinds()
	idx := m.sidebarScroll + row - sidebarListTop
	if idx < 0 || idx >= len(kinds) {
		return catalog.Kind{}, -1, false
	}
	return kinds[idx], idx, true
}

func (m *model) clampSelection() {
	n := len(m.visibleKinds())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	rows := m.listRows()
	if rows < 1 {
		rows = 1
	}
	if m.selected < m.sidebarScroll {
		m.sidebarScroll = m.selected
	}
	if m.selected >= m.sidebarScroll+rows {
		m.sidebarScroll = m.selected - rows + 1
	}
	maxScroll := n - rows
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.sidebarScroll > maxScroll {
		m.sidebarScroll = maxScroll
	}
	if m.sidebarScroll < 0 {
		m.sidebarScroll = 0
	}
}

// renderSidebar returns one line per screen row between the header and
// the status line.
func (m *model) renderSidebar() []string {
	width := m.sidebarWidth()
	inner := width - 1
	if inner < 0 {
		inner = 0
	}
	rows := m.height - headerRows - statusRows
	if rows < 0 {
		rows = 0
	}

	pad := func(s string, st lipgloss.Style) string {
		return sidebarBorderStyle.Render("│") + st.Width(inner).MaxWidth(inner).MaxHeight(1).Render(s)
	}

	kinds := m.visibleKinds()
	lines := make([]string, 0, rows)
	for screenRow := headerRows; screenRow < headerRows+rows; screenRow++ {
		switch {
		case screenRow == sidebarTitleRow:
			lines = append(lines, pad(fmt.Sprintf(" Elements (%d)", m.catalog.Len()), sidebarTitleStyle))
		case screenRow == sidebarFilterRow:
			lines = append(lines, pad(" "+m.filter.View(), lipgloss.NewStyle()))
		case screenRow < sidebarListTop:
			lines = append(lines, pad(" "+strings.Repeat("─", max(inner-2, 0)), sidebarMutedStyle))
		default:
			idx := m.sidebarScroll + screenRow - sidebarListTop
			switch {
			case idx < len(kinds):
				st := sidebarEntryStyle
				if idx == m.selected {
					st = sidebarActiveStyle
				}
				lines = append(lines, pad(" "+runewidth.Truncate(kinds[idx].Label(), inner-1, "…"), st))
			case idx == 0:
				lines = append(lines, pad(" no matches", sidebarMutedStyle))
			default:
				lines = append(lines, pad("", lipgloss.NewStyle()))
			}
		}
	}
	return lines
}
