package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f2f2f2")).Background(lipgloss.Color("#1e2a3d"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7a90"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))

	canvasStyles = map[cellStyle]lipgloss.Style{
		styleTile:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f2f2f2")),
		styleGhost: lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7a90")).Faint(true),
	}
)

func (m model) View() string {
	if m.width < 1 || m.height < 1 {
		return ""
	}
	if m.mode == ModeHelp {
		return m.helpView()
	}

	var result strings.Builder

	header := fmt.Sprintf(" elemerge · %d discovered · %d on canvas", m.catalog.Len(), m.surface.Store().Len())
	result.WriteString(headerStyle.Width(m.width).MaxWidth(m.width).MaxHeight(1).Render(header))
	result.WriteString("\n")

	canvasLines := m.canvas.Render(m.canvasWidth(), m.canvasHeight(), m.drag).styled(canvasStyles)
	sidebarLines := m.renderSidebar()
	for i := 0; i < m.canvasHeight(); i++ {
		if i < len(canvasLines) {
			result.WriteString(canvasLines[i])
		}
		if i < len(sidebarLines) {
			result.WriteString(sidebarLines[i])
		}
		result.WriteString("\n")
	}

	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) statusLine() string {
	width := m.width
	switch {
	case m.errorMessage != "":
		return errorStyle.MaxWidth(width).Render(m.errorMessage)
	case m.successMessage != "":
		return successStyle.MaxWidth(width).Render(m.successMessage)
	}
	return statusStyle.MaxWidth(width).Render(m.modeString() + " · drag tiles together to merge · ? help · q quit")
}

func (m model) modeString() string {
	switch m.mode {
	case ModeFilter:
		return "FILTER"
	case ModeHelp:
		return "HELP"
	}
	if m.drag != nil {
		return "DRAG"
	}
	return "NORMAL"
}
