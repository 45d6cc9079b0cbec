package main

func (m *model) handleNavigation(key string, speed int) {
	switch key {
	case "k", "up", "K", "shift+up":
		m.selected -= speed
	case "j", "down", "J", "shift+down":
		m.selected += speed
	case "home", "g":
		m.selected = 0
	case "end", "G":
		m.selected = len(m.visibleKinds()) - 1
	}
	m.clampSelection()
}

// handleScroll moves the sidebar window without changing the selection
// unless it would fall out of view.
func (m *model) handleScroll(delta int) {
	m.sidebarScroll += delta
	n := len(m.visibleKinds())
	rows := m.listRows()
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
	if m.selected < m.sidebarScroll {
		m.selected = m.sidebarScroll
	}
	if rows > 0 && m.selected >= m.sidebarScroll+rows {
		m.selected = m.sidebarScroll + rows - 1
	}
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "K", "J", "shift+up", "shift+down":
		return 5
	default:
		return 1
	}
}
