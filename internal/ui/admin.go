package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flywindva/hicrew-tui/internal/manager"
	"github.com/flywindva/hicrew-tui/internal/resources"
	"github.com/flywindva/hicrew-tui/internal/schema"
)

// enterAdmin opens the admin section list, filtered to the sections the
// signed-in pilot is allowed to manage.
func (m *Model) enterAdmin() {
	var sections []schema.Schema
	for _, s := range resources.All() {
		if s.Capability != "" && !m.session.Has(s.Capability) {
			continue
		}
		sections = append(sections, s)
	}
	m.sections = sections
	if m.adminRow >= len(sections) {
		m.adminRow = 0
	}
	m.currentView = ViewAdmin
}

func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.sections)
	if count == 0 {
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.adminRow < count-1 {
			m.adminRow++
		}
	case "k", "up":
		if m.adminRow > 0 {
			m.adminRow--
		}
	case "g", "home":
		m.adminRow = 0
	case "G", "end":
		m.adminRow = count - 1
	case "enter":
		return m.openManager(m.sections[m.adminRow])
	}

	return m, nil
}

// openManager switches to the list view for one resource, creating its
// controller on first visit and loading the collection if needed.
func (m Model) openManager(s schema.Schema) (tea.Model, tea.Cmd) {
	ctrl, ok := m.managers[s.Resource]
	if !ok {
		ctrl = manager.New(s, m.client)
		m.managers[s.Resource] = ctrl
	}
	m.active = ctrl
	m.mgr = managerState{}
	m.currentView = ViewManager

	if !ctrl.Loaded() {
		return m, refreshCmd(m.ctx, ctrl)
	}
	return m, nil
}

// renderAdmin renders the admin section list.
func (m Model) renderAdmin() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render("Administration"))
	b.WriteString("\n\n")

	if len(m.sections) == 0 {
		b.WriteString(styles.MutedText.Render("No sections available for your account."))
		return b.String()
	}

	for i, s := range m.sections {
		line := s.Title
		if i == m.adminRow {
			b.WriteString(styles.Selected.Render(" " + line + " "))
		} else {
			b.WriteString(styles.Text.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter: open  esc: home"))
	return b.String()
}
