package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flywindva/hicrew-tui/internal/api"
	"github.com/flywindva/hicrew-tui/internal/manager"
	"github.com/flywindva/hicrew-tui/internal/session"
)

// renderHome renders the pilot dashboard.
func (m Model) renderHome() string {
	styles := m.theme.Styles()
	var b strings.Builder

	pilot := m.session.Pilot()

	b.WriteString(styles.AccentText.Bold(true).Render("Pilot dashboard"))
	b.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Callsign", pilot.Callsign},
		{"Rank", pilot.Rank},
		{"Hub", pilot.Hub},
		{"Airline", pilot.Airline},
		{"Hours", fmt.Sprintf("%.1f", pilot.Hours)},
	}
	for _, row := range rows {
		value := row.value
		if value == "" {
			value = "-"
		}
		b.WriteString(styles.Label.Render(row.label))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	online := len(m.trafficSnap.Flights)
	if m.trafficSnap.IsOffline() {
		b.WriteString(styles.DangerText.Render("Tracking networks unreachable"))
	} else {
		b.WriteString(styles.Text.Render(fmt.Sprintf("%d flights online", online)))
	}
	b.WriteString("\n\n")

	if m.pendingAccountDelete {
		b.WriteString(styles.DangerText.Render("Delete your account permanently? y/n"))
	} else {
		b.WriteString(styles.FaintText.Render("A: admin  M: live map  ctrl+l: log out  X: delete account  ?: help"))
	}
	return b.String()
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pendingAccountDelete {
		m.pendingAccountDelete = false
		if msg.String() == "y" {
			return m, deleteAccountCmd(m.ctx, m.client, m.session)
		}
		return m, nil
	}

	if msg.String() == "X" {
		m.pendingAccountDelete = true
		return m, nil
	}
	return m, nil
}

type accountDeletedMsg struct {
	errMsg string
}

func deleteAccountCmd(ctx context.Context, client *api.Client, sess *session.Store) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteAccount(ctx); err != nil {
			return accountDeletedMsg{errMsg: api.UserMessage(err)}
		}
		sess.Invalidate()
		return accountDeletedMsg{}
	}
}

func (m Model) handleAccountDeleted(msg accountDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.errMsg != "" {
		m.notice = msg.errMsg
		return m, nil
	}
	m.currentView = ViewAuth
	m.auth = newAuthState()
	m.auth.errMsg = "account deleted"
	m.active = nil
	m.managers = make(map[string]*manager.Controller)
	return m, m.auth.focusCmd()
}
