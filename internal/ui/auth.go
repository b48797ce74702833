package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flywindva/hicrew-tui/internal/api"
	"github.com/flywindva/hicrew-tui/internal/prefs"
	"github.com/flywindva/hicrew-tui/internal/session"
)

// authMode selects between the login and registration forms.
type authMode int

const (
	authLogin authMode = iota
	authRegister
)

// authField identifies the inputs of both forms. Login uses email+password;
// registration uses all of them.
const (
	fieldFirstName = iota
	fieldLastName
	fieldEmail
	fieldPassword
	authFieldCount
)

var authLabels = [authFieldCount]string{
	"First name",
	"Last name",
	"Email",
	"Password",
}

// authState holds the sign-in view state.
type authState struct {
	mode   authMode
	inputs [authFieldCount]textinput.Model
	focus  int
	busy   bool
	errMsg string
}

func newAuthState() authState {
	var s authState

	for i := range s.inputs {
		ti := textinput.New()
		ti.Placeholder = authLabels[i]
		ti.CharLimit = 120
		ti.Width = 40
		s.inputs[i] = ti
	}
	s.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	s.inputs[fieldPassword].EchoCharacter = '*'

	s.focus = fieldEmail
	s.inputs[s.focus].Focus()
	return s
}

// fields returns the active input indices for the current mode, in tab order.
func (s *authState) fields() []int {
	if s.mode == authRegister {
		return []int{fieldFirstName, fieldLastName, fieldEmail, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (s *authState) focusCmd() tea.Cmd {
	for i := range s.inputs {
		s.inputs[i].Blur()
	}
	return s.inputs[s.focus].Focus()
}

func (s *authState) moveFocus(delta int) tea.Cmd {
	fields := s.fields()
	pos := 0
	for i, f := range fields {
		if f == s.focus {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	s.focus = fields[pos]
	return s.focusCmd()
}

func (s *authState) toggleMode() tea.Cmd {
	if s.mode == authLogin {
		s.mode = authRegister
		s.focus = fieldFirstName
	} else {
		s.mode = authLogin
		s.focus = fieldEmail
	}
	s.errMsg = ""
	return s.focusCmd()
}

// handleAuthKey processes keyboard input for the sign-in view.
func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.auth.busy {
		// A login request is outstanding; swallow everything but quit.
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		return m, m.auth.moveFocus(1)

	case "shift+tab", "up":
		return m, m.auth.moveFocus(-1)

	case "ctrl+r":
		return m, m.auth.toggleMode()

	case "enter":
		fields := m.auth.fields()
		if m.auth.focus != fields[len(fields)-1] {
			return m, m.auth.moveFocus(1)
		}
		return m.submitAuth()
	}

	var cmd tea.Cmd
	m.auth.inputs[m.auth.focus], cmd = m.auth.inputs[m.auth.focus].Update(msg)
	return m, cmd
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.auth.inputs[fieldEmail].Value())
	password := m.auth.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		m.auth.errMsg = "email and password are required"
		return m, nil
	}

	m.auth.busy = true
	m.auth.errMsg = ""

	if m.auth.mode == authRegister {
		payload := map[string]any{
			"first_name": strings.TrimSpace(m.auth.inputs[fieldFirstName].Value()),
			"last_name":  strings.TrimSpace(m.auth.inputs[fieldLastName].Value()),
			"email":      email,
			"password":   password,
		}
		return m, registerCmd(m.ctx, m.client, m.session, m.credsPath, payload)
	}
	return m, loginCmd(m.ctx, m.client, m.session, m.credsPath, email, password)
}

func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.auth.busy = false
	if msg.errMsg != "" {
		m.auth.errMsg = msg.errMsg
		return m, nil
	}
	m.currentView = ViewHome
	m.auth = newAuthState()
	return m, nil
}

// renderAuth renders the login or registration form.
func (m Model) renderAuth() string {
	styles := m.theme.Styles()
	var b strings.Builder

	title := "Sign in"
	if m.auth.mode == authRegister {
		title = "Join the airline"
	}
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n\n")

	for _, f := range m.auth.fields() {
		b.WriteString(styles.Label.Render(authLabels[f]))
		b.WriteString(m.auth.inputs[f].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.auth.busy {
		b.WriteString(styles.MutedText.Render("Signing in..."))
	} else if m.auth.errMsg != "" {
		b.WriteString(styles.DangerText.Render(m.auth.errMsg))
	}
	b.WriteString("\n\n")

	switchHint := "ctrl+r: create an account"
	if m.auth.mode == authRegister {
		switchHint = "ctrl+r: back to sign in"
	}
	b.WriteString(styles.FaintText.Render("enter: submit  tab: next field  " + switchHint))
	return b.String()
}

// Messages

type authDoneMsg struct {
	errMsg string
}

// Commands

func loginCmd(ctx context.Context, client *api.Client, sess *session.Store, credsPath, email, password string) tea.Cmd {
	return func() tea.Msg {
		token, pilot, err := client.Login(ctx, email, password)
		if err != nil {
			return authDoneMsg{errMsg: api.UserMessage(err)}
		}
		sess.Begin(token, pilot)
		if credsPath != "" {
			_ = prefs.SaveCredentials(credsPath, prefs.Credentials{Token: token})
		}
		return authDoneMsg{}
	}
}

func registerCmd(ctx context.Context, client *api.Client, sess *session.Store, credsPath string, payload map[string]any) tea.Cmd {
	return func() tea.Msg {
		token, pilot, err := client.Register(ctx, payload)
		if err != nil {
			return authDoneMsg{errMsg: api.UserMessage(err)}
		}
		sess.Begin(token, pilot)
		if credsPath != "" {
			_ = prefs.SaveCredentials(credsPath, prefs.Credentials{Token: token})
		}
		return authDoneMsg{}
	}
}
