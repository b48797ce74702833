// Package ui provides the Bubble Tea terminal front end for HiCrew.
package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flywindva/hicrew-tui/internal/api"
	"github.com/flywindva/hicrew-tui/internal/logging"
	"github.com/flywindva/hicrew-tui/internal/manager"
	"github.com/flywindva/hicrew-tui/internal/prefs"
	"github.com/flywindva/hicrew-tui/internal/schema"
	"github.com/flywindva/hicrew-tui/internal/session"
	"github.com/flywindva/hicrew-tui/internal/traffic"
)

// View represents the current active view.
type View int

const (
	ViewAuth View = iota
	ViewHome
	ViewAdmin
	ViewManager
	ViewTraffic
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *api.Client
	Session   *session.Store
	Traffic   *traffic.Store
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	CredsPath string
	Prefs     prefs.Prefs
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *api.Client
	session   *session.Store
	trafficSt *traffic.Store
	prefsPath string
	credsPath string
	appPrefs  prefs.Prefs
	pollTick  time.Duration

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      string

	// Auth state
	auth authState

	// Home state
	pendingAccountDelete bool

	// Admin state
	sections []schema.Schema
	adminRow int

	// Manager state
	managers map[string]*manager.Controller
	active   *manager.Controller
	mgr      managerState

	// Traffic state
	trafficSnap traffic.Snapshot
	trafficRow  int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = 30 * time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = opts.Prefs.Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		session:   opts.Session,
		trafficSt: opts.Traffic,
		prefsPath: prefsPath,
		credsPath: opts.CredsPath,
		appPrefs:  opts.Prefs,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		managers:  make(map[string]*manager.Controller),
	}

	if opts.Session != nil && opts.Session.Authenticated() {
		m.currentView = ViewHome
	} else {
		m.currentView = ViewAuth
		m.auth = newAuthState()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.trafficSt != nil {
		cmds = append(cmds, fetchTrafficCmd(m.trafficSt))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case trafficMsg:
		m.trafficSnap = traffic.Snapshot(msg)
		m.clampTrafficRow()
		return m, nil

	case authDoneMsg:
		return m.handleAuthDone(msg)

	case refreshDoneMsg:
		return m.handleRefreshDone(msg)

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case deleteDoneMsg:
		return m.handleDeleteDone(msg)

	case accountDeletedMsg:
		return m.handleAccountDeleted(msg)

	case sessionEndedMsg:
		return m.handleSessionEnded()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewAuth:
		return m.renderAuth()
	case ViewHome:
		return m.renderHome()
	case ViewAdmin:
		return m.renderAdmin()
	case ViewManager:
		return m.renderManager()
	case ViewTraffic:
		return m.renderTraffic()
	default:
		return ""
	}
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	var left string
	if m.session != nil && m.session.Authenticated() {
		pilot := m.session.Pilot()
		left = styles.Logo.Render("HiCrew") + "  " + styles.Text.Render(pilot.DisplayName())
	} else {
		left = styles.Logo.Render("HiCrew") + "  " + styles.MutedText.Render("not signed in")
	}

	var right string
	if m.trafficSnap.IsOffline() {
		right = styles.DangerText.Render("OFFLINE")
	} else if !m.trafficSnap.LastUpdated.IsZero() {
		right = styles.FaintText.Render("traffic " + humanizeDuration(time.Since(m.trafficSnap.LastUpdated)))
	}

	line := left
	if right != "" {
		line += "  " + right
	}
	if m.notice != "" {
		line += "  " + styles.WarningText.Render(m.notice)
	}
	return line
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// ctrl+c always quits, even mid-form
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Transient notices live until the next keypress.
	m.notice = ""

	// Text-entry views and open confirmation prompts own the keyboard
	// except for the globals above.
	switch m.currentView {
	case ViewAuth:
		return m.handleAuthKey(msg)
	case ViewHome:
		if m.pendingAccountDelete {
			return m.handleHomeKey(msg)
		}
	case ViewManager:
		if m.mgr.formOpen {
			return m.handleFormKey(msg)
		}
		if m.mgr.pendingDelete != "" {
			return m.handleManagerKey(msg)
		}
	}

	switch msg.String() {
	case "?":
		m.showHelp = true
		return m, nil

	case "ctrl+t":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.appPrefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case "ctrl+g":
		m.appPrefs.Language = nextLanguage(m.appPrefs.Language)
		m.savePrefs()
		m.notice = "language: " + m.appPrefs.Language
		return m, nil

	case "ctrl+y":
		m.appPrefs.TelemetryConsent = !m.appPrefs.TelemetryConsent
		m.appPrefs.ConsentAsked = true
		m.savePrefs()
		_ = logging.SetConsent(m.appPrefs.TelemetryConsent)
		if m.appPrefs.TelemetryConsent {
			m.notice = "telemetry: on"
		} else {
			m.notice = "telemetry: off"
		}
		return m, nil

	case "H":
		m.currentView = ViewHome
		return m, nil

	case "A":
		m.enterAdmin()
		return m, nil

	case "M":
		m.currentView = ViewTraffic
		return m, nil

	case "ctrl+l":
		return m.logout()

	case "esc":
		switch m.currentView {
		case ViewManager:
			if m.active != nil {
				m.active.ClearError()
			}
			m.currentView = ViewAdmin
		case ViewAdmin, ViewTraffic:
			m.currentView = ViewHome
		}
		return m, nil
	}

	switch m.currentView {
	case ViewHome:
		return m.handleHomeKey(msg)
	case ViewAdmin:
		return m.handleAdminKey(msg)
	case ViewManager:
		return m.handleManagerKey(msg)
	case ViewTraffic:
		return m.handleTrafficKey(msg)
	}

	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.trafficSt != nil {
		cmds = append(cmds, fetchTrafficCmd(m.trafficSt))
	}

	// The session can end between keystrokes: a 401 from any request
	// invalidates it, and the token itself can expire.
	if m.currentView != ViewAuth && m.session != nil {
		if exp := m.session.ExpiresAt(); !exp.IsZero() && time.Now().After(exp) {
			m.session.Invalidate()
		}
		if !m.session.Authenticated() {
			cmds = append(cmds, func() tea.Msg { return sessionEndedMsg{} })
		}
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m Model) handleSessionEnded() (tea.Model, tea.Cmd) {
	if m.currentView == ViewAuth {
		return m, nil
	}
	m.currentView = ViewAuth
	m.auth = newAuthState()
	m.auth.errMsg = "session expired, please log in again"
	m.active = nil
	m.managers = make(map[string]*manager.Controller)
	m.notice = ""
	return m, m.auth.focusCmd()
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if m.session != nil {
		m.session.Invalidate()
	}
	m.currentView = ViewAuth
	m.auth = newAuthState()
	m.active = nil
	m.managers = make(map[string]*manager.Controller)
	m.notice = ""
	return m, m.auth.focusCmd()
}

func (m *Model) savePrefs() {
	if m.prefsPath != "" {
		_ = prefs.Save(m.prefsPath, m.appPrefs)
	}
}

var languages = []string{"en", "es", "fr", "de"}

func nextLanguage(current string) string {
	for i, lang := range languages {
		if lang == current {
			return languages[(i+1)%len(languages)]
		}
	}
	return languages[0]
}

// Messages

type tickMsg time.Time

type trafficMsg traffic.Snapshot

type sessionEndedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchTrafficCmd(store *traffic.Store) tea.Cmd {
	return func() tea.Msg {
		return trafficMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
