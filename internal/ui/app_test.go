package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flywindva/hicrew-tui/internal/api"
	"github.com/flywindva/hicrew-tui/internal/manager"
	"github.com/flywindva/hicrew-tui/internal/resources"
	"github.com/flywindva/hicrew-tui/internal/session"
)

// nullClient satisfies api.ResourceClient without touching the network.
type nullClient struct{}

func (nullClient) List(ctx context.Context, resource string) ([]api.Record, error) {
	return nil, nil
}

func (nullClient) Create(ctx context.Context, resource string, payload map[string]any) (api.Record, error) {
	return api.Record{"id": "1"}, nil
}

func (nullClient) Update(ctx context.Context, resource, id string, payload map[string]any) (api.Record, error) {
	return api.Record{"id": id}, nil
}

func (nullClient) Delete(ctx context.Context, resource, id string) error {
	return nil
}

func testModel(permissions ...string) Model {
	sess := session.New()
	sess.Begin("token", session.PilotSummary{
		FirstName:   "Ana",
		LastName:    "Ruiz",
		Callsign:    "HCW101",
		Permissions: permissions,
	})

	m := New(Options{Session: sess})
	m.ready = true
	m.width = 100
	m.height = 40
	return m
}

func TestEnterAdmin_FiltersByCapability(t *testing.T) {
	m := testModel("manage_aircraft", "manage_routes")
	m.enterAdmin()

	if m.currentView != ViewAdmin {
		t.Fatalf("currentView = %d, want ViewAdmin", m.currentView)
	}

	var titles []string
	for _, s := range m.sections {
		titles = append(titles, s.Title)
		if s.Capability != "" && s.Capability != "manage_aircraft" && s.Capability != "manage_routes" {
			t.Errorf("section %q leaked through the capability filter", s.Title)
		}
	}
	// Aircraft, Routes, plus the open section every pilot gets.
	if len(titles) != 3 {
		t.Fatalf("sections = %v, want 3 entries", titles)
	}
}

func TestEnterAdmin_NoCapabilities(t *testing.T) {
	m := testModel()
	m.enterAdmin()

	// Only capability-free sections remain.
	for _, s := range m.sections {
		if s.Capability != "" {
			t.Errorf("section %q requires %q but pilot has no capabilities", s.Title, s.Capability)
		}
	}
}

func TestManagerTable_EmptyPlaceholder(t *testing.T) {
	m := testModel("manage_aircraft")

	s, ok := resources.ByResource("aircraft")
	if !ok {
		t.Fatal("aircraft schema missing")
	}
	ctrl := manager.New(s, nullClient{})
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	m.active = ctrl
	m.currentView = ViewManager

	out := m.renderManager()
	if !strings.Contains(out, "No records yet") {
		t.Fatalf("empty table should show a placeholder, got:\n%s", out)
	}
}

func TestManagerKey_SortDigits(t *testing.T) {
	m := testModel("manage_aircraft")

	s, _ := resources.ByResource("aircraft")
	ctrl := manager.New(s, nullClient{})
	m.active = ctrl
	m.currentView = ViewManager

	press := func(r rune) {
		model, _ := m.handleManagerKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = model.(Model)
	}

	press('2')
	if got := ctrl.Sort(); got.Column != "icao" || got.Desc {
		t.Fatalf("after pressing 2: sort = %+v, want icao ascending", got)
	}
	press('2')
	if got := ctrl.Sort(); got.Column != "icao" || !got.Desc {
		t.Fatalf("second press should flip direction, got %+v", got)
	}
	press('1')
	if got := ctrl.Sort(); got.Column != "id" || got.Desc {
		t.Fatalf("new column resets to ascending, got %+v", got)
	}
}

func TestSessionEnded_DropsToAuthWithMessage(t *testing.T) {
	m := testModel("manage_aircraft")
	m.currentView = ViewHome

	model, _ := m.handleSessionEnded()
	m = model.(Model)

	if m.currentView != ViewAuth {
		t.Fatalf("currentView = %d, want ViewAuth", m.currentView)
	}
	if m.auth.errMsg != "session expired, please log in again" {
		t.Fatalf("auth message = %q", m.auth.errMsg)
	}
	if len(m.managers) != 0 {
		t.Fatal("cached controllers should be dropped with the session")
	}
}

func TestAuthView_TogglesRegisterFields(t *testing.T) {
	m := testModel()
	m.currentView = ViewAuth
	m.auth = newAuthState()

	if n := len(m.auth.fields()); n != 2 {
		t.Fatalf("login form has %d fields, want 2", n)
	}
	m.auth.toggleMode()
	if n := len(m.auth.fields()); n != 4 {
		t.Fatalf("register form has %d fields, want 4", n)
	}
	if m.auth.focus != fieldFirstName {
		t.Fatal("register form should focus the first name field")
	}
}

func TestAccountDelete_ConfirmPromptOwnsTheKeyboard(t *testing.T) {
	m := testModel()
	m.currentView = ViewHome

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})
	m = next.(Model)
	if !m.pendingAccountDelete {
		t.Fatal("X should arm the account-delete prompt")
	}
	if !strings.Contains(m.View(), "Delete your account permanently?") {
		t.Fatal("prompt not rendered")
	}

	// A navigation key while the prompt is open cancels instead of switching views.
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("A")})
	m = next.(Model)
	if m.pendingAccountDelete {
		t.Fatal("prompt should be disarmed by any non-y key")
	}
	if m.currentView != ViewHome {
		t.Fatalf("currentView = %d, want ViewHome", m.currentView)
	}
}

func TestAccountDeleted_DropsToAuth(t *testing.T) {
	m := testModel()
	m.currentView = ViewHome
	m.managers["aircraft"] = manager.New(resources.Aircraft(), nullClient{})

	next, _ := m.handleAccountDeleted(accountDeletedMsg{})
	m = next.(Model)
	if m.currentView != ViewAuth {
		t.Fatalf("currentView = %d, want ViewAuth", m.currentView)
	}
	if m.auth.errMsg != "account deleted" {
		t.Fatalf("errMsg = %q", m.auth.errMsg)
	}
	if len(m.managers) != 0 {
		t.Fatal("cached controllers must be discarded")
	}

	next, _ = m.handleAccountDeleted(accountDeletedMsg{errMsg: "server error, try again later"})
	m2 := next.(Model)
	if m2.notice == "" {
		t.Fatal("failed deletion should surface a notice")
	}
}

// stubClient serves a fixed record set and can be forced to fail.
type stubClient struct {
	records []api.Record
	err     error
}

func (c stubClient) List(ctx context.Context, resource string) ([]api.Record, error) {
	return c.records, c.err
}

func (c stubClient) Create(ctx context.Context, resource string, payload map[string]any) (api.Record, error) {
	return api.Record{"id": "1"}, c.err
}

func (c stubClient) Update(ctx context.Context, resource, id string, payload map[string]any) (api.Record, error) {
	return api.Record{"id": id}, c.err
}

func (c stubClient) Delete(ctx context.Context, resource, id string) error {
	return c.err
}

func TestOpenForm_LongValuesSurviveEdit(t *testing.T) {
	long := strings.Repeat("x", 500)
	s, _ := resources.ByResource("notams")
	ctrl := manager.New(s, stubClient{records: []api.Record{
		{"id": "1", "title": "Runway closure", "text": long},
	}})
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	m := testModel("manage_notams")
	m.active = ctrl
	m.currentView = ViewManager

	rec := ctrl.Records()[0]
	model, _ := m.openForm(func() { ctrl.BeginEdit(rec) })
	m = model.(Model)

	for i, f := range s.Fields {
		if f.Name != "text" {
			continue
		}
		if got := m.mgr.formInputs[i].Value(); got != long {
			t.Fatalf("text input kept %d of %d chars", len(got), len(long))
		}
	}
}

func TestEscFromTable_ClearsInlineError(t *testing.T) {
	s, _ := resources.ByResource("aircraft")
	ctrl := manager.New(s, stubClient{err: &api.Error{Status: 500, Message: "server error, try again later"}})
	_ = ctrl.Refresh(context.Background())
	if ctrl.LastError() == "" {
		t.Fatal("expected an inline error after a failed refresh")
	}

	m := testModel("manage_aircraft")
	m.active = ctrl
	m.currentView = ViewManager

	model, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(Model)

	if m.currentView != ViewAdmin {
		t.Fatalf("currentView = %d, want ViewAdmin", m.currentView)
	}
	if got := ctrl.LastError(); got != "" {
		t.Fatalf("stale error survived leaving the section: %q", got)
	}
}

func TestDeleteKey_RecordWithoutIDShowsNotice(t *testing.T) {
	s, _ := resources.ByResource("aircraft")
	ctrl := manager.New(s, stubClient{records: []api.Record{{"icao": "A320"}}})
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	m := testModel("manage_aircraft")
	m.active = ctrl
	m.currentView = ViewManager

	model, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m = model.(Model)

	if m.mgr.pendingDelete != "" {
		t.Fatalf("pendingDelete = %q, want empty", m.mgr.pendingDelete)
	}
	if m.notice == "" {
		t.Fatal("an id-less record should surface a notice, not a silent no-op")
	}
}
