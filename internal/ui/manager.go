package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flywindva/hicrew-tui/internal/api"
	"github.com/flywindva/hicrew-tui/internal/manager"
	"github.com/flywindva/hicrew-tui/internal/schema"
)

const maxCellWidth = 24

// managerState holds the per-visit list and form view state. It resets each
// time a section is opened; the controller itself carries the durable state.
type managerState struct {
	selectedRow   int
	formOpen      bool
	formInputs    []textinput.Model
	formFocus     int
	pendingDelete string // record id awaiting y/n confirmation
}

// --- list view ---

func (m Model) handleManagerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.active
	if ctrl == nil {
		return m, nil
	}

	// Pending delete confirmation intercepts the next key.
	if m.mgr.pendingDelete != "" {
		id := m.mgr.pendingDelete
		m.mgr.pendingDelete = ""
		if msg.String() == "y" {
			return m, deleteCmd(m.ctx, ctrl, id)
		}
		return m, nil
	}

	records := ctrl.Records()
	count := len(records)

	switch msg.String() {
	case "j", "down":
		if m.mgr.selectedRow < count-1 {
			m.mgr.selectedRow++
		}
	case "k", "up":
		if m.mgr.selectedRow > 0 {
			m.mgr.selectedRow--
		}
	case "g", "home":
		m.mgr.selectedRow = 0
	case "G", "end":
		if count > 0 {
			m.mgr.selectedRow = count - 1
		}
	case "r":
		return m, refreshCmd(m.ctx, ctrl)
	case "n":
		return m.openForm(func() { ctrl.BeginCreate() })
	case "e":
		if count == 0 {
			return m, nil
		}
		rec := records[m.mgr.selectedRow]
		return m.openForm(func() { ctrl.BeginEdit(rec) })
	case "d":
		if count == 0 {
			return m, nil
		}
		id := records[m.mgr.selectedRow].ID()
		if id == "" {
			m.notice = "record has no id, refresh and try again"
			return m, nil
		}
		m.mgr.pendingDelete = id
	default:
		// 1-9 sorts by the corresponding column; repeating flips direction.
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 {
			columns := ctrl.Schema().Columns
			if n <= len(columns) {
				ctrl.SortBy(columns[n-1])
			}
		}
	}

	return m, nil
}

func (m Model) renderManager() string {
	if m.active == nil {
		return ""
	}
	if m.mgr.formOpen {
		return m.renderForm()
	}
	return m.renderTable()
}

func (m Model) renderTable() string {
	styles := m.theme.Styles()
	ctrl := m.active
	s := ctrl.Schema()
	records := ctrl.Records()
	sort := ctrl.Sort()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(s.Title))
	b.WriteString("\n\n")

	if errMsg := ctrl.LastError(); errMsg != "" {
		b.WriteString(styles.DangerText.Render(errMsg))
		b.WriteString("\n\n")
	}

	if !ctrl.Loaded() && len(records) == 0 {
		b.WriteString(styles.MutedText.Render("Loading..."))
		return b.String()
	}

	widths := columnWidths(s, records)

	// Header row with sort indicator.
	var header strings.Builder
	for i, col := range s.Columns {
		label := s.ColumnLabel(col)
		if col == sort.Column {
			if sort.Desc {
				label += " v"
			} else {
				label += " ^"
			}
		}
		header.WriteString(pad(label, widths[i]))
		header.WriteString("  ")
	}
	b.WriteString(styles.MutedText.Bold(true).Render(header.String()))
	b.WriteString("\n")

	if len(records) == 0 {
		b.WriteString(styles.FaintText.Render("No records yet. Press n to create one."))
		b.WriteString("\n")
	}

	for row, rec := range records {
		var line strings.Builder
		for i, col := range s.Columns {
			line.WriteString(pad(truncate(rec.Field(col), maxCellWidth), widths[i]))
			line.WriteString("  ")
		}
		if row == m.mgr.selectedRow {
			b.WriteString(styles.Selected.Render(line.String()))
		} else {
			b.WriteString(styles.Text.Render(line.String()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mgr.pendingDelete != "" {
		b.WriteString(styles.WarningText.Render("Delete record " + m.mgr.pendingDelete + "? y to confirm, any other key to cancel"))
	} else {
		b.WriteString(styles.FaintText.Render("n: new  e: edit  d: delete  r: refresh  1-9: sort  esc: back"))
	}
	return b.String()
}

func columnWidths(s schema.Schema, records []api.Record) []int {
	widths := make([]int, len(s.Columns))
	for i, col := range s.Columns {
		widths[i] = len(s.ColumnLabel(col)) + 2 // room for sort indicator
		for _, rec := range records {
			if w := len(truncate(rec.Field(col), maxCellWidth)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// --- form view ---

// openForm transitions the controller into create or edit mode and builds
// the input widgets from the resulting draft.
func (m Model) openForm(begin func()) (tea.Model, tea.Cmd) {
	ctrl := m.active
	begin()
	if ctrl.Mode() == manager.ModeIdle {
		// Begin was refused (a submit is still in flight).
		return m, nil
	}

	fields := ctrl.Schema().Fields
	draft := ctrl.Draft()
	m.mgr.formInputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.Label
		// CharLimit must track the schema or SetValue clips long values.
		ti.CharLimit = f.MaxLen
		ti.Width = 40
		ti.SetValue(draft[f.Name])
		m.mgr.formInputs[i] = ti
	}
	m.mgr.formFocus = 0
	m.mgr.formOpen = true
	return m, m.focusFormField(0)
}

func (m *Model) focusFormField(idx int) tea.Cmd {
	for i := range m.mgr.formInputs {
		m.mgr.formInputs[i].Blur()
	}
	m.mgr.formFocus = idx
	return m.mgr.formInputs[idx].Focus()
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.active
	fields := ctrl.Schema().Fields
	focus := m.mgr.formFocus

	switch {
	case key.Matches(msg, m.keys.Escape):
		ctrl.Cancel()
		if ctrl.Mode() == manager.ModeIdle {
			m.mgr.formOpen = false
		}
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m, m.focusFormField((focus + 1) % len(fields))

	case key.Matches(msg, m.keys.PrevField):
		return m, m.focusFormField((focus - 1 + len(fields)) % len(fields))

	case key.Matches(msg, m.keys.Submit):
		return m, submitCmd(m.ctx, ctrl)

	case key.Matches(msg, m.keys.Confirm):
		if focus == len(fields)-1 {
			return m, submitCmd(m.ctx, ctrl)
		}
		return m, m.focusFormField(focus + 1)

	case msg.String() == "left" || msg.String() == "right":
		// Enum and boolean fields cycle through their members.
		if vals := cycleValues(fields[focus]); len(vals) > 0 {
			cur := m.mgr.formInputs[focus].Value()
			next := cycleNext(vals, cur, msg.String() == "right")
			m.mgr.formInputs[focus].SetValue(next)
			ctrl.SetField(fields[focus].Name, next)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.mgr.formInputs[focus], cmd = m.mgr.formInputs[focus].Update(msg)
	ctrl.SetField(fields[focus].Name, m.mgr.formInputs[focus].Value())
	return m, cmd
}

func cycleValues(f schema.Field) []string {
	switch f.Kind {
	case schema.Enum:
		return f.Options
	case schema.Boolean:
		return []string{"true", "false"}
	}
	return nil
}

func cycleNext(vals []string, current string, forward bool) string {
	for i, v := range vals {
		if v == current {
			if forward {
				return vals[(i+1)%len(vals)]
			}
			return vals[(i-1+len(vals))%len(vals)]
		}
	}
	return vals[0]
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	ctrl := m.active
	s := ctrl.Schema()

	var b strings.Builder
	title := "New " + s.Title
	if ctrl.Mode() == manager.ModeEditing {
		title = "Edit " + s.Title
	}
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n\n")

	for i, f := range s.Fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		b.WriteString(styles.Label.Render(label))
		b.WriteString(m.mgr.formInputs[i].View())
		if hint := fieldHint(f); hint != "" && i == m.mgr.formFocus {
			b.WriteString("  " + styles.FaintText.Render(hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if ctrl.Busy() {
		b.WriteString(styles.MutedText.Render("Saving..."))
	} else if errMsg := ctrl.LastError(); errMsg != "" {
		b.WriteString(styles.DangerText.Render(errMsg))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("ctrl+s: save  enter: next/save  esc: cancel"))
	return b.String()
}

func fieldHint(f schema.Field) string {
	switch f.Kind {
	case schema.Enum:
		return "left/right: " + strings.Join(f.Options, ", ")
	case schema.Boolean:
		return "left/right: true, false"
	case schema.Date:
		return "YYYY-MM-DD or YYYY-MM-DD HH:MM"
	case schema.ForeignKey:
		return fmt.Sprintf("id from %s", f.Ref)
	}
	return ""
}

// --- messages ---

type refreshDoneMsg struct {
	resource string
	errMsg   string
}

type submitDoneMsg struct {
	resource string
	errMsg   string
}

type deleteDoneMsg struct {
	resource string
	errMsg   string
}

func (m Model) handleRefreshDone(msg refreshDoneMsg) (tea.Model, tea.Cmd) {
	if m.active != nil && m.active.Schema().Resource == msg.resource {
		m.clampManagerRow()
	}
	return m, nil
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if m.active == nil || m.active.Schema().Resource != msg.resource {
		return m, nil
	}
	if msg.errMsg == "" {
		// Saved; the controller dropped back to idle.
		m.mgr.formOpen = false
		m.clampManagerRow()
	}
	// On failure the form stays open with the controller's error inline.
	return m, nil
}

func (m Model) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	if m.active != nil && m.active.Schema().Resource == msg.resource {
		m.clampManagerRow()
	}
	return m, nil
}

func (m *Model) clampManagerRow() {
	if m.active == nil {
		return
	}
	count := len(m.active.Records())
	if m.mgr.selectedRow >= count {
		m.mgr.selectedRow = count - 1
	}
	if m.mgr.selectedRow < 0 {
		m.mgr.selectedRow = 0
	}
}

// --- commands ---

func refreshCmd(ctx context.Context, ctrl *manager.Controller) tea.Cmd {
	resource := ctrl.Schema().Resource
	return func() tea.Msg {
		if err := ctrl.Refresh(ctx); err != nil {
			return refreshDoneMsg{resource: resource, errMsg: api.UserMessage(err)}
		}
		return refreshDoneMsg{resource: resource}
	}
}

func submitCmd(ctx context.Context, ctrl *manager.Controller) tea.Cmd {
	resource := ctrl.Schema().Resource
	return func() tea.Msg {
		if err := ctrl.Submit(ctx); err != nil {
			// Validation and server errors are already on the controller;
			// the message here only marks the submit as failed.
			return submitDoneMsg{resource: resource, errMsg: err.Error()}
		}
		return submitDoneMsg{resource: resource}
	}
}

func deleteCmd(ctx context.Context, ctrl *manager.Controller, id string) tea.Cmd {
	resource := ctrl.Schema().Resource
	return func() tea.Msg {
		if err := ctrl.Delete(ctx, id); err != nil {
			return deleteDoneMsg{resource: resource, errMsg: api.UserMessage(err)}
		}
		return deleteDoneMsg{resource: resource}
	}
}
