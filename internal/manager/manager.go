// Package manager implements the resource manager controller: one generic
// list+form state machine instantiated per declarative schema. The controller
// owns its collection exclusively; records change locally only in response to
// a successful server acknowledgment, never speculatively.
package manager

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/flywindva/hicrew-tui/internal/api"
	"github.com/flywindva/hicrew-tui/internal/schema"
)

// Mode is the controller's form state. Transitions are user-driven only;
// errors attach to the current mode and never advance it.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCreating
	ModeEditing
)

// Sort is the active list ordering.
type Sort struct {
	Column string
	Desc   bool
}

// ErrInFlight is returned when a submit starts while another is outstanding.
var ErrInFlight = errors.New("a submit is already in flight")

// Controller orchestrates one resource: the authoritative in-memory
// collection, the draft form, sorting, and error surfacing. Methods are safe
// for concurrent use; network calls run outside the lock.
type Controller struct {
	mu     sync.RWMutex
	schema schema.Schema
	client api.ResourceClient

	records []api.Record
	loaded  bool
	sort    Sort

	mode     Mode
	draft    schema.Draft
	editID   string
	inFlight bool

	lastError string
}

// New builds a controller for one schema.
func New(s schema.Schema, client api.ResourceClient) *Controller {
	return &Controller{schema: s, client: client}
}

// Schema returns the controller's schema.
func (c *Controller) Schema() schema.Schema {
	return c.schema
}

// Mode returns the current form mode.
func (c *Controller) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Busy reports whether a submit or delete is outstanding.
func (c *Controller) Busy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inFlight
}

// Loaded reports whether the collection has been fetched at least once.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// LastError returns the inline error for the current state, if any.
func (c *Controller) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// ClearError drops the inline error.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = ""
}

// Refresh refetches the collection wholesale, replacing the snapshot.
func (c *Controller) Refresh(ctx context.Context) error {
	records, err := c.client.List(ctx, c.schema.Resource)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastError = api.UserMessage(err)
		return err
	}
	c.records = records
	c.loaded = true
	c.lastError = ""
	return nil
}

// Records returns a copy of the collection in the current sort order.
func (c *Controller) Records() []api.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dup := make([]api.Record, len(c.records))
	copy(dup, c.records)
	if c.sort.Column == "" {
		return dup
	}

	col := c.sort.Column
	desc := c.sort.Desc
	numeric := false
	if f, ok := c.schema.Field(col); ok && (f.Kind == schema.Number || f.Kind == schema.ForeignKey) {
		numeric = true
	}
	if col == "id" {
		numeric = true
	}

	sort.SliceStable(dup, func(i, j int) bool {
		less := compareValues(dup[i].Field(col), dup[j].Field(col), numeric)
		if desc {
			return less > 0
		}
		return less < 0
	})
	return dup
}

// compareValues orders two raw field values. Numeric columns compare as
// numbers when both sides parse; everything else compares lexicographically,
// including numeric-looking strings in text columns.
func compareValues(a, b string, numeric bool) int {
	if numeric {
		na, errA := strconv.ParseFloat(a, 64)
		nb, errB := strconv.ParseFloat(b, 64)
		if errA == nil && errB == nil {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Sort returns the active sort state.
func (c *Controller) Sort() Sort {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sort
}

// SortBy sorts ascending by a new column, toggles direction on the same
// column, and never changes the record set.
func (c *Controller) SortBy(column string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sort.Column == column {
		c.sort.Desc = !c.sort.Desc
		return
	}
	c.sort = Sort{Column: column}
}

// BeginCreate opens a blank form seeded with schema defaults.
func (c *Controller) BeginCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return
	}
	c.mode = ModeCreating
	c.draft = c.schema.NewDraft()
	c.editID = ""
	c.lastError = ""
}

// BeginEdit opens the form pre-populated from the target record.
func (c *Controller) BeginEdit(rec api.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return
	}
	c.mode = ModeEditing
	c.draft = c.schema.DraftFor(rec)
	c.editID = rec.ID()
	c.lastError = ""
}

// Cancel destroys the draft and returns to the list.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return
	}
	c.mode = ModeIdle
	c.draft = nil
	c.editID = ""
	c.lastError = ""
}

// Draft returns a copy of the current draft, or nil outside a form.
func (c *Controller) Draft() schema.Draft {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.draft == nil {
		return nil
	}
	return c.draft.Clone()
}

// SetField updates one draft field.
func (c *Controller) SetField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return
	}
	c.draft[name] = value
}

// Submit validates the draft and, only on success, sends it to the server.
// Validation failures surface inline without any network call. A server
// rejection keeps the form open with entered values intact. Submission is
// disabled while a request is outstanding.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.mode == ModeIdle || c.draft == nil {
		c.mu.Unlock()
		return nil
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrInFlight
	}

	draft := c.draft.Clone()
	if err := c.schema.Validate(draft); err != nil {
		c.lastError = err.Error()
		c.mu.Unlock()
		return err
	}

	mode := c.mode
	editID := c.editID
	c.inFlight = true
	c.lastError = ""
	c.mu.Unlock()

	payload := c.schema.Payload(draft)
	var rec api.Record
	var err error
	if mode == ModeEditing {
		rec, err = c.client.Update(ctx, c.schema.Resource, editID, payload)
	} else {
		rec, err = c.client.Create(ctx, c.schema.Resource, payload)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		c.lastError = api.UserMessage(err)
		return err
	}

	if mode == ModeEditing {
		for i := range c.records {
			if c.records[i].ID() == editID {
				c.records[i] = rec
				break
			}
		}
	} else {
		c.records = append(c.records, rec)
	}
	c.mode = ModeIdle
	c.draft = nil
	c.editID = ""
	return nil
}

// Delete removes a record on server acknowledgment. Exactly one record, the
// one matching the id, leaves the collection.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrInFlight
	}
	c.inFlight = true
	c.mu.Unlock()

	err := c.client.Delete(ctx, c.schema.Resource, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		c.lastError = api.UserMessage(err)
		return err
	}

	for i := range c.records {
		if c.records[i].ID() == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			break
		}
	}
	c.lastError = ""
	return nil
}
