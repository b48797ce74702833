// Package schema describes resource forms declaratively: field kinds,
// constraints, and cross-field rules. One schema drives both the list columns
// and the create/edit form for a resource manager.
package schema

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/flywindva/hicrew-tui/internal/api"
)

// Kind is a field's value type.
type Kind int

const (
	Text Kind = iota
	Number
	Date
	Boolean
	Enum
	ForeignKey
)

// Field describes one form field and its constraints.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool

	// Text constraints. Zero means unset; MinLen == MaxLen means exact length.
	MinLen int
	MaxLen int
	// Number constraints.
	Min *float64
	Max *float64

	Pattern    *regexp.Regexp
	PatternMsg string

	Options []string // Enum members
	Ref     string   // ForeignKey: sibling resource the id points into
	Default string
}

// Rule is a schema-level predicate evaluated after all per-field checks pass.
type Rule struct {
	Message string
	OK      func(Draft) bool
}

// Schema binds a backend collection to its form definition.
type Schema struct {
	Resource   string // endpoint path element, e.g. "social-networks"
	Title      string
	Capability string // required capability; empty means any authenticated pilot
	Fields     []Field
	Columns    []string // list view columns, subset of field names plus "id"
	Rules      []Rule
}

// Draft is an in-progress, unsaved form value keyed by field name. Values are
// the raw entered strings; Payload converts them on submit.
type Draft map[string]string

// Clone returns an independent copy of the draft.
func (d Draft) Clone() Draft {
	dup := make(Draft, len(d))
	for k, v := range d {
		dup[k] = v
	}
	return dup
}

// Field looks up a field definition by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// NewDraft returns a blank draft seeded with schema defaults.
func (s Schema) NewDraft() Draft {
	d := make(Draft, len(s.Fields))
	for _, f := range s.Fields {
		d[f.Name] = f.Default
	}
	return d
}

// DraftFor returns a draft pre-populated from an existing record, one entry
// per schema field.
func (s Schema) DraftFor(rec api.Record) Draft {
	d := make(Draft, len(s.Fields))
	for _, f := range s.Fields {
		d[f.Name] = api.Stringify(rec[f.Name])
	}
	return d
}

// ColumnLabel returns the display label for a list column.
func (s Schema) ColumnLabel(column string) string {
	if column == "id" {
		return "ID"
	}
	if f, ok := s.Field(column); ok && f.Label != "" {
		return f.Label
	}
	return titleWords(column)
}

func titleWords(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Date layouts accepted by date fields, tried in order.
var dateLayouts = []string{"2006-01-02 15:04", "2006-01-02"}

// ParseDate parses a date field value.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Range returns min/max pointers for numeric fields.
func Range(min, max float64) (*float64, *float64) {
	return &min, &max
}

// Min returns a lower bound for numeric fields.
func Min(min float64) *float64 {
	return &min
}

var icaoPatterns = map[int]*regexp.Regexp{
	2: regexp.MustCompile(`^[A-Z]{2}$`),
	3: regexp.MustCompile(`^[A-Z]{3}$`),
	4: regexp.MustCompile(`^[A-Z]{4}$`),
}

// ICAOField builds a fixed-length uppercase identifier field, e.g. an
// airport or airline ICAO code.
func ICAOField(name, label string, length int, required bool) Field {
	pattern := icaoPatterns[length]
	if pattern == nil {
		pattern = regexp.MustCompile(fmt.Sprintf(`^[A-Z]{%d}$`, length))
	}
	return Field{
		Name:       name,
		Label:      label,
		Kind:       Text,
		Required:   required,
		MinLen:     length,
		MaxLen:     length,
		Pattern:    pattern,
		PatternMsg: fmt.Sprintf("%s must be %d uppercase letters", label, length),
	}
}

// DateOrder builds a cross-field rule requiring the start field to be at or
// before the end field. Unparseable or blank values pass; per-field checks
// already cover those.
func DateOrder(startField, endField, message string) Rule {
	return Rule{
		Message: message,
		OK: func(d Draft) bool {
			start, okStart := ParseDate(d[startField])
			end, okEnd := ParseDate(d[endField])
			if !okStart || !okEnd {
				return true
			}
			return !end.Before(start)
		},
	}
}
