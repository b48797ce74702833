package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports the first violated rule for a draft. Fields are
// checked in schema order and only the first violation is reported; the
// cross-field rules run once every per-field check passes.
type ValidationError struct {
	Field   string // empty for schema-level rules
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks a draft against the schema. It is synchronous and has no
// side effects; callers must not submit a draft that fails validation.
func (s Schema) Validate(d Draft) error {
	for _, f := range s.Fields {
		if err := f.validate(strings.TrimSpace(d[f.Name])); err != nil {
			return err
		}
	}
	for _, rule := range s.Rules {
		if !rule.OK(d) {
			return &ValidationError{Message: rule.Message}
		}
	}
	return nil
}

func (f Field) validate(value string) error {
	label := f.Label
	if label == "" {
		label = f.Name
	}

	if value == "" {
		if f.Required {
			return &ValidationError{Field: f.Name, Message: label + " is required"}
		}
		return nil
	}

	switch f.Kind {
	case Text:
		length := len([]rune(value))
		if f.MinLen > 0 && f.MinLen == f.MaxLen && length != f.MinLen {
			return &ValidationError{Field: f.Name, Message: fmt.Sprintf("%s must be exactly %d characters", label, f.MinLen)}
		}
		if f.MinLen > 0 && length < f.MinLen {
			return &ValidationError{Field: f.Name, Message: fmt.Sprintf("%s must be at least %d characters", label, f.MinLen)}
		}
		if f.MaxLen > 0 && length > f.MaxLen {
			return &ValidationError{Field: f.Name, Message: fmt.Sprintf("%s must be at most %d characters", label, f.MaxLen)}
		}
		if f.Pattern != nil && !f.Pattern.MatchString(value) {
			msg := f.PatternMsg
			if msg == "" {
				msg = label + " has an invalid format"
			}
			return &ValidationError{Field: f.Name, Message: msg}
		}

	case Number:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return &ValidationError{Field: f.Name, Message: label + " must be a number"}
		}
		if f.Min != nil && n < *f.Min {
			return &ValidationError{Field: f.Name, Message: fmt.Sprintf("%s must be at least %s", label, trimFloat(*f.Min))}
		}
		if f.Max != nil && n > *f.Max {
			return &ValidationError{Field: f.Name, Message: fmt.Sprintf("%s must be at most %s", label, trimFloat(*f.Max))}
		}

	case Date:
		if _, ok := ParseDate(value); !ok {
			return &ValidationError{Field: f.Name, Message: label + " must be a date (YYYY-MM-DD or YYYY-MM-DD HH:MM)"}
		}

	case Boolean:
		if value != "true" && value != "false" {
			return &ValidationError{Field: f.Name, Message: label + " must be true or false"}
		}

	case Enum:
		for _, opt := range f.Options {
			if value == opt {
				return nil
			}
		}
		return &ValidationError{Field: f.Name, Message: fmt.Sprintf("%s must be one of: %s", label, strings.Join(f.Options, ", "))}

	case ForeignKey:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return &ValidationError{Field: f.Name, Message: label + " must be a record id"}
		}
	}

	return nil
}

// Payload converts a validated draft into the JSON payload the API expects.
// Blank optional fields are omitted entirely so PATCH stays partial.
func (s Schema) Payload(d Draft) map[string]any {
	payload := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		value := strings.TrimSpace(d[f.Name])
		if value == "" {
			continue
		}
		switch f.Kind {
		case Number:
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				payload[f.Name] = n
			}
		case Boolean:
			payload[f.Name] = value == "true"
		case ForeignKey:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				payload[f.Name] = n
			}
		default:
			payload[f.Name] = value
		}
	}
	return payload
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
