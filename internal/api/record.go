package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record is a domain record as delivered by the server. Domain data is
// server-owned; the client treats records as opaque beyond the id field and
// whatever the active schema names.
type Record map[string]any

// ID returns the record identifier as a string, or empty when absent.
// Numbers keep their JSON representation (decoding uses json.Number).
func (r Record) ID() string {
	return Stringify(r["id"])
}

// Field returns the named field rendered as a string.
func (r Record) Field(name string) string {
	return Stringify(r[name])
}

// Stringify renders a decoded JSON value for display and comparison.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(val)
	}
}

// unwrapList decodes a list response. The server wraps collections under a
// resource-named key; older endpoints return a bare array. Both are accepted.
func unwrapList(raw json.RawMessage, resource string) ([]Record, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		return decodeRecords(raw)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	for _, key := range envelopeKeys(resource) {
		if inner, ok := envelope[key]; ok {
			return decodeRecords(inner)
		}
	}
	// Single-key envelope under an unexpected name.
	if len(envelope) == 1 {
		for _, inner := range envelope {
			if strings.HasPrefix(strings.TrimSpace(string(inner)), "[") {
				return decodeRecords(inner)
			}
		}
	}
	return nil, fmt.Errorf("list response for %s has no collection payload", resource)
}

// unwrapRecord decodes a create/update response, e.g. {"aircraft": {...}}.
func unwrapRecord(raw json.RawMessage, resource string) (Record, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode record response: %w", err)
	}
	for _, key := range envelopeKeys(resource) {
		if inner, ok := envelope[key]; ok && strings.HasPrefix(strings.TrimSpace(string(inner)), "{") {
			return decodeRecord(inner)
		}
	}
	if len(envelope) == 1 {
		for _, inner := range envelope {
			if strings.HasPrefix(strings.TrimSpace(string(inner)), "{") {
				return decodeRecord(inner)
			}
		}
	}
	// No envelope at all: the object is the record.
	return decodeRecord(raw)
}

// envelopeKeys lists the keys a resource's payload may be wrapped under:
// the path segment itself, its snake_case form, and a naive singular.
func envelopeKeys(resource string) []string {
	resource = strings.Trim(resource, "/")
	snake := strings.ReplaceAll(resource, "-", "_")
	keys := []string{resource, snake}
	if singular := strings.TrimSuffix(snake, "s"); singular != snake {
		keys = append(keys, singular)
	}
	return keys
}

func decodeRecords(raw json.RawMessage) ([]Record, error) {
	var records []Record
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func decodeRecord(raw json.RawMessage) (Record, error) {
	var record Record
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()
	if err := decoder.Decode(&record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return record, nil
}
