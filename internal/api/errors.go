package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a structured failure returned by the server. 4xx responses carry
// the server-supplied message; 5xx and unparseable bodies get a generic one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// UserMessage renders any client error for inline display. Server messages
// pass through; transport failures collapse to a generic fallback since no
// structured payload is guaranteed.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "request failed, check your connection and try again"
}

// decodeError maps a non-2xx response to *Error. Error bodies carry
// {"error": "..."}; anything else falls back to a status-derived message.
func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(body) > 0 {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Message = strings.TrimSpace(payload.Error)
		}
	}

	if apiErr.Message == "" {
		if resp.StatusCode >= 500 {
			apiErr.Message = "server error, try again later"
		} else {
			apiErr.Message = fmt.Sprintf("request rejected (status %d)", resp.StatusCode)
		}
	}
	return apiErr
}
