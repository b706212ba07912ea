// ABOUTME: Error types for CRM backend responses
// ABOUTME: Carries HTTP status plus the backend message body verbatim

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the backend. Message is the
// backend-provided text, passed through unchanged so conflict and
// validation messages reach the user exactly as the server wrote them.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsStatus reports whether err is a backend Error with the given status
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnauthorized reports whether err is a 401 response
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsConflict reports whether err is a 409 response, e.g. deleting a
// department still referenced by agents
func IsConflict(err error) bool {
	return IsStatus(err, http.StatusConflict)
}

// errorBody covers the message shapes the backend emits
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// parseError builds an *Error from a non-2xx response body
func parseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return &Error{Status: resp.StatusCode, Message: body.Message}
		}
		if body.Error != "" {
			return &Error{Status: resp.StatusCode, Message: body.Error}
		}
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return &Error{Status: resp.StatusCode, Message: msg}
	}
	return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("backend returned status %d", resp.StatusCode)}
}
