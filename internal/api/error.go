package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-success response from the service, with the structured
// error detail flattened into a single human-readable message.
type APIError struct {
	Status  int
	Message string
	Raw     []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// IsAuthFailure reports whether the error should invalidate the local
// credential.
func (e *APIError) IsAuthFailure() bool {
	return e.Status == http.StatusUnauthorized
}

// errorBody matches the service's error envelope. detail is either a plain
// string or a list of per-field validation errors.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

func parseAPIError(status int, body []byte) *APIError {
	msg := flattenDetail(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg, Raw: body}
}

// flattenDetail turns the service's error detail into one line. A string
// detail passes through; a validation-error array joins as
// "field: message; field: message".
func flattenDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var fields []fieldError
	if err := json.Unmarshal(eb.Detail, &fields); err == nil {
		parts := make([]string, 0, len(fields))
		for _, fe := range fields {
			parts = append(parts, fmt.Sprintf("%s: %s", fieldName(fe.Loc), fe.Msg))
		}
		return strings.Join(parts, "; ")
	}

	return strings.TrimSpace(string(eb.Detail))
}

// fieldName extracts the field segment of a validation-error location.
// Locations look like ["body", "initial_capital"]; the second element is
// the field.
func fieldName(loc []json.RawMessage) string {
	if len(loc) < 2 {
		return "field"
	}
	var name string
	if err := json.Unmarshal(loc[1], &name); err != nil {
		return "field"
	}
	return name
}
