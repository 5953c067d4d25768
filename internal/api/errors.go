package api

import (
	"encoding/json"
	"fmt"
)

// APIError is an HTTP error response from the backend. The backend reports
// validation problems as an optional "detail" string, an optional
// "non_field_errors" list, and per-field message lists keyed by field name.
type APIError struct {
	Status         int
	Detail         string
	NonFieldErrors []string
	FieldErrors    map[string]string
}

func (e *APIError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, msg)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// Message returns the text suitable for a transient user notification:
// "detail" wins, then the first non-field error. Empty for purely
// field-scoped errors and for unstructured bodies.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.NonFieldErrors) > 0 {
		return e.NonFieldErrors[0]
	}
	return ""
}

// Structured reports whether the response body carried a usable error shape.
func (e *APIError) Structured() bool {
	return e.Detail != "" || len(e.NonFieldErrors) > 0 || len(e.FieldErrors) > 0
}

// decodeAPIError builds an APIError from a response body. A body that is not
// a JSON object yields an unstructured error (generic handling downstream).
func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for key, val := range raw {
		switch key {
		case "detail":
			var detail string
			if err := json.Unmarshal(val, &detail); err == nil {
				apiErr.Detail = detail
			}
		case "non_field_errors":
			apiErr.NonFieldErrors = messageList(val)
		default:
			msgs := messageList(val)
			if len(msgs) == 0 {
				continue
			}
			if apiErr.FieldErrors == nil {
				apiErr.FieldErrors = make(map[string]string)
			}
			// First message wins when the backend sends a list.
			apiErr.FieldErrors[key] = msgs[0]
		}
	}
	return apiErr
}

// messageList accepts either a JSON list of strings or a bare string.
func messageList(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}
