package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorKind tags the one normalized error representation every backend
// failure is reduced to at the client boundary.
type ErrorKind string

const (
	// KindTransport: the request never completed (network, DNS, offline).
	KindTransport ErrorKind = "transport"
	// KindMessage: the backend answered outside 2xx with a single message.
	KindMessage ErrorKind = "message"
	// KindFieldErrors: the backend answered with per-field violations.
	KindFieldErrors ErrorKind = "fieldErrors"
	// KindFormat: the body matched no accepted shape.
	KindFormat ErrorKind = "format"
)

type FieldError struct {
	Field string
	Text  string
}

// APIError is the single error type surfaced by every client operation.
// Pages and commands render it without caring which backend shape it came
// from.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  []FieldError

	cause error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindFieldErrors:
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Text)
		}
		return strings.Join(parts, "; ")
	case KindTransport:
		if e.cause != nil {
			return e.cause.Error()
		}
		return e.Message
	default:
		return e.Message
	}
}

func (e *APIError) Unwrap() error { return e.cause }

// Lines returns the user-visible representation: one line per field
// violation, or a single message line.
func (e *APIError) Lines() []string {
	if e.Kind == KindFieldErrors {
		lines := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			lines = append(lines, f.Field+": "+f.Text)
		}
		return lines
	}
	return []string{e.Error()}
}

// validationItem is one entry of a FastAPI-style validation error list.
type validationItem struct {
	Loc  []json.RawMessage `json:"loc"`
	Msg  string            `json:"msg"`
	Type string            `json:"type"`
}

// errorEnvelope covers the single-message shapes the backend has used over
// its lifetime: {detail}, {message}, {error}.
type errorEnvelope struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// DecodeError normalizes a non-2xx response body. Accepted shapes, in
// order: a validation-error list under "detail", a string under "detail",
// "message" or "error" strings, a bare JSON string. Anything else becomes a
// message carrying the (truncated) raw body so the user still sees what the
// backend said.
func DecodeError(status int, body []byte) *APIError {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if len(env.Detail) > 0 {
			var items []validationItem
			if err := json.Unmarshal(env.Detail, &items); err == nil && len(items) > 0 {
				return &APIError{Kind: KindFieldErrors, Status: status, Fields: fieldErrors(items)}
			}
			var s string
			if err := json.Unmarshal(env.Detail, &s); err == nil {
				return &APIError{Kind: KindMessage, Status: status, Message: s}
			}
		}
		if env.Message != "" {
			return &APIError{Kind: KindMessage, Status: status, Message: env.Message}
		}
		if env.Error != "" {
			return &APIError{Kind: KindMessage, Status: status, Message: env.Error}
		}
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil && s != "" {
		return &APIError{Kind: KindMessage, Status: status, Message: s}
	}

	return &APIError{Kind: KindMessage, Status: status, Message: truncate(string(body), 200)}
}

func fieldErrors(items []validationItem) []FieldError {
	out := make([]FieldError, 0, len(items))
	for _, it := range items {
		out = append(out, FieldError{Field: lastLoc(it.Loc), Text: it.Msg})
	}
	return out
}

// lastLoc extracts the field name from a validation location path like
// ["body", "password1"]. Elements may be strings or array indices.
func lastLoc(loc []json.RawMessage) string {
	if len(loc) == 0 {
		return "request"
	}
	raw := loc[len(loc)-1]
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return fmt.Sprintf("item %d", n)
	}
	return "request"
}

func transportError(err error) *APIError {
	return &APIError{Kind: KindTransport, Message: err.Error(), cause: err}
}

func formatError(msg string) *APIError {
	return &APIError{Kind: KindFormat, Message: msg}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
