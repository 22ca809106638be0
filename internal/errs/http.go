package errs

import (
	"errors"
	"strings"
)

// FieldError represents a field-level validation error.
//
//	{ "field": "title", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client to go to Action.Value.
	// The global error handler follows it for browser requests.
	ActionTypeRedirect ActionType = "redirect"
)

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the main custom error type for responses.
//
// It is serialized directly to JSON for API clients. Cause keeps the
// underlying error for logs and is never sent to the client.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors.
	Errors []FieldError `json:"errors"`

	// Action is an optional client instruction (redirect, etc.).
	Action *Action `json:"action"`

	Cause error `json:"-"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the cause so errors.Is/As can see through an HTTPError.
func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is also an *HTTPError. Code and status are not compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	c := e.clone()
	c.Message = message
	return c
}

// WithRedirect returns a copy of e that tells the client to go to location.
func (e *HTTPError) WithRedirect(location string) *HTTPError {
	c := e.clone()
	c.Action = &Action{
		Type:    ActionTypeRedirect,
		Message: e.Message,
		Value:   location,
	}
	return c
}

// WithCause returns a copy of e carrying cause for logging.
func (e *HTTPError) WithCause(cause error) *HTTPError {
	c := e.clone()
	c.Cause = cause
	return c
}

// RedirectTo returns the redirect location carried by e, if any.
func (e *HTTPError) RedirectTo() (string, bool) {
	if e.Action == nil || e.Action.Type != ActionTypeRedirect || e.Action.Value == "" {
		return "", false
	}
	return e.Action.Value, true
}

func (e *HTTPError) clone() *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  e.Message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
		Cause:    e.Cause,
	}
}

// AsHTTPError returns the first *HTTPError in err's chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
