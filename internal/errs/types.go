package errs

import "net/http"

func codeFor(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// newHTTPError builds an HTTPError for status. A nil code falls back to the
// status text in upper snake case, e.g. NOT_FOUND.
func newHTTPError(status int, message string, override bool, code *string) *HTTPError {
	httpErr := &HTTPError{
		Code:     codeFor(status),
		Message:  message,
		Status:   status,
		Override: override,
	}
	if code != nil {
		httpErr.Code = *code
	}
	return httpErr
}

// NewBadRequestError creates a 400. errors carries field-level failures
// and action an optional client instruction.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	httpErr := newHTTPError(http.StatusBadRequest, message, override, code)
	httpErr.Errors = errors
	httpErr.Action = action
	return httpErr
}

func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, override, code)
}

// NewConflictError creates a 409, used when a record cannot change
// because other records depend on it.
func NewConflictError(message string, override bool, code *string) *HTTPError {
	return newHTTPError(http.StatusConflict, message, override, code)
}

// NewInternalServerError creates a 500 HTTPError.
// The message is the generic status text; the real cause stays in logs.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false, nil)
}

// ValidationError converts a generic validation error into a 400 HTTPError.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil).WithCause(err)
}

// Redirect wraps err so browser requests are sent to location when it reaches
// the global error handler. Errors that are not HTTPErrors become 500s.
func Redirect(err error, location string) *HTTPError {
	httpErr, ok := AsHTTPError(err)
	if !ok {
		httpErr = NewInternalServerError().WithCause(err)
	}
	return httpErr.WithRedirect(location)
}

// NewTooManyRequestsError creates a 429 HTTPError for rate-limited clients.
func NewTooManyRequestsError(message string) *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, message, true, nil)
}
