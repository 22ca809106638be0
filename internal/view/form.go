package view

import "github.com/deppfellow/movie-catalog/internal/errs"

// Form is the state of a form page: its error banner and per-field errors.
type Form struct {
	ErrorMessage string
	FieldErrors  []errs.FieldError
}

// fieldError returns the error for field, if any.
func fieldError(form Form, field string) string {
	for _, fe := range form.FieldErrors {
		if fe.Field == field {
			return fe.Error
		}
	}
	return ""
}
