package handler

import (
	"errors"
	"net/http"

	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/deppfellow/movie-catalog/internal/middleware"
	"github.com/deppfellow/movie-catalog/internal/view"
	"github.com/labstack/echo/v4"
)

// formFailure turns a failed save into the state of the re-rendered form
// and the status to render it with.
func formFailure(c echo.Context, err error, message string) (view.Form, int) {
	middleware.GetLogger(c).Warn().Err(err).Msg(message)

	form := view.Form{ErrorMessage: message}
	status := http.StatusInternalServerError

	if httpErr, ok := errs.AsHTTPError(err); ok {
		status = httpErr.Status
		form.FieldErrors = httpErr.Errors
		if status == http.StatusBadRequest {
			status = http.StatusUnprocessableEntity
		}
	}

	return form, status
}

// isNotFound reports whether err is a 404.
func isNotFound(err error) bool {
	var httpErr *errs.HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound
}
