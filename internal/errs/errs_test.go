package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)))
}

func TestConstructors(t *testing.T) {
	code := "MOVIE_NOT_FOUND"

	notFound := NewNotFoundError("Movie not found", true, &code)
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, "MOVIE_NOT_FOUND", notFound.Code)

	conflict := NewConflictError("Director still has movies", true, nil)
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, "CONFLICT", conflict.Code)

	internal := NewInternalServerError()
	assert.Equal(t, "Internal Server Error", internal.Message)
	assert.False(t, internal.Override)
}

func TestHTTPError_WithRedirect(t *testing.T) {
	base := NewNotFoundError("Director not found", true, nil)
	redirected := base.WithRedirect("/directors")

	location, ok := redirected.RedirectTo()
	require.True(t, ok)
	assert.Equal(t, "/directors", location)

	_, ok = base.RedirectTo()
	assert.False(t, ok, "original must not be mutated")
}

func TestRedirect_WrapsPlainErrors(t *testing.T) {
	cause := errors.New("connection refused")
	err := Redirect(fmt.Errorf("list movies: %w", cause), "/")

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.ErrorIs(t, err, cause)

	location, ok := err.RedirectTo()
	require.True(t, ok)
	assert.Equal(t, "/", location)
}

func TestRedirect_KeepsHTTPErrorShape(t *testing.T) {
	err := Redirect(fmt.Errorf("wrapped: %w", NewNotFoundError("Movie not found", true, nil)), "/")
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "Movie not found", err.Message)
}

func TestAsHTTPError(t *testing.T) {
	_, ok := AsHTTPError(errors.New("plain"))
	assert.False(t, ok)

	httpErr, ok := AsHTTPError(fmt.Errorf("ctx: %w", ValidationError(errors.New("bad date"))))
	require.True(t, ok)
	assert.Equal(t, "Validation failed: bad date", httpErr.Message)
}
