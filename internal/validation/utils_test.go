package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchRequest struct {
	Title          string `query:"title" validate:"max=10"`
	ReleasedBefore string `query:"releasedBefore" validate:"omitempty,datetime=2006-01-02"`
}

func (r *searchRequest) Validate() error {
	return Struct(r)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (r *renameRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return CustomValidationErrors{{Field: "name", Message: "is required"}}
	}
	return nil
}

func newContext(method, target, body, contentType string) echo.Context {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate_Valid(t *testing.T) {
	c := newContext(http.MethodGet, "/movies?title=alien&releasedBefore=1980-01-01", "", "")

	req := &searchRequest{}
	require.NoError(t, BindAndValidate(c, req))
	assert.Equal(t, "alien", req.Title)
	assert.Equal(t, "1980-01-01", req.ReleasedBefore)
}

func TestBindAndValidate_FieldErrorsUseWireNames(t *testing.T) {
	c := newContext(http.MethodGet, "/movies?title=a+very+long+title&releasedBefore=yesterday", "", "")

	err := BindAndValidate(c, &searchRequest{})

	httpErr, ok := errs.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "title", Error: "must not exceed 10 characters"},
		{Field: "releasedBefore", Error: "must be a date in the form 2006-01-02"},
	}, httpErr.Errors)
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	c := newContext(http.MethodPost, "/api/v1/directors", `{"name":"  "}`, echo.MIMEApplicationJSON)

	err := BindAndValidate(c, &renameRequest{})

	httpErr, ok := errs.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is required"}}, httpErr.Errors)
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	c := newContext(http.MethodPost, "/api/v1/directors", `{"name":`, echo.MIMEApplicationJSON)

	err := BindAndValidate(c, &renameRequest{})

	httpErr, ok := errs.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.NotEmpty(t, httpErr.Message)
}

func TestToHTTPError_PassesOtherErrors(t *testing.T) {
	other := errs.NewNotFoundError("Director not found", true, nil)
	assert.Same(t, other, ToHTTPError(other))
}
