package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/deppfellow/movie-catalog/internal/config"
	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocsServer(staticDir string) *server.Server {
	logger := zerolog.Nop()
	catalog := config.DefaultCatalogConfig()
	catalog.StaticDir = staticDir
	catalog.DocsTitle = "Cinema Archive API"

	return &server.Server{
		Config: &config.Config{Catalog: catalog},
		Logger: &logger,
	}
}

func TestServeOpenAPIUI(t *testing.T) {
	dir := t.TempDir()
	page := `<title>{{ .Title }}</title><script id="api-reference" data-url="{{ .SpecURL }}"></script>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openapi.html"), []byte(page), 0o600))

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/docs", nil), rec)
	require.NoError(t, NewOpenAPIHandler(newDocsServer(dir)).ServeOpenAPIUI(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "<title>Cinema Archive API</title>")
	assert.Contains(t, rec.Body.String(), `data-url="/static/openapi.json"`)
}

func TestServeOpenAPIUI_MissingPage(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/docs", nil), rec)

	err := NewOpenAPIHandler(newDocsServer(t.TempDir())).ServeOpenAPIUI(c)
	assert.ErrorContains(t, err, "failed to read OpenAPI UI template")
}
