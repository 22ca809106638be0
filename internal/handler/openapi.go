package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPISpecURL is where the API description is served from StaticDir.
const OpenAPISpecURL = "/static/openapi.json"

// docsPage is the data of the openapi.html template.
type docsPage struct {
	Title   string
	SpecURL string
}

// OpenAPIHandler serves the API documentation page.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI renders StaticDir/openapi.html with the configured title.
// The page is read on every request so doc edits show up without a restart.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	catalog := h.server.Config.Catalog

	c.Response().Header().Set("Cache-Control", "no-cache")

	page, err := template.ParseFiles(filepath.Join(catalog.StaticDir, "openapi.html"))
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, docsPage{Title: catalog.DocsTitle, SpecURL: OpenAPISpecURL}); err != nil {
		return fmt.Errorf("failed to render OpenAPI UI: %w", err)
	}

	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
