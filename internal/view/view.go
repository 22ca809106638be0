// Package view renders the catalog's HTML pages.
//
// Pages live in templates/ and are embedded in the binary. Every page is
// parsed together with layout.html and the partials, and is rendered by
// executing the "layout" template, which pulls in the page's "title" and
// "content" blocks.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Page template names.
const (
	PageIndex         = "index"
	PageError         = "error"
	PageDirectorsList = "directors/index"
	PageDirectorsNew  = "directors/new"
	PageDirectorsEdit = "directors/edit"
	PageDirectorsShow = "directors/show"
	PageMoviesList    = "movies/index"
	PageMoviesNew     = "movies/new"
	PageMoviesEdit    = "movies/edit"
	PageMoviesShow    = "movies/show"
)

//go:embed all:templates
var templateFS embed.FS

// Renderer is an echo.Renderer over the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page in the embedded templates.
func New() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	root, err := fs.Sub(fsys, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}

	shared := []string{"layout.html", "partials/*.html"}

	pages := make(map[string]*template.Template)
	err = fs.WalkDir(root, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" || p == "layout.html" || strings.HasPrefix(p, "partials/") {
			return nil
		}

		name := strings.TrimSuffix(p, ".html")
		tmpl, err := template.New(path.Base(p)).
			Funcs(Funcs()).
			ParseFS(root, append(shared, p)...)
		if err != nil {
			return fmt.Errorf("failed to parse page %s: %w", name, err)
		}

		pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Renderer{pages: pages}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Has reports whether a page with the given name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Funcs returns the template functions: sprig's plus the catalog helpers.
func Funcs() template.FuncMap {
	funcs := sprig.HtmlFuncMap()
	funcs["coverURL"] = func(id uuid.UUID) string {
		return "/movies/" + id.String() + "/cover"
	}
	funcs["fieldError"] = fieldError
	return funcs
}
