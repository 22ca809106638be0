package handler

import (
	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/deppfellow/movie-catalog/internal/service"
	"github.com/deppfellow/movie-catalog/internal/view"
	"github.com/labstack/echo/v4"
)

const (
	msgCreateDirectorFailed = "Error creating a new director"
	msgUpdateDirectorFailed = "Error updating a director"
)

// DirectorHandler serves the director pages.
type DirectorHandler struct {
	Handler
	directors *service.DirectorService
}

func NewDirectorHandler(s *server.Server, directors *service.DirectorService) *DirectorHandler {
	return &DirectorHandler{
		Handler:   NewHandler(s),
		directors: directors,
	}
}

func directorPath(id string) string {
	return "/directors/" + id
}

func (h *DirectorHandler) Index(c echo.Context, req *DirectorSearchRequest) (Result, error) {
	directors, err := h.directors.List(c.Request().Context(), req.Filter())
	if err != nil {
		return nil, err
	}

	return Page{Name: view.PageDirectorsList, Data: view.DirectorListPage{
		Directors: directors,
		Name:      req.Name,
	}}, nil
}

func (h *DirectorHandler) New(c echo.Context, _ *EmptyRequest) (Result, error) {
	return Page{Name: view.PageDirectorsNew, Data: view.DirectorFormPage{}}, nil
}

func (h *DirectorHandler) Create(c echo.Context, req *DirectorFormRequest) (Result, error) {
	director, err := h.directors.Create(c.Request().Context(), req.DirectorInput)
	if err != nil {
		form, status := formFailure(c, err, msgCreateDirectorFailed)
		return Page{Name: view.PageDirectorsNew, Status: status, Data: view.DirectorFormPage{
			Input: req.DirectorInput,
			Form:  form,
		}}, nil
	}

	return Redirect{Location: directorPath(director.ID.String())}, nil
}

func (h *DirectorHandler) Show(c echo.Context, req *IDRequest) (Result, error) {
	details, err := h.directors.GetWithMovies(c.Request().Context(), req.UUID())
	if err != nil {
		return nil, err
	}

	return Page{Name: view.PageDirectorsShow, Data: view.DirectorShowPage{
		Director: details.Director,
		Movies:   details.Movies,
	}}, nil
}

func (h *DirectorHandler) Edit(c echo.Context, req *IDRequest) (Result, error) {
	director, err := h.directors.Get(c.Request().Context(), req.UUID())
	if err != nil {
		return nil, err
	}

	return Page{Name: view.PageDirectorsEdit, Data: view.DirectorFormPage{
		Director: director,
		Input:    model.DirectorInput{Name: director.Name},
	}}, nil
}

func (h *DirectorHandler) Update(c echo.Context, req *UpdateDirectorFormRequest) (Result, error) {
	ctx := c.Request().Context()

	current, err := h.directors.Get(ctx, req.UUID())
	if err != nil {
		return nil, err
	}

	if _, err := h.directors.Update(ctx, current.ID, req.DirectorInput); err != nil {
		if isNotFound(err) {
			return nil, err
		}
		form, status := formFailure(c, err, msgUpdateDirectorFailed)
		return Page{Name: view.PageDirectorsEdit, Status: status, Data: view.DirectorFormPage{
			Director: current,
			Input:    req.DirectorInput,
			Form:     form,
		}}, nil
	}

	return Redirect{Location: directorPath(req.ID)}, nil
}

// Remove deletes a director. A director that cannot be removed sends the
// browser back to its page.
func (h *DirectorHandler) Remove(c echo.Context, req *IDRequest) (Result, error) {
	if err := h.directors.Delete(c.Request().Context(), req.UUID()); err != nil {
		if isNotFound(err) {
			return nil, err
		}
		return nil, errs.Redirect(err, directorPath(req.ID))
	}

	return Redirect{Location: "/directors"}, nil
}
