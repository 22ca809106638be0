package handler

import (
	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/deppfellow/movie-catalog/internal/lib/utils"
	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/deppfellow/movie-catalog/internal/service"
	"github.com/labstack/echo/v4"
)

// DirectorAPIHandler serves /api/v1/directors.
type DirectorAPIHandler struct {
	Handler
	directors *service.DirectorService
}

func NewDirectorAPIHandler(s *server.Server, directors *service.DirectorService) *DirectorAPIHandler {
	return &DirectorAPIHandler{
		Handler:   NewHandler(s),
		directors: directors,
	}
}

func (h *DirectorAPIHandler) List(c echo.Context, req *DirectorSearchRequest) ([]model.Director, error) {
	directors, err := h.directors.List(c.Request().Context(), req.Filter())
	if err != nil {
		return nil, err
	}
	return utils.EmptyIfNil(directors), nil
}

func (h *DirectorAPIHandler) Get(c echo.Context, req *IDRequest) (*service.DirectorDetails, error) {
	details, err := h.directors.GetWithMovies(c.Request().Context(), req.UUID())
	if err != nil {
		return nil, err
	}
	details.Movies = utils.EmptyIfNil(details.Movies)
	return details, nil
}

func (h *DirectorAPIHandler) Create(c echo.Context, req *DirectorRequest) (*model.Director, error) {
	return h.directors.Create(c.Request().Context(), req.DirectorInput)
}

func (h *DirectorAPIHandler) Update(c echo.Context, req *UpdateDirectorRequest) (*model.Director, error) {
	return h.directors.Update(c.Request().Context(), req.UUID(), req.DirectorInput)
}

func (h *DirectorAPIHandler) Delete(c echo.Context, req *IDRequest) error {
	return h.directors.Delete(c.Request().Context(), req.UUID())
}

// MovieAPIHandler serves /api/v1/movies.
type MovieAPIHandler struct {
	Handler
	movies *service.MovieService
}

func NewMovieAPIHandler(s *server.Server, movies *service.MovieService) *MovieAPIHandler {
	return &MovieAPIHandler{
		Handler: NewHandler(s),
		movies:  movies,
	}
}

func (h *MovieAPIHandler) List(c echo.Context, req *MovieSearchRequest) ([]model.Movie, error) {
	movies, err := h.movies.List(c.Request().Context(), req.Filter())
	if err != nil {
		return nil, err
	}
	return utils.EmptyIfNil(movies), nil
}

func (h *MovieAPIHandler) Get(c echo.Context, req *IDRequest) (*model.Movie, error) {
	return h.movies.Get(c.Request().Context(), req.UUID())
}

func (h *MovieAPIHandler) Create(c echo.Context, req *MovieRequest) (*model.Movie, error) {
	in, err := req.Input()
	if err != nil {
		return nil, errs.ValidationError(err)
	}
	return h.movies.Create(c.Request().Context(), in)
}

func (h *MovieAPIHandler) Update(c echo.Context, req *UpdateMovieRequest) (*model.Movie, error) {
	in, err := req.Input()
	if err != nil {
		return nil, errs.ValidationError(err)
	}
	return h.movies.Update(c.Request().Context(), req.UUID(), in)
}

func (h *MovieAPIHandler) Delete(c echo.Context, req *IDRequest) error {
	return h.movies.Delete(c.Request().Context(), req.UUID())
}
