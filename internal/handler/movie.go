package handler

import (
	"net/http"

	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/deppfellow/movie-catalog/internal/service"
	"github.com/deppfellow/movie-catalog/internal/view"
	"github.com/labstack/echo/v4"
)

const (
	msgCreateMovieFailed = "Error creating movie"
	msgUpdateMovieFailed = "Error updating movie"
	msgRemoveMovieFailed = "Could not remove movie"

	// CoverMaxAge is how long browsers may cache a cover, in seconds.
	CoverMaxAge = 300
)

// MovieHandler serves the movie pages and covers.
type MovieHandler struct {
	Handler
	movies *service.MovieService
}

func NewMovieHandler(s *server.Server, movies *service.MovieService) *MovieHandler {
	return &MovieHandler{
		Handler: NewHandler(s),
		movies:  movies,
	}
}

func moviePath(id string) string {
	return "/movies/" + id
}

func (h *MovieHandler) Index(c echo.Context, req *MovieSearchRequest) (Result, error) {
	movies, err := h.movies.List(c.Request().Context(), req.Filter())
	if err != nil {
		return nil, err
	}

	return Page{Name: view.PageMoviesList, Data: view.MovieListPage{
		Movies:         movies,
		Title:          req.Title,
		ReleasedBefore: req.ReleasedBefore,
		ReleasedAfter:  req.ReleasedAfter,
	}}, nil
}

func (h *MovieHandler) New(c echo.Context, _ *EmptyRequest) (Result, error) {
	directors, err := h.movies.Directors(c.Request().Context())
	if err != nil {
		return nil, err
	}

	return Page{Name: view.PageMoviesNew, Data: view.MovieFormPage{Directors: directors}}, nil
}

func (h *MovieHandler) Create(c echo.Context, req *MovieFormRequest) (Result, error) {
	ctx := c.Request().Context()

	if _, err := h.movies.Create(ctx, req.MovieInput); err != nil {
		form, status := formFailure(c, err, msgCreateMovieFailed)

		directors, lookupErr := h.movies.Directors(ctx)
		if lookupErr != nil {
			return nil, lookupErr
		}

		return Page{Name: view.PageMoviesNew, Status: status, Data: view.MovieFormPage{
			Input:     withoutCover(req.MovieInput),
			Directors: directors,
			Form:      form,
		}}, nil
	}

	return Redirect{Location: "/movies"}, nil
}

func (h *MovieHandler) Show(c echo.Context, req *IDRequest) (Result, error) {
	movie, err := h.movies.Get(c.Request().Context(), req.UUID())
	if err != nil {
		return nil, err
	}

	return Page{Name: view.PageMoviesShow, Data: view.MovieShowPage{Movie: movie}}, nil
}

func (h *MovieHandler) Edit(c echo.Context, req *IDRequest) (Result, error) {
	ctx := c.Request().Context()

	movie, err := h.movies.Get(ctx, req.UUID())
	if err != nil {
		return nil, err
	}

	directors, err := h.movies.Directors(ctx)
	if err != nil {
		return nil, err
	}

	return Page{Name: view.PageMoviesEdit, Data: view.MovieFormPage{
		Movie:     movie,
		Input:     model.InputFrom(movie),
		Directors: directors,
	}}, nil
}

func (h *MovieHandler) Update(c echo.Context, req *UpdateMovieFormRequest) (Result, error) {
	ctx := c.Request().Context()

	current, err := h.movies.Get(ctx, req.UUID())
	if err != nil {
		return nil, err
	}

	if _, err := h.movies.Update(ctx, current.ID, req.MovieInput); err != nil {
		if isNotFound(err) {
			return nil, err
		}
		form, status := formFailure(c, err, msgUpdateMovieFailed)

		directors, lookupErr := h.movies.Directors(ctx)
		if lookupErr != nil {
			return nil, lookupErr
		}

		return Page{Name: view.PageMoviesEdit, Status: status, Data: view.MovieFormPage{
			Movie:     current,
			Input:     withoutCover(req.MovieInput),
			Directors: directors,
			Form:      form,
		}}, nil
	}

	return Redirect{Location: moviePath(req.ID)}, nil
}

// Remove deletes a movie. When the delete fails the movie page is shown
// again with an error.
func (h *MovieHandler) Remove(c echo.Context, req *IDRequest) (Result, error) {
	ctx := c.Request().Context()

	err := h.movies.Delete(ctx, req.UUID())
	if err == nil {
		return Redirect{Location: "/movies"}, nil
	}
	if isNotFound(err) {
		return nil, err
	}

	_, status := formFailure(c, err, msgRemoveMovieFailed)

	movie, getErr := h.movies.Get(ctx, req.UUID())
	if getErr != nil {
		return nil, getErr
	}

	return Page{Name: view.PageMoviesShow, Status: status, Data: view.MovieShowPage{
		Movie:        movie,
		ErrorMessage: msgRemoveMovieFailed,
	}}, nil
}

// Cover serves the stored cover bytes.
func (h *MovieHandler) Cover(c echo.Context, req *IDRequest) (File, error) {
	img, err := h.movies.Cover(c.Request().Context(), req.UUID())
	if err != nil {
		return File{}, err
	}

	return File{Data: img.Data, ContentType: img.Type}, nil
}

// withoutCover drops the posted cover so a failed form does not echo the
// whole image back into the page.
func withoutCover(in model.MovieInput) model.MovieInput {
	in.Cover = ""
	return in
}

// HomeHandler serves the landing page.
type HomeHandler struct {
	Handler
	movies *service.MovieService
}

func NewHomeHandler(s *server.Server, movies *service.MovieService) *HomeHandler {
	return &HomeHandler{
		Handler: NewHandler(s),
		movies:  movies,
	}
}

// Index lists the latest additions to the catalog.
func (h *HomeHandler) Index(c echo.Context, _ *EmptyRequest) (Result, error) {
	movies, err := h.movies.Recent(c.Request().Context())
	if err != nil {
		return nil, err
	}

	return Page{Name: view.PageIndex, Status: http.StatusOK, Data: view.IndexPage{Movies: movies}}, nil
}
