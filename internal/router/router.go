// Package router builds the echo instance: global middleware, the error
// handler, the HTML renderer and every route.
package router

import (
	"net/http"

	"github.com/deppfellow/movie-catalog/internal/handler"
	"github.com/deppfellow/movie-catalog/internal/middleware"
	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/deppfellow/movie-catalog/internal/view"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) (*echo.Echo, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, err
	}

	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.Renderer = renderer
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Forms post PUT and DELETE through _method; the method must be
	// rewritten before routing, and reading the form must stay under the
	// rate and body limits.
	router.Pre(
		middlewares.RateLimit.Limit(),
		middlewares.Global.BodyLimit(),
		middlewares.Global.MethodOverride(),
	)

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Metrics.Record(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h, s.Config.Catalog.StaticDir)
	registerCatalogRoutes(router, h)
	registerAPIRoutes(router.Group("/api/v1"), h)

	return router, nil
}

func registerCatalogRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", handler.HandlePage(h.Home.Handler, h.Home.Index, "", &handler.EmptyRequest{}))

	directors := h.Directors
	r.GET("/directors", handler.HandlePage(directors.Handler, directors.Index, "/", &handler.DirectorSearchRequest{}))
	r.GET("/directors/new", handler.HandlePage(directors.Handler, directors.New, "", &handler.EmptyRequest{}))
	r.POST("/directors", handler.HandlePage(directors.Handler, directors.Create, "", &handler.DirectorFormRequest{}))
	r.GET("/directors/:id", handler.HandlePage(directors.Handler, directors.Show, "/", &handler.IDRequest{}))
	r.GET("/directors/:id/edit", handler.HandlePage(directors.Handler, directors.Edit, "/directors", &handler.IDRequest{}))
	r.PUT("/directors/:id", handler.HandlePage(directors.Handler, directors.Update, "/", &handler.UpdateDirectorFormRequest{}))
	r.DELETE("/directors/:id", handler.HandlePage(directors.Handler, directors.Remove, "/", &handler.IDRequest{}))

	movies := h.Movies
	r.GET("/movies", handler.HandlePage(movies.Handler, movies.Index, "/", &handler.MovieSearchRequest{}))
	r.GET("/movies/new", handler.HandlePage(movies.Handler, movies.New, "/movies", &handler.EmptyRequest{}))
	r.POST("/movies", handler.HandlePage(movies.Handler, movies.Create, "/movies", &handler.MovieFormRequest{}))
	r.GET("/movies/:id", handler.HandlePage(movies.Handler, movies.Show, "/", &handler.IDRequest{}))
	r.GET("/movies/:id/edit", handler.HandlePage(movies.Handler, movies.Edit, "/", &handler.IDRequest{}))
	r.PUT("/movies/:id", handler.HandlePage(movies.Handler, movies.Update, "/", &handler.UpdateMovieFormRequest{}))
	r.DELETE("/movies/:id", handler.HandlePage(movies.Handler, movies.Remove, "/", &handler.IDRequest{}))
	r.GET("/movies/:id/cover", handler.HandleFile(movies.Handler, movies.Cover, http.StatusOK, handler.CoverMaxAge, &handler.IDRequest{}))
}

func registerAPIRoutes(api *echo.Group, h *handler.Handlers) {
	directors := h.DirectorsAPI
	api.GET("/directors", handler.Handle(directors.Handler, directors.List, http.StatusOK, &handler.DirectorSearchRequest{}))
	api.POST("/directors", handler.Handle(directors.Handler, directors.Create, http.StatusCreated, &handler.DirectorRequest{}))
	api.GET("/directors/:id", handler.Handle(directors.Handler, directors.Get, http.StatusOK, &handler.IDRequest{}))
	api.PUT("/directors/:id", handler.Handle(directors.Handler, directors.Update, http.StatusOK, &handler.UpdateDirectorRequest{}))
	api.DELETE("/directors/:id", handler.HandleNoContent(directors.Handler, directors.Delete, http.StatusNoContent, &handler.IDRequest{}))

	movies := h.MoviesAPI
	api.GET("/movies", handler.Handle(movies.Handler, movies.List, http.StatusOK, &handler.MovieSearchRequest{}))
	api.POST("/movies", handler.Handle(movies.Handler, movies.Create, http.StatusCreated, &handler.MovieRequest{}))
	api.GET("/movies/:id", handler.Handle(movies.Handler, movies.Get, http.StatusOK, &handler.IDRequest{}))
	api.PUT("/movies/:id", handler.Handle(movies.Handler, movies.Update, http.StatusOK, &handler.UpdateMovieRequest{}))
	api.DELETE("/movies/:id", handler.HandleNoContent(movies.Handler, movies.Delete, http.StatusNoContent, &handler.IDRequest{}))
}
