// Package handler is the HTTP layer between the router and the services.
//
// Browser routes return a Page or a Redirect through HandlePage; API routes
// return JSON through Handle. Both share the same bind, validate, log and
// trace pipeline.
package handler

import (
	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/deppfellow/movie-catalog/internal/service"
)

// Handlers groups every HTTP handler so the router takes a single value.
type Handlers struct {
	Health       *HealthHandler
	OpenAPI      *OpenAPIHandler
	Home         *HomeHandler
	Directors    *DirectorHandler
	Movies       *MovieHandler
	DirectorsAPI *DirectorAPIHandler
	MoviesAPI    *MovieAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(s),
		OpenAPI:      NewOpenAPIHandler(s),
		Home:         NewHomeHandler(s, services.Movies),
		Directors:    NewDirectorHandler(s, services.Directors),
		Movies:       NewMovieHandler(s, services.Movies),
		DirectorsAPI: NewDirectorAPIHandler(s, services.Directors),
		MoviesAPI:    NewMovieAPIHandler(s, services.Movies),
	}
}
