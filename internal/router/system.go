package router

import (
	"github.com/deppfellow/movie-catalog/internal/handler"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerSystemRoutes registers the endpoints that sit outside the catalog.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, staticDir string) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// openapi.json, the docs page and the stylesheet and script of the catalog pages.
	r.Static("/static", staticDir)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
