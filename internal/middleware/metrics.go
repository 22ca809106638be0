package middleware

import (
	"errors"
	"time"

	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/deppfellow/movie-catalog/internal/metrics"
	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records Prometheus request metrics.
type MetricsMiddleware struct{}

func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{}
}

// Record observes every request except the metrics scrape itself.
// Routes are labelled by their template to keep cardinality bounded.
func (m *MetricsMiddleware) Record() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().URL.Path == "/metrics" {
				return next(c)
			}

			metrics.TrackInFlight(true)
			defer metrics.TrackInFlight(false)

			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			metrics.RecordHTTPRequest(c.Request().Method, route, responseStatus(c, err), time.Since(start))

			return err
		}
	}
}

// responseStatus is the status the client will see. When the handler
// returned an error the global error handler has not written it yet.
func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}

	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		if _, ok := httpErr.RedirectTo(); ok && !IsAPIRequest(c) {
			return 303
		}
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	default:
		return 500
	}
}
