package middleware

import (
	"net/http"
	"strings"

	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// untracedPrefixes are polled or static paths kept out of New Relic.
var untracedPrefixes = []string{"/status", "/metrics", "/static/"}

type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware starts a transaction per request. Without an
// application it passes requests straight through.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing tags the current transaction with catalog attributes and
// notices handler errors. Transactions for untraced paths are ignored.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			if isUntraced(c.Request().URL.Path) {
				txn.Ignore()
				return next(c)
			}

			for key, value := range requestAttributes(c) {
				txn.AddAttribute(key, value)
			}

			err := next(c)
			if err != nil && reportable(err) {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			txn.AddAttribute("http.status_code", c.Response().Status)

			return err
		}
	}
}

func isUntraced(path string) bool {
	for _, prefix := range untracedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// requestAttributes are the custom attributes recorded on each transaction.
func requestAttributes(c echo.Context) map[string]any {
	attrs := map[string]any{
		"http.real_ip":    c.RealIP(),
		"http.user_agent": c.Request().UserAgent(),
		"http.route":      c.Path(),
		"catalog.api":     IsAPIRequest(c),
	}

	if resource := catalogResource(c.Path()); resource != "" {
		attrs["catalog.resource"] = resource
	}
	if id := c.Param("id"); id != "" {
		attrs["catalog.entity_id"] = id
	}
	if requestID := GetRequestID(c); requestID != "" {
		attrs["request.id"] = requestID
	}

	return attrs
}

// catalogResource returns "movies" or "directors" for catalog routes,
// both the HTML pages and the JSON API.
func catalogResource(route string) string {
	route = strings.TrimPrefix(route, APIPrefix+"v1")
	segment, _, _ := strings.Cut(strings.TrimPrefix(route, "/"), "/")
	switch segment {
	case "movies", "directors":
		return segment
	default:
		return ""
	}
}

// reportable drops client errors; only 5xx responses are noticed.
func reportable(err error) bool {
	return normalizeError(err).Status >= http.StatusInternalServerError
}
