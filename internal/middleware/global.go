package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/deppfellow/movie-catalog/internal/sqlerr"
	"github.com/deppfellow/movie-catalog/internal/view"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// APIPrefix is the path prefix of the JSON API.
const APIPrefix = "/api/"

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// IsAPIRequest reports whether the request expects JSON rather than HTML:
// anything under /api/ and any client that asks for JSON without HTML.
func IsAPIRequest(c echo.Context) bool {
	req := c.Request()
	if strings.HasPrefix(req.URL.Path, APIPrefix) {
		return true
	}

	accept := req.Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, echo.MIMETextHTML)
}

// isSystemRoute matches health, docs, metrics and static assets.
func isSystemRoute(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/status" || p == "/metrics" || p == "/docs" || strings.HasPrefix(p, "/static/")
}

// multipartMemory is the in-memory budget for multipart forms. Bodies are
// already capped by BodyLimit, so nothing spools to disk in practice.
const multipartMemory = 8 << 20

// MethodOverride lets HTML forms issue PUT and DELETE through a hidden
// "_method" field. It must be registered with e.Pre, after BodyLimit, so
// routing sees the overridden method and the form is read under the limit.
func (global *GlobalMiddlewares) MethodOverride() echo.MiddlewareFunc {
	override := middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		overridden := override(next)
		return func(c echo.Context) error {
			if err := parseFormBody(c.Request()); err != nil {
				return err
			}
			return overridden(c)
		}
	}
}

// parseFormBody reads a POSTed form up front. c.FormValue drops read
// errors, which would hide an exceeded body limit.
func parseFormBody(req *http.Request) error {
	if req.Method != http.MethodPost {
		return nil
	}

	var err error
	switch contentType := req.Header.Get(echo.HeaderContentType); {
	case strings.HasPrefix(contentType, echo.MIMEApplicationForm):
		err = req.ParseForm()
	case strings.HasPrefix(contentType, echo.MIMEMultipartForm):
		err = req.ParseMultipartForm(multipartMemory)
	}
	if err == nil {
		return nil
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return echoErr
	}
	return errs.NewBadRequestError("The form could not be read", false, nil, nil, nil).WithCause(err)
}

// CORS applies the configured allowed origins to the JSON API.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// BodyLimit caps request bodies; cover uploads travel inline in the form.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(global.server.Config.Catalog.RequestBodyLimit)
}

// RequestLogger writes one "API" log line per request, at a level chosen
// by the final status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// The global error handler writes the final status after this
			// runs, so derive it from the error.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			statusCode := v.Status
			if v.Error != nil {
				statusCode = responseStatus(c, v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// normalizeError turns any error reaching the error handler into an HTTPError.
func normalizeError(err error) *errs.HTTPError {
	if httpErr, ok := errs.AsHTTPError(err); ok {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return errs.NewNotFoundError("Route not found", false, nil).WithCause(err)
		}

		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			message = msg
		}
		return &errs.HTTPError{
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Message: message,
			Status:  echoErr.Code,
			Cause:   err,
		}
	}

	// Unclassified errors are most likely from the database driver.
	httpErr, _ := errs.AsHTTPError(sqlerr.HandleError(err))
	return httpErr
}

// GlobalErrorHandler is the final error funnel for the HTTP server.
//
// The original error is logged. The client then gets:
//   - a 303 to the error's redirect action, for browser requests that carry one
//   - the error page, for other browser requests
//   - the JSON error body, for API requests
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	httpErr := normalizeError(err)

	logger := *GetLogger(c)
	event := logger.Error()
	if httpErr.Status < http.StatusInternalServerError {
		event = logger.Warn()
	}
	event.Stack().
		Err(err).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	if !IsAPIRequest(c) {
		if location, ok := httpErr.RedirectTo(); ok {
			_ = c.Redirect(http.StatusSeeOther, location)
			return
		}

		renderErr := c.Render(httpErr.Status, view.PageError, view.ErrorPage{
			Status:  httpErr.Status,
			Message: httpErr.Message,
		})
		if renderErr == nil {
			return
		}
		logger.Error().Err(renderErr).Msg("failed to render error page")
		if c.Response().Committed {
			return
		}
	}

	_ = c.JSON(httpErr.Status, errs.HTTPError{
		Code:     httpErr.Code,
		Message:  httpErr.Message,
		Status:   httpErr.Status,
		Override: httpErr.Override,
		Errors:   httpErr.Errors,
		Action:   httpErr.Action,
	})
}
