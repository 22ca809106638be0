package handler

import (
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/deppfellow/movie-catalog/internal/middleware"
	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/deppfellow/movie-catalog/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler holds the shared application dependencies of every handler.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives a bound and validated
// request and returns a result or an error. Req is a pointer type.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a typed endpoint without a response body.
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// ResponseHandler writes a successful handler result and describes it for
// logs and tracing.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result any)
}

// failureRedirector is implemented by response handlers that send browsers
// somewhere else when the request fails.
type failureRedirector interface {
	redirectFailure(err error) error
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	// http.status_code is set by EnhanceTracing.
}

// NoContentResponseHandler writes responses with no body.
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, result any) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

func (h NoContentResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	// http.status_code is set by EnhanceTracing.
}

// File is a binary response whose type is known only at request time.
type File struct {
	Data        []byte
	ContentType string

	// Filename, when set, is sent in an inline Content-Disposition.
	Filename string
}

// FileResponseHandler writes File results.
type FileResponseHandler struct {
	status int

	// maxAge is the Cache-Control max-age in seconds; zero disables caching.
	maxAge int
}

func (h FileResponseHandler) Handle(c echo.Context, result any) error {
	file := result.(File)

	header := c.Response().Header()
	if file.Filename != "" {
		header.Set(echo.HeaderContentDisposition, "inline; filename="+strconv.Quote(file.Filename))
	}
	if h.maxAge > 0 {
		header.Set("Cache-Control", "private, max-age="+strconv.Itoa(h.maxAge))
	} else {
		header.Set("Cache-Control", "no-cache")
	}

	return c.Blob(h.status, file.ContentType, file.Data)
}

func (h FileResponseHandler) GetOperation() string {
	return "handler_file"
}

func (h FileResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if txn == nil {
		return
	}
	if file, ok := result.(File); ok {
		txn.AddAttribute("file.content_type", file.ContentType)
		txn.AddAttribute("file.size_bytes", len(file.Data))
	}
}

// Result is what an HTML endpoint produces.
type Result interface {
	write(c echo.Context) error
}

// Page renders a template. Status defaults to 200.
type Page struct {
	Name   string
	Data   any
	Status int
}

func (p Page) write(c echo.Context) error {
	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	return c.Render(status, p.Name, p.Data)
}

// Redirect sends the browser to Location with a 303, so the follow-up is a GET.
type Redirect struct {
	Location string
}

func (r Redirect) write(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, r.Location)
}

// PageResponseHandler writes Result values for browser routes.
type PageResponseHandler struct {
	// failureLocation receives the browser when the request fails without
	// choosing its own redirect. Empty means render the error page.
	failureLocation string
}

func (h PageResponseHandler) Handle(c echo.Context, result any) error {
	return result.(Result).write(c)
}

func (h PageResponseHandler) GetOperation() string {
	return "handler_page"
}

func (h PageResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if txn == nil {
		return
	}
	switch r := result.(type) {
	case Page:
		txn.AddAttribute("page.template", r.Name)
	case Redirect:
		txn.AddAttribute("page.redirect", r.Location)
	}
}

func (h PageResponseHandler) redirectFailure(err error) error {
	if h.failureLocation == "" {
		return err
	}
	if httpErr, ok := errs.AsHTTPError(err); ok {
		if _, ok := httpErr.RedirectTo(); ok {
			return err
		}
	}
	return errs.Redirect(err, h.failureLocation)
}

// newRequest returns a fresh zero value of the request type behind proto,
// so concurrent requests never share a bind target.
func newRequest[Req validation.Validatable](proto Req) Req {
	t := reflect.TypeOf(proto)
	if t.Kind() != reflect.Pointer {
		return proto
	}
	return reflect.New(t.Elem()).Interface().(Req)
}

// traceStage records the outcome and duration of one pipeline stage
// ("validation" or "handler") on the transaction.
func traceStage(txn *newrelic.Transaction, stage string, err error, elapsed time.Duration) {
	if txn == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
		txn.NoticeError(nrpkgerrors.Wrap(err))
	}
	txn.AddAttribute(stage+".status", status)
	txn.AddAttribute(stage+".duration_ms", elapsed.Milliseconds())
}

// handleRequest binds and validates req, runs handler and writes its
// result with responseHandler. Both stages are timed in the request log
// and on the New Relic transaction.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	started := time.Now()
	route := c.Path()

	fail := func(err error) error {
		if fr, ok := responseHandler.(failureRedirector); ok {
			return fr.redirectFailure(err)
		}
		return err
	}

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	log := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()
	log.Debug().Msg("handling request")

	bindStarted := time.Now()
	err := validation.BindAndValidate(c, req)
	bindElapsed := time.Since(bindStarted)
	traceStage(txn, "validation", err, bindElapsed)
	if err != nil {
		log.Warn().Err(err).Dur("validation_duration", bindElapsed).Msg("request rejected")
		return fail(err)
	}

	runStarted := time.Now()
	result, err := handler(c, req)
	runElapsed := time.Since(runStarted)
	traceStage(txn, "handler", err, runElapsed)
	if txn != nil {
		txn.AddAttribute("total.duration_ms", time.Since(started).Milliseconds())
	}
	if err != nil {
		log.Error().Err(err).
			Dur("handler_duration", runElapsed).
			Dur("total_duration", time.Since(started)).
			Msg("handler failed")
		return fail(err)
	}

	if txn != nil {
		responseHandler.AddAttributes(txn, result)
	}
	log.Debug().
		Dur("validation_duration", bindElapsed).
		Dur("handler_duration", runElapsed).
		Dur("total_duration", time.Since(started)).
		Msg("request handled")

	return responseHandler.Handle(c, result)
}

// Handle wraps a JSON endpoint with binding, validation, logging and tracing.
//
//	api.POST("/movies", handler.Handle(h.Handler, h.CreateMovie, http.StatusCreated, &CreateMovieRequest{}))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent wraps an endpoint that answers with status and no body.
func HandleNoContent[Req validation.Validatable](
	h Handler,
	handler HandlerFuncNoContent[Req],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (any, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}

// HandleFile wraps an endpoint that returns a File. maxAge sets the
// Cache-Control max-age in seconds.
func HandleFile[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, File],
	status int,
	maxAge int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, FileResponseHandler{status: status, maxAge: maxAge})
	}
}

// HandlePage wraps a browser endpoint returning a Page or a Redirect.
// Failures that do not carry their own redirect send the browser to
// failureLocation, or render the error page when it is empty.
func HandlePage[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, Result],
	failureLocation string,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, PageResponseHandler{failureLocation: failureLocation})
	}
}
