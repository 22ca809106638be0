package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/movie-catalog/internal/middleware"
	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthReport is the /status response body.
type HealthReport struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckResult is the outcome of one dependency probe.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// probes returns the enabled dependency checks by name.
func (h *HealthHandler) probes() map[string]func(context.Context) error {
	probes := make(map[string]func(context.Context) error)
	observability := h.server.Config.Observability

	if h.server.DB != nil && observability.HasCheck("database") {
		probes["database"] = h.server.DB.Ping
	}
	if h.server.Redis != nil && observability.HasCheck("redis") {
		probes["redis"] = func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}
	}

	return probes
}

func (h *HealthHandler) probe(ctx context.Context, log zerolog.Logger, name string, ping func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	started := time.Now()
	err := ping(ctx)
	elapsed := time.Since(started)

	result := CheckResult{Status: statusHealthy, ResponseTime: elapsed.String()}
	if err == nil {
		log.Debug().Str("check", name).Dur("response_time", elapsed).Msg("health check passed")
		return result
	}

	result.Status = statusUnhealthy
	result.Error = err.Error()
	log.Error().Err(err).Str("check", name).Dur("response_time", elapsed).Msg("health check failed")
	h.recordFailure(map[string]interface{}{
		"check_type":       name,
		"error_type":       name + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})

	return result
}

// recordFailure sends a HealthCheckError event when New Relic is enabled.
func (h *HealthHandler) recordFailure(attrs map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		attrs["operation"] = "health_check"
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}

// CheckHealth answers 200 when every enabled check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	started := time.Now()
	log := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()

	report := HealthReport{
		Status:      statusHealthy,
		Timestamp:   started.UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}

	for name, ping := range h.probes() {
		result := h.probe(c.Request().Context(), log, name, ping)
		report.Checks[name] = result
		if result.Status != statusHealthy {
			report.Status = statusUnhealthy
		}
	}

	if report.Status != statusHealthy {
		log.Warn().Dur("total_duration", time.Since(started)).Msg("service unhealthy")
		h.recordFailure(map[string]interface{}{
			"check_type":        "overall",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(started).Milliseconds(),
		})
		return c.JSON(http.StatusServiceUnavailable, report)
	}

	return c.JSON(http.StatusOK, report)
}
