// Package metrics holds the Prometheus collectors for the catalog.
//
// Collectors are registered on the default registry through promauto and
// exposed by the /metrics route.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	RateLimitedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	// Catalog Metrics
	CatalogOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_operations_total",
			Help: "Total number of catalog operations by entity, operation and result",
		},
		[]string{"entity", "operation", "result"}, // result: "success", "not_found", "invalid", "conflict", "error"
	)

	CoverImageBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_cover_image_bytes",
			Help:    "Size of stored cover images in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 8), // 16KiB .. 2MiB
		},
	)

	// Job Metrics
	JobsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_jobs_enqueued_total",
			Help: "Total number of background tasks enqueued",
		},
		[]string{"task", "result"},
	)

	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_jobs_processed_total",
			Help: "Total number of background tasks processed",
		},
		[]string{"task", "result"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackInFlight adjusts the in-flight request gauge.
func TrackInFlight(inc bool) {
	if inc {
		HTTPRequestsInFlight.Inc()
	} else {
		HTTPRequestsInFlight.Dec()
	}
}

// RecordRateLimited records a request rejected by the rate limiter.
func RecordRateLimited(route string) {
	RateLimitedRequests.WithLabelValues(route).Inc()
}

// RecordCatalogOperation records the outcome of a catalog operation.
func RecordCatalogOperation(entity, operation string, err error) {
	CatalogOperations.WithLabelValues(entity, operation, resultOf(err)).Inc()
}

// RecordCoverStored records the size of a stored cover image.
func RecordCoverStored(size int) {
	CoverImageBytes.Observe(float64(size))
}

// RecordJobEnqueued records an enqueue attempt.
func RecordJobEnqueued(task string, err error) {
	JobsEnqueued.WithLabelValues(task, successOrError(err)).Inc()
}

// RecordJobProcessed records a processed task.
func RecordJobProcessed(task string, err error) {
	JobsProcessed.WithLabelValues(task, successOrError(err)).Inc()
}

func successOrError(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// resultOf buckets an error by its HTTP status.
func resultOf(err error) string {
	if err == nil {
		return "success"
	}

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		return "error"
	}

	switch httpErr.Status {
	case 400:
		return "invalid"
	case 404:
		return "not_found"
	case 409:
		return "conflict"
	default:
		return "error"
	}
}
