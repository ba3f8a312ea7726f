package services

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	storeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_store_operations_total",
			Help: "Catalog store mutations by operation and result",
		},
		[]string{"op", "result"},
	)

	storeComponents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_store_components",
			Help: "Number of components in the catalog",
		},
	)

	totalRequests atomic.Int64
	totalErrors   atomic.Int64
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(storeOperations)
	prometheus.MustRegister(storeComponents)
}

/**
 * Record one served HTTP request
 * @param {string} route - Route template, e.g. /api/v1/components/:id
 * @param {string} method - HTTP method
 * @param {int} status - Response status code, >= 400 counts as an error
 * @param {float64} seconds - Handling time
 */
func ObserveRequest(route, method string, status int, seconds float64) {
	requestCount.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route).Observe(seconds)
	totalRequests.Add(1)
	if status >= 400 {
		totalErrors.Add(1)
	}
}

// GetTotalRequestCount 获取总请求数
func GetTotalRequestCount() int64 {
	return totalRequests.Load()
}

// GetTotalErrorCount 获取错误请求数
func GetTotalErrorCount() int64 {
	return totalErrors.Load()
}

// storeResult classifies a store error for the result label.
func storeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsValidationError(err):
		return "invalid"
	case IsPersistError(err):
		return "persist_failed"
	default:
		return "error"
	}
}

func observeStoreOperation(op string, err error) {
	storeOperations.WithLabelValues(op, storeResult(err)).Inc()
}

func setStoreSize(n int) {
	storeComponents.Set(float64(n))
}
