package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RateLimitedTotal    *prometheus.CounterVec

	// Login
	LoginAttemptsTotal *prometheus.CounterVec

	// Prediction
	PredictionsTotal   *prometheus.CounterVec
	InferenceDuration  prometheus.Histogram
	PredictionFailures *prometheus.CounterVec

	// Audit
	AuditRowsPurged prometheus.Counter
}

// NewMetrics registers every collector with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RateLimitedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"route"},
		),
		LoginAttemptsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditrisk_login_attempts_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"}, // success, failure
		),
		PredictionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditrisk_predictions_total",
				Help: "Successful predictions by label",
			},
			[]string{"label"},
		),
		InferenceDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "creditrisk_inference_duration_seconds",
				Help:    "Duration of classifier calls in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
		PredictionFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditrisk_prediction_failures_total",
				Help: "Rejected or failed predictions by error kind",
			},
			[]string{"kind"}, // validation, encoding, inference
		),
		AuditRowsPurged: f.NewCounter(
			prometheus.CounterOpts{
				Name: "creditrisk_audit_rows_purged_total",
				Help: "Login audit rows removed by housekeeping",
			},
		),
	}
}
