// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the application's Prometheus metrics.
type Collector struct {
	reservationAttempts *prometheus.CounterVec
	reservationDuration prometheus.Histogram
	httpRequests        *prometheus.CounterVec
	rateLimited         prometheus.Counter
	cacheLookups        *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reservationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopres_reservation_attempts_total",
			Help: "Reservation attempts by outcome.",
		}, []string{"outcome"}),
		reservationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopres_reservation_duration_seconds",
			Help:    "Time spent validating and writing a reservation.",
			Buckets: prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopres_http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"status"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopres_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopres_cache_lookups_total",
			Help: "Response cache lookups by result (hit or miss).",
		}, []string{"result"}),
	}
	reg.MustRegister(c.reservationAttempts, c.reservationDuration, c.httpRequests, c.rateLimited, c.cacheLookups)
	return c
}

// ObserveReservation records one booking attempt.
func (c *Collector) ObserveReservation(outcome string, elapsed time.Duration) {
	c.reservationAttempts.WithLabelValues(outcome).Inc()
	c.reservationDuration.Observe(elapsed.Seconds())
}

// RecordHTTPStatus counts a response by status code.
func (c *Collector) RecordHTTPStatus(status int) {
	c.httpRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}

// RecordRateLimited counts a request the limiter rejected.
func (c *Collector) RecordRateLimited() { c.rateLimited.Inc() }

// RecordCacheLookup counts a response cache hit or miss.
func (c *Collector) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
