package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	LookupHit    = "hit"
	LookupMiss   = "miss"
	LookupShared = "shared" // attached to an in-flight load
	LookupIdle   = "idle"   // empty key, nothing fetched
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	CacheLookups        *prometheus.CounterVec
	FetchDuration       *prometheus.HistogramVec
	LoginAttempts       *prometheus.CounterVec
	FeedbackSubmissions *prometheus.CounterVec
	RateLimited         prometheus.Counter
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "earth_cache_lookups_total",
			Help: "Query cache lookups by result",
		}, []string{"result"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "earth_country_fetch_duration_seconds",
			Help:    "Duration of calls to the country service",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "outcome"}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "earth_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		FeedbackSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "earth_feedback_submissions_total",
			Help: "Feedback form submissions by outcome",
		}, []string{"outcome"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "earth_rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

// CacheLookup records a cache lookup result.
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveFetch records the duration of a country service call.
func (m *Metrics) ObserveFetch(endpoint string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(endpoint, outcome(err)).Observe(d.Seconds())
}

// Login records a login attempt.
func (m *Metrics) Login(err error) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome(err)).Inc()
}

// Feedback records a feedback submission.
func (m *Metrics) Feedback(err error) {
	if m == nil {
		return
	}
	m.FeedbackSubmissions.WithLabelValues(outcome(err)).Inc()
}

// RateLimit records a rejected request.
func (m *Metrics) RateLimit() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
