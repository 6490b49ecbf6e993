package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mtlprog/earth/internal/metrics"
	"github.com/samber/lo"
)

const (
	defaultWindow   = 1 * time.Minute
	cleanupInterval = 1 * time.Minute
)

// RateLimiter wraps an http.Handler with a sliding-window limit per client IP.
type RateLimiter struct {
	limit       int                    // Maximum requests per window
	window      time.Duration          // Time window for rate limiting
	requests    map[string][]time.Time // IP -> request timestamps
	mu          sync.Mutex
	cleanupDone chan struct{}
	closeOnce   sync.Once
	bypass      []string // Path prefixes that are never limited
	metrics     *metrics.Metrics
	now         func() time.Time
}

// Option is a functional option for configuring a RateLimiter.
type Option func(*RateLimiter)

// WithWindow replaces the one-minute window.
func WithWindow(d time.Duration) Option {
	return func(rl *RateLimiter) {
		if d > 0 {
			rl.window = d
		}
	}
}

// WithBypass exempts paths starting with any of the prefixes.
func WithBypass(prefixes ...string) Option {
	return func(rl *RateLimiter) {
		rl.bypass = append(rl.bypass, prefixes...)
	}
}

// WithMetrics counts rejected requests.
func WithMetrics(m *metrics.Metrics) Option {
	return func(rl *RateLimiter) {
		rl.metrics = m
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// New creates a rate limiter allowing limit requests per window.
//
// Close must be called on shutdown to stop the background cleanup goroutine.
func New(limit int, opts ...Option) (*RateLimiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", limit)
	}

	rl := &RateLimiter{
		limit:       limit,
		window:      defaultWindow,
		requests:    make(map[string][]time.Time),
		cleanupDone: make(chan struct{}),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}

	go rl.cleanupLoop()

	slog.Info("rate limiter initialized",
		"limit", limit,
		"window", rl.window.String(),
		"bypass", rl.bypass,
	)
	return rl, nil
}

// Middleware returns an http.Handler that wraps the next handler with rate limiting.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.bypassed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ip := ExtractIP(r)
		if ip == "" {
			slog.Warn("failed to extract IP from request", "path", r.URL.Path)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		allowed, oldest := rl.allow(ip)
		if !allowed {
			retryAfter := max(int((rl.window - rl.now().Sub(oldest)).Seconds()), 1)
			rl.metrics.RateLimit()
			slog.Debug("rate limit exceeded", "ip", ip, "path", r.URL.Path, "limit", rl.limit)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) bypassed(path string) bool {
	return lo.SomeBy(rl.bypass, func(prefix string) bool {
		return strings.HasPrefix(path, prefix)
	})
}

// allow records a request from ip if it fits in the window.
// When it does not, the oldest timestamp in the window is returned for Retry-After.
func (rl *RateLimiter) allow(ip string) (bool, time.Time) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := filterValidTimestamps(rl.requests[ip], cutoff)
	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false, valid[0]
	}
	rl.requests[ip] = append(valid, now)
	return true, time.Time{}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.cleanupDone:
			return
		}
	}
}

// cleanup drops IPs with no requests in the current window.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, timestamps := range rl.requests {
		valid := filterValidTimestamps(timestamps, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, ip)
		} else {
			rl.requests[ip] = valid
		}
	}
}

func (rl *RateLimiter) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.requests)
}

func filterValidTimestamps(timestamps []time.Time, cutoff time.Time) []time.Time {
	return lo.Filter(timestamps, func(ts time.Time, _ int) bool {
		return ts.After(cutoff)
	})
}

// Close stops the background cleanup goroutine. Safe to call multiple times.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.cleanupDone)
	})
}
