// Package refresh periodically reloads cached country data so long-lived
// processes do not serve an ever-older snapshot.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/earth/internal/service"
	"github.com/samber/lo"
)

// DefaultFailureThreshold is the failure rate above which a pass is reported as failed.
const DefaultFailureThreshold = 0.5

// ErrTooManyFailures is returned when a pass exceeds the failure threshold.
var ErrTooManyFailures = errors.New("too many refresh failures")

// Target is the cache owner being refreshed. Reload must keep a cached listing whose
// refetch fails.
type Target interface {
	Reload(ctx context.Context, regions []string) error
}

// Result summarizes one refresh pass.
type Result struct {
	Keys     int
	Failed   int
	Duration time.Duration
}

// FailureRate returns Failed/Keys, or 0 for an empty pass.
func (r Result) FailureRate() float64 {
	if r.Keys == 0 {
		return 0
	}
	return float64(r.Failed) / float64(r.Keys)
}

// Refresher reloads the full list and every region on an interval.
type Refresher struct {
	target           Target
	regions          []string
	interval         time.Duration
	failureThreshold float64
	logger           *slog.Logger
}

// Option is a functional option for configuring a Refresher.
type Option func(*Refresher)

// WithFailureThreshold sets the maximum failure rate (0.0-1.0) before a pass is considered failed.
func WithFailureThreshold(threshold float64) Option {
	return func(r *Refresher) {
		r.failureThreshold = threshold
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Refresher) {
		r.logger = logger
	}
}

// New creates a Refresher. interval must be positive.
func New(target Target, regions []string, interval time.Duration, opts ...Option) (*Refresher, error) {
	if target == nil {
		return nil, errors.New("refresh target is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}

	r := &Refresher{
		target:           target,
		regions:          lo.Uniq(regions),
		interval:         interval,
		failureThreshold: DefaultFailureThreshold,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Keys returns the cache keys a pass reloads.
func (r *Refresher) Keys() []string {
	return append([]string{service.KeyAll}, lo.Map(r.regions, func(region string, _ int) string {
		return service.RegionKey(region)
	})...)
}

// Run performs one pass reloading every key concurrently. Keys that fail keep serving
// their previous data.
func (r *Refresher) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	keys := r.Keys()

	err := r.target.Reload(ctx, r.regions)
	result := Result{
		Keys:     len(keys),
		Failed:   countErrors(err),
		Duration: time.Since(start),
	}

	if result.FailureRate() > r.failureThreshold {
		return result, fmt.Errorf("%w: %d of %d keys: %w", ErrTooManyFailures, result.Failed, result.Keys, err)
	}

	r.logger.Info("cache refreshed",
		"keys", result.Keys,
		"failed", result.Failed,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// Start runs a pass every interval until ctx is done.
func (r *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("cache refresher started", "interval", r.interval.String(), "keys", len(r.Keys()))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("cache refresher stopped")
			return
		case <-ticker.C:
			if _, err := r.Run(ctx); err != nil {
				r.logger.Error("cache refresh failed", "error", err)
			}
		}
	}
}

// countErrors counts the errors joined into err.
func countErrors(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
