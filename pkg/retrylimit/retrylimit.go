// Package retrylimit provides an adaptive rate limiter and a retry loop with
// exponential backoff for REST clients. Errors carrying an HTTP status get
// special treatment: 429 shrinks the limiter, 5xx is retried with backoff.
//
// Example usage:
//
//	lim := retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5)
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	err := retrylimit.WithRetry(ctx, func() error {
//	    return doSomeWork()
//	}, lim)
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// =============================================================================
// Limiter
// =============================================================================

// AdaptiveLimiter is a rate limit that rises on success and shrinks on
// rate-limit or server errors. Safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter creates an AdaptiveLimiter starting at initial requests
// per second, bounded by [min, max]. Each success adds stepUp once the last
// error is ten seconds old; each failure multiplies the rate by stepDown.
func NewAdaptiveLimiter(initial, min, max rate.Limit, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if initial < 1 {
		initial = 1
	}
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, max1(int(initial))),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Wait blocks until a token is available or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success raises the rate after a successful request.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > 10*time.Second {
		a.adjustLimit(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited lowers the rate after the server signalled overload.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.adjustLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) MaxLimit() rate.Limit { return a.maxLimit }
func (a *AdaptiveLimiter) MinLimit() rate.Limit { return a.minLimit }

func (a *AdaptiveLimiter) adjustLimit(newLimit rate.Limit) {
	if newLimit > a.maxLimit {
		newLimit = a.maxLimit
	} else if newLimit < a.minLimit {
		newLimit = a.minLimit
	}
	if newLimit != a.limiter.Limit() {
		a.limiter.SetLimit(newLimit)
		a.limiter.SetBurst(max1(int(newLimit)))
	}
}

// =============================================================================
// Errors
// =============================================================================

// HTTPError is implemented by errors that carry an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// FatalError stops the retry loop immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// ErrorClassifier reports whether err should shrink the limiter.
type ErrorClassifier func(error) bool

// DefaultClassifier shrinks on 429 and 5xx.
func DefaultClassifier(err error) bool {
	return isRateLimitError(err) || isServerError(err)
}

// ErrMaxAttempts is returned, wrapped with the last error, when every attempt failed.
var ErrMaxAttempts = errors.New("max attempts exceeded")

// =============================================================================
// Retry
// =============================================================================

// RetryConfig configures the retry loop.
type RetryConfig struct {
	MaxAttempts     int                          // 0 means the safety cap of 100
	InitialDelay    time.Duration                // first backoff delay
	MaxDelay        time.Duration                // backoff ceiling
	RateLimitDelay  time.Duration                // fixed pause after a 429
	Multiplier      float64                      // backoff growth factor
	Jitter          bool                         // add up to 25% random delay
	ErrorClassifier ErrorClassifier              // nil means DefaultClassifier
	OnRetry         func(attempt int, err error) // called before every retry
	Logger          *zerolog.Logger              // nil disables logging
}

// DefaultRetryConfig returns the configuration used by WithRetry.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     100,
		InitialDelay:    500 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		RateLimitDelay:  100 * time.Millisecond,
		Multiplier:      2.0,
		Jitter:          true,
		ErrorClassifier: DefaultClassifier,
	}
}

// WithRetry runs fn with DefaultRetryConfig.
func WithRetry(ctx context.Context, fn func() error, lim *AdaptiveLimiter) error {
	return WithRetryConfig(ctx, fn, lim, DefaultRetryConfig())
}

// WithRetryConfig runs fn until it succeeds, returns a FatalError, ctx is done
// or cfg.MaxAttempts is reached. lim may be nil.
func WithRetryConfig(ctx context.Context, fn func() error, lim *AdaptiveLimiter, cfg RetryConfig) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 100
	}
	if cfg.ErrorClassifier == nil {
		cfg.ErrorClassifier = DefaultClassifier
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			if attempt > 1 {
				logger.Debug().Int("attempt", attempt).Msg("retry succeeded")
			}
			return nil
		}
		lastErr = err

		if isFatalError(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}

		wait := delay
		if isRateLimitError(err) {
			wait = cfg.RateLimitDelay
		} else {
			if cfg.Jitter {
				wait = addJitter(delay)
			}
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
		if lim != nil && cfg.ErrorClassifier(err) {
			lim.RateLimited()
		}

		ev := logger.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait)
		if lim != nil {
			ev = ev.Float64("limit_rps", lim.CurrentLimit())
		}
		ev.Msg("request failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("%w (%d): %w", ErrMaxAttempts, cfg.MaxAttempts, lastErr)
}

// =============================================================================
// Helper functions
// =============================================================================

func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}

func isFatalError(err error) bool {
	var f *FatalError
	return errors.As(err, &f)
}

func statusCode(err error) (int, bool) {
	var h HTTPError
	if errors.As(err, &h) {
		return h.StatusCode(), true
	}
	return 0, false
}

func isRateLimitError(err error) bool {
	code, ok := statusCode(err)
	return ok && code == http.StatusTooManyRequests
}

func isServerError(err error) bool {
	code, ok := statusCode(err)
	return ok && code >= 500 && code < 600
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
