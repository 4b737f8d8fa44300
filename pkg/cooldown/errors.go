package cooldown

import (
	"errors"
	"fmt"
	"time"
)

// Configuration errors are returned eagerly by NewBucket, NewManager and
// Registry.Register. They are not recoverable at runtime.
var (
	ErrInvalidLength    = errors.New("cooldown length must be greater than zero")
	ErrInvalidUsages    = errors.New("cooldown usages must be at least one")
	ErrUnknownScope     = errors.New("unknown cooldown scope")
	ErrUnknownAlgorithm = errors.New("unknown cooldown algorithm")
	ErrInvalidInterval  = errors.New("sweep interval must be greater than zero")
)

// ErrScopeUnavailable is returned when the invocation context cannot provide the
// identifier a scope needs. It points at an integration bug in the caller.
var ErrScopeUnavailable = errors.New("scope key unavailable in invocation context")

// OnCooldownError signals that at least one bucket denied the invocation.
// It is an expected outcome, not a fault.
type OnCooldownError struct {
	RetryAfter time.Duration
}

func (e *OnCooldownError) Error() string {
	return fmt.Sprintf("command is on cooldown, retry in %.2fs", e.RetryAfter.Seconds())
}

// IsOnCooldown reports whether err carries an OnCooldownError and returns it.
func IsOnCooldown(err error) (*OnCooldownError, bool) {
	var cd *OnCooldownError
	if errors.As(err, &cd) {
		return cd, true
	}
	return nil, false
}

func validate(length time.Duration, usages int) error {
	if length <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidLength, length)
	}
	if usages < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidUsages, usages)
	}
	return nil
}
