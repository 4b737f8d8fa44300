package cooldown

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Observer receives cooldown events, typically to export metrics.
type Observer interface {
	BucketCreated(name string, scope Scope)
	Decided(name string, scope Scope, d Decision)
	Swept(name string, scope Scope, removed, remaining int)
}

type settings struct {
	name      string
	algorithm Algorithm
	clock     clockwork.Clock
	grace     time.Duration
	observer  Observer
}

// Option configures a Bucket, Manager or Registry.
type Option func(*settings)

// WithAlgorithm replaces the default fixed-window algorithm.
func WithAlgorithm(a Algorithm) Option {
	return func(s *settings) {
		if a != nil {
			s.algorithm = a
		}
	}
}

// WithClock injects the time source.
func WithClock(c clockwork.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithGracePeriod keeps expired buckets around for d after their last use
// before a sweep may reclaim them.
func WithGracePeriod(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.grace = d
		}
	}
}

// WithName labels a manager, usually with the command name.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}

func newSettings(opts []Option) settings {
	s := settings{
		algorithm: BangBang{},
		clock:     clockwork.NewRealClock(),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	return s
}

type nopObserver struct{}

func (nopObserver) BucketCreated(string, Scope)     {}
func (nopObserver) Decided(string, Scope, Decision) {}
func (nopObserver) Swept(string, Scope, int, int)   {}
