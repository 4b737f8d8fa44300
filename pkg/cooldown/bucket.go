// Package cooldown tracks command usage per scope (user, channel, guild or
// global) and decides when an invocation has to wait.
//
// A Manager keeps one Bucket per scope key; an Algorithm decides, from the
// bucket's window, whether an attempt is permitted. Check combines several
// managers into the single decision a command dispatcher needs.
package cooldown

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Bucket is the rate-limit state of one scope instance: one user, one channel,
// one guild, or the single global slot. It holds no lock; Manager serialises
// access per key.
type Bucket struct {
	length    time.Duration
	usages    int
	algorithm Algorithm
	clock     clockwork.Clock

	activatedAt time.Time
	usageCount  int
	lastUsed    time.Time
	state       any
}

// NewBucket returns an inactive, expired bucket. Options are the same ones
// accepted by NewManager; only the algorithm and clock apply to a bucket.
func NewBucket(length time.Duration, usages int, opts ...Option) (*Bucket, error) {
	if err := validate(length, usages); err != nil {
		return nil, err
	}
	s := newSettings(opts)
	return newBucket(length, usages, s), nil
}

func newBucket(length time.Duration, usages int, s settings) *Bucket {
	return &Bucket{
		length:    length,
		usages:    usages,
		algorithm: s.algorithm,
		clock:     s.clock,
	}
}

func (b *Bucket) Length() time.Duration { return b.length }
func (b *Bucket) Usages() int           { return b.usages }
func (b *Bucket) Algorithm() Algorithm  { return b.algorithm }
func (b *Bucket) UsageCount() int       { return b.usageCount }
func (b *Bucket) LastUsed() time.Time   { return b.lastUsed }

// ActivatedAt returns the start of the current window, if one was ever opened.
func (b *Bucket) ActivatedAt() (time.Time, bool) {
	return b.activatedAt, !b.activatedAt.IsZero()
}

// Activate unconditionally opens a new window at the current time.
func (b *Bucket) Activate() {
	b.Open(b.clock.Now())
}

// Open starts a new window at now with one usage recorded.
func (b *Bucket) Open(now time.Time) {
	b.activatedAt = now
	b.usageCount = 1
}

// Use records one more usage in the current window.
func (b *Bucket) Use() {
	b.usageCount++
}

// SetWindow overwrites the window fields. Algorithms that track more than a
// single window start use it to keep Active and Expired meaningful.
func (b *Bucket) SetWindow(activatedAt time.Time, usageCount int) {
	b.activatedAt = activatedAt
	b.usageCount = usageCount
}

// State returns the algorithm-private state, nil until an algorithm sets one.
func (b *Bucket) State() any { return b.state }

// SetState stores algorithm-private state.
func (b *Bucket) SetState(v any) { b.state = v }

// Active reports whether a window is open and has not elapsed.
func (b *Bucket) Active() bool { return b.ActiveAt(b.clock.Now()) }

// ActiveAt is Active evaluated at now.
func (b *Bucket) ActiveAt(now time.Time) bool {
	return !b.activatedAt.IsZero() && !b.ExpiredAt(now)
}

// Expired reports whether no window was ever opened or the last one elapsed.
func (b *Bucket) Expired() bool { return b.ExpiredAt(b.clock.Now()) }

// ExpiredAt is Expired evaluated at now.
func (b *Bucket) ExpiredAt(now time.Time) bool {
	return b.activatedAt.IsZero() || now.Sub(b.activatedAt) >= b.length
}

// Evaluate runs the bucket's algorithm for an attempt happening now.
func (b *Bucket) Evaluate() Decision {
	return b.EvaluateAt(b.clock.Now())
}

// EvaluateAt runs the bucket's algorithm for an attempt at now and records the
// attempt time, permitted or not.
func (b *Bucket) EvaluateAt(now time.Time) Decision {
	d := b.algorithm.Evaluate(b, now)
	b.lastUsed = now
	return d
}
