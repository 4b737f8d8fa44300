package cooldown

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Outcome is the result class of one invocation attempt against a bucket.
type Outcome int

const (
	// Opened means the attempt was permitted and started a new window.
	Opened Outcome = iota + 1
	// Incremented means the attempt was permitted inside the current window.
	Incremented
	// Denied means the bucket is exhausted until RetryAfter has elapsed.
	Denied
)

func (o Outcome) String() string {
	switch o {
	case Opened:
		return "opened"
	case Incremented:
		return "incremented"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Decision is what an Algorithm returns for one attempt.
type Decision struct {
	Outcome    Outcome
	RetryAfter time.Duration
}

// Permitted reports whether the invocation may proceed.
func (d Decision) Permitted() bool {
	return d.Outcome == Opened || d.Outcome == Incremented
}

// Algorithm decides whether an attempt is permitted and updates the bucket
// accordingly. Implementations keep no state of their own: everything lives in
// the Bucket (window fields or the algorithm-private State slot).
type Algorithm interface {
	Evaluate(b *Bucket, now time.Time) Decision
}

// BangBang is the default fixed-window algorithm. All usages reset together
// when the window elapses, so up to 2*usages attempts can pass around a
// window boundary.
type BangBang struct{}

func (BangBang) Evaluate(b *Bucket, now time.Time) Decision {
	if !b.ActiveAt(now) {
		b.Open(now)
		return Decision{Outcome: Opened}
	}
	if b.UsageCount() < b.Usages() {
		b.Use()
		return Decision{Outcome: Incremented}
	}
	activatedAt, _ := b.ActivatedAt()
	return Decision{Outcome: Denied, RetryAfter: b.Length() - now.Sub(activatedAt)}
}

// SlidingWindow permits at most usages attempts in any span of length. It keeps
// the timestamps of in-window uses in the bucket state; the bucket's activation
// time tracks the most recent use, so the bucket expires once every use aged out.
type SlidingWindow struct{}

func (SlidingWindow) Evaluate(b *Bucket, now time.Time) Decision {
	uses, _ := b.State().([]time.Time)
	cutoff := now.Add(-b.Length())

	head := 0
	for head < len(uses) && !uses[head].After(cutoff) {
		head++
	}
	if head > 0 {
		uses = append([]time.Time(nil), uses[head:]...)
	}

	if len(uses) >= b.Usages() {
		b.SetState(uses)
		b.SetWindow(uses[len(uses)-1], len(uses))
		return Decision{Outcome: Denied, RetryAfter: uses[0].Add(b.Length()).Sub(now)}
	}

	outcome := Incremented
	if len(uses) == 0 {
		outcome = Opened
	}
	uses = append(uses, now)
	b.SetState(uses)
	b.SetWindow(now, len(uses))
	return Decision{Outcome: outcome}
}

// TokenBucket refills usages tokens continuously over length, backed by a
// rate.Limiter kept in the bucket state. It smooths bursts instead of resetting
// all slots at once.
type TokenBucket struct{}

func (TokenBucket) Evaluate(b *Bucket, now time.Time) Decision {
	lim, ok := b.State().(*rate.Limiter)
	if !ok {
		lim = rate.NewLimiter(rate.Every(b.Length()/time.Duration(b.Usages())), b.Usages())
		b.SetState(lim)
	}

	r := lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{Outcome: Denied, RetryAfter: delay}
	}

	outcome := Incremented
	if b.ExpiredAt(now) {
		outcome = Opened
	}
	used := b.Usages() - int(lim.TokensAt(now))
	if used < 1 {
		used = 1
	}
	b.SetWindow(now, used)
	return Decision{Outcome: outcome}
}

// ParseAlgorithm maps a configuration name to an Algorithm. The empty string
// selects the default fixed window.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bang-bang", "bangbang", "fixed", "fixed-window":
		return BangBang{}, nil
	case "sliding", "sliding-window":
		return SlidingWindow{}, nil
	case "token", "token-bucket":
		return TokenBucket{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}
