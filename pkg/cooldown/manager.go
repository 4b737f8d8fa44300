package cooldown

import (
	"sync"
	"time"
)

// Manager owns the live buckets of one (command, scope) pair, one bucket per
// distinct scope key. Buckets are created lazily and reclaimed by Sweep.
//
// Evaluations for the same key are serialised so the at-most-usages-per-window
// invariant holds with concurrent handlers; different keys never share a bucket
// lock.
type Manager struct {
	settings
	scope  Scope
	length time.Duration
	usages int

	mu      sync.Mutex
	entries map[uint64]*entry
}

type entry struct {
	mu      sync.Mutex
	bucket  *Bucket
	removed bool
}

// NewManager validates the configuration and returns an empty manager.
func NewManager(scope Scope, length time.Duration, usages int, opts ...Option) (*Manager, error) {
	if err := validate(length, usages); err != nil {
		return nil, err
	}
	if scope < ScopeUser || scope > ScopeGlobal {
		return nil, ErrUnknownScope
	}
	return &Manager{
		settings: newSettings(opts),
		scope:    scope,
		length:   length,
		usages:   usages,
		entries:  make(map[uint64]*entry),
	}, nil
}

func (m *Manager) Name() string          { return m.name }
func (m *Manager) Scope() Scope          { return m.scope }
func (m *Manager) Length() time.Duration { return m.length }
func (m *Manager) Usages() int           { return m.usages }

// Acquire returns the bucket for key, creating it if needed. The same live key
// always yields the same bucket.
func (m *Manager) Acquire(key uint64) *Bucket {
	return m.entry(key).bucket
}

func (m *Manager) entry(key uint64) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		e = &entry{bucket: newBucket(m.length, m.usages, m.settings)}
		m.entries[key] = e
		m.observer.BucketCreated(m.name, m.scope)
	}
	return e
}

// Evaluate extracts the scope key from ctx and evaluates its bucket.
func (m *Manager) Evaluate(ctx Context) (Decision, error) {
	key, err := m.scope.Key(ctx)
	if err != nil {
		return Decision{}, err
	}
	return m.EvaluateKey(key), nil
}

// EvaluateKey evaluates the bucket for an already extracted key.
func (m *Manager) EvaluateKey(key uint64) Decision {
	for {
		e := m.entry(key)
		e.mu.Lock()
		if e.removed {
			// swept between lookup and lock, pick up the replacement
			e.mu.Unlock()
			continue
		}
		d := e.bucket.EvaluateAt(m.clock.Now())
		e.mu.Unlock()

		m.observer.Decided(m.name, m.scope, d)
		return d
	}
}

// Reset drops the bucket for key so the next attempt opens a fresh window.
// The removal is reported to the observer like a sweep.
func (m *Manager) Reset(key uint64) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok {
		e.mu.Lock()
		e.removed = true
		e.mu.Unlock()
		delete(m.entries, key)
	}
	remaining := len(m.entries)
	m.mu.Unlock()

	if ok {
		m.observer.Swept(m.name, m.scope, 1, remaining)
	}
}

// Sweep removes buckets that are expired and have been idle for at least the
// grace period. It returns the number of buckets removed.
func (m *Manager) Sweep() int {
	now := m.clock.Now()

	m.mu.Lock()
	removed := 0
	for key, e := range m.entries {
		e.mu.Lock()
		if e.bucket.ExpiredAt(now) && now.Sub(e.bucket.LastUsed()) >= m.grace {
			e.removed = true
			delete(m.entries, key)
			removed++
		}
		e.mu.Unlock()
	}
	remaining := len(m.entries)
	m.mu.Unlock()

	m.observer.Swept(m.name, m.scope, removed, remaining)
	return removed
}

// Len returns the number of live buckets.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
