package cooldown

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Spec describes one bucket type attached to a command.
type Spec struct {
	Scope     Scope
	Length    time.Duration
	Usages    int
	Algorithm Algorithm
}

// Validate reports the configuration error NewManager would return for s.
func (s Spec) Validate() error {
	if err := validate(s.Length, s.Usages); err != nil {
		return err
	}
	if s.Scope < ScopeUser || s.Scope > ScopeGlobal {
		return ErrUnknownScope
	}
	return nil
}

// Registry owns the managers of every command. It is created at startup and
// handed to the command registration code; nothing here is package-global.
type Registry struct {
	opts  []Option
	clock clockwork.Clock

	mu       sync.RWMutex
	managers map[string][]*Manager
}

// NewRegistry returns an empty registry. opts apply to every manager it builds.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		opts:     opts,
		clock:    newSettings(opts).clock,
		managers: make(map[string][]*Manager),
	}
}

// Register builds one manager per spec for command, replacing any previous
// set. The first invalid spec aborts registration.
func (r *Registry) Register(command string, specs ...Spec) ([]*Manager, error) {
	managers := make([]*Manager, 0, len(specs))
	for i, spec := range specs {
		opts := append(append([]Option(nil), r.opts...), WithName(command), WithAlgorithm(spec.Algorithm))
		m, err := NewManager(spec.Scope, spec.Length, spec.Usages, opts...)
		if err != nil {
			return nil, fmt.Errorf("cooldown %d for %q: %w", i, command, err)
		}
		managers = append(managers, m)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(managers) == 0 {
		delete(r.managers, command)
		return nil, nil
	}
	r.managers[command] = managers
	return managers, nil
}

// Managers returns the managers registered for command.
func (r *Registry) Managers(command string) []*Manager {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.managers[command]
}

// Commands returns the names of commands with at least one cooldown, sorted.
func (r *Registry) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.managers))
	for name := range r.managers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs Check against the managers of command. Commands without
// cooldowns always pass.
func (r *Registry) Check(command string, ctx Context) error {
	managers := r.Managers(command)
	if len(managers) == 0 {
		return nil
	}
	return Check(ctx, managers...)
}

// Sweep sweeps every manager and returns the total number of buckets removed.
func (r *Registry) Sweep() int {
	r.mu.RLock()
	all := make([]*Manager, 0, len(r.managers))
	for _, ms := range r.managers {
		all = append(all, ms...)
	}
	r.mu.RUnlock()

	removed := 0
	for _, m := range all {
		removed += m.Sweep()
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, interval)
	}
	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			r.Sweep()
		}
	}
}
