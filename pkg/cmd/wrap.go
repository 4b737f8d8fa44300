package cmd

import "context"

// Unwrappable is implemented by wrapped commands so adapters can reach the
// command underneath (e.g. to look for a SlashProvider or CooldownProvider).
type Unwrappable interface {
	Command
	Unwrap() Command
}

// Wrapped replaces Run of an inner command while keeping its identity.
type Wrapped struct {
	Inner   Command
	RunFunc func(ctx context.Context, inv *Invocation) error
}

func (w *Wrapped) Name() string        { return w.Inner.Name() }
func (w *Wrapped) Description() string { return w.Inner.Description() }
func (w *Wrapped) Unwrap() Command     { return w.Inner }

func (w *Wrapped) Run(ctx context.Context, inv *Invocation) error {
	if w.RunFunc != nil {
		return w.RunFunc(ctx, inv)
	}
	return w.Inner.Run(ctx, inv)
}

// Wrap returns a command that runs run instead of c.Run. Use this in middleware.
func Wrap(c Command, run func(ctx context.Context, inv *Invocation) error) Command {
	return &Wrapped{Inner: c, RunFunc: run}
}

// Root unwraps a command until the underlying command is not Unwrappable.
func Root(c Command) Command {
	for {
		u, ok := c.(Unwrappable)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}

// As walks the wrapper chain from the outside in and returns the first layer
// implementing T.
func As[T any](c Command) (T, bool) {
	for c != nil {
		if v, ok := c.(T); ok {
			return v, true
		}
		u, ok := c.(Unwrappable)
		if !ok {
			break
		}
		c = u.Unwrap()
	}
	var zero T
	return zero, false
}
