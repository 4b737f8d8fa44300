// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How it is registered and
// dispatched (Discord slash, prefix messages, CLI) is defined by adapters that
// wrap this.
package cmd

import "context"

// Invocation carries the minimal input any command runner can pass: the name the
// command was invoked with, its arguments and an opaque payload. Adapters set
// Data to their own context (e.g. a Discord slash or message context).
type Invocation struct {
	InvokedWith string
	Args        []string
	Data        interface{}
}

// Command is the universal contract: identity plus execution. Permissions,
// cooldowns and transport-specific registration stay in adapters.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// Aliased is implemented by commands reachable under additional names.
type Aliased interface {
	Aliases() []string
}
