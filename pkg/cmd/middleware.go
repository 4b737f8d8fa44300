package cmd

// Middleware wraps a command (e.g. logging, checks, cooldowns).
// Adapters can use this same pattern; the wrapped type remains Command.
type Middleware func(Command) Command

// Apply applies middlewares so that the first in the list is the outermost:
// it runs first and sees the result of everything after it.
func Apply(c Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}
