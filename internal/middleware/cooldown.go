package middleware

import (
	"context"
	"fmt"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/pkg/cmd"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

// WithCooldown evaluates the command's buckets in reg before running it. A
// denied invocation returns *cooldown.OnCooldownError and consumes nothing in
// the buckets that denied.
func WithCooldown(reg *cooldown.Registry) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			dc, ok := command.ContextOf(inv)
			if !ok {
				return c.Run(ctx, inv)
			}
			if err := reg.Check(c.Name(), command.ScopeOf(dc)); err != nil {
				if _, onCooldown := cooldown.IsOnCooldown(err); onCooldown {
					return err
				}
				return fmt.Errorf("cooldown for %s: %w", c.Name(), err)
			}
			return c.Run(ctx, inv)
		})
	}
}
