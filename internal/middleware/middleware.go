package middleware

import (
	"context"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/pkg/cmd"
)

// WithChecks runs checks, then the checks the command declares through
// command.ChecksProvider, stopping at the first failure. Apply it once per
// command.
func WithChecks(checks ...command.Check) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			dc, ok := command.ContextOf(inv)
			if !ok {
				return c.Run(ctx, inv)
			}
			all := checks
			if p, ok := command.As[command.ChecksProvider](c); ok {
				all = append(append([]command.Check(nil), checks...), p.Checks()...)
			}
			for _, check := range all {
				if err := check(dc); err != nil {
					return err
				}
			}
			return c.Run(ctx, inv)
		})
	}
}

// WithGuildOnly refuses invocations outside a guild.
func WithGuildOnly() cmd.Middleware {
	return WithChecks(GuildOnly)
}
