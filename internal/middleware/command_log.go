package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/internal/metrics"
	"github.com/keshon/cmdframe/pkg/cmd"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

// Invocation statuses, used as log field and metric label.
const (
	StatusOK          = "ok"
	StatusCooldown    = "cooldown"
	StatusCheckFailed = "check_failed"
	StatusError       = "error"
)

// Status classifies the error returned by a command run.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.As(err, new(*cooldown.OnCooldownError)):
		return StatusCooldown
	case errors.Is(err, command.ErrCheckFailure):
		return StatusCheckFailed
	default:
		return StatusError
	}
}

// WithCommandLogger logs every invocation with a correlation id and its
// duration, and counts it in metrics. The logger is also attached to ctx for
// the layers below. Cooldown denials and refused checks log at debug; errors
// log at warn, the dispatcher reports them.
func WithCommandLogger(logger zerolog.Logger) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			l := logger.With().
				Str("invocation_id", uuid.NewString()).
				Str("command", c.Name()).
				Str("invoked_with", inv.InvokedWith).
				Logger()
			if dc, ok := command.ContextOf(inv); ok {
				uc := l.With().Str("guild_id", dc.GuildID()).Str("channel_id", dc.ChannelID())
				if a := dc.Author(); a != nil {
					uc = uc.Str("user_id", a.ID).Str("username", a.Username)
				}
				l = uc.Logger()
			}

			start := time.Now()
			err := c.Run(l.WithContext(ctx), inv)
			elapsed := time.Since(start)

			status := Status(err)
			metrics.CommandsInvokedTotal.WithLabelValues(c.Name(), status).Inc()
			metrics.CommandDuration.WithLabelValues(c.Name()).Observe(elapsed.Seconds())

			var ev *zerolog.Event
			switch status {
			case StatusOK:
				ev = l.Info()
			case StatusCooldown, StatusCheckFailed:
				ev = l.Debug().Err(err)
			default:
				ev = l.Warn().Err(err)
			}
			ev.Str("status", status).Dur("duration", elapsed).Msg("command invoked")
			return err
		})
	}
}
