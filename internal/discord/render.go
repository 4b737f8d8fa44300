package discord

import (
	"errors"
	"fmt"
	"math"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/internal/middleware"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

// replyFor turns a failed invocation into the embed shown to the user. The
// second result is false when nothing should be sent.
func replyFor(c command.Context, err error) (*discordgo.MessageEmbed, bool) {
	var notFound *command.CommandNotFoundError
	if errors.As(err, &notFound) {
		// prefix messages that merely look like commands stay unanswered,
		// a slash interaction must always be answered
		if _, slash := c.(*command.SlashInteractionContext); !slash {
			return nil, false
		}
		return command.Embed("Unknown command", fmt.Sprintf("`%s` is not available anymore.", notFound.InvokedWith)), true
	}

	if cd, ok := cooldown.IsOnCooldown(err); ok {
		return command.Embed("Slow down", fmt.Sprintf("This command is on cooldown. Try again in %d seconds.", retrySeconds(cd))), true
	}
	if errors.Is(err, command.ErrCheckFailure) {
		return command.Embed("Not allowed", command.UserMessage(err)), true
	}
	return command.Embed("Error", "Something went wrong while running this command."), true
}

// retrySeconds rounds up so users never retry a fraction too early.
func retrySeconds(e *cooldown.OnCooldownError) int {
	s := int(math.Ceil(e.RetryAfter.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// handleError logs a failed invocation and replies to the invoker. Only
// unexpected errors are logged at error level; cooldowns and refused checks
// were already logged by the command logger.
func (b *Bot) handleError(name string, c command.Context, err error) {
	l := b.log.With().Str("command", name).Str("channel_id", c.ChannelID()).Logger()

	var notFound *command.CommandNotFoundError
	switch {
	case errors.As(err, &notFound):
		l.Debug().Msg("unknown command")
	case middleware.Status(err) == middleware.StatusError:
		l.Error().Err(err).Msg("command failed")
	}

	embed, ok := replyFor(c, err)
	if !ok {
		return
	}
	if rerr := c.Respond(embed, true); rerr != nil {
		l.Warn().Err(rerr).Msg("failed to send error reply")
	}
}
