package middleware

import (
	"fmt"
	"slices"

	"github.com/keshon/cmdframe/internal/command"
)

// OwnerOnly allows only the given user IDs.
func OwnerOnly(owners ...string) command.Check {
	return func(ctx command.Context) error {
		if a := ctx.Author(); a != nil && slices.Contains(owners, a.ID) {
			return nil
		}
		return command.ErrNotOwner
	}
}

// GuildOnly refuses direct messages.
func GuildOnly(ctx command.Context) error {
	if ctx.GuildID() == "" {
		return command.ErrOnlyInGuild
	}
	return nil
}

// DMOnly refuses guild channels.
func DMOnly(ctx command.Context) error {
	if ctx.GuildID() != "" {
		return command.ErrOnlyInDM
	}
	return nil
}

// BotOnly allows only bot accounts.
func BotOnly(ctx command.Context) error {
	if a := ctx.Author(); a != nil && a.Bot {
		return nil
	}
	return command.ErrBotOnly
}

// WebhookOnly allows only messages sent through a webhook.
func WebhookOnly(ctx command.Context) error {
	if ctx.WebhookID() == "" {
		return command.ErrWebhookOnly
	}
	return nil
}

// HumanOnly refuses bots and webhooks.
func HumanOnly(ctx command.Context) error {
	if a := ctx.Author(); a == nil || a.Bot || ctx.WebhookID() != "" {
		return command.ErrHumanOnly
	}
	return nil
}

// NSFWChannelOnly requires a channel flagged age-restricted.
func NSFWChannelOnly(ctx command.Context) error {
	state := ctx.State()
	if state == nil {
		return fmt.Errorf("nsfw check: no state to resolve channel %s", ctx.ChannelID())
	}
	ch, err := state.Channel(ctx.ChannelID())
	if err != nil {
		return fmt.Errorf("nsfw check: resolve channel %s: %w", ctx.ChannelID(), err)
	}
	if !ch.NSFW {
		return command.ErrNSFWChannelOnly
	}
	return nil
}

// HasRoles requires the member to hold every role in roleIDs.
func HasRoles(roleIDs ...string) command.Check {
	return rolesCheck(roleIDs, false)
}

// HasAnyRole requires the member to hold at least one role in roleIDs.
func HasAnyRole(roleIDs ...string) command.Check {
	return rolesCheck(roleIDs, true)
}

func rolesCheck(roleIDs []string, anyOf bool) command.Check {
	return func(ctx command.Context) error {
		m := ctx.Member()
		if ctx.GuildID() == "" || m == nil {
			return command.ErrOnlyInGuild
		}
		held := 0
		for _, id := range roleIDs {
			if slices.Contains(m.Roles, id) {
				held++
			}
		}
		if (anyOf && held > 0) || (!anyOf && held == len(roleIDs)) {
			return nil
		}
		return &command.MissingRequiredRoleError{Roles: roleIDs, Any: anyOf}
	}
}
