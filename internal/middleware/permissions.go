package middleware

import (
	"context"
	"fmt"
	"math/bits"
	"slices"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/pkg/cmd"
)

var PermissionNames = map[int64]string{
	discordgo.PermissionCreateInstantInvite:    "Create Instant Invite",
	discordgo.PermissionKickMembers:            "Kick Members",
	discordgo.PermissionBanMembers:             "Ban Members",
	discordgo.PermissionAdministrator:          "Administrator",
	discordgo.PermissionManageChannels:         "Manage Channels",
	discordgo.PermissionManageGuild:            "Manage Server",
	discordgo.PermissionAddReactions:           "Add Reactions",
	discordgo.PermissionViewAuditLogs:          "View Audit Logs",
	discordgo.PermissionViewChannel:            "View Channel",
	discordgo.PermissionSendMessages:           "Send Messages",
	discordgo.PermissionSendTTSMessages:        "Send TTS Messages",
	discordgo.PermissionManageMessages:         "Manage Messages",
	discordgo.PermissionEmbedLinks:             "Embed Links",
	discordgo.PermissionAttachFiles:            "Attach Files",
	discordgo.PermissionReadMessageHistory:     "Read Message History",
	discordgo.PermissionMentionEveryone:        "Mention Everyone",
	discordgo.PermissionUseExternalEmojis:      "Use External Emojis",
	discordgo.PermissionUseApplicationCommands: "Use Application Commands",
	discordgo.PermissionManageThreads:          "Manage Threads",
	discordgo.PermissionCreatePublicThreads:    "Create Public Threads",
	discordgo.PermissionCreatePrivateThreads:   "Create Private Threads",
	discordgo.PermissionSendMessagesInThreads:  "Send Messages in Threads",
	discordgo.PermissionVoiceConnect:           "Connect to Voice Channel",
	discordgo.PermissionVoiceSpeak:             "Speak",
	discordgo.PermissionVoiceMuteMembers:       "Mute Members",
	discordgo.PermissionVoiceDeafenMembers:     "Deafen Members",
	discordgo.PermissionVoiceMoveMembers:       "Move Members",
	discordgo.PermissionChangeNickname:         "Change Nickname",
	discordgo.PermissionManageNicknames:        "Manage Nicknames",
	discordgo.PermissionManageRoles:            "Manage Roles",
	discordgo.PermissionManageWebhooks:         "Manage Webhooks",
	discordgo.PermissionModerateMembers:        "Moderate Members",
}

// PermissionsProvider lists permissions of which a member needs at least one
// to run the command.
type PermissionsProvider interface {
	UserPermissions() []int64
}

// HasChannelPermissions requires the member to hold every permission in perms
// in the invoking channel.
func HasChannelPermissions(perms int64) command.Check {
	return func(ctx command.Context) error {
		have, err := memberPermissions(ctx)
		if err != nil {
			return err
		}
		if missing := perms &^ have; missing != 0 {
			return &command.MissingRequiredPermissionError{Permissions: missing, Names: permissionNames(missing)}
		}
		return nil
	}
}

// HasAnyChannelPermission requires at least one of perms. Administrators
// always pass.
func HasAnyChannelPermission(perms ...int64) command.Check {
	return func(ctx command.Context) error {
		if len(perms) == 0 {
			return nil
		}
		have, err := memberPermissions(ctx)
		if err != nil {
			return err
		}
		if have&discordgo.PermissionAdministrator != 0 {
			return nil
		}
		var mask int64
		for _, p := range perms {
			if have&p != 0 {
				return nil
			}
			mask |= p
		}
		return &command.MissingRequiredPermissionError{Permissions: mask, Names: permissionNames(mask), Any: true}
	}
}

// WithUserPermissionCheck enforces the permissions a command declares through
// PermissionsProvider. Owners bypass it.
func WithUserPermissionCheck(owners ...string) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			dc, ok := command.ContextOf(inv)
			if !ok {
				return c.Run(ctx, inv)
			}
			p, ok := command.As[PermissionsProvider](c)
			if !ok || len(p.UserPermissions()) == 0 {
				return c.Run(ctx, inv)
			}
			if a := dc.Author(); a != nil && slices.Contains(owners, a.ID) {
				return c.Run(ctx, inv)
			}
			if err := HasAnyChannelPermission(p.UserPermissions()...)(dc); err != nil {
				return err
			}
			return c.Run(ctx, inv)
		})
	}
}

func memberPermissions(ctx command.Context) (int64, error) {
	a := ctx.Author()
	if ctx.GuildID() == "" || a == nil {
		return 0, command.ErrOnlyInGuild
	}
	state := ctx.State()
	if state == nil {
		return 0, fmt.Errorf("permission check: no state to resolve channel %s", ctx.ChannelID())
	}
	perms, err := state.UserChannelPermissions(a.ID, ctx.ChannelID())
	if err != nil {
		return 0, fmt.Errorf("failed to get user permissions: %w", err)
	}
	return perms, nil
}

// permissionNames lists the names of the bits set in mask, lowest bit first.
func permissionNames(mask int64) []string {
	var names []string
	for m := uint64(mask); m != 0; m &= m - 1 {
		bit := int64(1) << bits.TrailingZeros64(m)
		name := PermissionNames[bit]
		if name == "" {
			name = fmt.Sprintf("0x%x", bit)
		}
		names = append(names, name)
	}
	return names
}
