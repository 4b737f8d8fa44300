package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/internal/command"
)

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("discord bot is running")

	if !b.cfg.SyncCommands {
		b.log.Info().Msg("slash command sync skipped")
		return
	}

	appID := r.User.ID
	if r.Application != nil && r.Application.ID != "" {
		appID = r.Application.ID
	}
	if err := b.syncCommands(b.ctx, s, appID); err != nil {
		b.log.Error().Err(err).Msg("slash command sync failed")
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || s.State == nil || s.State.User == nil {
		return
	}
	if m.Author.ID == s.State.User.ID {
		return
	}

	prefix, name, args, ok := command.ParsePrefix(m.Content, b.cfg.Prefixes, s.State.User.ID)
	if !ok {
		return
	}

	b.dispatch(name, &command.MessageContext{
		Session: s,
		Event:   m,
		Prefix:  prefix,
		Args:    args,
	})
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		b.log.Debug().Int("type", int(i.Type)).Msg("ignoring interaction")
		return
	}

	data := i.ApplicationCommandData()
	if data.CommandType != discordgo.ChatApplicationCommand {
		b.log.Debug().Str("command", data.Name).Msg("ignoring non-chat application command")
		return
	}

	b.dispatch(data.Name, &command.SlashInteractionContext{
		Session: s,
		Event:   i,
		Args:    command.OptionArgs(data.Options),
	})
}

func (b *Bot) dispatch(name string, c command.Context) {
	if err := b.commands.Dispatch(b.ctx, name, c); err != nil {
		b.handleError(name, c, err)
	}
}
