package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/pkg/util"
)

// syncWorkers bounds concurrent bulk overwrites; Discord rate limits them per
// route anyway.
const syncWorkers = 4

// commandOverwriter is the part of *discordgo.Session used by the sync.
type commandOverwriter interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// syncCommands replaces the slash commands of every default guild, or the
// global ones when no guild is configured. Targets whose last successful sync
// had the same definitions are skipped.
func (b *Bot) syncCommands(ctx context.Context, api commandOverwriter, appID string) error {
	defs := b.commands.SlashDefinitions()
	hash := hashDefinitions(defs)

	targets := b.cfg.DefaultGuilds
	if len(targets) == 0 {
		targets = []string{""}
	}

	return util.Parallel(ctx, targets, syncWorkers, func(ctx context.Context, guildID string) error {
		l := b.log.With().Str("guild_id", guildID).Logger()
		if b.syncedHash(guildID) == hash {
			l.Debug().Msg("slash commands unchanged")
			return nil
		}

		created, err := api.ApplicationCommandBulkOverwrite(appID, guildID, defs, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("overwrite commands for guild %q: %w", guildID, err)
		}
		b.markSynced(guildID, hash)
		l.Info().Int("commands", len(created)).Msg("slash commands synced")
		return nil
	})
}

func (b *Bot) syncedHash(guildID string) string {
	b.syncMu.Lock()
	defer b.syncMu.Unlock()
	return b.synced[guildID]
}

func (b *Bot) markSynced(guildID, hash string) {
	b.syncMu.Lock()
	defer b.syncMu.Unlock()
	b.synced[guildID] = hash
}
