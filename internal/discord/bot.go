package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/internal/config"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentMessageContent

// Bot connects the command registry to the Discord gateway.
type Bot struct {
	cfg      *config.Config
	commands *command.Registry
	log      zerolog.Logger

	// ctx is the Run context; handlers dispatch under it.
	ctx context.Context
	dg  *discordgo.Session

	syncMu sync.Mutex
	synced map[string]string
}

// New returns a bot dispatching to commands. Call Run to connect.
func New(cfg *config.Config, commands *command.Registry, logger zerolog.Logger) *Bot {
	return &Bot{
		cfg:      cfg,
		commands: commands,
		log:      logger.With().Str("component", "discord").Logger(),
		ctx:      context.Background(),
		synced:   make(map[string]string),
	}
}

// Run opens the gateway session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	dg.Identify.Intents = intents

	b.ctx = ctx
	b.dg = dg

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, closing session")
	return nil
}
