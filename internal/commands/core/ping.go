package core

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/internal/config"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

type PingCommand struct{}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Check bot latency" }
func (c *PingCommand) Category() string    { return config.CategoryMaintenance }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Type: discordgo.ChatApplicationCommand}
}

func (c *PingCommand) Cooldowns() []cooldown.Spec {
	return []cooldown.Spec{
		{Scope: cooldown.ScopeUser, Length: 5 * time.Second, Usages: 3},
	}
}

func (c *PingCommand) Run(ctx command.Context) error {
	desc := "The gateway has not reported a heartbeat yet."
	if s := sessionOf(ctx); s != nil && s.HeartbeatLatency() > 0 {
		desc = fmt.Sprintf("Latency: %dms", s.HeartbeatLatency().Milliseconds())
	}
	return ctx.Respond(command.Embed("Pong!", desc), true)
}

func sessionOf(ctx command.Context) *discordgo.Session {
	switch c := ctx.(type) {
	case *command.SlashInteractionContext:
		return c.Session
	case *command.MessageContext:
		return c.Session
	}
	return nil
}
