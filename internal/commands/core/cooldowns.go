package core

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/internal/config"
	"github.com/keshon/cmdframe/internal/middleware"
)

// CooldownsCommand shows the live bucket count of every managed cooldown.
type CooldownsCommand struct {
	Commands *command.Registry
	Owners   []string
}

func (c *CooldownsCommand) Name() string        { return "cooldowns" }
func (c *CooldownsCommand) Description() string { return "Show active cooldown buckets" }
func (c *CooldownsCommand) Category() string    { return config.CategoryMaintenance }

func (c *CooldownsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{}
}

func (c *CooldownsCommand) Checks() []command.Check {
	return []command.Check{middleware.OwnerOnly(c.Owners...)}
}

func (c *CooldownsCommand) Run(ctx command.Context) error {
	reg := c.Commands.Cooldowns()

	var sb strings.Builder
	for _, name := range reg.Commands() {
		for _, m := range reg.Managers(name) {
			fmt.Fprintf(&sb, "`%s` %s: %d live (%s)\n", name, m.Scope(), m.Len(), describeCooldown(m))
		}
	}
	if sb.Len() == 0 {
		sb.WriteString("No command has a cooldown.")
	}
	return ctx.Respond(command.Embed("Cooldowns", strings.TrimSpace(sb.String())), true)
}
