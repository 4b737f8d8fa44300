package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/internal/config"
	"github.com/keshon/cmdframe/pkg/cmd"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

type HelpCommand struct {
	Commands *command.Registry
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Get a list of available commands" }
func (c *HelpCommand) Aliases() []string   { return []string{"commands"} }
func (c *HelpCommand) Category() string    { return config.CategoryInformation }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "command",
				Description: "Show details for one command",
				Required:    false,
			},
		},
	}
}

func (c *HelpCommand) Cooldowns() []cooldown.Spec {
	return []cooldown.Spec{
		{Scope: cooldown.ScopeChannel, Length: 10 * time.Second, Usages: 2},
	}
}

func (c *HelpCommand) Run(ctx command.Context) error {
	if args := ctx.Arguments(); len(args) > 0 {
		found := c.Commands.Get(strings.ToLower(args[0]))
		if found == nil {
			return ctx.Respond(command.Embed("Help", fmt.Sprintf("No command named `%s`.", args[0])), true)
		}
		return ctx.Respond(command.Embed("Help: "+found.Name(), c.describe(found)), true)
	}
	return ctx.Respond(command.Embed("Help", c.byCategory()), true)
}

func (c *HelpCommand) byCategory() string {
	groups := make(map[string][]cmd.Command)
	for _, found := range c.Commands.All() {
		cat := "Other"
		if meta, ok := command.As[command.DiscordMeta](found); ok && meta.Category() != "" {
			cat = meta.Category()
		}
		groups[cat] = append(groups[cat], found)
	}

	cats := make([]string, 0, len(groups))
	for cat := range groups {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		wi, wj := config.CategoryWeight(cats[i]), config.CategoryWeight(cats[j])
		if wi != wj {
			return wi < wj
		}
		return cats[i] < cats[j]
	})

	var sb strings.Builder
	for _, cat := range cats {
		fmt.Fprintf(&sb, "**%s**\n", cat)
		// All is sorted by name already
		for _, found := range groups[cat] {
			fmt.Fprintf(&sb, "`%s` - %s\n", found.Name(), found.Description())
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func (c *HelpCommand) describe(found cmd.Command) string {
	var sb strings.Builder
	sb.WriteString(found.Description())
	if al, ok := command.As[cmd.Aliased](found); ok && len(al.Aliases()) > 0 {
		fmt.Fprintf(&sb, "\n**Aliases**: `%s`", strings.Join(al.Aliases(), "`, `"))
	}
	for _, m := range c.Commands.Cooldowns().Managers(found.Name()) {
		fmt.Fprintf(&sb, "\n**Cooldown**: %s", describeCooldown(m))
	}
	return sb.String()
}

// describeCooldown renders a manager as e.g. "3 uses per 5s per user".
func describeCooldown(m *cooldown.Manager) string {
	uses := "uses"
	if m.Usages() == 1 {
		uses = "use"
	}
	if m.Scope() == cooldown.ScopeGlobal {
		return fmt.Sprintf("%d %s per %s globally", m.Usages(), uses, m.Length())
	}
	return fmt.Sprintf("%d %s per %s per %s", m.Usages(), uses, m.Length(), m.Scope())
}
