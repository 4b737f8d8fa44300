package core

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/internal/config"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

type RollCommand struct {
	// Rand is used when set, tests seed it.
	Rand *rand.Rand

	mu sync.Mutex
}

func (c *RollCommand) Name() string        { return "roll" }
func (c *RollCommand) Description() string { return "Roll dice with formulas like `2d6+1d4*2`" }
func (c *RollCommand) Aliases() []string   { return []string{"r", "dice"} }
func (c *RollCommand) Category() string    { return config.CategoryGameplay }

func (c *RollCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "formula",
				Description: "Supports `2d6+1d4*2-3` and similar math",
				Required:    true,
			},
		},
	}
}

// Cooldowns keep one guild from flooding channels with rolls and cap the
// bot-wide rate. The guild bucket refills gradually.
func (c *RollCommand) Cooldowns() []cooldown.Spec {
	return []cooldown.Spec{
		{Scope: cooldown.ScopeGuild, Length: 30 * time.Second, Usages: 10, Algorithm: cooldown.TokenBucket{}},
		{Scope: cooldown.ScopeGlobal, Length: time.Second, Usages: 20},
	}
}

func (c *RollCommand) Run(ctx command.Context) error {
	formula := strings.Join(ctx.Arguments(), "")

	res, err := c.roll(formula)
	if err != nil {
		// bad input is the user's to fix, not a command failure
		return ctx.Respond(command.Embed("🎲 Dice Roll", err.Error()), true)
	}

	return ctx.Respond(command.Embed("🎲 Dice Roll", fmt.Sprintf(
		"**User Input**:\t`%s`\n**Calculation**:\t%s\n**Result**:\t**%d**",
		res.Formula, res.Breakdown, res.Total,
	)), false)
}

func (c *RollCommand) roll(formula string) (RollResult, error) {
	if c.Rand == nil {
		return Roll(formula, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}
	// *rand.Rand is not safe for concurrent use
	c.mu.Lock()
	defer c.mu.Unlock()
	return Roll(formula, c.Rand)
}
