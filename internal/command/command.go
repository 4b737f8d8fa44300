package command

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/pkg/cmd"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

// DiscordCommand is what individual Discord commands implement.
type DiscordCommand interface {
	Name() string
	Description() string
	Category() string
	Run(ctx Context) error
}

// Providers - optional capabilities a command can declare.

type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// CooldownProvider declares the default buckets of a command. A cooldowns
// file entry for the command replaces them.
type CooldownProvider interface {
	Cooldowns() []cooldown.Spec
}

// Check is a precondition run before a command. A non-nil error aborts the
// invocation.
type Check func(ctx Context) error

type ChecksProvider interface {
	Checks() []Check
}

// DiscordMeta is exposed by the adapter so middleware and help can read
// Discord-only metadata through any number of wrappers.
type DiscordMeta interface {
	Category() string
}

// DiscordAdapter adapts a DiscordCommand to cmd.Command so it can live in the
// universal registry. Every provider is delegated to the inner command.
type DiscordAdapter struct {
	Cmd DiscordCommand
}

func (a *DiscordAdapter) Name() string        { return a.Cmd.Name() }
func (a *DiscordAdapter) Description() string { return a.Cmd.Description() }
func (a *DiscordAdapter) Category() string    { return a.Cmd.Category() }

func (a *DiscordAdapter) Aliases() []string {
	if al, ok := a.Cmd.(cmd.Aliased); ok {
		return al.Aliases()
	}
	return nil
}

func (a *DiscordAdapter) Run(_ context.Context, inv *cmd.Invocation) error {
	c, ok := inv.Data.(Context)
	if !ok {
		return fmt.Errorf("command %s: unsupported invocation data %T", a.Cmd.Name(), inv.Data)
	}
	return a.Cmd.Run(c)
}

// SlashDefinition returns the command's schema with name, description and
// type filled in, or nil for prefix-only commands.
func (a *DiscordAdapter) SlashDefinition() *discordgo.ApplicationCommand {
	sp, ok := a.Cmd.(SlashProvider)
	if !ok {
		return nil
	}
	def := sp.SlashDefinition()
	if def == nil {
		return nil
	}
	if def.Name == "" {
		def.Name = a.Cmd.Name()
	}
	if def.Description == "" {
		def.Description = a.Cmd.Description()
	}
	if def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	return def
}

func (a *DiscordAdapter) Cooldowns() []cooldown.Spec {
	if cp, ok := a.Cmd.(CooldownProvider); ok {
		return cp.Cooldowns()
	}
	return nil
}

func (a *DiscordAdapter) Checks() []Check {
	if cp, ok := a.Cmd.(ChecksProvider); ok {
		return cp.Checks()
	}
	return nil
}

// As finds T on the wrapper chain of c or, failing that, on the Discord
// command inside the adapter.
func As[T any](c cmd.Command) (T, bool) {
	if v, ok := cmd.As[T](c); ok {
		return v, true
	}
	if a, ok := cmd.Root(c).(*DiscordAdapter); ok {
		v, ok := a.Cmd.(T)
		return v, ok
	}
	var zero T
	return zero, false
}

// ContextOf returns the Discord context carried by inv, if any.
func ContextOf(inv *cmd.Invocation) (Context, bool) {
	c, ok := inv.Data.(Context)
	return c, ok
}

// OptionArgs flattens slash options into positional arguments, descending
// into subcommands.
func OptionArgs(opts []*discordgo.ApplicationCommandInteractionDataOption) []string {
	var args []string
	for _, o := range opts {
		switch o.Type {
		case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
			args = append(args, o.Name)
			args = append(args, OptionArgs(o.Options)...)
		default:
			args = append(args, fmt.Sprint(o.Value))
		}
	}
	return args
}
