package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/pkg/cmd"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

// Registry ties commands to their cooldown managers. Both the gateway bot and
// the CLI dispatch through it.
type Registry struct {
	commands  *cmd.Registry
	cooldowns *cooldown.Registry
	overrides map[string][]cooldown.Spec
}

// NewRegistry returns an empty registry. overrides, keyed by command name,
// replace the cooldowns commands declare themselves.
func NewRegistry(cooldowns *cooldown.Registry, overrides map[string][]cooldown.Spec) *Registry {
	if cooldowns == nil {
		cooldowns = cooldown.NewRegistry()
	}
	return &Registry{
		commands:  cmd.NewRegistry(),
		cooldowns: cooldowns,
		overrides: overrides,
	}
}

// Register builds the cooldown managers of c and adds it, wrapped in mws, to
// the registry. Invalid cooldowns fail here rather than on first use.
func (r *Registry) Register(c DiscordCommand, mws ...cmd.Middleware) error {
	adapter := &DiscordAdapter{Cmd: c}

	specs, ok := r.overrides[c.Name()]
	if !ok {
		specs = adapter.Cooldowns()
	}
	if _, err := r.cooldowns.Register(c.Name(), specs...); err != nil {
		return fmt.Errorf("register %s: %w", c.Name(), err)
	}

	if err := r.commands.Register(cmd.Apply(adapter, mws...)); err != nil {
		return fmt.Errorf("register %s: %w", c.Name(), err)
	}
	return nil
}

// UnknownOverrides returns, sorted, the override names that match no
// registered command. Such an entry never applies, which usually means a typo.
func (r *Registry) UnknownOverrides() []string {
	var unknown []string
	for name := range r.overrides {
		if found := r.commands.Get(name); found == nil || found.Name() != name {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// Get returns the command registered under name or alias, or nil.
func (r *Registry) Get(name string) cmd.Command {
	return r.commands.Get(name)
}

// All returns every command sorted by name.
func (r *Registry) All() []cmd.Command {
	return r.commands.GetAll()
}

// Cooldowns exposes the cooldown registry, e.g. for the sweeper.
func (r *Registry) Cooldowns() *cooldown.Registry {
	return r.cooldowns
}

// Dispatch runs the command invoked as name with c as its context.
func (r *Registry) Dispatch(ctx context.Context, name string, c Context) error {
	found := r.commands.Get(name)
	if found == nil {
		return &CommandNotFoundError{InvokedWith: name}
	}
	return found.Run(ctx, &cmd.Invocation{
		InvokedWith: name,
		Args:        c.Arguments(),
		Data:        c,
	})
}

// SlashDefinitions returns the schemas of every slash-capable command, sorted
// by name.
func (r *Registry) SlashDefinitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range r.All() {
		sp, ok := cmd.As[SlashProvider](c)
		if !ok {
			continue
		}
		if def := sp.SlashDefinition(); def != nil {
			defs = append(defs, def)
		}
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
