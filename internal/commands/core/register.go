// Package core holds the built-in commands every deployment gets.
package core

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/internal/config"
	"github.com/keshon/cmdframe/internal/metrics"
	"github.com/keshon/cmdframe/internal/middleware"
	"github.com/keshon/cmdframe/pkg/cmd"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

// NewRegistry builds the command registry described by cfg with the built-in
// commands registered. Cooldown decisions are exported as metrics.
func NewRegistry(cfg *config.Config, logger zerolog.Logger) (*command.Registry, error) {
	cooldowns := cooldown.NewRegistry(
		cooldown.WithGracePeriod(cfg.GracePeriod),
		cooldown.WithObserver(metrics.CooldownObserver{}),
	)
	reg := command.NewRegistry(cooldowns, cfg.Cooldowns)
	if err := Register(reg, cfg, logger); err != nil {
		return nil, err
	}
	return reg, nil
}

// Middlewares is the chain every built-in command runs behind, outermost
// first. Checks run before the cooldown, so a refused invocation does not
// use up a slot.
func Middlewares(reg *command.Registry, cfg *config.Config, logger zerolog.Logger) []cmd.Middleware {
	return []cmd.Middleware{
		middleware.WithCommandLogger(logger),
		middleware.WithUserPermissionCheck(cfg.OwnerIDs...),
		middleware.WithChecks(),
		middleware.WithCooldown(reg.Cooldowns()),
	}
}

// Register adds the built-in commands to reg. It fails if reg carries a
// cooldown override for a command that was never registered.
func Register(reg *command.Registry, cfg *config.Config, logger zerolog.Logger) error {
	mws := Middlewares(reg, cfg, logger)
	for _, c := range []command.DiscordCommand{
		&PingCommand{},
		&HelpCommand{Commands: reg},
		&RollCommand{},
		&CooldownsCommand{Commands: reg, Owners: cfg.OwnerIDs},
	} {
		if err := reg.Register(c, mws...); err != nil {
			return err
		}
	}
	if unknown := reg.UnknownOverrides(); len(unknown) > 0 {
		return fmt.Errorf("cooldown overrides for unknown commands: %s", strings.Join(unknown, ", "))
	}
	return nil
}
