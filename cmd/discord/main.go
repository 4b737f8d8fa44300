package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/keshon/cmdframe/internal/commands/core"
	"github.com/keshon/cmdframe/internal/config"
	"github.com/keshon/cmdframe/internal/discord"
	"github.com/keshon/cmdframe/internal/logging"
	"github.com/keshon/cmdframe/internal/metrics"
	"github.com/keshon/cmdframe/pkg/jobmgr"
)

const appName = "cmdframe"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log, closeLog := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer closeLog()
	log.Info().Msgf("starting %s bot", appName)

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("discord bot error")
		closeLog()
		os.Exit(1)
	}
	log.Info().Msg("discord bot exited cleanly")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	commands, err := core.NewRegistry(cfg, log)
	if err != nil {
		return err
	}

	jobs := jobmgr.NewManager(log.With().Str("component", "jobs").Logger())
	defer func() {
		jobs.StopAll()
		jobs.Wait()
	}()

	if err := jobs.Start(ctx, "cooldown-sweeper", func(ctx context.Context) error {
		return commands.Cooldowns().Run(ctx, cfg.SweepInterval)
	}); err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		if err := jobs.Start(ctx, "metrics", func(ctx context.Context) error {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
			return metrics.Serve(ctx, cfg.MetricsAddr)
		}); err != nil {
			return err
		}
	}
	log.Debug().Msg(jobs.Status())

	return discord.New(cfg, commands, log).Run(ctx)
}
