// Command cli runs the command registry against stdin, one message per line,
// without connecting to Discord. Cooldowns and checks behave as on the bot.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/internal/commands/core"
	"github.com/keshon/cmdframe/internal/config"
	"github.com/keshon/cmdframe/internal/logging"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

func main() {
	var who identity
	flag.StringVar(&who.UserID, "user", "1000", "author user ID")
	flag.StringVar(&who.Username, "username", "cli", "author username")
	flag.StringVar(&who.ChannelID, "channel", "2000", "channel ID")
	flag.StringVar(&who.GuildID, "guild", "3000", "guild ID, empty for a direct message")
	flag.BoolVar(&who.Bot, "bot", false, "send as a bot account")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	cfg, err := config.LoadOffline()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, closeLog := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer closeLog()

	commands, err := core.NewRegistry(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to register commands")
		closeLog()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := repl(ctx, os.Stdin, os.Stdout, commands, cfg.Prefixes, who, *noColor, log); err != nil {
		log.Error().Err(err).Msg("read input")
	}
}

// repl dispatches every prefixed line of in until EOF or ctx is done.
func repl(ctx context.Context, in io.Reader, out io.Writer, commands *command.Registry, prefixes []string, who identity, noColor bool, log zerolog.Logger) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		_, name, args, ok := command.ParsePrefix(scanner.Text(), prefixes, "")
		if !ok {
			continue
		}

		c := &cliContext{who: who, args: args, out: out, noColor: noColor}
		if err := commands.Dispatch(ctx, name, c); err != nil {
			fmt.Fprintln(out, stylize(describeError(err), noColor, errorColor(err), false))
			log.Debug().Err(err).Str("command", name).Msg("dispatch failed")
		}
	}
	return scanner.Err()
}

func describeError(err error) string {
	var notFound *command.CommandNotFoundError
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("unknown command %q", notFound.InvokedWith)
	case errors.Is(err, command.ErrCheckFailure):
		return "refused: " + command.UserMessage(err)
	}
	if cd, ok := cooldown.IsOnCooldown(err); ok {
		return fmt.Sprintf("on cooldown, retry in %s", cd.RetryAfter.Round(100*time.Millisecond))
	}
	return "error: " + strings.TrimSpace(err.Error())
}

func errorColor(err error) lipgloss.Color {
	if _, ok := cooldown.IsOnCooldown(err); ok {
		return lipgloss.Color("220")
	}
	return lipgloss.Color("196")
}
