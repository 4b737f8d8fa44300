package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/cmdframe/internal/commands/core"
	"github.com/keshon/cmdframe/internal/config"
)

func runLines(t *testing.T, who identity, lines ...string) string {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{"DISCORD_TOKEN": "offline"})
	require.NoError(t, err)
	commands, err := core.NewRegistry(cfg, zerolog.Nop())
	require.NoError(t, err)

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n"))
	require.NoError(t, repl(context.Background(), in, &out, commands, cfg.Prefixes, who, true, zerolog.Nop()))
	return out.String()
}

var alice = identity{UserID: "1", Username: "alice", ChannelID: "2", GuildID: "3"}

func TestReplCooldown(t *testing.T) {
	out := runLines(t, alice, "!ping", "!ping", "!ping", "!ping")

	assert.Equal(t, 3, strings.Count(out, "Pong! (only you)"))
	assert.Contains(t, out, "on cooldown, retry in 5s")
}

func TestReplIgnoresPlainText(t *testing.T) {
	out := runLines(t, alice, "hello there", "")
	assert.Empty(t, out)
}

func TestReplUnknownCommand(t *testing.T) {
	out := runLines(t, alice, "!nope")
	assert.Contains(t, out, `unknown command "nope"`)
}

func TestReplCheckRefused(t *testing.T) {
	out := runLines(t, alice, "!cooldowns")
	assert.Contains(t, out, "refused: only the bot owners can use this command")
}

func TestReplRoll(t *testing.T) {
	out := runLines(t, alice, "!roll 2 * 3")
	assert.Contains(t, out, "🎲 Dice Roll\n")
	assert.Contains(t, out, "**6**")
}
