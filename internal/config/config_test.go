package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/cmdframe/pkg/cooldown"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"DISCORD_TOKEN": "abc"})
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.DiscordToken)
	assert.Equal(t, []string{"!"}, cfg.Prefixes)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 30*time.Second, cfg.GracePeriod)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.SyncCommands)
	assert.Empty(t, cfg.Cooldowns)
}

func TestLoadFromLists(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"DISCORD_TOKEN":    "abc",
		"COMMAND_PREFIXES": "!,?",
		"OWNER_IDS":        "1,2",
		"DEFAULT_GUILDS":   "789",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"!", "?"}, cfg.Prefixes)
	assert.Equal(t, []string{"789"}, cfg.DefaultGuilds)
	assert.True(t, cfg.IsOwner("2"))
	assert.False(t, cfg.IsOwner("3"))
}

func TestLoadFromMissingToken(t *testing.T) {
	_, err := LoadFrom(map[string]string{})
	require.Error(t, err)
}

func TestLoadFromRejectsBadSweepInterval(t *testing.T) {
	_, err := LoadFrom(map[string]string{
		"DISCORD_TOKEN":           "abc",
		"COOLDOWN_SWEEP_INTERVAL": "0s",
	})
	require.Error(t, err)
}

func TestParseCooldowns(t *testing.T) {
	specs, err := ParseCooldowns([]byte(`
commands:
  ping:
    - scope: user
      length: 5s
      usages: 3
  roll:
    - scope: guild
      length: 1m
      usages: 10
      algorithm: token
    - scope: global
      length: 1s
      usages: 5
      algorithm: sliding
  help: []
`))
	require.NoError(t, err)

	require.Len(t, specs["ping"], 1)
	assert.Equal(t, cooldown.ScopeUser, specs["ping"][0].Scope)
	assert.Equal(t, 5*time.Second, specs["ping"][0].Length)
	assert.Equal(t, 3, specs["ping"][0].Usages)
	assert.Equal(t, cooldown.BangBang{}, specs["ping"][0].Algorithm)

	require.Len(t, specs["roll"], 2)
	assert.Equal(t, cooldown.TokenBucket{}, specs["roll"][0].Algorithm)
	assert.Equal(t, cooldown.ScopeGlobal, specs["roll"][1].Scope)
	assert.Equal(t, cooldown.SlidingWindow{}, specs["roll"][1].Algorithm)

	help, ok := specs["help"]
	assert.True(t, ok)
	assert.Empty(t, help)
}

func TestParseCooldownsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"bad scope", "commands:\n  ping:\n    - {scope: team, length: 1s, usages: 1}\n", cooldown.ErrUnknownScope},
		{"bad algorithm", "commands:\n  ping:\n    - {scope: user, length: 1s, usages: 1, algorithm: leaky}\n", cooldown.ErrUnknownAlgorithm},
		{"zero length", "commands:\n  ping:\n    - {scope: user, length: 0s, usages: 1}\n", cooldown.ErrInvalidLength},
		{"zero usages", "commands:\n  ping:\n    - {scope: user, length: 1s, usages: 0}\n", cooldown.ErrInvalidUsages},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCooldowns([]byte(tt.doc))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadFromReadsCooldownsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cooldowns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commands:\n  ping:\n    - {scope: channel, length: 2s, usages: 1}\n"), 0o600))

	cfg, err := LoadFrom(map[string]string{
		"DISCORD_TOKEN":  "abc",
		"COOLDOWNS_FILE": path,
	})
	require.NoError(t, err)
	require.Len(t, cfg.Cooldowns["ping"], 1)
	assert.Equal(t, cooldown.ScopeChannel, cfg.Cooldowns["ping"][0].Scope)
}

func TestLoadFromMissingCooldownsFile(t *testing.T) {
	_, err := LoadFrom(map[string]string{
		"DISCORD_TOKEN":  "abc",
		"COOLDOWNS_FILE": filepath.Join(t.TempDir(), "nope.yaml"),
	})
	require.Error(t, err)
}

func TestCategoryWeight(t *testing.T) {
	assert.Less(t, CategoryWeight(CategoryInformation), CategoryWeight(CategoryMaintenance))
	assert.Equal(t, 1000, CategoryWeight("unknown"))
}
