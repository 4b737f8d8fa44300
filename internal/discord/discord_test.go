package discord

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/internal/config"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

type fakeContext struct {
	replies []*discordgo.MessageEmbed
	err     error
}

func (f *fakeContext) Author() *discordgo.User   { return &discordgo.User{ID: "1", Username: "tester"} }
func (f *fakeContext) Member() *discordgo.Member { return nil }
func (f *fakeContext) GuildID() string           { return "3" }
func (f *fakeContext) ChannelID() string         { return "2" }
func (f *fakeContext) WebhookID() string         { return "" }
func (f *fakeContext) Arguments() []string       { return nil }
func (f *fakeContext) State() command.Resolver   { return nil }

func (f *fakeContext) Respond(embed *discordgo.MessageEmbed, _ bool) error {
	f.replies = append(f.replies, embed)
	return f.err
}

type slashCommand struct{ name string }

func (c slashCommand) Name() string              { return c.name }
func (c slashCommand) Description() string       { return "does " + c.name }
func (c slashCommand) Category() string          { return config.CategoryInformation }
func (c slashCommand) Run(command.Context) error { return nil }
func (c slashCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{}
}

func newBot(t *testing.T, guilds []string, buf *bytes.Buffer, cmds ...string) *Bot {
	t.Helper()
	reg := command.NewRegistry(nil, nil)
	for _, name := range cmds {
		require.NoError(t, reg.Register(slashCommand{name: name}))
	}
	cfg := &config.Config{Prefixes: []string{"!"}, DefaultGuilds: guilds}
	return New(cfg, reg, zerolog.New(buf))
}

func TestReplyForCooldown(t *testing.T) {
	embed, ok := replyFor(&fakeContext{}, &cooldown.OnCooldownError{RetryAfter: 3200 * time.Millisecond})
	require.True(t, ok)
	assert.Equal(t, "This command is on cooldown. Try again in 4 seconds.", embed.Description)

	embed, _ = replyFor(&fakeContext{}, &cooldown.OnCooldownError{RetryAfter: 10 * time.Millisecond})
	assert.Contains(t, embed.Description, "in 1 seconds")
}

func TestReplyForCheckFailure(t *testing.T) {
	embed, ok := replyFor(&fakeContext{}, command.ErrOnlyInGuild)
	require.True(t, ok)
	assert.Equal(t, "this command can only be used in a server", embed.Description)
}

func TestReplyForUnknownCommand(t *testing.T) {
	err := &command.CommandNotFoundError{InvokedWith: "nope"}

	_, ok := replyFor(&fakeContext{}, err)
	assert.False(t, ok, "prefix messages are not answered")

	embed, ok := replyFor(&command.SlashInteractionContext{}, err)
	require.True(t, ok)
	assert.Contains(t, embed.Description, "nope")
}

func TestReplyForUnexpectedErrorHidesDetails(t *testing.T) {
	embed, ok := replyFor(&fakeContext{}, errors.New("db password is hunter2"))
	require.True(t, ok)
	assert.NotContains(t, embed.Description, "hunter2")
}

func TestHandleErrorLevels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"cooldown", &cooldown.OnCooldownError{RetryAfter: time.Second}, ""},
		{"check", command.ErrNotOwner, ""},
		{"unknown", &command.CommandNotFoundError{InvokedWith: "x"}, `"level":"debug"`},
		{"failure", errors.New("boom"), `"level":"error"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			b := newBot(t, nil, &buf)

			b.handleError("ping", &fakeContext{}, tt.err)

			if tt.level == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), tt.level)
			}
		})
	}
}

func TestHandleErrorReplyFailureIsWarned(t *testing.T) {
	var buf bytes.Buffer
	b := newBot(t, nil, &buf)
	c := &fakeContext{err: errors.New("discord down")}

	b.handleError("ping", c, &cooldown.OnCooldownError{RetryAfter: time.Second})

	assert.Len(t, c.replies, 1)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestDispatchUnknownCommandSendsNothing(t *testing.T) {
	var buf bytes.Buffer
	b := newBot(t, nil, &buf, "ping")
	c := &fakeContext{}

	b.dispatch("pong", c)

	assert.Empty(t, c.replies)
}

func TestHashDefinitionsIgnoresOrderAndIDs(t *testing.T) {
	a := []*discordgo.ApplicationCommand{
		{ID: "1", Name: "ping", Description: "p", Options: []*discordgo.ApplicationCommandOption{
			{Name: "b", Type: discordgo.ApplicationCommandOptionString},
			{Name: "a", Type: discordgo.ApplicationCommandOptionInteger},
		}},
		{ID: "2", Name: "help", Description: "h"},
	}
	b := []*discordgo.ApplicationCommand{
		{Name: "help", Description: "h", Version: "9"},
		{Name: "ping", Description: "p", Options: []*discordgo.ApplicationCommandOption{
			{Name: "a", Type: discordgo.ApplicationCommandOptionInteger},
			{Name: "b", Type: discordgo.ApplicationCommandOptionString},
		}},
	}
	assert.Equal(t, hashDefinitions(a), hashDefinitions(b))

	b[0].Description = "changed"
	assert.NotEqual(t, hashDefinitions(a), hashDefinitions(b))
}

type fakeOverwriter struct {
	mu    sync.Mutex
	calls map[string]int
	fail  string
}

func (f *fakeOverwriter) ApplicationCommandBulkOverwrite(_ string, guildID string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if guildID == f.fail {
		return nil, errors.New("forbidden")
	}
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[guildID]++
	return cmds, nil
}

func TestSyncCommandsSkipsUnchanged(t *testing.T) {
	var buf bytes.Buffer
	b := newBot(t, []string{"10", "20"}, &buf, "ping", "help")
	api := &fakeOverwriter{}

	require.NoError(t, b.syncCommands(context.Background(), api, "app"))
	require.NoError(t, b.syncCommands(context.Background(), api, "app"))

	assert.Equal(t, map[string]int{"10": 1, "20": 1}, api.calls)
}

func TestSyncCommandsGlobalWithoutGuilds(t *testing.T) {
	var buf bytes.Buffer
	b := newBot(t, nil, &buf, "ping")
	api := &fakeOverwriter{}

	require.NoError(t, b.syncCommands(context.Background(), api, "app"))

	assert.Equal(t, map[string]int{"": 1}, api.calls)
}

func TestSyncCommandsRetriesAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	b := newBot(t, []string{"10"}, &buf, "ping")
	api := &fakeOverwriter{fail: "10"}

	require.Error(t, b.syncCommands(context.Background(), api, "app"))
	assert.Empty(t, b.syncedHash("10"))

	api.fail = ""
	require.NoError(t, b.syncCommands(context.Background(), api, "app"))
	assert.Equal(t, 1, api.calls["10"])
}
