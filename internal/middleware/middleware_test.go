package middleware

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/cmdframe/internal/command"
	"github.com/keshon/cmdframe/pkg/cmd"
	"github.com/keshon/cmdframe/pkg/cooldown"
)

type fakeState struct {
	channels map[string]*discordgo.Channel
	perms    map[string]int64
	err      error
}

func (f *fakeState) Channel(id string) (*discordgo.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch, ok := f.channels[id]
	if !ok {
		return nil, discordgo.ErrStateNotFound
	}
	return ch, nil
}

func (f *fakeState) UserChannelPermissions(userID, _ string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.perms[userID], nil
}

type msgOpt func(*discordgo.Message)

func newContext(state *fakeState, opts ...msgOpt) *command.MessageContext {
	m := &discordgo.Message{
		Author:    &discordgo.User{ID: "1", Username: "alice"},
		ChannelID: "10",
		GuildID:   "100",
		Member:    &discordgo.Member{},
	}
	for _, o := range opts {
		o(m)
	}
	c := &command.MessageContext{Event: &discordgo.MessageCreate{Message: m}}
	if state != nil {
		c.Resolver = state
	}
	return c
}

func inDM(m *discordgo.Message)       { m.GuildID = ""; m.Member = nil }
func asBot(m *discordgo.Message)      { m.Author.Bot = true }
func viaWebhook(m *discordgo.Message) { m.WebhookID = "w1" }
func withRoles(roles ...string) msgOpt {
	return func(m *discordgo.Message) { m.Member.Roles = roles }
}
func from(id string) msgOpt {
	return func(m *discordgo.Message) { m.Author.ID = id }
}

type runCounter struct {
	mu    sync.Mutex
	name  string
	runs  int
	err   error
	perms []int64
}

func (r *runCounter) Name() string             { return r.name }
func (r *runCounter) Description() string      { return "counter" }
func (r *runCounter) Category() string         { return "tests" }
func (r *runCounter) UserPermissions() []int64 { return r.perms }

func (r *runCounter) Run(command.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
	return r.err
}

func (r *runCounter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

func run(t *testing.T, c cmd.Command, dc command.Context) error {
	t.Helper()
	return c.Run(context.Background(), &cmd.Invocation{InvokedWith: c.Name(), Args: dc.Arguments(), Data: dc})
}

func TestContextChecks(t *testing.T) {
	tests := []struct {
		name  string
		check command.Check
		pass  []msgOpt
		fail  []msgOpt
		want  error
	}{
		{"guild only", GuildOnly, nil, []msgOpt{inDM}, command.ErrOnlyInGuild},
		{"dm only", DMOnly, []msgOpt{inDM}, nil, command.ErrOnlyInDM},
		{"bot only", BotOnly, []msgOpt{asBot}, nil, command.ErrBotOnly},
		{"webhook only", WebhookOnly, []msgOpt{viaWebhook}, nil, command.ErrWebhookOnly},
		{"human only (bot)", HumanOnly, nil, []msgOpt{asBot}, command.ErrHumanOnly},
		{"human only (webhook)", HumanOnly, nil, []msgOpt{viaWebhook}, command.ErrHumanOnly},
		{"owner only", OwnerOnly("1", "2"), []msgOpt{from("2")}, []msgOpt{from("3")}, command.ErrNotOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, tt.check(newContext(nil, tt.pass...)))
			err := tt.check(newContext(nil, tt.fail...))
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, command.ErrCheckFailure)
		})
	}
}

func TestNSFWChannelOnly(t *testing.T) {
	state := &fakeState{channels: map[string]*discordgo.Channel{
		"10": {ID: "10", NSFW: true},
		"11": {ID: "11"},
	}}
	assert.NoError(t, NSFWChannelOnly(newContext(state)))

	sfw := newContext(state, func(m *discordgo.Message) { m.ChannelID = "11" })
	assert.ErrorIs(t, NSFWChannelOnly(sfw), command.ErrNSFWChannelOnly)

	unknown := newContext(state, func(m *discordgo.Message) { m.ChannelID = "12" })
	err := NSFWChannelOnly(unknown)
	require.ErrorIs(t, err, discordgo.ErrStateNotFound)
	assert.NotErrorIs(t, err, command.ErrCheckFailure)
}

func TestRoleChecks(t *testing.T) {
	ctx := newContext(nil, withRoles("a", "b"))

	assert.NoError(t, HasRoles("a", "b")(ctx))
	assert.NoError(t, HasAnyRole("b", "c")(ctx))

	var missing *command.MissingRequiredRoleError
	require.ErrorAs(t, HasRoles("a", "c")(ctx), &missing)
	assert.False(t, missing.Any)
	require.ErrorAs(t, HasAnyRole("c", "d")(ctx), &missing)
	assert.True(t, missing.Any)

	assert.ErrorIs(t, HasRoles("a")(newContext(nil, inDM)), command.ErrOnlyInGuild)
}

func TestHasChannelPermissions(t *testing.T) {
	state := &fakeState{perms: map[string]int64{
		"1": discordgo.PermissionSendMessages | discordgo.PermissionManageMessages,
	}}
	ctx := newContext(state)

	assert.NoError(t, HasChannelPermissions(discordgo.PermissionManageMessages)(ctx))

	err := HasChannelPermissions(discordgo.PermissionManageMessages | discordgo.PermissionBanMembers | discordgo.PermissionKickMembers)(ctx)
	var missing *command.MissingRequiredPermissionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, int64(discordgo.PermissionBanMembers|discordgo.PermissionKickMembers), missing.Permissions)
	assert.Equal(t, []string{"Kick Members", "Ban Members"}, missing.Names)

	failing := newContext(&fakeState{err: errors.New("boom")})
	assert.Error(t, HasChannelPermissions(discordgo.PermissionSendMessages)(failing))
	assert.ErrorIs(t, HasChannelPermissions(discordgo.PermissionSendMessages)(newContext(state, inDM)), command.ErrOnlyInGuild)
}

func TestHasAnyChannelPermission(t *testing.T) {
	state := &fakeState{perms: map[string]int64{
		"1": discordgo.PermissionSendMessages,
		"2": discordgo.PermissionAdministrator,
	}}

	assert.NoError(t, HasAnyChannelPermission(discordgo.PermissionBanMembers, discordgo.PermissionSendMessages)(newContext(state)))
	assert.NoError(t, HasAnyChannelPermission(discordgo.PermissionBanMembers)(newContext(state, from("2"))))

	var missing *command.MissingRequiredPermissionError
	require.ErrorAs(t, HasAnyChannelPermission(discordgo.PermissionBanMembers)(newContext(state)), &missing)
	assert.True(t, missing.Any)
}

func TestWithUserPermissionCheck(t *testing.T) {
	state := &fakeState{perms: map[string]int64{"1": discordgo.PermissionSendMessages}}
	target := &runCounter{name: "purge", perms: []int64{discordgo.PermissionManageMessages}}
	c := cmd.Apply(&command.DiscordAdapter{Cmd: target}, WithUserPermissionCheck("9"))

	err := run(t, c, newContext(state))
	assert.ErrorIs(t, err, command.ErrCheckFailure)
	assert.Equal(t, 0, target.count())

	require.NoError(t, run(t, c, newContext(state, from("9"))))
	assert.Equal(t, 1, target.count())
}

type checkedCommand struct {
	runCounter
	checks []command.Check
}

func (c *checkedCommand) Checks() []command.Check { return c.checks }

func TestWithChecksRunsExplicitThenDeclared(t *testing.T) {
	var order []string
	record := func(name string, err error) command.Check {
		return func(command.Context) error {
			order = append(order, name)
			return err
		}
	}
	denied := errors.New("denied")
	target := &checkedCommand{
		runCounter: runCounter{name: "secure"},
		checks:     []command.Check{record("declared", denied)},
	}
	c := cmd.Apply(&command.DiscordAdapter{Cmd: target}, WithChecks(record("explicit", nil)))

	err := run(t, c, newContext(nil))
	assert.ErrorIs(t, err, denied)
	assert.Equal(t, []string{"explicit", "declared"}, order)
	assert.Equal(t, 0, target.count())
}

func TestWithGuildOnly(t *testing.T) {
	target := &runCounter{name: "guilded"}
	c := cmd.Apply(&command.DiscordAdapter{Cmd: target}, WithGuildOnly())

	assert.ErrorIs(t, run(t, c, newContext(nil, inDM)), command.ErrOnlyInGuild)
	require.NoError(t, run(t, c, newContext(nil)))
	assert.Equal(t, 1, target.count())
}

func newCooldownRegistry(t *testing.T, clock clockwork.Clock, name string, specs ...cooldown.Spec) *cooldown.Registry {
	t.Helper()
	reg := cooldown.NewRegistry(cooldown.WithClock(clock))
	_, err := reg.Register(name, specs...)
	require.NoError(t, err)
	return reg
}

func TestWithCooldownDeniesAfterUsages(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg := newCooldownRegistry(t, clock, "ping", cooldown.Spec{Scope: cooldown.ScopeUser, Length: 5 * time.Second, Usages: 3})
	target := &runCounter{name: "ping"}
	c := cmd.Apply(&command.DiscordAdapter{Cmd: target}, WithCooldown(reg))

	for i := 0; i < 3; i++ {
		require.NoError(t, run(t, c, newContext(nil)))
	}

	clock.Advance(time.Second)
	err := run(t, c, newContext(nil))
	cd, ok := cooldown.IsOnCooldown(err)
	require.True(t, ok)
	assert.Equal(t, 4*time.Second, cd.RetryAfter)
	assert.Equal(t, 3, target.count())

	// another user has a bucket of their own
	require.NoError(t, run(t, c, newContext(nil, from("2"))))

	clock.Advance(4 * time.Second)
	require.NoError(t, run(t, c, newContext(nil)))
	assert.Equal(t, 5, target.count())
}

func TestWithCooldownGuildFallsBackToChannel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg := newCooldownRegistry(t, clock, "roll", cooldown.Spec{Scope: cooldown.ScopeGuild, Length: time.Minute, Usages: 1})
	target := &runCounter{name: "roll"}
	c := cmd.Apply(&command.DiscordAdapter{Cmd: target}, WithCooldown(reg))

	require.NoError(t, run(t, c, newContext(nil, inDM)))
	require.NoError(t, run(t, c, newContext(nil)))

	_, ok := cooldown.IsOnCooldown(run(t, c, newContext(nil, from("2"))))
	assert.True(t, ok, "same guild shares one bucket")
}

func TestWithCooldownScopeError(t *testing.T) {
	reg := newCooldownRegistry(t, clockwork.NewFakeClock(), "ping", cooldown.Spec{Scope: cooldown.ScopeUser, Length: time.Second, Usages: 1})
	target := &runCounter{name: "ping"}
	c := cmd.Apply(&command.DiscordAdapter{Cmd: target}, WithCooldown(reg))

	err := run(t, c, newContext(nil, from("")))
	require.ErrorIs(t, err, cooldown.ErrScopeUnavailable)
	assert.Equal(t, 0, target.count())
}

func TestWithCooldownConcurrentInvocations(t *testing.T) {
	reg := newCooldownRegistry(t, clockwork.NewFakeClock(), "ping", cooldown.Spec{Scope: cooldown.ScopeUser, Length: time.Minute, Usages: 5})
	target := &runCounter{name: "ping"}
	c := cmd.Apply(&command.DiscordAdapter{Cmd: target}, WithCooldown(reg))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Run(context.Background(), &cmd.Invocation{Data: newContext(nil)})
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, target.count())
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusOK, Status(nil))
	assert.Equal(t, StatusCooldown, Status(&cooldown.OnCooldownError{RetryAfter: time.Second}))
	assert.Equal(t, StatusCheckFailed, Status(command.ErrNotOwner))
	assert.Equal(t, StatusError, Status(errors.New("boom")))
}

func TestWithCommandLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	target := &runCounter{name: "ping", err: errors.New("exploded")}
	c := cmd.Apply(&command.DiscordAdapter{Cmd: target}, WithCommandLogger(logger))

	err := run(t, c, newContext(nil))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"command":"ping"`)
	assert.Contains(t, out, `"user_id":"1"`)
	assert.Contains(t, out, `"status":"error"`)
	assert.Contains(t, out, `"invocation_id":"`)
}

func TestWithCommandLoggerCooldownIsNotAnError(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	reg := newCooldownRegistry(t, clockwork.NewFakeClock(), "ping", cooldown.Spec{Scope: cooldown.ScopeUser, Length: time.Second, Usages: 1})
	target := &runCounter{name: "ping"}
	c := cmd.Apply(&command.DiscordAdapter{Cmd: target}, WithCommandLogger(logger), WithCooldown(reg))

	require.NoError(t, run(t, c, newContext(nil)))
	buf.Reset()
	_, ok := cooldown.IsOnCooldown(run(t, c, newContext(nil)))
	require.True(t, ok)

	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"status":"cooldown"`)
	assert.NotContains(t, buf.String(), `"level":"error"`)
}
