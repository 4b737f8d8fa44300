package cooldown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContext struct {
	author  uint64
	channel uint64
	guild   uint64
}

func (c fakeContext) AuthorID() uint64  { return c.author }
func (c fakeContext) ChannelID() uint64 { return c.channel }
func (c fakeContext) GuildID() (uint64, bool) {
	return c.guild, c.guild != 0
}

func TestScopeKeys(t *testing.T) {
	ctx := fakeContext{author: 123, channel: 456, guild: 789}

	key, err := ScopeUser.Key(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(123), key)

	key, err = ScopeChannel.Key(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(456), key)

	key, err = ScopeGuild.Key(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(789), key)
}

func TestGuildScopeFallsBackToChannel(t *testing.T) {
	key, err := ScopeGuild.Key(fakeContext{guild: 789, channel: 101112})
	require.NoError(t, err)
	assert.Equal(t, uint64(789), key)

	key, err = ScopeGuild.Key(fakeContext{channel: 101112})
	require.NoError(t, err)
	assert.Equal(t, uint64(101112), key)
}

func TestGlobalScopeIsConstant(t *testing.T) {
	for _, ctx := range []fakeContext{{}, {author: 1, channel: 2, guild: 3}, {author: 9}} {
		key, err := ScopeGlobal.Key(ctx)
		require.NoError(t, err)
		assert.Equal(t, GlobalKey, key)
	}
}

func TestScopeKeyUnavailable(t *testing.T) {
	_, err := ScopeGuild.Key(fakeContext{author: 1})
	assert.ErrorIs(t, err, ErrScopeUnavailable)

	_, err = ScopeUser.Key(fakeContext{channel: 1})
	assert.ErrorIs(t, err, ErrScopeUnavailable)

	_, err = ScopeChannel.Key(fakeContext{author: 1})
	assert.ErrorIs(t, err, ErrScopeUnavailable)

	_, err = Scope(42).Key(fakeContext{author: 1})
	assert.ErrorIs(t, err, ErrUnknownScope)
}

func TestParseScope(t *testing.T) {
	for _, s := range []Scope{ScopeUser, ScopeChannel, ScopeGuild, ScopeGlobal} {
		got, err := ParseScope(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	var s Scope
	require.NoError(t, s.UnmarshalText([]byte(" Guild ")))
	assert.Equal(t, ScopeGuild, s)

	_, err := ParseScope("planet")
	assert.ErrorIs(t, err, ErrUnknownScope)
}
