package cooldown

import (
	"fmt"
	"strings"
)

// GlobalKey is the single key every invocation maps to under ScopeGlobal.
const GlobalKey uint64 = 0

// Context is the read-only view of an invocation the cooldown subsystem needs.
// Zero IDs mean "absent".
type Context interface {
	AuthorID() uint64
	ChannelID() uint64
	GuildID() (uint64, bool)
}

// Scope selects the dimension cooldowns are tracked over.
type Scope int

const (
	ScopeUser Scope = iota
	ScopeChannel
	ScopeGuild
	ScopeGlobal
)

func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeChannel:
		return "channel"
	case ScopeGuild:
		return "guild"
	case ScopeGlobal:
		return "global"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Key extracts the bucket key for ctx. Guild scope falls back to the channel,
// so direct messages get a bucket of their own.
func (s Scope) Key(ctx Context) (uint64, error) {
	switch s {
	case ScopeUser:
		if id := ctx.AuthorID(); id != 0 {
			return id, nil
		}
		return 0, fmt.Errorf("%w: user scope without author id", ErrScopeUnavailable)
	case ScopeChannel:
		if id := ctx.ChannelID(); id != 0 {
			return id, nil
		}
		return 0, fmt.Errorf("%w: channel scope without channel id", ErrScopeUnavailable)
	case ScopeGuild:
		if id, ok := ctx.GuildID(); ok && id != 0 {
			return id, nil
		}
		if id := ctx.ChannelID(); id != 0 {
			return id, nil
		}
		return 0, fmt.Errorf("%w: guild scope without guild or channel id", ErrScopeUnavailable)
	case ScopeGlobal:
		return GlobalKey, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownScope, int(s))
	}
}

// ParseScope maps a configuration name to a Scope.
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "user":
		return ScopeUser, nil
	case "channel":
		return ScopeChannel, nil
	case "guild":
		return ScopeGuild, nil
	case "global":
		return ScopeGlobal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScope, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(text []byte) error {
	v, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
