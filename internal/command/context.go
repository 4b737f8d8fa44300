package command

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/pkg/cooldown"
)

// Resolver answers the channel and permission lookups checks need.
// *discordgo.State satisfies it.
type Resolver interface {
	Channel(channelID string) (*discordgo.Channel, error)
	UserChannelPermissions(userID, channelID string) (int64, error)
}

// Context is what the runtime hands a Discord command, whatever the trigger.
type Context interface {
	Author() *discordgo.User
	Member() *discordgo.Member
	GuildID() string
	ChannelID() string
	WebhookID() string
	Arguments() []string
	State() Resolver
	Respond(embed *discordgo.MessageEmbed, ephemeral bool) error
}

// Slash command
type SlashInteractionContext struct {
	Session  *discordgo.Session
	Event    *discordgo.InteractionCreate
	Args     []string
	Resolver Resolver

	mu        sync.Mutex
	responded bool
}

func (c *SlashInteractionContext) Author() *discordgo.User {
	if c.Event.Member != nil && c.Event.Member.User != nil {
		return c.Event.Member.User
	}
	return c.Event.User
}

func (c *SlashInteractionContext) Member() *discordgo.Member { return c.Event.Member }
func (c *SlashInteractionContext) GuildID() string           { return c.Event.GuildID }
func (c *SlashInteractionContext) ChannelID() string         { return c.Event.ChannelID }
func (c *SlashInteractionContext) WebhookID() string         { return "" }
func (c *SlashInteractionContext) Arguments() []string       { return c.Args }

func (c *SlashInteractionContext) State() Resolver {
	return resolverOf(c.Resolver, c.Session)
}

// Respond answers the interaction the first time and sends follow-ups after.
func (c *SlashInteractionContext) Respond(embed *discordgo.MessageEmbed, ephemeral bool) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	// held across the initial response so a concurrent reply cannot follow
	// up on an interaction that is not acknowledged yet
	c.mu.Lock()
	if !c.responded {
		defer c.mu.Unlock()
		err := withRetry(func() error {
			return c.Session.InteractionRespond(c.Event.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Embeds: []*discordgo.MessageEmbed{embed},
					Flags:  flags,
				},
			})
		})
		c.responded = err == nil
		return err
	}
	c.mu.Unlock()

	return withRetry(func() error {
		_, err := c.Session.FollowupMessageCreate(c.Event.Interaction, true, &discordgo.WebhookParams{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		})
		return err
	})
}

// Message (prefix command)
type MessageContext struct {
	Session  *discordgo.Session
	Event    *discordgo.MessageCreate
	Prefix   string
	Args     []string
	Resolver Resolver
}

func (c *MessageContext) Author() *discordgo.User {
	return c.Event.Author
}

// Member returns the guild member of the author. Discord omits the user on
// message members, so it is filled in from the author.
func (c *MessageContext) Member() *discordgo.Member {
	m := c.Event.Member
	if m == nil || m.User != nil {
		return m
	}
	withUser := *m
	withUser.User = c.Event.Author
	return &withUser
}

func (c *MessageContext) GuildID() string     { return c.Event.GuildID }
func (c *MessageContext) ChannelID() string   { return c.Event.ChannelID }
func (c *MessageContext) WebhookID() string   { return c.Event.WebhookID }
func (c *MessageContext) Arguments() []string { return c.Args }

func (c *MessageContext) State() Resolver {
	return resolverOf(c.Resolver, c.Session)
}

// Respond replies to the triggering message. Plain messages cannot be
// ephemeral, so the flag is ignored.
func (c *MessageContext) Respond(embed *discordgo.MessageEmbed, _ bool) error {
	return withRetry(func() error {
		_, err := c.Session.ChannelMessageSendComplex(c.Event.ChannelID, &discordgo.MessageSend{
			Embeds:    []*discordgo.MessageEmbed{embed},
			Reference: c.Event.Reference(),
		})
		return err
	})
}

func resolverOf(r Resolver, s *discordgo.Session) Resolver {
	if r != nil {
		return r
	}
	if s != nil && s.State != nil {
		return s.State
	}
	return nil
}

// Snowflake parses a Discord ID. Empty or malformed IDs yield 0.
func Snowflake(id string) uint64 {
	v, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ScopeOf exposes the IDs of ctx to the cooldown subsystem.
func ScopeOf(ctx Context) cooldown.Context {
	v := scopeView{
		channel: Snowflake(ctx.ChannelID()),
		guild:   Snowflake(ctx.GuildID()),
	}
	if a := ctx.Author(); a != nil {
		v.author = Snowflake(a.ID)
	}
	return v
}

type scopeView struct {
	author, channel, guild uint64
}

func (v scopeView) AuthorID() uint64        { return v.author }
func (v scopeView) ChannelID() uint64       { return v.channel }
func (v scopeView) GuildID() (uint64, bool) { return v.guild, v.guild != 0 }
