package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/lipgloss"

	"github.com/keshon/cmdframe/internal/command"
)

// identity is who the fake messages come from.
type identity struct {
	UserID    string
	Username  string
	ChannelID string
	GuildID   string
	Bot       bool
}

// cliContext is a prefix invocation typed on stdin. Replies are printed.
type cliContext struct {
	who     identity
	args    []string
	out     io.Writer
	noColor bool
}

func (c *cliContext) Author() *discordgo.User {
	return &discordgo.User{ID: c.who.UserID, Username: c.who.Username, Bot: c.who.Bot}
}

func (c *cliContext) Member() *discordgo.Member {
	if c.who.GuildID == "" {
		return nil
	}
	return &discordgo.Member{GuildID: c.who.GuildID, User: c.Author()}
}

func (c *cliContext) GuildID() string     { return c.who.GuildID }
func (c *cliContext) ChannelID() string   { return c.who.ChannelID }
func (c *cliContext) WebhookID() string   { return "" }
func (c *cliContext) Arguments() []string { return c.args }

// State is nil: without a gateway cache, permission checks return an error.
func (c *cliContext) State() command.Resolver { return nil }

func (c *cliContext) Respond(embed *discordgo.MessageEmbed, ephemeral bool) error {
	title := embed.Title
	if ephemeral {
		title += " (only you)"
	}
	_, err := fmt.Fprintf(c.out, "%s\n%s\n",
		stylize(title, c.noColor, lipgloss.Color("#b01e66"), true),
		strings.TrimSpace(embed.Description))
	return err
}

func stylize(text string, noColor bool, color lipgloss.Color, bold bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Bold(bold).Render(text)
}
