package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCheckFailure is wrapped by every error a Check returns, so dispatchers
// can tell a refused invocation from a broken one with errors.Is.
var ErrCheckFailure = errors.New("check failed")

var (
	ErrNotOwner        = fmt.Errorf("%w: only the bot owners can use this command", ErrCheckFailure)
	ErrOnlyInGuild     = fmt.Errorf("%w: this command can only be used in a server", ErrCheckFailure)
	ErrOnlyInDM        = fmt.Errorf("%w: this command can only be used in direct messages", ErrCheckFailure)
	ErrBotOnly         = fmt.Errorf("%w: this command can only be used by bots", ErrCheckFailure)
	ErrWebhookOnly     = fmt.Errorf("%w: this command can only be used by webhooks", ErrCheckFailure)
	ErrHumanOnly       = fmt.Errorf("%w: this command can only be used by humans", ErrCheckFailure)
	ErrNSFWChannelOnly = fmt.Errorf("%w: this command can only be used in NSFW channels", ErrCheckFailure)
)

// MissingRequiredRoleError is returned when the member lacks the roles a
// command requires.
type MissingRequiredRoleError struct {
	Roles []string
	// Any is true when a single one of Roles would have been enough.
	Any bool
}

func (e *MissingRequiredRoleError) Error() string {
	mentions := make([]string, len(e.Roles))
	for i, id := range e.Roles {
		mentions[i] = "<@&" + id + ">"
	}
	quantifier := "all"
	if e.Any {
		quantifier = "one"
	}
	return fmt.Sprintf("%s: you need %s of these roles: %s", ErrCheckFailure, quantifier, strings.Join(mentions, ", "))
}

func (e *MissingRequiredRoleError) Unwrap() error { return ErrCheckFailure }

// MissingRequiredPermissionError is returned when the member lacks channel
// permissions. Names are human-readable permission names.
type MissingRequiredPermissionError struct {
	Permissions int64
	Names       []string
	Any         bool
}

func (e *MissingRequiredPermissionError) Error() string {
	quantifier := "all"
	if e.Any {
		quantifier = "at least one"
	}
	return fmt.Sprintf("%s: you need %s of the following permissions: `%s`", ErrCheckFailure, quantifier, strings.Join(e.Names, "`, `"))
}

func (e *MissingRequiredPermissionError) Unwrap() error { return ErrCheckFailure }

// CommandNotFoundError is returned by Dispatch for unknown command names.
type CommandNotFoundError struct {
	InvokedWith string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("command %q not found", e.InvokedWith)
}

// UserMessage strips the check-failure prefix so the rest can be shown to
// the invoking user.
func UserMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrCheckFailure.Error()+": ")
}
