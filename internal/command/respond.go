package command

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/cmdframe/internal/metrics"
	"github.com/keshon/cmdframe/pkg/retrylimit"
)

const EmbedColor = 0xb01e66

// restLimiter paces replies across all handlers and backs off on 429/5xx.
var restLimiter = retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5)

func withRetry(fn func() error) error {
	cfg := retrylimit.DefaultRetryConfig()
	cfg.MaxAttempts = 3
	cfg.InitialDelay = 250 * time.Millisecond
	cfg.MaxDelay = 2 * time.Second
	cfg.OnRetry = func(_ int, err error) {
		metrics.DiscordRetriesTotal.WithLabelValues(retryReason(err)).Inc()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return retrylimit.WithRetryConfig(ctx, func() error { return classifyREST(fn()) }, restLimiter, cfg)
}

// restStatusError exposes the HTTP status of a discordgo REST failure to
// retrylimit.
type restStatusError struct {
	err  *discordgo.RESTError
	code int
}

func (e *restStatusError) Error() string   { return e.err.Error() }
func (e *restStatusError) Unwrap() error   { return e.err }
func (e *restStatusError) StatusCode() int { return e.code }

// classifyREST marks client errors other than 429 as fatal so they are not
// retried. Transport errors stay retryable.
func classifyREST(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) || rest.Response == nil {
		return err
	}
	code := rest.Response.StatusCode
	if code == http.StatusTooManyRequests || code >= 500 {
		return &restStatusError{err: rest, code: code}
	}
	return &retrylimit.FatalError{Err: err}
}

func retryReason(err error) string {
	var status retrylimit.HTTPError
	if errors.As(err, &status) {
		switch code := status.StatusCode(); {
		case code == http.StatusTooManyRequests:
			return "rate_limit"
		case code >= 500:
			return "server_error"
		}
	}
	return "other"
}

// Embed builds the standard reply embed.
func Embed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       EmbedColor,
	}
}
