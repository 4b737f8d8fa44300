package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cooldown Metrics
var (
	// CooldownDecisionsTotal tracks bucket decisions by command, scope and outcome
	CooldownDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cooldown_decisions_total",
			Help: "Cooldown bucket decisions by command, scope and outcome",
		},
		[]string{"command", "scope", "outcome"},
	)

	// CooldownBuckets tracks live buckets per command and scope
	CooldownBuckets = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cooldown_buckets",
			Help: "Live cooldown buckets by command and scope",
		},
		[]string{"command", "scope"},
	)

	// CooldownSweptTotal tracks buckets reclaimed by the sweeper
	CooldownSweptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cooldown_swept_total",
			Help: "Expired cooldown buckets removed by the sweeper",
		},
		[]string{"command", "scope"},
	)
)

// Command Metrics
var (
	// CommandsInvokedTotal tracks command invocations by command and status
	CommandsInvokedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commands_invoked_total",
			Help: "Command invocations by command and status (ok/cooldown/check_failed/error)",
		},
		[]string{"command", "status"},
	)

	// CommandDuration tracks command run time in seconds
	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Command run time in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"command"},
	)

	// DiscordRetriesTotal tracks retried Discord REST calls by reason
	DiscordRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_rest_retries_total",
			Help: "Retried Discord REST calls by reason (rate_limit/server_error/other)",
		},
		[]string{"reason"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
