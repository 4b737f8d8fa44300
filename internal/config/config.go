package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/keshon/cmdframe/pkg/cooldown"
)

type Config struct {
	DiscordToken  string        `env:"DISCORD_TOKEN,required"`
	Prefixes      []string      `env:"COMMAND_PREFIXES" envDefault:"!"`
	OwnerIDs      []string      `env:"OWNER_IDS"`
	DefaultGuilds []string      `env:"DEFAULT_GUILDS"`
	SyncCommands  bool          `env:"SYNC_SLASH_COMMANDS" envDefault:"true"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string        `env:"LOG_FILE"`
	MetricsAddr   string        `env:"METRICS_ADDR"`
	SweepInterval time.Duration `env:"COOLDOWN_SWEEP_INTERVAL" envDefault:"1m"`
	GracePeriod   time.Duration `env:"COOLDOWN_GRACE" envDefault:"30s"`
	CooldownsFile string        `env:"COOLDOWNS_FILE"`

	// Cooldowns holds the per-command overrides read from CooldownsFile.
	Cooldowns map[string][]cooldown.Spec
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may be set by the host
	_ = godotenv.Load()
	return parse(env.Options{})
}

// LoadOffline is Load for tools that never connect to Discord, so
// DISCORD_TOKEN may be absent.
func LoadOffline() (*Config, error) {
	_ = godotenv.Load()
	environ := env.ToMap(os.Environ())
	if environ["DISCORD_TOKEN"] == "" {
		environ["DISCORD_TOKEN"] = "offline"
	}
	return LoadFrom(environ)
}

// LoadFrom parses the given environment only. Used by tests and the CLI.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.CooldownsFile != "" {
		specs, err := LoadCooldowns(cfg.CooldownsFile)
		if err != nil {
			return nil, err
		}
		cfg.Cooldowns = specs
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Prefixes) == 0 {
		return errors.New("COMMAND_PREFIXES must not be empty")
	}
	for _, p := range c.Prefixes {
		if p == "" {
			return errors.New("COMMAND_PREFIXES contains an empty prefix")
		}
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("COOLDOWN_SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	if c.GracePeriod < 0 {
		return fmt.Errorf("COOLDOWN_GRACE must not be negative, got %s", c.GracePeriod)
	}
	return nil
}

// IsOwner reports whether userID is listed in OWNER_IDS.
func (c *Config) IsOwner(userID string) bool {
	for _, id := range c.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
