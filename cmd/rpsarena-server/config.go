package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/rpsarena/internal/factory"
)

const envPrefix = "RPSARENA"

// Config holds the server process settings
type Config struct {
	bind           string
	port           int
	storage        string
	redisURL       string
	redisNamespace string
	statsInterval  time.Duration
	logLevel       string
	publicURL      string
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.storage {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if c.redisURL == "" {
			return errors.New("--redis-url is required when --storage=redis")
		}
	default:
		return fmt.Errorf("invalid storage type (must be memory or redis): %q", c.storage)
	}
	if c.statsInterval < 0 {
		return fmt.Errorf("invalid stats interval (must not be negative): %s", c.statsInterval)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if c.publicURL != "" {
		u, err := url.Parse(c.publicURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid public url: %q", c.publicURL)
		}
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return level, fmt.Errorf("invalid log level: %q", c.logLevel)
	}
	return level, nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "rpsarena-server",
		Short:         "Real-time rock-paper-scissors matchmaking server.",
		Args:          cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: RPSARENA_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: RPSARENA_PORT)")
	fs.StringVar(&cfg.storage, "storage", factory.StorageTypeMemory, "ledger store, memory or redis (env: RPSARENA_STORAGE)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis connection url (env: RPSARENA_REDIS_URL)")
	fs.StringVar(&cfg.redisNamespace, "redis-namespace", "", "redis key namespace, random per start if empty, history cleared at start if set (env: RPSARENA_REDIS_NAMESPACE)")
	fs.DurationVar(&cfg.statsInterval, "stats-interval", time.Minute, "interval between stats reports, 0 disables (env: RPSARENA_STATS_INTERVAL)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "debug, info, warn or error (env: RPSARENA_LOG_LEVEL)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "externally reachable base url for invites (env: RPSARENA_PUBLIC_URL)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
