package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.ParseFlags(args))
	return cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := parse(t)

	assert.Equal(t, "0.0.0.0", cfg.bind)
	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, "memory", cfg.storage)
	assert.Equal(t, time.Minute, cfg.statsInterval)
	assert.Equal(t, "info", cfg.logLevel)
	assert.NoError(t, cfg.validate())
}

func TestConfig_Flags(t *testing.T) {
	cfg := parse(t,
		"--port", "9090",
		"--storage", "redis",
		"--redis-url", "redis://localhost:6379/1",
		"--redis_namespace", "arena-a",
		"--stats-interval", "0",
		"--log-level", "debug",
	)

	assert.Equal(t, 9090, cfg.port)
	assert.Equal(t, "redis", cfg.storage)
	assert.Equal(t, "redis://localhost:6379/1", cfg.redisURL)
	assert.Equal(t, "arena-a", cfg.redisNamespace)
	assert.Equal(t, time.Duration(0), cfg.statsInterval)
	assert.NoError(t, cfg.validate())
}

func TestConfig_Env(t *testing.T) {
	t.Setenv("RPSARENA_PORT", "7000")
	t.Setenv("RPSARENA_PUBLIC_URL", "https://rps.example.com")
	t.Setenv("RPSARENA_STATS_INTERVAL", "30s")

	cfg := parse(t)

	assert.Equal(t, 7000, cfg.port)
	assert.Equal(t, "https://rps.example.com", cfg.publicURL)
	assert.Equal(t, 30*time.Second, cfg.statsInterval)
}

func TestConfig_FlagBeatsEnv(t *testing.T) {
	t.Setenv("RPSARENA_PORT", "7000")

	cfg := parse(t, "--port", "7001")

	assert.Equal(t, 7001, cfg.port)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"defaults", nil, false},
		{"port too low", []string{"--port", "0"}, true},
		{"port too high", []string{"--port", "70000"}, true},
		{"unknown storage", []string{"--storage", "postgres"}, true},
		{"redis without url", []string{"--storage", "redis"}, true},
		{"negative stats interval", []string{"--stats-interval", "-1s"}, true},
		{"bad log level", []string{"--log-level", "chatty"}, true},
		{"bad public url", []string{"--public-url", "rps.example.com"}, true},
		{"good public url", []string{"--public-url", "http://10.0.0.5:8080"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parse(t, tt.args...).validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
