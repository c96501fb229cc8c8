package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()

	assert.Equal(t, "recipe-service", cfg.Service.Name)
	assert.Equal(t, "3000", cfg.Service.Port)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.GetTokenTTLDuration())
	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeoutDuration())
	assert.Zero(t, cfg.GetReadinessDrainDelayDuration())
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8081")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("OTEL_SAMPLE_RATE", "0.25")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Service.Port)
	assert.Equal(t, 4, cfg.Database.MaxConns)
	assert.Equal(t, 30*time.Minute, cfg.GetTokenTTLDuration())
	assert.True(t, cfg.Tracing.Enabled)
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRate, 1e-9)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "bad port", mutate: func(c *Config) { c.Service.Port = "http" }, wantErr: "PORT must be numeric"},
		{name: "bad sample rate", mutate: func(c *Config) { c.Tracing.SampleRate = 1.5 }, wantErr: "OTEL_SAMPLE_RATE"},
		{name: "bad ttl", mutate: func(c *Config) { c.Auth.TokenTTL = "forever" }, wantErr: "JWT_TTL"},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.TokenTTL = "0s" }, wantErr: "JWT_TTL must be positive"},
		{name: "negative rate limit window", mutate: func(c *Config) { c.RateLimit.Window = "-1m" }, wantErr: "RATE_LIMIT_WINDOW must be positive"},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.Shutdown.Timeout = "0s" }, wantErr: "SHUTDOWN_TIMEOUT must be positive"},
		{name: "no database", mutate: func(c *Config) { c.Database.URL, c.Database.Host = "", "" }, wantErr: "DATABASE_URL or DB_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAcceptsZeroDrainDelay(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")

	cfg := Load()
	cfg.Shutdown.ReadinessDrainDelay = "0s"
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "recipes", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/recipes?sslmode=disable", d.DSN())

	d.URL = "postgres://override"
	assert.Equal(t, "postgres://override", d.DSN())
}
