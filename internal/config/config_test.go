package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 8787, cfg.CallbackPort)
	assert.Empty(t, cfg.StaticToken)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.RefreshThreshold)
	assert.Equal(t, 5*time.Minute, cfg.LoginTimeout)
	assert.False(t, cfg.Debug)
	assert.NotEmpty(t, cfg.SessionDir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MOONGATE_API_URL", "http://localhost:9000/api")
	t.Setenv("MOONGATE_AUTH_TOKEN", "static-token")
	t.Setenv("MOONGATE_CALLBACK_PORT", "9191")
	t.Setenv("MOONGATE_SESSION_DIR", "/tmp/moongate-test")
	t.Setenv("MOONGATE_SESSION_TTL", "48h")
	t.Setenv("MOONGATE_REFRESH_THRESHOLD", "10m")
	t.Setenv("MOONGATE_LOGIN_TIMEOUT", "30s")
	t.Setenv("MOONGATE_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api", cfg.APIBaseURL)
	assert.Equal(t, "static-token", cfg.StaticToken)
	assert.Equal(t, 9191, cfg.CallbackPort)
	assert.Equal(t, "/tmp/moongate-test", cfg.SessionDir)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.RefreshThreshold)
	assert.Equal(t, 30*time.Second, cfg.LoginTimeout)
	assert.True(t, cfg.Debug)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"negative session ttl", "MOONGATE_SESSION_TTL", "-1h"},
		{"threshold above ttl", "MOONGATE_REFRESH_THRESHOLD", "200h"},
		{"port out of range", "MOONGATE_CALLBACK_PORT", "70000"},
		{"zero login timeout", "MOONGATE_LOGIN_TIMEOUT", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
