package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, SessionBackendPostgres, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, float64(1), cfg.Security.LoginRPS)
	assert.Equal(t, 5, cfg.Security.LoginBurst)
}

func TestLoadRejectsUnknownSessionBackend(t *testing.T) {
	t.Setenv("AAROGYA_SESSION_BACKEND", "carrier-pigeon")

	_, err := Load()
	assert.Error(t, err)
}
