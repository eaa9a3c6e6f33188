package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_DefaultsWithEnv(t *testing.T) {
	t.Setenv("CLINICDESK_DATABASE__URL", "postgres://localhost:5432/clinicdesk")
	t.Setenv("CLINICDESK_SESSION__SECRET", testSecret)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.MetricsPort)
	assert.Equal(t, 15*time.Minute, cfg.Session.AccessTokenDuration)
	assert.Equal(t, "postgres://localhost:5432/clinicdesk", cfg.Database.URL)
	assert.True(t, cfg.Database.MigrateOnStart)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: "9000"
database:
  url: postgres://file-host:5432/clinicdesk
session:
  secret: ` + testSecret + `
  access_token_duration: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CLINICDESK_DATABASE__URL", "postgres://env-host:5432/clinicdesk")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "postgres://env-host:5432/clinicdesk", cfg.Database.URL)
	assert.Equal(t, 5*time.Minute, cfg.Session.AccessTokenDuration)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("CLINICDESK_SESSION__SECRET", testSecret)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")
}

func TestLoad_ShortSessionSecret(t *testing.T) {
	t.Setenv("CLINICDESK_DATABASE__URL", "postgres://localhost:5432/clinicdesk")
	t.Setenv("CLINICDESK_SESSION__SECRET", "too-short")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestLoad_ZeroContactRateLimit(t *testing.T) {
	t.Setenv("CLINICDESK_DATABASE__URL", "postgres://localhost:5432/clinicdesk")
	t.Setenv("CLINICDESK_SESSION__SECRET", testSecret)
	t.Setenv("CLINICDESK_CONTACT__RATE_LIMIT_PER_MINUTE", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact.rate_limit_per_minute")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("CLINICDESK_DATABASE__URL", "postgres://localhost:5432/clinicdesk")
	t.Setenv("CLINICDESK_SESSION__SECRET", testSecret)
	t.Setenv("CLINICDESK_LOG__FORMAT", "xml")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}
