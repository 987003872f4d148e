package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "local", cfg.Bills.Storage)
	assert.Equal(t, "fabric_jobs", cfg.Database.DynamoDB.JobsTable)
	assert.False(t, cfg.Workflow.StrictTransitions)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsAllowedOrigins)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
database:
  host: db.internal
workflow:
  strict_transitions: true
whatsapp:
  provider: meta
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("TWILIO_AUTH_TOKEN", "tok")
	t.Setenv("REDIS_SERVICE_PORT", "6380")

	cfg := LoadFile(path)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.True(t, cfg.Workflow.StrictTransitions)
	assert.Equal(t, "meta", cfg.WhatsApp.Provider)
	assert.Equal(t, "tok", cfg.WhatsApp.AuthToken)
	assert.Equal(t, "localhost:6380", cfg.RedisAddr())
}
