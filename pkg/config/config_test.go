package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "bot_name: sockbot\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sockbot", cfg.BotName)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "stats.yml", cfg.Catalog.Path)
	assert.Equal(t, 10*time.Minute, cfg.Catalog.ReloadInterval)
	assert.Equal(t, 4, cfg.Policy.OverrideTrustLevel)
	assert.Equal(t, 2*time.Minute, cfg.Policy.InvocationTimeout)
	assert.Equal(t, "https://plot.ly", cfg.Plotly.BaseURL)
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
bot_name: reporter
database:
  host: db.internal
  port: 6432
  database: forum_backup
catalog:
  path: /etc/statsbot/queries.yml
  reload_interval: 5m
policy:
  override_trust_level: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "reporter", cfg.BotName)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "/etc/statsbot/queries.yml", cfg.Catalog.Path)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.ReloadInterval)
	assert.Equal(t, 3, cfg.Policy.OverrideTrustLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "discourse",
		Password: "hunter2",
		Database: "discourse",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=discourse password=hunter2 dbname=discourse sslmode=disable",
		cfg.ConnectionString())
}
