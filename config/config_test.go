package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "runcoach.db", cfg.Database.Path)
	assert.Equal(t, 3, cfg.Sync.MaxConcurrentJobs)
	assert.Equal(t, 30, cfg.Sync.PollIntervalSeconds)
	assert.Equal(t, 3, cfg.Sync.DefaultMaxRetries)
	assert.Equal(t, 7, cfg.Sync.RetentionDays)
	assert.Equal(t, 30*time.Second, cfg.Sync.PollInterval())
	assert.Equal(t, 7*24*time.Hour, cfg.Sync.RetentionAge())
	assert.Equal(t, 30*time.Minute, cfg.Sync.StaleRunningTimeout())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runcoach.toml")
	content := `
[database]
path = "/tmp/test.db"

[sync]
max_concurrent_jobs = 5
poll_interval_seconds = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Sync.MaxConcurrentJobs)
	assert.Equal(t, 10, cfg.Sync.PollIntervalSeconds)
	assert.Equal(t, 3, cfg.Sync.DefaultMaxRetries, "unset keys keep their defaults")
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestPersistRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	cfg.Sync.MaxConcurrentJobs = 6

	require.NoError(t, Persist(cfg, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, loaded.Sync.MaxConcurrentJobs)
	assert.Equal(t, cfg.Database.Path, loaded.Database.Path)
}

func TestPersistBacksUpExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("# original\n"), 0o644))

	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	require.NoError(t, Persist(cfg, path))

	backup, err := os.ReadFile(path + ".back")
	require.NoError(t, err)
	assert.Equal(t, "# original\n", string(backup))
}
