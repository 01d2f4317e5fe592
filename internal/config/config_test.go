package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/botforge/internal/config"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "botforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
logLevel: debug
port: 9090
cache:
  enabled: true
  ttl: 10m
redis:
  addr: localhost:6379
  db: 2
defaults:
  botName: Helper
  enableLogging: true
  adminIds: [42]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat, "unset keys keep their defaults")
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "Helper", cfg.Defaults.BotName)
	assert.Equal(t, []int64{42}, cfg.Defaults.AdminIDs)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "redis:\n  addr: file:6379\n")
	t.Setenv(config.EnvRedisAddr, "env:6379")
	t.Setenv(config.EnvPort, "7000")
	t.Setenv(config.EnvLogLevel, "warn")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env:6379", cfg.Redis.Addr)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "port: [1"},
		{"port range", "port: 70000"},
		{"negative ttl", "cache:\n  ttl: -1s"},
		{"log format", "logFormat: xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	pid := 7
	cfg := config.Default()
	cfg.Defaults = domain.Options{BotName: "Default", ProjectID: &pid, EnableLogging: true}

	project := domain.Project{Options: domain.Options{BotName: "Mine"}}
	cfg.ApplyDefaults(&project)

	assert.Equal(t, "Mine", project.Options.BotName)
	require.NotNil(t, project.Options.ProjectID)
	assert.Equal(t, 7, *project.Options.ProjectID)
	assert.True(t, project.Options.EnableLogging)
	assert.False(t, project.Options.UserDatabaseEnabled)
}
