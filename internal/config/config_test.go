package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "employees.json", cfg.Storage.EmployeesFile)
	assert.Equal(t, "leaves.json", cfg.Storage.LeavesFile)
	assert.False(t, cfg.Storage.StrictWrites)
	assert.Equal(t, 8*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.History.Enabled)
	assert.False(t, cfg.Lark.Enabled)
	assert.Equal(t, "Leaves", cfg.Export.SheetName)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
storage:
  data_dir: /srv/leave
  strict_writes: true
session:
  ttl: 30m
history:
  enabled: true
  path: /srv/leave/journal.db
export:
  sheet_name: All Leave
logger:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/srv/leave", cfg.Storage.DataDir)
	assert.True(t, cfg.Storage.StrictWrites)
	assert.Equal(t, "leaves.json", cfg.Storage.LeavesFile)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/srv/leave/journal.db", cfg.History.Path)
	assert.Equal(t, "All Leave", cfg.Export.SheetName)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LEAVE_DATA_DIR", "/var/lib/leave")
	t.Setenv("LARK_APP_ID", "cli_123")
	t.Setenv("LARK_APP_SECRET", "s3cret")
	t.Setenv("LARK_CHAT_ID", "oc_456")

	path := writeConfig(t, `
storage:
  data_dir: ./data
lark:
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/leave", cfg.Storage.DataDir)
	assert.Equal(t, "cli_123", cfg.Lark.AppID)
	assert.Equal(t, "s3cret", cfg.Lark.AppSecret)
	assert.Equal(t, "oc_456", cfg.Lark.ChatID)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [port")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_LarkWithoutCredentials(t *testing.T) {
	path := writeConfig(t, "lark:\n  enabled: true\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lark.app_id")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: 8080},
			Storage: StorageConfig{DataDir: "data", EmployeesFile: "employees.json", LeavesFile: "leaves.json"},
			Session: SessionConfig{TTL: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "empty data dir", mutate: func(c *Config) { c.Storage.DataDir = "" }, wantErr: "storage.data_dir"},
		{name: "empty leaves file", mutate: func(c *Config) { c.Storage.LeavesFile = "" }, wantErr: "storage.leaves_file"},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: "session.ttl"},
		{name: "history without path", mutate: func(c *Config) { c.History.Enabled = true }, wantErr: "history.path"},
		{name: "lark without chat", mutate: func(c *Config) {
			c.Lark = LarkConfig{Enabled: true, AppID: "id", AppSecret: "secret"}
		}, wantErr: "lark.chat_id"},
		{name: "lark disabled needs nothing", mutate: func(c *Config) { c.Lark = LarkConfig{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
