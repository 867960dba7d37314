package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "conf.json", map[string]any{
		"http_addr":        "127.0.0.1:9000",
		"log_level":        "debug",
		"shutdown_timeout": "3s",
		"database_dsn":     "postgres://x",
		"inbox": map[string]any{
			"user_home":       "/inbox/{user_id}",
			"create_account":  "adduser {user_id}",
			"password_length": 16,
		},
		"staging": map[string]any{"root": "/data/staging"},
		"broker": map[string]any{
			"url":          "amqp://mq/",
			"exchange":     "cega",
			"routing_todo": "files",
		},
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
		assert.Equal(t, "/inbox/{user_id}", cfg.Inbox.UserHome)
		assert.Equal(t, "adduser {user_id}", cfg.Inbox.CreateAccount)
		assert.Equal(t, 16, cfg.Inbox.PasswordLength)
		assert.Equal(t, "/data/staging", cfg.Staging.Root)
		assert.Equal(t, "amqp://mq/", cfg.Broker.URL)
		assert.Equal(t, "cega", cfg.Broker.Exchange)
		assert.Equal(t, "files", cfg.Broker.RoutingTodo)
	})

	t.Run("missing keys keep defaults", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-c", path}))

		assert.Equal(t, "chpasswd -e", cfg.Inbox.SetPassword)
		assert.Equal(t, 2048, cfg.Inbox.KeyBits)
		assert.Equal(t, "account", cfg.Broker.UsersQueue)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		cfg := &Config{HTTPAddr: "defaults:1234"}
		require.NoError(t, parseJson(cfg, []string{"-a", "ignored"}))
		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
	})

	t.Run("invalid JSON fails", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		err := parseJson(&Config{}, []string{"-c", bad})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("missing file fails", func(t *testing.T) {
		err := parseJson(&Config{}, []string{"-c", filepath.Join(dir, "absent.json")})
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})
}
