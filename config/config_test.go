package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"URC_WEB_APP_URL", "URC_TIMEOUT", "URC_LOG_LEVEL", "URC_LOG_FORMAT", "PORT", "DISCORD_BOT_TOKEN", "URC_DISCORD_CHANNEL_ID"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultWebAppURL, cfg.WebAppURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Discord.Enabled())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "webAppURL: https://example.test/exec\ntimeout: 5s\nlogLevel: debug\ndiscord:\n  token: abc\n  channelID: \"123\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("URC_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/exec", cfg.WebAppURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Discord.Enabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)

	t.Setenv("URC_WEB_APP_URL", "not-a-url")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("URC_WEB_APP_URL", "")
	t.Setenv("URC_TIMEOUT", "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
