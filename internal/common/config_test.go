package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8087, cfg.Server.Port)
	assert.Equal(t, "./data/rogo", cfg.Storage.Badger.Path)
	assert.Equal(t, "gemini", cfg.LLM.DefaultProvider)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "files", cfg.Catalogs.Mode)
	assert.Equal(t, 8*time.Second, cfg.Onboarding.GetAdjudicateTimeout())
	assert.Equal(t, 6*time.Second, cfg.Onboarding.GetComposeTimeout())
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	require.NoError(t, os.WriteFile(base, []byte(`
[server]
port = 9001

[onboarding]
adjudicate_timeout = "3s"
`), 0644))

	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(override, []byte(`
[server]
port = 9002

[catalogs]
mode = "http"
base_url = "http://catalogs.local"
`), 0644))

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	// Later files win; untouched values keep defaults.
	assert.Equal(t, 9002, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 3*time.Second, cfg.Onboarding.GetAdjudicateTimeout())
	assert.Equal(t, "http", cfg.Catalogs.Mode)
	assert.Equal(t, "http://catalogs.local", cfg.Catalogs.BaseURL)
}

func TestLoadFromFilesMissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ROGO_SERVER_PORT", "9100")
	t.Setenv("ROGO_LOG_LEVEL", "warn")
	t.Setenv("ROGO_LOG_OUTPUT", "stdout, file")
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	t.Setenv("ROGO_LLM_PROVIDER", "claude")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, []string{"stdout", "file"}, cfg.Logging.Output)
	assert.Equal(t, "test-gemini-key", cfg.Gemini.APIKey)
	assert.Equal(t, "claude", cfg.LLM.DefaultProvider)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 9200, "0.0.0.0")
	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Zero values leave config untouched.
	ApplyFlagOverrides(cfg, 0, "")
	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestParseDurationOr(t *testing.T) {
	assert.Equal(t, time.Second, parseDurationOr("", time.Second))
	assert.Equal(t, time.Second, parseDurationOr("garbage", time.Second))
	assert.Equal(t, time.Second, parseDurationOr("-2s", time.Second))
	assert.Equal(t, 250*time.Millisecond, parseDurationOr("250ms", time.Second))
}
