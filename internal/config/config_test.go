package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Zero(t, cfg.Server.WriteTimeout)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "https://api.deepseek.com/v1/", cfg.LLM.BaseURL)
	assert.Equal(t, "deepseek-chat", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Zero(t, cfg.LLM.Timeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "sk-env")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DEEPSEEK_MODEL", "deepseek-reasoner")
	t.Setenv("DEEPSEEK_TEMPERATURE", "0.2")
	t.Setenv("DEEPSEEK_TIMEOUT", "45s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "deepseek-reasoner", cfg.LLM.Model)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echarts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7000\nllm:\n  api_key: sk-file\n  model: from-file\n"), 0o600))
	t.Setenv("DEEPSEEK_MODEL", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "sk-file", cfg.LLM.APIKey)
	assert.Equal(t, "from-env", cfg.LLM.Model, "environment wins over the file")
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server: ServerConfig{Port: 8000},
		LLM:    LLMConfig{APIKey: "sk"},
		Log:    LogConfig{Level: "debug"},
	}
	require.NoError(t, valid.Validate())

	noKey := valid
	noKey.LLM.APIKey = ""
	assert.ErrorContains(t, noKey.Validate(), "DEEPSEEK_API_KEY")

	badPort := valid
	badPort.Server.Port = 0
	assert.Error(t, badPort.Validate())

	badLevel := valid
	badLevel.Log.Level = "loud"
	assert.Error(t, badLevel.Validate())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	lvl, err = ParseLevel(" Error ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, lvl)
}
