package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `{
		"data_dir": "/srv/cv/data",
		"gemini_api_key": "key-123",
		"max_turns": 16,
		"verbose": true
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/cv/data", cfg.DataDir)
	assert.Equal(t, "key-123", cfg.GeminiAPIKey)
	assert.Equal(t, 16, cfg.MaxTurns)
	assert.True(t, cfg.Verbose)
	assert.Empty(t, cfg.TavilyAPIKey)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfigFile(t, `{"data_dir": `)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.MaxTurns = -1
	assert.Error(t, cfg.Validate())

	cfg.MaxTurns = 8
	cfg.Port = 900000
	assert.Error(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvGeminiKey, "env-gemini")
	t.Setenv(EnvTavilyKey, "env-tavily")
	t.Setenv(EnvDataDir, "/env/data")

	cfg := &Config{GeminiAPIKey: "explicit"}
	cfg.ApplyEnv()

	// Explicit values win; empty ones come from the environment.
	assert.Equal(t, "explicit", cfg.GeminiAPIKey)
	assert.Equal(t, "env-tavily", cfg.TavilyAPIKey)
	assert.Equal(t, "/env/data", cfg.DataDir)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{DataDir: "/custom", MaxTurns: 4}
	merged := cfg.MergeWithDefaults(*Default())

	assert.Equal(t, "/custom", merged.DataDir)
	assert.Equal(t, 4, merged.MaxTurns)
	assert.Equal(t, "assets", merged.AssetsDir)
	assert.Equal(t, 8080, merged.Port)
}
