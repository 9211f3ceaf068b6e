package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveValue_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	err := SaveValue(configPath, "theme.accent", "#FF0000")
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme:")
	assert.Contains(t, string(data), "accent: '#FF0000'")
}

func TestSaveValue_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# top comment
api:
  base_url: http://localhost:8000 # where the API lives
  timeout: 5s
form:
  debounce: 250ms
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o644))

	err := SaveValue(configPath, "api.base_url", "https://auth.example.com")
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# top comment")
	assert.Contains(t, content, "base_url: https://auth.example.com")
	assert.Contains(t, content, "timeout: 5s")
	assert.Contains(t, content, "debounce: 250ms")
	assert.NotContains(t, content, "localhost")
}

func TestSaveValue_ReplacesScalarWithMapping(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("theme: dark\n"), 0o644))

	require.NoError(t, SaveValue(configPath, "theme.muted", "#696969"))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())
	require.Equal(t, "#696969", v.GetString("theme.muted"))
}

func TestSaveValue_InvalidKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.Error(t, SaveValue(configPath, "api..base_url", "x"))
	require.Error(t, SaveValue(configPath, "", "x"))
}

func TestSaveValue_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("api: [unterminated"), 0o644))

	err := SaveValue(configPath, "api.base_url", "http://x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config")
}

func TestSaveAPIBaseURL_RoundtripThroughViper(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	require.NoError(t, SaveAPIBaseURL(configPath, "https://auth.example.com/"))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, "https://auth.example.com", cfg.API.BaseURL)
	require.Equal(t, "500ms", v.GetString("form.debounce"))
}

func TestSaveAPIBaseURL_RejectsBadURL(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	err := SaveAPIBaseURL(configPath, "ftp://example.com")
	require.Error(t, err)
	_, statErr := os.Stat(configPath)
	require.True(t, os.IsNotExist(statErr), "nothing should be written for an invalid URL")
}
