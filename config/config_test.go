package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "", cfg.Dataset.Path)
	assert.Equal(t, "dictionary", cfg.Romanizer.Provider)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  transport: http
  host: 127.0.0.1
  port: 9090
log:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Transport: "stdio", Host: "0.0.0.0", Port: 8080},
			Romanizer: RomanizerConfig{Provider: "dictionary"},
			Log:       LogConfig{Level: "info", Format: "json"},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.Server.Transport = "grpc"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.Transport = "http"
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Romanizer.Provider = "http"
	assert.Error(t, cfg.Validate(), "http provider needs a base URL")
	cfg.Romanizer.BaseURL = "http://localhost:9000/romanize"
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())
}
