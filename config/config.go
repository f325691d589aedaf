// Package config loads the server configuration from a YAML file and
// environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Romanizer RomanizerConfig `yaml:"romanizer"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig selects the MCP transport and, for HTTP, the listen address.
type ServerConfig struct {
	Transport string `yaml:"transport" env:"SERVER_TRANSPORT" env-default:"stdio"`
	Host      string `yaml:"host"      env:"SERVER_HOST"      env-default:"0.0.0.0"`
	Port      int    `yaml:"port"      env:"SERVER_PORT"      env-default:"8080"`
}

// DatasetConfig points at the rhyme dataset. An empty path selects the
// embedded copy.
type DatasetConfig struct {
	Path string `yaml:"path" env:"DATASET_PATH"`
}

// RomanizerConfig selects where jyutping readings come from.
type RomanizerConfig struct {
	Provider string        `yaml:"provider" env:"ROMANIZER_PROVIDER" env-default:"dictionary"`
	BaseURL  string        `yaml:"base_url" env:"ROMANIZER_BASE_URL"`
	Timeout  time.Duration `yaml:"timeout"  env:"ROMANIZER_TIMEOUT"  env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("server.transport must be stdio or http, got %q", c.Server.Transport)
	}
	if c.Server.Transport == "http" && (c.Server.Port < 1 || c.Server.Port > 65535) {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Romanizer.Provider {
	case "dictionary":
	case "http":
		if c.Romanizer.BaseURL == "" {
			return fmt.Errorf("romanizer.base_url is required for the http provider")
		}
	default:
		return fmt.Errorf("romanizer.provider must be dictionary or http, got %q", c.Romanizer.Provider)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	return nil
}

// Addr is the host:port the HTTP transport listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
