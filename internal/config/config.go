// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Bucksibi/gemini-mcp/internal/model"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Gemini  GeminiConfig
}

// ServerConfig holds MCP server configuration
type ServerConfig struct {
	Name          string
	Version       string
	Address       string
	Port          int
	TransportMode string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string
	FilePath string
}

// GeminiConfig holds upstream Gemini API configuration
type GeminiConfig struct {
	// APIKey is the Gemini API key. It may also be provided at call time
	// via the GEMINI_API_KEY environment variable.
	APIKey string
	// BaseURL is the models endpoint prefix, overridable for testing
	// and proxies.
	BaseURL string
	// DefaultModel is used when a tool call does not specify a model.
	DefaultModel string
	// TimeoutSeconds bounds a single upstream round trip.
	TimeoutSeconds int
}

// DefaultConfig returns a configuration with reasonable defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:          "gemini-mcp",
			Version:       "1.0.0",
			Address:       "localhost",
			Port:          8080,
			TransportMode: "stdio",
		},
		Logging: LoggingConfig{
			Level:    "info",
			FilePath: "",
		},
		Gemini: GeminiConfig{
			BaseURL:        "https://generativelanguage.googleapis.com/v1beta/models",
			DefaultModel:   model.DefaultModel,
			TimeoutSeconds: 120,
		},
	}
}

// FromEnv overrides configuration from environment variables.
// A .env file in the working directory is loaded first, if present.
func FromEnv(cfg *Config) {
	// Best-effort: absent in production, where the environment is set directly
	_ = godotenv.Load()

	if v := os.Getenv("MCP_GEMINI_TRANSPORT"); v != "" {
		cfg.Server.TransportMode = v
	}
	if v := os.Getenv("MCP_GEMINI_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("MCP_GEMINI_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MCP_GEMINI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MCP_GEMINI_LOG_FILE"); v != "" {
		cfg.Logging.FilePath = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_BASE_URL"); v != "" {
		cfg.Gemini.BaseURL = v
	}
	if v := os.Getenv("GEMINI_DEFAULT_MODEL"); v != "" {
		cfg.Gemini.DefaultModel = v
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	switch c.Server.TransportMode {
	case "stdio", "sse":
	default:
		return fmt.Errorf("invalid transport mode: %s", c.Server.TransportMode)
	}

	if c.Server.TransportMode == "sse" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid port: %d", c.Server.Port)
		}
		if c.Server.Address == "" {
			return fmt.Errorf("address must not be empty in sse mode")
		}
	}

	if c.Gemini.BaseURL == "" {
		return fmt.Errorf("gemini base URL must not be empty")
	}

	if !model.IsKnownModel(c.Gemini.DefaultModel) {
		return fmt.Errorf("unknown default model: %s", c.Gemini.DefaultModel)
	}

	return nil
}
