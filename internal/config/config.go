package config

import (
	"os"
	"strings"

	"sheetlint/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds data loading settings
type DataConfig struct {
	// SheetName is the sheet read from xlsx sources
	SheetName string
	// Sentinels are the raw strings treated as missing values. There is
	// no built-in default: an unrecognized marker silently turning a
	// numeric column into text is the exact failure this tool surfaces.
	Sentinels []string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SHEETLINT_PORT", "8080"),
		},
		Data: DataConfig{
			SheetName: getEnv("SHEETLINT_SHEET", "Sheet1"),
			Sentinels: splitSentinels(os.Getenv("SHEETLINT_NA")),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("server port must not be empty")
	}
	if c.Data.SheetName == "" {
		return errors.ConfigInvalid("sheet name must not be empty")
	}
	return nil
}

// splitSentinels parses a comma-separated sentinel list. The literal token
// "empty" designates the empty string, which cannot otherwise be expressed
// in a comma-separated variable.
func splitSentinels(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "empty" {
			out = append(out, "")
			continue
		}
		out = append(out, p)
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
