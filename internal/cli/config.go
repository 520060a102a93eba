package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string `env:"SERVER" envDefault:"http://localhost:8080"`
	Output    string `env:"OUTPUT" envDefault:"text"`
	Verbose   bool   `env:"VERBOSE"`
}

// LoadConfig reads defaults from HGARDEN_* environment variables.
// Flags given on the command line override these values.
func LoadConfig() (*Config, error) {
	c := &Config{}
	if err := env.ParseWithOptions(c, env.Options{Prefix: "HGARDEN_"}); err != nil {
		return DefaultConfig(), fmt.Errorf("read environment: %w", err)
	}
	return c, nil
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: "http://localhost:8080",
		Output:    "text",
	}
}

// Validate checks the output format
func (c *Config) Validate() error {
	switch c.Output {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be text or json", c.Output)
	}
}
