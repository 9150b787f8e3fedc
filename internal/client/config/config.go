// Package config handles configuration for the client component.
package config

import (
	"flag"
	"os"

	"github.com/vpetrenko/realhome/internal/flagx"
)

// Config holds runtime settings for the RealHome CLI client.
type Config struct {
	ServerBaseURL string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
}

// LoadConfig builds a Config by applying defaults and overlaying values
// from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)
	return cfg
}

// parseFlags populates Config from command-line flags.
//
// Supported flags:
//
//	-a string   server base URL (e.g., "http://localhost:8080")
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.StringVar(&config.ServerBaseURL, "a", config.ServerBaseURL, "server base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
