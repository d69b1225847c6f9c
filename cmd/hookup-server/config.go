package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk server configuration. Every field can be overridden
// by a command-line flag, and PORT / DATABASE_URL from the environment win
// over the file.
type Config struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	// Catalog is the path to the part catalog YAML file.
	Catalog string `yaml:"catalog"`

	// RoutingTable is the path to the SNAP routing table YAML file.
	RoutingTable string `yaml:"routingTable"`

	EventLog EventLogConfig `yaml:"eventLog"`
}

// EventLogConfig selects the event log backend.
type EventLogConfig struct {
	// Backend is one of "memory", "file", or "postgres".
	Backend string `yaml:"backend"`

	// Dir holds the segment file for the file backend.
	Dir string `yaml:"dir"`

	// Compress enables snappy compression of file backend payloads.
	Compress bool `yaml:"compress"`

	// DatabaseURL is the connection string for the postgres backend.
	DatabaseURL string `yaml:"databaseUrl"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Port:     8080,
		LogLevel: "info",
		EventLog: EventLogConfig{
			Backend: "file",
			Dir:     "./data/hookup",
		},
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.EventLog.Backend {
	case "memory":
	case "file":
		if c.EventLog.Dir == "" {
			return fmt.Errorf("eventLog.dir is required for the file backend")
		}
	case "postgres":
		if c.EventLog.DatabaseURL == "" && os.Getenv("DATABASE_URL") == "" {
			return fmt.Errorf("eventLog.databaseUrl or DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown event log backend %q", c.EventLog.Backend)
	}
	return nil
}
