// Package config provides configuration types, loading, and validation
// for the network-learn tools. Configuration is a single JSON file;
// every field has a working default so all tools run with no file at
// all.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// Load reads a JSON configuration file and validates it. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates and normalizes the configuration, filling in
// defaults for unset fields.
func (cfg *Config) Validate() error {
	// Resolver
	if cfg.Resolver.RootServer == "" {
		cfg.Resolver.RootServer = "198.41.0.4" // a.root-servers.net
	}
	if cfg.Resolver.Timeout == "" {
		cfg.Resolver.Timeout = "3s"
	}
	if _, err := time.ParseDuration(cfg.Resolver.Timeout); err != nil {
		return fmt.Errorf("resolver.timeout: %w", err)
	}
	if cfg.Resolver.MaxDepth < 0 {
		return errors.New("resolver.max_depth must be >= 0")
	}
	if cfg.Resolver.MaxDepth == 0 {
		cfg.Resolver.MaxDepth = 20
	}

	// File server
	if cfg.FileServer.Host == "" {
		cfg.FileServer.Host = "0.0.0.0"
	}
	if cfg.FileServer.Port == 0 {
		cfg.FileServer.Port = 8000
	}
	if cfg.FileServer.Port < 0 || cfg.FileServer.Port > 65535 {
		return errors.New("file_server.port must be 1..65535")
	}
	if cfg.FileServer.StaticRoot == "" {
		cfg.FileServer.StaticRoot = "./static"
	}

	// Echo server
	if cfg.Echo.Host == "" {
		cfg.Echo.Host = "0.0.0.0"
	}
	if cfg.Echo.Port == 0 {
		cfg.Echo.Port = 53210
	}
	if cfg.Echo.Port < 0 || cfg.Echo.Port > 65535 {
		return errors.New("echo.port must be 1..65535")
	}

	// Logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	return nil
}

// ResolverTimeout returns the parsed per-query timeout. Validate must
// have succeeded first.
func (cfg *Config) ResolverTimeout() time.Duration {
	d, err := time.ParseDuration(cfg.Resolver.Timeout)
	if err != nil {
		return 3 * time.Second
	}
	return d
}
