package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/burrow/internal/logging"
)

type fileConfig struct {
	Catalog  string `toml:"catalog"`
	LogLevel string `toml:"log_level"`
	Metrics  bool   `toml:"metrics"`
}

// Config holds burrowctl settings. Command-line flags win over the file.
// An empty LogLevel keeps whatever the logging profile and environment chose.
type Config struct {
	Catalog  string
	LogLevel string
	Metrics  bool
}

func DefaultConfig() Config {
	return Config{}
}

func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load burrowctl config: %w", err)
	}

	if meta.IsDefined("catalog") {
		cfg.Catalog = strings.TrimSpace(raw.Catalog)
		// Relative catalog paths are relative to the config file.
		if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
			cfg.Catalog = filepath.Join(filepath.Dir(path), cfg.Catalog)
		}
	}

	if meta.IsDefined("log_level") {
		lvl := strings.TrimSpace(raw.LogLevel)
		if _, ok := logging.ParseLevel(lvl); !ok {
			return Config{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	if meta.IsDefined("metrics") {
		cfg.Metrics = raw.Metrics
	}

	return cfg, nil
}
