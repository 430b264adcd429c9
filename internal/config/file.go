package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape. Durations are strings such as "5s".
// Zero values leave the current setting untouched.
type fileConfig struct {
	Addr              string `yaml:"addr" toml:"addr"`
	DBDriver          string `yaml:"db_driver" toml:"db_driver"`
	DBURL             string `yaml:"db_url" toml:"db_url"`
	DBConnectAttempts int    `yaml:"db_connect_attempts" toml:"db_connect_attempts"`
	LogLevel          string `yaml:"log_level" toml:"log_level"`
	ShutdownTimeout   string `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	RequestTimeout    string `yaml:"request_timeout" toml:"request_timeout"`
	MaxBodyBytes      int64  `yaml:"max_body_bytes" toml:"max_body_bytes"`
}

func loadFile(cfg *Config, path string) error {
	var fc fileConfig

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported extension (want .yaml, .yml or .toml)", path)
	}

	return fc.apply(cfg)
}

func (fc fileConfig) apply(cfg *Config) error {
	if fc.Addr != "" {
		cfg.Addr = fc.Addr
	}
	if fc.DBDriver != "" {
		cfg.DBDriver = fc.DBDriver
	}
	if fc.DBURL != "" {
		cfg.DBURL = fc.DBURL
	}
	if fc.DBConnectAttempts != 0 {
		cfg.DBConnectAttempts = fc.DBConnectAttempts
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.MaxBodyBytes != 0 {
		cfg.MaxBodyBytes = fc.MaxBodyBytes
	}
	if fc.ShutdownTimeout != "" {
		d, err := time.ParseDuration(fc.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
