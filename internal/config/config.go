package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Addr              string
	DBDriver          string
	DBURL             string
	DBConnectAttempts int
	LogLevel          string
	ShutdownTimeout   time.Duration
	// RequestTimeout bounds each request context. Zero disables it.
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

func Default() Config {
	return Config{
		Addr:              ":8080",
		DBDriver:          DriverPostgres,
		DBConnectAttempts: 5,
		LogLevel:          "INFO",
		ShutdownTimeout:   5 * time.Second,
		MaxBodyBytes:      1 << 20,
	}
}

// Load builds the configuration from defaults, then the file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	var errs []error
	cfg.Addr = getEnvString("ADDR", cfg.Addr)
	cfg.DBDriver = getEnvString("DB_DRIVER", cfg.DBDriver)
	cfg.DBURL = getEnvString("DB_URL", cfg.DBURL)
	cfg.LogLevel = getEnvString("LOG_LEVEL", cfg.LogLevel)
	cfg.DBConnectAttempts = getEnvInt("DB_CONNECT_ATTEMPTS", cfg.DBConnectAttempts, &errs)
	cfg.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", int(cfg.MaxBodyBytes), &errs))
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, &errs)
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", cfg.RequestTimeout, &errs)
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnvString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a duration, got %q", key, v))
		return def
	}
	return d
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
		if c.DBURL == "" {
			return fmt.Errorf("DB_URL is required for driver %s", c.DBDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: must be postgres, sqlite or memory", c.DBDriver)
	}

	upper := strings.ToUpper(strings.TrimSpace(c.LogLevel))
	switch upper {
	case "DEBUG", "INFO", "WARN", "ERROR":
		c.LogLevel = upper
	default:
		return fmt.Errorf("invalid log level %q: must be DEBUG, INFO, WARN or ERROR", c.LogLevel)
	}

	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("ADDR cannot be empty")
	}
	if c.DBConnectAttempts < 1 {
		return fmt.Errorf("DB_CONNECT_ATTEMPTS must be at least 1, got %d", c.DBConnectAttempts)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid request timeout %v: must not be negative", c.RequestTimeout)
	}
	return nil
}
