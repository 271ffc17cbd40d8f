// Package config loads server settings from the environment and an optional
// YAML file.
//
// PRECEDENCE (lowest to highest):
//  1. Built-in defaults
//  2. PITCHHUB_* environment variables
//  3. The YAML file passed with -config, for every key it sets
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DevJWTSecret is the fallback signing secret. It is only accepted when
// Env is "development".
const DevJWTSecret = "dev-secret-change-me-please"

type Config struct {
	Addr      string        `yaml:"addr"`
	DBPath    string        `yaml:"db_path"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	Env       string        `yaml:"env"`
	Log       LogConfig     `yaml:"log"`
	Admin     AdminConfig   `yaml:"admin"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// AdminConfig names a bootstrap admin account that is created on startup if
// it does not exist yet. Leave both empty to skip.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load builds a Config from defaults and the environment, then overlays the
// YAML file at path if path is non-empty.
func Load(path string) (*Config, error) {
	ttl := 24 * time.Hour
	if v := os.Getenv("PITCHHUB_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: PITCHHUB_TOKEN_TTL: %w", err)
		}
		ttl = d
	}

	cfg := &Config{
		Addr:      getEnv("PITCHHUB_ADDR", ":8080"),
		DBPath:    getEnv("PITCHHUB_DB_PATH", "data/pitchhub.db"),
		JWTSecret: getEnv("PITCHHUB_JWT_SECRET", DevJWTSecret),
		TokenTTL:  ttl,
		Env:       getEnv("PITCHHUB_ENV", "development"),
		Log: LogConfig{
			Level:  getEnv("PITCHHUB_LOG_LEVEL", "info"),
			Format: getEnv("PITCHHUB_LOG_FORMAT", "text"),
		},
		Admin: AdminConfig{
			Username: os.Getenv("PITCHHUB_ADMIN_USERNAME"),
			Password: os.Getenv("PITCHHUB_ADMIN_PASSWORD"),
		},
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: opening %s: %w", path, err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: decoding %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate reports every problem at once so a bad deploy fails with the full list.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("jwt_secret must be at least 16 characters"))
	}
	if c.JWTSecret == DevJWTSecret && !c.IsDevelopment() {
		errs = append(errs, fmt.Errorf("jwt_secret must be set explicitly when env is %q", c.Env))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if (c.Admin.Username == "") != (c.Admin.Password == "") {
		errs = append(errs, errors.New("admin.username and admin.password must be set together"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses Log.Level ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	return lvl, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
