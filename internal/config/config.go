// Package config loads the trainload server configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Name       string `yaml:"name"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	SSLMode    string `yaml:"sslmode"`
	Migrations string `yaml:"migrations"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// CatalogConfig points at the exercise catalog (JSON or YAML).
type CatalogConfig struct {
	Path string `yaml:"path"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// SlogLevel maps the configured level name onto slog. Empty means info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix TRAINLOAD_ and underscore-separated paths:
//
//	TRAINLOAD_SERVER_HOST, TRAINLOAD_SERVER_PORT,
//	TRAINLOAD_DB_HOST, TRAINLOAD_DB_PORT, TRAINLOAD_DB_NAME,
//	TRAINLOAD_DB_USER, TRAINLOAD_DB_PASSWORD, TRAINLOAD_DB_SSLMODE,
//	TRAINLOAD_AUTH_API_KEY, TRAINLOAD_CATALOG_PATH,
//	TRAINLOAD_TAILSCALE_ENABLED, TRAINLOAD_TAILSCALE_HOSTNAME,
//	TRAINLOAD_METRICS_ENABLED, TRAINLOAD_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Database:  DatabaseConfig{Migrations: "migrations"},
		Catalog:   CatalogConfig{Path: "catalog.json"},
		Tailscale: TailscaleConfig{Hostname: "trainload", StateDir: "tsnet-state"},
	}
}

func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"TRAINLOAD_SERVER_HOST":        &cfg.Server.Host,
		"TRAINLOAD_DB_HOST":            &cfg.Database.Host,
		"TRAINLOAD_DB_NAME":            &cfg.Database.Name,
		"TRAINLOAD_DB_USER":            &cfg.Database.User,
		"TRAINLOAD_DB_PASSWORD":        &cfg.Database.Password,
		"TRAINLOAD_DB_SSLMODE":         &cfg.Database.SSLMode,
		"TRAINLOAD_AUTH_API_KEY":       &cfg.Auth.APIKey,
		"TRAINLOAD_CATALOG_PATH":       &cfg.Catalog.Path,
		"TRAINLOAD_TAILSCALE_HOSTNAME": &cfg.Tailscale.Hostname,
		"TRAINLOAD_LOG_LEVEL":          &cfg.Log.Level,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"TRAINLOAD_SERVER_PORT": &cfg.Server.Port,
		"TRAINLOAD_DB_PORT":     &cfg.Database.Port,
	}
	for name, dst := range ints {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: invalid port %q", name, v)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"TRAINLOAD_TAILSCALE_ENABLED": &cfg.Tailscale.Enabled,
		"TRAINLOAD_METRICS_ENABLED":   &cfg.Metrics.Enabled,
	}
	for name, dst := range bools {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: invalid boolean %q", name, v)
			}
			*dst = b
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}
