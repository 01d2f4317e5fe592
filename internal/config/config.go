// Package config loads the botforge.yaml settings shared by the CLI commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/aretw0/botforge/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given. It is optional.
const DefaultFile = "botforge.yaml"

// Environment overrides.
const (
	EnvRedisAddr = "BOTFORGE_REDIS_ADDR"
	EnvLogLevel  = "BOTFORGE_LOG_LEVEL"
	EnvPort      = "BOTFORGE_PORT"
)

// Config holds the CLI settings.
type Config struct {
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
	Port      int    `yaml:"port"`

	Cache CacheConfig `yaml:"cache"`
	Redis RedisConfig `yaml:"redis"`

	// Defaults fill option fields a project leaves empty.
	Defaults domain.Options `yaml:"defaults"`
}

// CacheConfig controls the generation cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// RedisConfig selects the Redis cache. An empty Addr means the in-memory cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Port:      8080,
		Cache:     CacheConfig{Enabled: true, TTL: time.Hour},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is an error only when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Port = port
	}
	return nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// ApplyDefaults fills the empty option fields of project from c.Defaults.
func (c Config) ApplyDefaults(project *domain.Project) {
	d := c.Defaults
	o := &project.Options
	if o.BotName == "" {
		o.BotName = d.BotName
	}
	if len(o.Groups) == 0 {
		o.Groups = d.Groups
	}
	if len(o.AdminIDs) == 0 {
		o.AdminIDs = d.AdminIDs
	}
	if o.ProjectID == nil {
		o.ProjectID = d.ProjectID
	}
	o.UserDatabaseEnabled = o.UserDatabaseEnabled || d.UserDatabaseEnabled
	o.EnableLogging = o.EnableLogging || d.EnableLogging
}
