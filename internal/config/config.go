// Package config loads hearth settings from a YAML file and the environment.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Knowledge base drivers.
const (
	KnowledgeYAML = "yaml"
	KnowledgeLoam = "loam"
)

// DefaultPath is read when no --config flag is given. A missing file means defaults.
const DefaultPath = "hearth.yaml"

// Config is the whole settings tree.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Weather   WeatherConfig   `yaml:"weather"`
}

type ServerConfig struct {
	Port    int  `yaml:"port"`
	Metrics bool `yaml:"metrics"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type StoreConfig struct {
	Driver string      `yaml:"driver"`
	Path   string      `yaml:"path"`
	Redis  RedisConfig `yaml:"redis"`

	// EncryptionKey enables AES-256 sealing of stored sessions (hex or base64, 32 bytes).
	EncryptionKey string `yaml:"encryption_key"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

type KnowledgeConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type WeatherConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`

	// KeyEnv names the environment variable holding the API key.
	// The key itself never lives in the file.
	KeyEnv string `yaml:"key_env"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info"},
		Store: StoreConfig{
			Driver: StoreMemory,
			Path:   ".hearth/sessions",
			Redis:  RedisConfig{Addr: "localhost:6379"},
		},
		Knowledge: KnowledgeConfig{
			Driver: KnowledgeYAML,
			Path:   "knowledge.yaml",
		},
		Weather: WeatherConfig{
			BaseURL: "http://api.openweathermap.org/data/2.5/weather",
			Timeout: 5 * time.Second,
			KeyEnv:  "OPEN_WEATHER_KEY",
		},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("HEARTH_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HEARTH_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("HEARTH_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("HEARTH_STORE"); ok && v != "" {
		c.Store.Driver = v
	}
	if v, ok := lookup("HEARTH_REDIS_ADDR"); ok && v != "" {
		c.Store.Redis.Addr = v
	}
	return nil
}

// Validate rejects unknown drivers and impossible values.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Knowledge.Driver {
	case KnowledgeYAML, KnowledgeLoam:
	default:
		return fmt.Errorf("unknown knowledge driver %q", c.Knowledge.Driver)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Weather.Timeout <= 0 {
		return fmt.Errorf("weather timeout must be positive, got %s", c.Weather.Timeout)
	}
	return nil
}

// Credential returns a lookup for the weather API key that reads the environment
// each time it is called, so a key exported after startup is picked up.
func (c Config) Credential() func(context.Context) (string, error) {
	name := c.Weather.KeyEnv
	return func(context.Context) (string, error) {
		return os.Getenv(name), nil
	}
}
