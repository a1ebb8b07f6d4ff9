// Package config resolves runtime settings from defaults, an ini file, the
// environment and, for the API key, the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/zalando/go-keyring"
	"gopkg.in/ini.v1"
)

const (
	DefaultBaseURL   = "https://api.thedogapi.com/v1"
	DefaultTimeout   = 10 * time.Second
	DefaultThreshold = 50.0
	DefaultListen    = "localhost:12000"
	DefaultStore     = "file"
	DefaultPrefix    = "dogfinder_"

	KeyringService = "dogfinder"
	KeyringUser    = "thedogapi.com"
)

var ErrNoAPIKey = errors.New("no API key configured, run 'dogfinder auth set-key' or set DOGFINDER_API_KEY")

// StoreBackends lists the accepted values for store.backend.
var StoreBackends = []string{"file", "sqlite", "redis", "memory"}

type API struct {
	BaseURL string        `ini:"base_url" env:"DOGFINDER_BASE_URL"`
	Key     string        `ini:"key" env:"DOGFINDER_API_KEY"`
	Timeout time.Duration `ini:"timeout" env:"DOGFINDER_TIMEOUT"`
}

type Store struct {
	Backend       string `ini:"backend" env:"DOGFINDER_STORE"`
	Path          string `ini:"path" env:"DOGFINDER_STORE_PATH"`
	RedisAddr     string `ini:"redis_addr" env:"DOGFINDER_REDIS_ADDR"`
	RedisPassword string `ini:"redis_password" env:"DOGFINDER_REDIS_PASSWORD"`
	RedisDB       int    `ini:"redis_db" env:"DOGFINDER_REDIS_DB"`
	RedisPrefix   string `ini:"redis_prefix" env:"DOGFINDER_REDIS_PREFIX"`
}

type Gesture struct {
	Threshold float64 `ini:"threshold" env:"DOGFINDER_THRESHOLD"`
}

type Server struct {
	Listen string `ini:"listen" env:"DOGFINDER_LISTEN"`
	CORS   bool   `ini:"cors" env:"DOGFINDER_CORS"`
}

// Config is the fully resolved configuration.
type Config struct {
	API     API
	Store   Store
	Gesture Gesture
	Server  Server

	// Path of the ini file that was read, empty when none existed.
	Path string `ini:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: API{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Store: Store{
			Backend:     DefaultStore,
			RedisAddr:   "localhost:6379",
			RedisPrefix: DefaultPrefix,
		},
		Gesture: Gesture{Threshold: DefaultThreshold},
		Server:  Server{Listen: DefaultListen},
	}
}

// DefaultPath returns ~/.config/dogfinder/config.ini (or the platform equivalent).
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "config.ini"
	}
	return filepath.Join(base, "dogfinder", "config.ini")
}

// Load builds a Config from defaults, the ini file at path (missing files are
// fine), environment variables and finally the keyring for the API key. An
// empty path means DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		cfg.Path = path
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if cfg.API.Key == "" {
		if key, err := keyring.Get(KeyringService, KeyringUser); err == nil {
			cfg.API.Key = key
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	sections := map[string]interface{}{
		"api":     &c.API,
		"store":   &c.Store,
		"gesture": &c.Gesture,
		"server":  &c.Server,
	}
	for name, target := range sections {
		if !file.HasSection(name) {
			continue
		}
		if err := file.Section(name).StrictMapTo(target); err != nil {
			return fmt.Errorf("invalid [%s] section in %s: %w", name, path, err)
		}
	}

	return nil
}

func (c *Config) loadEnv() error {
	for _, target := range []interface{}{&c.API, &c.Store, &c.Gesture, &c.Server} {
		if err := env.Parse(target); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	return nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Gesture.Threshold <= 0 {
		return fmt.Errorf("gesture.threshold must be positive, got %v", c.Gesture.Threshold)
	}

	for _, backend := range StoreBackends {
		if c.Store.Backend == backend {
			return nil
		}
	}
	return fmt.Errorf("unknown store backend %q, expected one of %v", c.Store.Backend, StoreBackends)
}

// RequireAPIKey returns the API key or ErrNoAPIKey.
func (c *Config) RequireAPIKey() (string, error) {
	if c.API.Key == "" {
		return "", ErrNoAPIKey
	}
	return c.API.Key, nil
}

// SaveAPIKey stores key in the OS keyring.
func SaveAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	if err := keyring.Set(KeyringService, KeyringUser, key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	return nil
}

// KeyringAPIKey reads the API key stored in the OS keyring.
func KeyringAPIKey() (string, error) {
	key, err := keyring.Get(KeyringService, KeyringUser)
	if err != nil {
		return "", ErrNoAPIKey
	}
	return key, nil
}

// DeleteAPIKey removes the API key from the OS keyring.
func DeleteAPIKey() error {
	return keyring.Delete(KeyringService, KeyringUser)
}
