// Package config loads evotree's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/evotree/config.toml unless a path is
// given. A missing file is not an error: every field has a default, see
// [Default] and the sample written by [CreateSample].
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed sample_config.toml
var sampleConfig string

// Backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Duration is a time.Duration written as a string ("350ms", "15s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// GBIF configures the taxonomy service client.
type GBIF struct {
	BaseURL    string   `toml:"base_url"`
	Timeout    Duration `toml:"timeout"`
	Attempts   int      `toml:"attempts"`
	RetryDelay Duration `toml:"retry_delay"`
	CacheTTL   Duration `toml:"cache_ttl"`
}

// Cache configures where alias lists and HTTP responses are cached.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	AliasTTL Duration `toml:"alias_ttl"`
}

// Store configures where the main tree is persisted.
type Store struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	Key      string   `toml:"key"`
	Debounce Duration `toml:"debounce"`
}

// Redis holds connection settings shared by the redis cache and store.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Mongo holds connection settings for the mongo store.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Config is the complete configuration.
type Config struct {
	GBIF   GBIF   `toml:"gbif"`
	Cache  Cache  `toml:"cache"`
	Store  Store  `toml:"store"`
	Redis  Redis  `toml:"redis"`
	Mongo  Mongo  `toml:"mongo"`
	Server Server `toml:"server"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		GBIF: GBIF{
			BaseURL:    "https://api.gbif.org/v1",
			Timeout:    Duration{15 * time.Second},
			Attempts:   1,
			RetryDelay: Duration{500 * time.Millisecond},
		},
		Cache: Cache{
			Backend: BackendMemory,
			Dir:     defaultDir("XDG_CACHE_HOME", ".cache"),
		},
		Store: Store{
			Backend:  BackendFile,
			Dir:      defaultDir("XDG_DATA_HOME", filepath.Join(".local", "share")),
			Key:      "evotree_main_tree_v1",
			Debounce: Duration{350 * time.Millisecond},
		},
		Redis: Redis{
			Addr:   "localhost:6379",
			Prefix: "evotree:",
		},
		Mongo: Mongo{
			URI:        "mongodb://localhost:27017",
			Database:   "evotree",
			Collection: "kv",
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, "evotree", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "evotree", "config.toml")
	}
	return filepath.Join(home, ".config", "evotree", "config.toml")
}

// Load reads the configuration at path, or at [DefaultPath] when path is
// empty, over the defaults. It returns the resolved path and whether the
// file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, "", false, err
	}

	exists := true
	if _, err := toml.DecodeFile(resolved, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
		exists = false
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func (c *Config) normalize() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.GBIF.BaseURL = strings.TrimRight(strings.TrimSpace(c.GBIF.BaseURL), "/")

	var err error
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return err
	}
	if c.Store.Dir, err = expandPath(c.Store.Dir); err != nil {
		return err
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (must be memory, file, redis or none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("store.backend: unknown backend %q (must be file, redis, mongo or memory)", c.Store.Backend)
	}
	if c.GBIF.BaseURL == "" {
		return errors.New("gbif.base_url: must not be empty")
	}
	if c.GBIF.Attempts < 1 {
		return fmt.Errorf("gbif.attempts: must be at least 1, got %d", c.GBIF.Attempts)
	}
	if c.GBIF.Timeout.Duration <= 0 {
		return errors.New("gbif.timeout: must be positive")
	}
	if c.Cache.Backend == BackendFile && c.Cache.Dir == "" {
		return errors.New("cache.dir: required for the file backend")
	}
	if c.Store.Backend == BackendFile && c.Store.Dir == "" {
		return errors.New("store.dir: required for the file backend")
	}
	if strings.TrimSpace(c.Store.Key) == "" {
		return errors.New("store.key: must not be empty")
	}
	if c.Store.Debounce.Duration < 0 || c.Cache.AliasTTL.Duration < 0 || c.GBIF.CacheTTL.Duration < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func defaultDir(env, fallback string) string {
	if base := strings.TrimSpace(os.Getenv(env)); base != "" {
		return filepath.Join(base, "evotree")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, "evotree")
}

func expandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if p == "~" {
			p = home
		} else if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
			p = filepath.Join(home, p[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}
