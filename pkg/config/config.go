package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treetui/pkg/errors"
)

const appName = "treetui"

// EnvRedisURL overrides the configured Redis cache address.
const EnvRedisURL = "TREETUI_REDIS_URL"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// CacheConfig selects where parse results are cached.
type CacheConfig struct {
	Backend  string `toml:"backend" yaml:"backend"`     // file, redis or none
	Dir      string `toml:"dir" yaml:"dir"`             // file cache directory
	RedisURL string `toml:"redis_url" yaml:"redis_url"` // redis://host:port/db
	TTL      string `toml:"ttl" yaml:"ttl"`             // Go duration, e.g. "24h"
}

// ServerConfig holds the settings of the HTTP API.
type ServerConfig struct {
	Addr     string `toml:"addr" yaml:"addr"`
	Store    string `toml:"store" yaml:"store"`       // memory, sqlite or mongo
	DSN      string `toml:"dsn" yaml:"dsn"`           // sqlite path or mongodb:// URI
	Database string `toml:"database" yaml:"database"` // mongo database name
	MaxBody  int64  `toml:"max_body" yaml:"max_body"` // request body limit in bytes
}

// Config is the merged result of built-in defaults and a config file.
type Config struct {
	Path           string
	DefaultProfile string
	Cache          CacheConfig
	Server         ServerConfig

	profiles map[string]Profile
}

type file struct {
	DefaultProfile string               `toml:"default_profile" yaml:"default_profile"`
	Profiles       map[string]overrides `toml:"profiles" yaml:"profiles"`
	Cache          CacheConfig          `toml:"cache" yaml:"cache"`
	Server         ServerConfig         `toml:"server" yaml:"server"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{
		DefaultProfile: ProfileDefault,
		profiles:       maps.Clone(builtins),
	}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.DefaultProfile == "" {
		c.DefaultProfile = ProfileDefault
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
		if c.Cache.RedisURL != "" {
			c.Cache.Backend = CacheRedis
		}
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = CacheDir()
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "24h"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Store == "" {
		c.Server.Store = StoreMemory
	}
	if c.Server.Database == "" {
		c.Server.Database = appName
	}
	if c.Server.MaxBody == 0 {
		c.Server.MaxBody = 8 << 20
	}
}

// Dir returns the XDG config directory for treetui.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// CacheDir returns the XDG cache directory for treetui.
func CacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", appName)
}

// DefaultPath returns the path of the implicit config file.
func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the config file at path. An empty path means [DefaultPath],
// which may be absent; an explicit path must exist. The environment is
// applied last.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	var cfg *Config
	data, err := os.ReadFile(path)
	switch {
	case path == "" || (!explicit && os.IsNotExist(err)):
		cfg = Default()
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	default:
		if cfg, err = Parse(data, filepath.Ext(path)); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cfg.Path = path
	}

	if url := os.Getenv(EnvRedisURL); url != "" {
		cfg.Cache.RedisURL = url
		cfg.Cache.Backend = CacheRedis
	}
	return cfg, nil
}

// Parse decodes a config document. ext selects the format: ".toml", ".yaml"
// or ".yml".
func Parse(data []byte, ext string) (*Config, error) {
	var f file
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q", ext)
	}

	cfg := &Config{
		DefaultProfile: f.DefaultProfile,
		Cache:          f.Cache,
		Server:         f.Server,
		profiles:       maps.Clone(builtins),
	}
	for name, o := range f.Profiles {
		if err := errors.ValidateProfileName(name); err != nil {
			return nil, err
		}
		base := o.Base
		if base == "" {
			base = ProfileDefault
		}
		b, ok := builtins[base]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidProfile, "profile %q: unknown base %q", name, base)
		}
		p := o.apply(b)
		p.Name = name
		cfg.profiles[name] = p
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every profile and the cache and server settings.
func (c *Config) Validate() error {
	for _, name := range c.ProfileNames() {
		if err := c.profiles[name].Validate(); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}
	if _, ok := c.profiles[c.DefaultProfile]; !ok {
		return errors.New(errors.ErrCodeInvalidProfile, "default profile %q is not defined", c.DefaultProfile)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache needs redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	switch c.Server.Store {
	case StoreMemory:
	case StoreSQLite, StoreMongo:
		if c.Server.DSN == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "%s store needs dsn", c.Server.Store)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store %q", c.Server.Store)
	}
	if c.Server.MaxBody < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_body must not be negative")
	}
	return nil
}

// CacheTTL parses the cache TTL.
func (c *Config) CacheTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache ttl")
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	return d, nil
}

// Profile returns the named profile. An empty name selects the default
// profile.
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	p, ok := c.profiles[name]
	if !ok {
		return Profile{}, errors.New(errors.ErrCodeInvalidProfile, "unknown profile %q (have %s)",
			name, strings.Join(c.ProfileNames(), ", "))
	}
	return p, nil
}

// ProfileNames returns all profile names, built-in and configured, sorted.
func (c *Config) ProfileNames() []string {
	return slices.Sorted(maps.Keys(c.profiles))
}

// IsBuiltin reports whether name is a built-in profile that the config file
// did not redefine.
func (c *Config) IsBuiltin(name string) bool {
	b, ok := builtins[name]
	return ok && c.profiles[name] == b
}
