package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultListen          = "127.0.0.1:8080"
	defaultTimezone        = "Local"
	defaultStorePath       = "/var/lib/calgrid/events.json"
	defaultSnapshotCron    = "*/5 * * * *"
	defaultMinutesPerPixel = 1.0
	defaultMonthCellLimit  = 3
	defaultLayoutCacheSecs = 30
	defaultLogLevel        = "info"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone whose wall clock defines "today" and in
	// which date query parameters are read. Events are never converted.
	Timezone string `yaml:"timezone" json:"timezone"`

	// StorePath is the JSON snapshot file of the event store.
	StorePath string `yaml:"store_path" json:"store_path"`

	// SnapshotCron is a cron schedule (e.g. "*/5 * * * *") for flushing the
	// store to StorePath.
	SnapshotCron string `yaml:"snapshot" json:"snapshot"`

	// MinutesPerPixel is the drag scale along the time axis.
	MinutesPerPixel float64 `yaml:"minutes_per_pixel" json:"minutes_per_pixel"`

	// MonthCellLimit is how many events a month cell previews before "+N more".
	MonthCellLimit int `yaml:"month_cell_limit" json:"month_cell_limit"`

	// LayoutCacheSeconds is the TTL of cached view responses.
	LayoutCacheSeconds int `yaml:"layout_cache_seconds" json:"layout_cache_seconds"`

	// LogLevel is one of debug, info, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:             defaultListen,
		Timezone:           defaultTimezone,
		StorePath:          defaultStorePath,
		SnapshotCron:       defaultSnapshotCron,
		MinutesPerPixel:    defaultMinutesPerPixel,
		MonthCellLimit:     defaultMonthCellLimit,
		LayoutCacheSeconds: defaultLayoutCacheSecs,
		LogLevel:           defaultLogLevel,
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.StorePath == "" {
		c.StorePath = defaultStorePath
	}
	if c.SnapshotCron == "" {
		c.SnapshotCron = defaultSnapshotCron
	}
	if c.MinutesPerPixel <= 0 {
		c.MinutesPerPixel = defaultMinutesPerPixel
	}
	if c.MonthCellLimit <= 0 {
		c.MonthCellLimit = defaultMonthCellLimit
	}
	// Negative disables the cache; zero means unset.
	if c.LayoutCacheSeconds == 0 {
		c.LayoutCacheSeconds = defaultLayoutCacheSecs
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Location resolves Timezone. "Local" and unknown names give time.Local;
// the error is returned so the caller can log it.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, err
	}
	return loc, nil
}

// LayoutCacheTTL returns the view cache TTL; zero disables caching.
func (c *Config) LayoutCacheTTL() time.Duration {
	if c.LayoutCacheSeconds < 0 {
		return 0
	}
	return time.Duration(c.LayoutCacheSeconds) * time.Second
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, the default config is written with 0600
//     perms (creating the parent directory) and returned.
//   - Otherwise the YAML is read and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename, final perms 0600),
// creating the parent directory with 0700 if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calgrid-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
