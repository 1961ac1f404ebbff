// Package config loads spantree's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/spantree/config.toml (or
// ~/.config/spantree/config.toml) unless --config names another path. Every
// key is optional; missing keys keep the values from [Default], which is the
// single source of truth for defaults. Command-line flags override the file.
//
//	[canvas]
//	width = 800
//	height = 600
//
//	[run]
//	algorithm = "prim"
//	interval = "500ms"
//
//	[server]
//	addr = ":8080"
//	session_store = "redis"
//
//	[redis]
//	addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spantree/pkg/compare"
	apperrors "github.com/matzehuels/spantree/pkg/errors"
	"github.com/matzehuels/spantree/pkg/layout"
	"github.com/matzehuels/spantree/pkg/mst"
)

const appName = "spantree"

// Config is the full configuration file.
type Config struct {
	Canvas Canvas `toml:"canvas"`
	Layout Layout `toml:"layout"`
	Run    Run    `toml:"run"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
	Redis  Redis  `toml:"redis"`
	Mongo  Mongo  `toml:"mongo"`
}

// Canvas is the drawing area used by layouts.
type Canvas struct {
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Padding float64 `toml:"padding"`
}

// Layout selects the default arrangement.
type Layout struct {
	Type       string `toml:"type"`
	Iterations int    `toml:"iterations"`
	Seed       int64  `toml:"seed"`
}

// Run configures step-by-step runs and comparisons.
type Run struct {
	Algorithm string   `toml:"algorithm"`
	Left      string   `toml:"left"`
	Right     string   `toml:"right"`
	Mode      string   `toml:"mode"`
	Interval  Duration `toml:"interval"`
}

// Cache configures the result cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Backend string `toml:"backend"`
	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`
}

// Server configures "spantree serve".
type Server struct {
	Addr            string   `toml:"addr"`
	SessionTTL      Duration `toml:"session_ttl"`
	SessionStore    string   `toml:"session_store"`
	SessionDir      string   `toml:"session_dir"`
	CleanupInterval Duration `toml:"cleanup_interval"`
	Library         string   `toml:"library"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
}

// Redis is shared by the redis cache and session store.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Mongo configures the graph library backend.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Default returns the built-in configuration.
func Default() Config {
	opts := layout.DefaultOptions()
	return Config{
		Canvas: Canvas{Width: opts.Width, Height: opts.Height, Padding: opts.Padding},
		Layout: Layout{Type: string(layout.Manual), Iterations: layout.DefaultIterations, Seed: 1},
		Run: Run{
			Algorithm: string(mst.Kruskal),
			Left:      string(mst.Kruskal),
			Right:     string(mst.Prim),
			Mode:      string(compare.Synchronized),
			Interval:  Duration{compare.DefaultInterval},
		},
		Cache: Cache{Enabled: true, Backend: BackendFile},
		Server: Server{
			Addr:            ":8080",
			SessionTTL:      Duration{2 * time.Hour},
			SessionStore:    BackendMemory,
			CleanupInterval: Duration{10 * time.Minute},
			Library:         BackendMemory,
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
		},
		Redis: Redis{Addr: "localhost:6379", Prefix: appName + ":"},
		Mongo: Mongo{URI: "mongodb://localhost:27017", Database: appName, Collection: "graphs"},
	}
}

// =============================================================================
// Loading
// =============================================================================

// DefaultPath returns the XDG config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path over the defaults. An empty path means DefaultPath, where
// a missing file is not an error; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open config %s", path)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Validate checks value ranges and enum names.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		add("canvas must have positive width and height")
	}
	if c.Canvas.Padding < 0 || 2*c.Canvas.Padding >= min(c.Canvas.Width, c.Canvas.Height) {
		add("canvas padding %.0f does not fit a %.0fx%.0f canvas", c.Canvas.Padding, c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := layout.ParseType(c.Layout.Type); err != nil {
		add("layout.type: %v", err)
	}
	if c.Layout.Iterations < 0 {
		add("layout.iterations must not be negative")
	}
	for key, name := range map[string]string{"run.algorithm": c.Run.Algorithm, "run.left": c.Run.Left, "run.right": c.Run.Right} {
		if _, err := mst.ParseAlgorithm(name); err != nil {
			add("%s: %v", key, err)
		}
	}
	if _, err := compare.ParseMode(c.Run.Mode); err != nil {
		add("run.mode: %v", err)
	}
	if c.Run.Interval.Duration <= 0 {
		add("run.interval must be positive")
	}
	if !slices.Contains([]string{BackendFile, BackendRedis}, c.Cache.Backend) {
		add("cache.backend must be %q or %q", BackendFile, BackendRedis)
	}
	if !slices.Contains([]string{BackendMemory, BackendFile, BackendRedis}, c.Server.SessionStore) {
		add("server.session_store must be %q, %q or %q", BackendMemory, BackendFile, BackendRedis)
	}
	if !slices.Contains([]string{BackendMemory, BackendMongo}, c.Server.Library) {
		add("server.library must be %q or %q", BackendMemory, BackendMongo)
	}

	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)
	return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s", strings.Join(problems, "; "))
}

// LayoutOptions converts the canvas and layout sections.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		Width:      c.Canvas.Width,
		Height:     c.Canvas.Height,
		Padding:    c.Canvas.Padding,
		Iterations: c.Layout.Iterations,
		Seed:       c.Layout.Seed,
	}
}

// =============================================================================
// Duration
// =============================================================================

// Duration is a time.Duration written as a string such as "1.5s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
