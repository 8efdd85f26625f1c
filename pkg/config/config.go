// Package config loads the engine configuration file (graphjs.toml).
//
// Settings merge in a fixed order: package defaults, then the file, then
// command-line flags (applied by the CLI). The file is decoded strictly:
// unknown keys are an error, so a misspelled setting never silently falls
// back to its default.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/layout"
)

// DefaultFile is the file name looked up in the working directory when no
// --config flag is given.
const DefaultFile = "graphjs.toml"

// Config is the full configuration tree.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Serve  ServeConfig  `toml:"serve"`
}

// LayoutConfig mirrors the engine settings.
type LayoutConfig struct {
	Direction     string  `toml:"direction"`
	NodeSep       float64 `toml:"node_sep"`
	RankSep       float64 `toml:"rank_sep"`
	EdgeSep       float64 `toml:"edge_sep"`
	Margin        float64 `toml:"margin"`
	ClusterMargin float64 `toml:"cluster_margin"`
	Sweeps        int     `toml:"sweeps"`
}

// Engine converts the section to an engine configuration.
func (l LayoutConfig) Engine() layout.Config {
	return layout.Config{
		Direction:     layout.Direction(l.Direction),
		NodeSep:       l.NodeSep,
		RankSep:       l.RankSep,
		EdgeSep:       l.EdgeSep,
		Margin:        l.Margin,
		ClusterMargin: l.ClusterMargin,
		Sweeps:        l.Sweeps,
	}
}

// RenderConfig selects the default output appearance.
type RenderConfig struct {
	Style   string  `toml:"style"` // simple or blueprint
	Padding float64 `toml:"padding"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend"` // none, file or redis
	Dir     string   `toml:"dir"`     // file backend; empty means the user cache dir
	URL     string   `toml:"url"`     // redis backend
	TTL     Duration `toml:"ttl"`
}

// StoreConfig points at the scene store.
type StoreConfig struct {
	URL        string `toml:"url"` // mongodb connection string; empty disables the store
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

// Duration wraps time.Duration so TOML files can say ttl = "24h".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the standard library value.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Direction:     string(layout.TopBottom),
			NodeSep:       layout.DefaultNodeSep,
			RankSep:       layout.DefaultRankSep,
			EdgeSep:       layout.DefaultEdgeSep,
			Margin:        layout.DefaultMargin,
			ClusterMargin: layout.DefaultClusterMargin,
			Sweeps:        layout.DefaultSweeps,
		},
		Render: RenderConfig{Style: "simple"},
		Cache:  CacheConfig{Backend: "file", TTL: Duration(24 * time.Hour)},
		Store:  StoreConfig{Database: "graphjs", Collection: "scenes"},
		Serve:  ServeConfig{Addr: ":8080"},
	}
}

// Load reads the TOML file at path over the defaults. Unknown keys and
// invalid values are errors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "none", "file", "redis":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache backend %q is not one of none, file, redis", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.URL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs a url")
	}
	switch c.Render.Style {
	case "simple", "blueprint":
	default:
		return errors.New(errors.ErrCodeInvalidStyle,
			"style %q is not one of simple, blueprint", c.Render.Style)
	}
	return nil
}
