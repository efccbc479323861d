// Package config loads stampgraph's TOML configuration.
//
// A configuration file has four tables:
//
//	[builder]  node and team dimensions used by the graph builder
//	[layout]   ranker choice and layout spacing constants
//	[cache]    diagram cache backend
//	[server]   HTTP listener settings
//
// Every key is optional; [Default] supplies the rest. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/airvair/stampgraph/pkg/cache"
	sgerrors "github.com/airvair/stampgraph/pkg/errors"
	"github.com/airvair/stampgraph/pkg/graph"
	"github.com/airvair/stampgraph/pkg/layout"
)

// DefaultFile is the configuration file picked up from the working
// directory when no path is given.
const DefaultFile = "stampgraph.toml"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the complete configuration.
type Config struct {
	Builder graph.Sizes `toml:"builder"`
	Layout  Layout      `toml:"layout"`
	Cache   Cache       `toml:"cache"`
	Server  Server      `toml:"server"`
}

// Layout holds layout engine settings.
type Layout struct {
	Ranker              string  `toml:"ranker" validate:"oneof=graphviz layered"`
	RankSeparation      float64 `toml:"rank_separation" validate:"gt=0"`
	NodeSeparation      float64 `toml:"node_separation" validate:"gt=0"`
	MinSpacing          float64 `toml:"min_spacing" validate:"gt=0"`
	RankTolerance       float64 `toml:"rank_tolerance" validate:"gt=0"`
	ChildSpacing        float64 `toml:"child_spacing" validate:"gt=0"`
	ConvergenceMinDelta float64 `toml:"convergence_min_delta"` // negative applies every nudge
	ShowFailurePaths    bool    `toml:"show_failure_paths"`
}

// Cache selects and configures the diagram cache.
type Cache struct {
	Backend string        `toml:"backend" validate:"oneof=none memory file redis"`
	Dir     string        `toml:"dir"`  // file backend; empty selects the user cache dir
	Size    int           `toml:"size"` // memory backend entry bound
	TTL     time.Duration `toml:"ttl" validate:"gte=0"`
	Redis   Redis         `toml:"redis"`
}

// Redis configures the redis cache backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"gte=0"`
	Prefix   string `toml:"prefix"`
}

// Server configures `stampgraph serve`.
type Server struct {
	Addr         string        `toml:"addr" validate:"required"`
	ReadTimeout  time.Duration `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `toml:"write_timeout" validate:"gte=0"`
	MaxBodyBytes int64         `toml:"max_body_bytes" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	lo := layout.DefaultOptions()
	return Config{
		Builder: graph.DefaultSizes(),
		Layout: Layout{
			Ranker:              "graphviz",
			RankSeparation:      lo.RankSeparation,
			NodeSeparation:      lo.NodeSeparation,
			MinSpacing:          lo.MinSpacing,
			RankTolerance:       lo.RankTolerance,
			ChildSpacing:        lo.ChildSpacing,
			ConvergenceMinDelta: lo.ConvergenceMinDelta,
		},
		Cache: Cache{
			Backend: "file",
			Size:    cache.DefaultMemorySize,
			TTL:     24 * time.Hour,
			Redis:   Redis{Addr: "localhost:6379", Prefix: cache.DefaultRedisPrefix},
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 4 << 20,
		},
	}
}

// Load reads the file at path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, sgerrors.Wrap(sgerrors.ErrCodeInvalidConfig, err, "open %s", path)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML on top of the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, sgerrors.Wrap(sgerrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, sgerrors.New(sgerrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
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

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return sgerrors.Wrap(sgerrors.ErrCodeInvalidConfig, err, "invalid config")
	}
	return nil
}

// BuildOptions returns the graph builder options.
func (c Config) BuildOptions() graph.BuildOptions {
	return graph.BuildOptions{Sizes: c.Builder, ShowFailurePaths: c.Layout.ShowFailurePaths}
}

// LayoutOptions returns the layout engine options. The logger is left for
// the caller to set.
func (c Config) LayoutOptions() (layout.Options, error) {
	ranker, err := layout.RankerByName(c.Layout.Ranker)
	if err != nil {
		return layout.Options{}, sgerrors.Wrap(sgerrors.ErrCodeInvalidConfig, err, "layout.ranker")
	}
	return layout.Options{
		Ranker:              ranker,
		RankSeparation:      c.Layout.RankSeparation,
		NodeSeparation:      c.Layout.NodeSeparation,
		MinSpacing:          c.Layout.MinSpacing,
		RankTolerance:       c.Layout.RankTolerance,
		ChildSpacing:        c.Layout.ChildSpacing,
		ConvergenceMinDelta: c.Layout.ConvergenceMinDelta,
	}, nil
}

// Open creates the configured cache backend.
func (c Cache) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "memory":
		return cache.NewMemoryCache(c.Size)
	case "file":
		dir := c.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultCacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
	}
	return nil, sgerrors.New(sgerrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Backend)
}

// DefaultCacheDir returns the per-user cache directory for stampgraph,
// honouring XDG_CACHE_HOME.
func DefaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "stampgraph"), nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache directory: %w", err)
	}
	return filepath.Join(dir, "stampgraph"), nil
}
