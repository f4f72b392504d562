// Package config loads the optional user configuration file and provides
// the built-in protected path list. A missing config file is not an
// error; every setting has a default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the merged view of defaults and ~/.config/gigabroom/config.yaml.
type Config struct {
	// CacheTTL is how long a cached scan result stays valid.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// Workers bounds scan parallelism. Zero means one worker per CPU.
	Workers int `mapstructure:"workers"`

	// MaxDepth is the default scan depth when the flag is not given.
	MaxDepth int `mapstructure:"max_depth"`

	// ExtraMarkers adds project-root marker files per rule ID, e.g.
	// extra_markers: {build-cache: [meson.build]}.
	ExtraMarkers map[string][]string `mapstructure:"extra_markers"`

	// Protected lists paths the cleaner must never touch, merged with
	// the built-in list.
	Protected []string `mapstructure:"protected"`

	// OptInCategories pre-authorizes caution categories by ID or alias.
	OptInCategories []string `mapstructure:"opt_in_categories"`
}

// Dir returns the per-user config directory.
func Dir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "gigabroom")
	}
	return "."
}

func defaults(v *viper.Viper) {
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("workers", 0)
	v.SetDefault("max_depth", 10)
	v.SetDefault("extra_markers", map[string][]string{})
	v.SetDefault("protected", []string{})
	v.SetDefault("opt_in_categories", []string{})
}

// Load reads the config file, falling back to defaults when it does not
// exist. An explicit non-empty path must exist and parse.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	return &cfg, nil
}

// ProtectedPaths merges the user's protected list with paths that must
// never be deleted regardless of configuration.
func (c *Config) ProtectedPaths() []string {
	out := neverDeletePaths()
	for _, p := range c.Protected {
		if home, err := os.UserHomeDir(); err == nil && len(p) > 1 && p[:2] == "~/" {
			p = filepath.Join(home, p[2:])
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}

// neverDeletePaths returns locations a cleanup run must never remove,
// whatever a scan rule claims about them.
func neverDeletePaths() []string {
	paths := []string{
		"/",
		"/bin",
		"/boot",
		"/etc",
		"/lib",
		"/sbin",
		"/usr",
		"/var",
		"/System",
		"/Library",
		"/Applications",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			home,
			filepath.Join(home, ".ssh"),
			filepath.Join(home, ".gnupg"),
			filepath.Join(home, ".config"),
		)
	}
	return paths
}
