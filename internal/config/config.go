// Package config reads and writes the googleit configuration file
// (config.yaml). A missing file yields defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "googleit"
	configFileName = "config.yaml"

	// DefaultRecentItems is how many recently modified items the tray lists.
	DefaultRecentItems = 20
	// DefaultRefreshInterval is how often the tray reloads the library.
	DefaultRefreshInterval = 30 * time.Second
)

var (
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Library locates the Zotero database.
type Library struct {
	Path        string `yaml:"path,omitempty"`
	RecentItems int    `yaml:"recent_items,omitempty"`
}

// Search configures the search endpoint.
type Search struct {
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Tray configures the tray host.
type Tray struct {
	RefreshInterval string `yaml:"refresh_interval,omitempty"`
}

// Launch controls what happens with a finished search URL.
type Launch struct {
	Print bool `yaml:"print,omitempty"`
	Copy  bool `yaml:"copy,omitempty"`
}

// Config represents the persisted configuration file.
type Config struct {
	AddonRef string  `yaml:"addon_ref,omitempty"`
	Library  Library `yaml:"library,omitempty"`
	Search   Search  `yaml:"search,omitempty"`
	Tray     Tray    `yaml:"tray,omitempty"`
	Launch   Launch  `yaml:"launch,omitempty"`
}

// Path returns the resolved configuration file path.
func Path() (string, error) {
	if custom := os.Getenv("GOOGLEIT_CONFIG_PATH"); custom != "" {
		return custom, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine user config dir: %w", err)
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// Load reads the configuration at path, or at Path() when path is empty.
// Environment overrides are applied on top.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if db := strings.TrimSpace(os.Getenv("GOOGLEIT_ZOTERO_DB")); db != "" {
		cfg.Library.Path = db
	}
	return cfg, nil
}

// Read loads the file alone, without environment overrides. Use it when the
// result is saved back.
func Read(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if _, err := cfg.RefreshInterval(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path (Path() when empty) via a temp file and rename.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, raw, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tempFile, path)
}

// RecentItems returns the configured tray item count or the default.
func (c *Config) RecentItems() int {
	if c.Library.RecentItems > 0 {
		return c.Library.RecentItems
	}
	return DefaultRecentItems
}

// RefreshInterval parses tray.refresh_interval, falling back to the default.
func (c *Config) RefreshInterval() (time.Duration, error) {
	raw := strings.TrimSpace(c.Tray.RefreshInterval)
	if raw == "" {
		return DefaultRefreshInterval, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: tray.refresh_interval %q", ErrInvalidValue, raw)
	}
	return d, nil
}

type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

var fields = map[string]field{
	"addon_ref": {
		get: func(c *Config) string { return c.AddonRef },
		set: func(c *Config, v string) error { c.AddonRef = v; return nil },
	},
	"library.path": {
		get: func(c *Config) string { return c.Library.Path },
		set: func(c *Config, v string) error { c.Library.Path = v; return nil },
	},
	"library.recent_items": {
		get: func(c *Config) string { return strconv.Itoa(c.RecentItems()) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: library.recent_items must be a positive integer", ErrInvalidValue)
			}
			c.Library.RecentItems = n
			return nil
		},
	},
	"search.endpoint": {
		get: func(c *Config) string { return c.Search.Endpoint },
		set: func(c *Config, v string) error {
			if v != "" && !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
				return fmt.Errorf("%w: search.endpoint must be an http(s) URL", ErrInvalidValue)
			}
			c.Search.Endpoint = v
			return nil
		},
	},
	"tray.refresh_interval": {
		get: func(c *Config) string {
			d, err := c.RefreshInterval()
			if err != nil {
				return c.Tray.RefreshInterval
			}
			return d.String()
		},
		set: func(c *Config, v string) error {
			prev := c.Tray.RefreshInterval
			c.Tray.RefreshInterval = v
			if _, err := c.RefreshInterval(); err != nil {
				c.Tray.RefreshInterval = prev
				return err
			}
			return nil
		},
	},
	"launch.print": {
		get: func(c *Config) string { return strconv.FormatBool(c.Launch.Print) },
		set: func(c *Config, v string) error { return setBool(&c.Launch.Print, "launch.print", v) },
	},
	"launch.copy": {
		get: func(c *Config) string { return strconv.FormatBool(c.Launch.Copy) },
		set: func(c *Config, v string) error { return setBool(&c.Launch.Copy, "launch.copy", v) },
	},
}

func setBool(dst *bool, key, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
	}
	*dst = b
	return nil
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	out := make([]string, 0, len(fields))
	for key := range fields {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Get returns the string form of key.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set parses value into key.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.set(c, strings.TrimSpace(value))
}
