// Package config loads minilet settings from TOML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the file read when no configuration file is named.
const DefaultFile = "minilet.toml"

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	DumpNone  = ""
	DumpYAML  = "yaml"
	DumpSexpr = "sexpr"
)

// Config holds every setting that can be given in a file. Flags override
// values from the file.
type Config struct {
	Roots          []string    `toml:"roots"`
	Recursive      bool        `toml:"recursive"`
	ChunkSize      int         `toml:"chunk_size"`
	MaxConcurrency int         `toml:"max_concurrency"`
	NonFatal       []string    `toml:"non_fatal"`
	Color          string      `toml:"color"`
	Verbosity      int         `toml:"verbosity"`
	Log            string      `toml:"log"`
	Expression     bool        `toml:"expression"`
	DumpTree       string      `toml:"dump_tree"`
	Output         string      `toml:"output"`
	Watch          WatchConfig `toml:"watch"`
}

// WatchConfig holds settings of the watch mode.
type WatchConfig struct {
	// Debounce is how long to wait for more changes before parsing again.
	Debounce Duration `toml:"debounce"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the settings used when there is no file.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the file at path. Keys that do not name a setting are an error.
func Load(path string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &c, nil
}

// LoadOrDefault reads the file at path. When path is empty DefaultFile is
// read if it exists and the defaults are returned otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(DefaultFile)
}

func (c *Config) applyDefaults() {
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 100 * time.Millisecond
	}
}

// Validate checks values that flags and files may both set.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of auto, always or never: %q", c.Color)
	}
	switch c.DumpTree {
	case DumpNone, DumpYAML, DumpSexpr:
	default:
		return fmt.Errorf("dump_tree must be yaml or sexpr: %q", c.DumpTree)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must not be negative: %d", c.ChunkSize)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative: %d", c.MaxConcurrency)
	}
	if c.Watch.Debounce.Duration < 0 {
		return fmt.Errorf("watch.debounce must not be negative: %s", c.Watch.Debounce)
	}
	return nil
}
