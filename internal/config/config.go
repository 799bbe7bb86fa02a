package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"hivescan/internal/logging"
	"hivescan/internal/registry"
)

type Config struct {
	Enumeration EnumerationConfig `toml:"enumeration"`
	Hive        HiveConfig        `toml:"hive"`
	Log         LogConfig         `toml:"log"`
}

type EnumerationConfig struct {
	InitialNameCapacity  uint32 `toml:"initial_name_capacity"`
	InitialValueCapacity uint32 `toml:"initial_value_capacity"`
	MaxCapacity          uint32 `toml:"max_capacity"`
	Duplicates           string `toml:"duplicates"`
	ReportSkips          bool   `toml:"report_skips"`
}

type HiveConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

const (
	BackendBolt    = "bolt"
	BackendWindows = "windows"
)

var ErrInvalid = errors.New("invalid config")

// Defaults returns a Config with sane defaults.
func Defaults() *Config {
	return &Config{
		Enumeration: EnumerationConfig{
			InitialNameCapacity:  registry.DefaultNameCapacity,
			InitialValueCapacity: registry.DefaultValueCapacity,
			Duplicates:           "overwrite",
		},
		Hive: HiveConfig{
			Backend: BackendBolt,
			Path:    "~/.hivescan/hive.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a TOML config file and returns the parsed Config.
// If path is empty, ~/.hivescan/config.toml is used when present and
// defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = expandHome("~/.hivescan/config.toml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that TOML decoding cannot.
func (c *Config) Validate() error {
	e := c.Enumeration
	if e.InitialNameCapacity == 0 || e.InitialValueCapacity == 0 {
		return fmt.Errorf("%w: initial capacities must be positive", ErrInvalid)
	}
	if e.MaxCapacity != 0 &&
		(e.MaxCapacity < e.InitialNameCapacity || e.MaxCapacity < e.InitialValueCapacity) {
		return fmt.Errorf("%w: max_capacity %d below initial capacities", ErrInvalid, e.MaxCapacity)
	}
	if _, err := c.DuplicatePolicy(); err != nil {
		return err
	}
	switch c.Hive.Backend {
	case BackendBolt:
		if c.Hive.Path == "" {
			return fmt.Errorf("%w: hive.path is required for the bolt backend", ErrInvalid)
		}
	case BackendWindows:
	default:
		return fmt.Errorf("%w: unknown hive.backend %q", ErrInvalid, c.Hive.Backend)
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// DuplicatePolicy maps enumeration.duplicates onto the registry type.
func (c *Config) DuplicatePolicy() (registry.DuplicatePolicy, error) {
	switch strings.ToLower(c.Enumeration.Duplicates) {
	case "", "overwrite", "overwrite-last":
		return registry.OverwriteLast, nil
	case "keep-first":
		return registry.KeepFirst, nil
	}
	return 0, fmt.Errorf("%w: unknown enumeration.duplicates %q", ErrInvalid, c.Enumeration.Duplicates)
}

// EnumeratorOptions converts the enumeration section. The skip handler is
// left for the caller.
func (c *Config) EnumeratorOptions() registry.Options {
	dup, _ := c.DuplicatePolicy()
	return registry.Options{
		InitialNameCapacity:  c.Enumeration.InitialNameCapacity,
		InitialValueCapacity: c.Enumeration.InitialValueCapacity,
		MaxCapacity:          c.Enumeration.MaxCapacity,
		Duplicates:           dup,
	}
}

// ExpandHome resolves a leading ~/ to the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
