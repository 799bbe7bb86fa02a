package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hivescan/internal/registry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Enumeration.InitialNameCapacity != 2048 {
		t.Errorf("InitialNameCapacity: got %d, want 2048", cfg.Enumeration.InitialNameCapacity)
	}
	if cfg.Enumeration.InitialValueCapacity != 4096 {
		t.Errorf("InitialValueCapacity: got %d, want 4096", cfg.Enumeration.InitialValueCapacity)
	}
	if cfg.Enumeration.MaxCapacity != 0 {
		t.Errorf("MaxCapacity: got %d, want 0", cfg.Enumeration.MaxCapacity)
	}
	if cfg.Hive.Backend != BackendBolt {
		t.Errorf("Backend: got %q", cfg.Hive.Backend)
	}
	if cfg.Hive.Path != "~/.hivescan/hive.db" {
		t.Errorf("Path: got %q", cfg.Hive.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level: got %q, want info", cfg.Log.Level)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, `
[enumeration]
initial_name_capacity = 256
initial_value_capacity = 512
max_capacity = 1048576
duplicates = "keep-first"
report_skips = true

[hive]
backend = "bolt"
path = "/tmp/hivescan-test.db"

[log]
level = "debug"
format = "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	e := cfg.Enumeration
	if e.InitialNameCapacity != 256 || e.InitialValueCapacity != 512 {
		t.Errorf("capacities: got %d/%d", e.InitialNameCapacity, e.InitialValueCapacity)
	}
	if e.MaxCapacity != 1048576 {
		t.Errorf("MaxCapacity: got %d", e.MaxCapacity)
	}
	if !e.ReportSkips {
		t.Error("ReportSkips should be true")
	}
	if cfg.Hive.Path != "/tmp/hivescan-test.db" {
		t.Errorf("Hive.Path: got %q", cfg.Hive.Path)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format: got %q", cfg.Log.Format)
	}

	opts := cfg.EnumeratorOptions()
	if opts.Duplicates != registry.KeepFirst {
		t.Errorf("Duplicates: got %v", opts.Duplicates)
	}
	if opts.InitialNameCapacity != 256 || opts.MaxCapacity != 1048576 {
		t.Errorf("options: %+v", opts)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "warn"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Enumeration.InitialValueCapacity != registry.DefaultValueCapacity {
		t.Errorf("InitialValueCapacity: got %d", cfg.Enumeration.InitialValueCapacity)
	}
	if cfg.Hive.Backend != BackendBolt {
		t.Errorf("Backend: got %q", cfg.Hive.Backend)
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := writeConfig(t, "{{invalid")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero name capacity", func(c *Config) { c.Enumeration.InitialNameCapacity = 0 }},
		{"zero value capacity", func(c *Config) { c.Enumeration.InitialValueCapacity = 0 }},
		{"max below initial", func(c *Config) { c.Enumeration.MaxCapacity = 100 }},
		{"bad duplicates", func(c *Config) { c.Enumeration.Duplicates = "merge" }},
		{"bad backend", func(c *Config) { c.Hive.Backend = "sqlite" }},
		{"bolt without path", func(c *Config) { c.Hive.Path = "" }},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate: got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidateWindowsBackendNeedsNoPath(t *testing.T) {
	cfg := Defaults()
	cfg.Hive.Backend = BackendWindows
	cfg.Hive.Path = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	got := ExpandHome("~/foo/bar")
	want := filepath.Join(home, "foo/bar")
	if got != want {
		t.Errorf("ExpandHome: got %q, want %q", got, want)
	}

	if got := ExpandHome("/absolute/path"); got != "/absolute/path" {
		t.Errorf("ExpandHome: got %q, want /absolute/path", got)
	}
}
