package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctagard/launch-mcp/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestLoad verifies parsing a full config file.
func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[target]
path = "/opt/game/run.sh"
arguments = "-windowed"
working_directory = "/opt/game"
port = 8123

[attach]
host = "10.0.0.5"
connect_retries = 5
request_timeout_seconds = 3

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Target.Path != "/opt/game/run.sh" {
		t.Errorf("target path = %q", cfg.Target.Path)
	}
	if cfg.Target.Port != 8123 {
		t.Errorf("target port = %d", cfg.Target.Port)
	}
	if cfg.Attach.Host != "10.0.0.5" {
		t.Errorf("attach host = %q", cfg.Attach.Host)
	}
	if cfg.Attach.ConnectRetries != 5 {
		t.Errorf("connect retries = %d", cfg.Attach.ConnectRetries)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

// TestLoadDefaultsFillGaps verifies that omitted sections keep their default
// values.
func TestLoadDefaultsFillGaps(t *testing.T) {
	path := writeConfig(t, `
[target]
path = "/opt/app"
port = 9000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Attach.Host != "127.0.0.1" {
		t.Errorf("expected default attach host, got %q", cfg.Attach.Host)
	}
	if cfg.Attach.ConnectRetries != 25 {
		t.Errorf("expected default connect retries, got %d", cfg.Attach.ConnectRetries)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level, got %q", cfg.Log.Level)
	}
}

// TestLoadExplicitMissingPath verifies that a missing file at an explicitly
// given path is an error.
func TestLoadExplicitMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}

	te := errors.FromError(err)
	if te.Code != errors.CodeConfigNotFound {
		t.Errorf("expected CONFIG_NOT_FOUND, got %s", te.Code)
	}
}

// TestLoadInvalidTOML verifies parse failures surface as config errors.
func TestLoadInvalidTOML(t *testing.T) {
	path := writeConfig(t, `[target`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
	te := errors.FromError(err)
	if te.Code != errors.CodeConfigInvalid {
		t.Errorf("expected CONFIG_INVALID, got %s", te.Code)
	}
}

// TestLoadExpandsPaths verifies ~ and $VAR expansion on path values.
func TestLoadExpandsPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GAME_DIR", "/srv/games")

	path := writeConfig(t, `
[target]
path = "~/bin/run.sh"
working_directory = "$GAME_DIR/alpha"
port = 8123
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Target.Path != filepath.Join(home, "bin", "run.sh") {
		t.Errorf("expected ~ expanded, got %q", cfg.Target.Path)
	}
	if cfg.Target.WorkingDirectory != "/srv/games/alpha" {
		t.Errorf("expected $VAR expanded, got %q", cfg.Target.WorkingDirectory)
	}
}

// TestValidate verifies the settings checks that fail a load.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"zero target port allowed", func(c *Config) { c.Target.Port = 0 }, false},
		{"bad target port", func(c *Config) { c.Target.Port = 99999 }, true},
		{"empty host", func(c *Config) { c.Attach.Host = "" }, true},
		{"negative retries", func(c *Config) { c.Attach.ConnectRetries = -1 }, true},
		{"zero timeout", func(c *Config) { c.Attach.RequestTimeoutSeconds = 0 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

// TestProviderReadsAtTriggerTime verifies that the provider picks up config
// edits between invocations.
func TestProviderReadsAtTriggerTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[target]\npath = \"/opt/v1\"\nport = 8123\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	provider := NewProvider(path)

	base, err := provider.BaseConfiguration()
	if err != nil {
		t.Fatalf("BaseConfiguration failed: %v", err)
	}
	if base.Path != "/opt/v1" || base.Port != 8123 {
		t.Errorf("unexpected base: %+v", base)
	}

	if err := os.WriteFile(path, []byte("[target]\npath = \"/opt/v2\"\nport = 9000\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	base, err = provider.BaseConfiguration()
	if err != nil {
		t.Fatalf("BaseConfiguration failed: %v", err)
	}
	if base.Path != "/opt/v2" || base.Port != 9000 {
		t.Errorf("expected edited defaults at trigger time, got %+v", base)
	}
}

// TestInit verifies default config creation and the force flag.
func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	created, err := Init(path, false)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if created != path {
		t.Errorf("created path = %q, want %q", created, path)
	}

	// The generated file must load cleanly.
	if _, err := Load(path); err != nil {
		t.Errorf("generated config does not load: %v", err)
	}

	// Second init without force fails.
	if _, err := Init(path, false); err == nil {
		t.Error("expected error when config already exists")
	}

	// Force overwrites.
	if _, err := Init(path, true); err != nil {
		t.Errorf("Init with force failed: %v", err)
	}
}
