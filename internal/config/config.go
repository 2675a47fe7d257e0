// Package config provides configuration management for launch-mcp.
//
// Configuration controls:
//   - Target defaults: the four persisted launch values (path, arguments,
//     working directory, port) a trigger starts from
//   - Attach settings: host, connect retries, and request timeout for the
//     debug-attach sequence
//   - Log settings: level and optional log file for the diagnostic sink
//
// Configuration is read from a TOML file, by default
// ~/.config/launch-mcp/config.toml. The target defaults are re-read at
// trigger time so edits take effect without restarting a running server;
// overrides passed to a single invocation never persist here.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ctagard/launch-mcp/internal/errors"
	"github.com/ctagard/launch-mcp/internal/launchconfig"
)

// Config holds the tool configuration.
type Config struct {
	Target TargetConfig `toml:"target"`
	Attach AttachConfig `toml:"attach"`
	Log    LogConfig    `toml:"log"`
}

// TargetConfig holds the persisted launch defaults. These are the values a
// trigger uses when no override string is given.
type TargetConfig struct {
	Path             string `toml:"path"`
	Arguments        string `toml:"arguments"`
	WorkingDirectory string `toml:"working_directory"`
	Port             int    `toml:"port"`
}

// AttachConfig holds settings for the debug-attach sequence.
type AttachConfig struct {
	// Host the attach connects to. The port always comes from the
	// resolved launch configuration.
	Host string `toml:"host"`

	// ConnectRetries is how many times to retry the TCP connect while the
	// target is still opening its port. 200ms between attempts.
	ConnectRetries int `toml:"connect_retries"`

	// RequestTimeoutSeconds bounds each request of the attach handshake.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`
}

// LogConfig holds diagnostic sink settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns a configuration with sensible defaults. The target
// defaults are empty: a fresh install has nothing to launch until the user
// fills them in or passes overrides.
func Default() *Config {
	return &Config{
		Attach: AttachConfig{
			Host:                  "127.0.0.1",
			ConnectRetries:        25,
			RequestTimeoutSeconds: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "launch-mcp", "config.toml"), nil
}

// Load reads configuration from path. An empty path means the default
// location; a missing file at the default location yields Default() so a
// fresh install works, while a missing file at an explicitly given path is
// an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, errors.ConfigNotFound(path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigInvalid(path, err.Error())
	}

	// Shells do not expand ~ or $VAR inside config files.
	cfg.Target.Path = expandPath(cfg.Target.Path)
	cfg.Target.WorkingDirectory = expandPath(cfg.Target.WorkingDirectory)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that would make every invocation fail. The target
// defaults themselves are validated per invocation, after overrides are
// applied, so an unconfigured fresh install still loads.
func (c *Config) Validate() error {
	if c.Target.Port != 0 && (c.Target.Port < 1 || c.Target.Port > 65535) {
		return errors.ConfigInvalid("target.port", fmt.Sprintf("%d is not a valid TCP port", c.Target.Port))
	}
	if c.Attach.Host == "" {
		return errors.ConfigInvalid("attach.host", "must not be empty")
	}
	if c.Attach.ConnectRetries < 0 {
		return errors.ConfigInvalid("attach.connect_retries", "must not be negative")
	}
	if c.Attach.RequestTimeoutSeconds < 1 {
		return errors.ConfigInvalid("attach.request_timeout_seconds", "must be at least 1")
	}
	return nil
}

// Base returns the persisted launch defaults as a fresh LaunchConfiguration
// value.
func (c *Config) Base() launchconfig.LaunchConfiguration {
	return launchconfig.LaunchConfiguration{
		Path:             c.Target.Path,
		WorkingDirectory: c.Target.WorkingDirectory,
		Arguments:        c.Target.Arguments,
		Port:             c.Target.Port,
	}
}

// Provider re-reads the persisted defaults at trigger time, so a
// long-running server picks up config edits without restarting. It is the
// configuration collaborator of a trigger invocation.
type Provider struct {
	path string
}

// NewProvider returns a Provider reading from path (empty means the default
// location).
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// BaseConfiguration reads the current persisted defaults and returns them as
// a fresh LaunchConfiguration for one invocation.
func (p *Provider) BaseConfiguration() (launchconfig.LaunchConfiguration, error) {
	cfg, err := Load(p.path)
	if err != nil {
		return launchconfig.LaunchConfiguration{}, err
	}
	return cfg.Base(), nil
}

// expandPath expands a leading ~ and any $VAR references. Empty input stays
// empty.
func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

const defaultConfig = `# launch-mcp configuration

[target]
# Filesystem path of the target to launch. The path is handed to the OS
# shell, so anything the shell can open works here, not just bare binaries.
# Override per invocation with -TargetPath=<value>.
# path = "/opt/game/run.sh"

# Raw argument string placed on the target's command line.
# Override per invocation with -TargetArguments=<value>.
# arguments = "-windowed"

# Directory the target starts in. Empty means the parent directory of path.
# Override per invocation with -WorkingDirectory=<value>.
# working_directory = ""

# TCP port the target opens for debug attach after it starts.
# Override per invocation with -TargetPort=<integer>.
# port = 8123

[attach]
# Host the debugger connects to. The port always comes from the resolved
# launch configuration.
host = "127.0.0.1"

# TCP connect attempts while the target is still opening its port, 200ms
# apart.
connect_retries = 25

# Timeout for each request of the attach handshake, in seconds.
request_timeout_seconds = 10

[log]
# One of: debug, info, warn, error.
level = "info"

# Optional log file. Diagnostics always go to stderr as well.
# file = "~/.local/state/launch-mcp/launch-mcp.log"
`

// Init writes a commented default config file. An empty path means the
// default location. Unless force is set, an existing file is an error.
func Init(path string, force bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config file already exists: %s", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}

	return path, nil
}
