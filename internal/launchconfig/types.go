// Package launchconfig defines the launch configuration used by a trigger
// invocation and the override grammar that can replace parts of it for a
// single run without persisting the change.
package launchconfig

import (
	"fmt"
	"strings"

	"github.com/ctagard/launch-mcp/internal/errors"
)

// LaunchConfiguration holds the four values one invocation launches and
// attaches with. It is a plain value: resolving overrides produces a new
// instance and never mutates the one it started from.
type LaunchConfiguration struct {
	// Path is the filesystem path of the target to launch. Required.
	// It is handed to the OS shell, so it may be anything the shell can
	// open, not only a bare executable.
	Path string `json:"path"`

	// WorkingDirectory is the directory the target is started in. Empty
	// means "parent directory of Path", derived at start time.
	WorkingDirectory string `json:"workingDirectory,omitempty"`

	// Arguments is the raw argument string placed on the target's command
	// line. May be empty.
	Arguments string `json:"arguments,omitempty"`

	// Port is the TCP port the target is expected to open for debug
	// attach after it starts.
	Port int `json:"port"`
}

// OverrideKey identifies one of the four launch settings an override token
// may replace.
type OverrideKey int

const (
	// KeyTargetPath replaces LaunchConfiguration.Path.
	KeyTargetPath OverrideKey = iota
	// KeyTargetArguments replaces LaunchConfiguration.Arguments.
	KeyTargetArguments
	// KeyWorkingDirectory replaces LaunchConfiguration.WorkingDirectory.
	KeyWorkingDirectory
	// KeyTargetPort replaces LaunchConfiguration.Port.
	KeyTargetPort
)

// String returns the canonical spelling of the key as written in an
// override token.
func (k OverrideKey) String() string {
	switch k {
	case KeyTargetPath:
		return "TargetPath"
	case KeyTargetArguments:
		return "TargetArguments"
	case KeyWorkingDirectory:
		return "WorkingDirectory"
	case KeyTargetPort:
		return "TargetPort"
	}
	return fmt.Sprintf("OverrideKey(%d)", int(k))
}

// overrideKeys maps lowercased key spellings to their OverrideKey. The key
// portion of a token is lowercased before lookup, which is what makes
// matching case-insensitive.
var overrideKeys = map[string]OverrideKey{
	"targetpath":       KeyTargetPath,
	"targetarguments":  KeyTargetArguments,
	"workingdirectory": KeyWorkingDirectory,
	"targetport":       KeyTargetPort,
}

// Override is a single recognized `-Key=Value` pair parsed from an override
// token. Value is the raw value portion: quotes are not yet stripped and
// escapes not yet decoded.
type Override struct {
	Key   OverrideKey
	Value string
}

// ValidateConfiguration checks that a resolved configuration is launchable:
// a non-empty target path and a valid TCP port. WorkingDirectory and
// Arguments may both be empty.
func ValidateConfiguration(cfg LaunchConfiguration) error {
	if strings.TrimSpace(cfg.Path) == "" {
		return errors.ConfigInvalid("path", "target path must not be empty")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return errors.ConfigInvalid("port", fmt.Sprintf("%d is not a valid TCP port", cfg.Port))
	}
	return nil
}
