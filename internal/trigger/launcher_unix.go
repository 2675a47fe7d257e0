//go:build !windows

package trigger

import (
	"os/exec"
	"strings"
	"syscall"
)

// launchCommand builds the platform command for starting a target. On Unix
// the path and the raw arguments string are handed to the shell, which
// gives the arguments the same word-splitting and quoting treatment a
// terminal would. The child gets its own session so it survives the
// trigger process.
func launchCommand(path, arguments string) *exec.Cmd {
	commandLine := shellQuote(path)
	if arguments != "" {
		commandLine += " " + arguments
	}

	//nolint:gosec // G204: starting a user-configured target is the point of this tool
	cmd := exec.Command("/bin/sh", "-c", commandLine)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return cmd
}

// shellQuote wraps s in single quotes for POSIX sh, escaping embedded
// single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
