//go:build windows

package trigger

import (
	"fmt"
	"os/exec"
	"syscall"
)

// launchCommand builds the platform command for starting a target. On
// Windows the path goes through cmd's "start", which resolves file
// associations the way Explorer does; the quoted empty string fills the
// window-title slot so a quoted path is not mistaken for a title. The raw
// command line is handed to cmd verbatim via SysProcAttr so the arguments
// string keeps whatever quoting the user wrote.
func launchCommand(path, arguments string) *exec.Cmd {
	commandLine := fmt.Sprintf(`cmd /C start "" "%s"`, path)
	if arguments != "" {
		commandLine += " " + arguments
	}

	cmd := exec.Command("cmd")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine:       commandLine,
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
	return cmd
}
