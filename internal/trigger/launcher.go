package trigger

import (
	"context"
	"os"

	"github.com/ctagard/launch-mcp/internal/diag"
	"github.com/ctagard/launch-mcp/pkg/types"
)

// OSLauncher starts targets with the platform's own launch semantics: the
// path goes to the shell (or to the association machinery on Windows), so
// anything the operating system can open is a valid target. The arguments
// string is appended to the command line verbatim.
type OSLauncher struct {
	log *diag.Entry
}

// NewOSLauncher creates a launcher that starts targets through the OS.
func NewOSLauncher() *OSLauncher {
	return &OSLauncher{log: diag.Named("launch")}
}

// Start launches the target detached from the calling process. The target
// owns its own lifetime: it is deliberately not bound to ctx and nothing
// ever kills it on behalf of a failed invocation. The returned PID is
// informational only; attaching identifies the target by port.
func (l *OSLauncher) Start(ctx context.Context, path, workingDirectory, arguments string) (types.StartedProcess, error) {
	if err := ctx.Err(); err != nil {
		return types.StartedProcess{}, err
	}

	cmd := launchCommand(path, arguments)
	cmd.Dir = workingDirectory
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return types.StartedProcess{}, err
	}

	pid := 0
	if cmd.Process != nil {
		pid = cmd.Process.Pid
	}

	// Reap the child when it exits so it never lingers as a zombie. Its
	// exit status does not feed back into the invocation.
	go func() {
		_ = cmd.Wait()
	}()

	l.log.WithFields(diag.Fields{"path": path, "dir": workingDirectory, "pid": pid}).Debug("start issued")

	return types.StartedProcess{PID: pid, Path: path}, nil
}
