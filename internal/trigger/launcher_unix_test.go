//go:build !windows

package trigger

import (
	"context"
	"testing"
)

// TestShellQuote covers the quoting the launcher applies to the target
// path before handing it to the shell.
func TestShellQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain path", "/opt/game/run.sh", "'/opt/game/run.sh'"},
		{"path with spaces", "/opt/my game/run.sh", "'/opt/my game/run.sh'"},
		{"embedded single quote", "/opt/it's here/run", `'/opt/it'\''s here/run'`},
		{"empty", "", "''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shellQuote(tt.in); got != tt.want {
				t.Errorf("shellQuote(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestOSLauncherStart starts a short-lived shell command and checks that
// the informational PID comes back.
func TestOSLauncherStart(t *testing.T) {
	launcher := NewOSLauncher()

	started, err := launcher.Start(context.Background(), "/bin/sh", t.TempDir(), "-c 'exit 0'")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if started.PID <= 0 {
		t.Errorf("started.PID = %d, want a real PID", started.PID)
	}
	if started.Path != "/bin/sh" {
		t.Errorf("started.Path = %q, want /bin/sh", started.Path)
	}
}

// TestOSLauncherStartBadWorkingDirectory verifies that a missing working
// directory surfaces as a start error.
func TestOSLauncherStartBadWorkingDirectory(t *testing.T) {
	launcher := NewOSLauncher()

	if _, err := launcher.Start(context.Background(), "/bin/sh", "/nonexistent/launch-dir", "-c 'exit 0'"); err == nil {
		t.Fatal("Start() succeeded with a nonexistent working directory")
	}
}

// TestOSLauncherStartCancelledContext verifies that nothing is started
// once the invocation context is gone.
func TestOSLauncherStartCancelledContext(t *testing.T) {
	launcher := NewOSLauncher()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := launcher.Start(ctx, "/bin/sh", "", "-c 'exit 0'"); err == nil {
		t.Fatal("Start() succeeded with a cancelled context")
	}
}
