// Package diag is the diagnostic sink for trigger invocations. Every
// failure an invocation can produce is reported here as a human-readable
// trace; nothing in the tool panics or retries on its own.
//
// Output goes to stderr by default because stdout carries the MCP protocol
// when the tool runs as a server. A log file can be added via Init.
package diag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ctagard/launch-mcp/internal/errors"
)

// Entry and Fields alias the underlying logrus types so callers do not
// import logrus directly.
type Entry = logrus.Entry
type Fields = logrus.Fields

var root = logrus.New()

func init() {
	root.SetOutput(os.Stderr)
	root.SetFormatter(plainFormatter{})
	root.SetLevel(logrus.InfoLevel)
}

// Init applies the configured level and optional log file. When logFile is
// non-empty the sink writes to both stderr and the file. Unknown level
// strings fall back to info.
func Init(level, logFile string) (io.Closer, error) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		root.SetLevel(lvl)
	}

	if logFile == "" {
		return nil, nil
	}

	f, err := openLogFile(logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}
	root.SetOutput(io.MultiWriter(os.Stderr, f))
	return f, nil
}

// Named returns an entry tagged with the originating component.
func Named(component string) *Entry {
	entry := logrus.NewEntry(root)
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return entry
}

// ReportFailure writes a terminal invocation failure to the sink as a
// human-readable trace. The error is unwrapped into its structured form so
// the code, hint, and details appear as fields. Failures are terminal for
// the invocation; the caller re-triggers manually.
func ReportFailure(entry *Entry, invocationID string, err error) {
	te := errors.FromError(err)

	fields := Fields{
		"invocation": invocationID,
		"code":       te.Code,
	}
	if te.Hint != "" {
		fields["hint"] = te.Hint
	}
	for k, v := range te.Details {
		fields[k] = v
	}

	entry.WithFields(fields).Error(te.Message)
}

// plainFormatter renders "[timestamp] [LEVEL] [component] message k=v ...".
type plainFormatter struct{}

// Format implements logrus.Formatter.
func (plainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry == nil {
		return []byte{}, nil
	}

	parts := make([]string, 0, 5)
	parts = append(parts, fmt.Sprintf("[%s]", entry.Time.UTC().Format(time.RFC3339)))
	parts = append(parts, fmt.Sprintf("[%s]", strings.ToUpper(entry.Level.String())))
	if component, ok := entry.Data["component"].(string); ok && component != "" {
		parts = append(parts, fmt.Sprintf("[%s]", component))
	}
	parts = append(parts, entry.Message)
	if fields := formatFields(entry.Data); fields != "" {
		parts = append(parts, fields)
	}

	return []byte(strings.Join(parts, " ") + "\n"), nil
}

func formatFields(fields logrus.Fields) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "component" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
