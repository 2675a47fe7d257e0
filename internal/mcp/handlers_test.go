package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ctagard/launch-mcp/internal/launchconfig"
	"github.com/ctagard/launch-mcp/internal/trigger"
	"github.com/ctagard/launch-mcp/pkg/types"
)

type fakeProvider struct {
	base launchconfig.LaunchConfiguration
	err  error
}

func (f *fakeProvider) BaseConfiguration() (launchconfig.LaunchConfiguration, error) {
	return f.base, f.err
}

type fakeLauncher struct {
	calls int
	pid   int
	err   error
}

func (f *fakeLauncher) Start(ctx context.Context, path, workingDirectory, arguments string) (types.StartedProcess, error) {
	f.calls++
	if f.err != nil {
		return types.StartedProcess{}, f.err
	}
	return types.StartedProcess{PID: f.pid, Path: path}, nil
}

type fakeAttach struct {
	calls int
	port  int
	err   error
}

func (f *fakeAttach) CreateProcessHandle(port int) types.ProcessHandle {
	return types.ProcessHandle{ID: "test-handle", Port: port, Address: fmt.Sprintf("127.0.0.1:%d", port)}
}

func (f *fakeAttach) Attach(ctx context.Context, handle types.ProcessHandle) error {
	f.calls++
	f.port = handle.Port
	return f.err
}

func newTestServer(t *testing.T, provider trigger.ConfigurationProvider, launcher trigger.Launcher, attach trigger.AttachService, configPath string) *Server {
	t.Helper()
	history := trigger.NewHistory(16, time.Minute)
	t.Cleanup(history.Close)
	coordinator := trigger.NewCoordinator(provider, launcher, attach, history)
	return NewServer(coordinator, history, configPath)
}

func testBase() launchconfig.LaunchConfiguration {
	return launchconfig.LaunchConfiguration{
		Path:             "/opt/game/run.sh",
		WorkingDirectory: "/opt/game",
		Arguments:        "-windowed",
		Port:             8123,
	}
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

// TestHandleDebugTrigger runs the trigger tool without overrides and checks
// the returned invocation record.
func TestHandleDebugTrigger(t *testing.T) {
	launcher := &fakeLauncher{pid: 4242}
	attach := &fakeAttach{}
	s := newTestServer(t, &fakeProvider{base: testBase()}, launcher, attach, "")

	result, err := s.handleDebugTrigger(context.Background(), toolRequest("debug_trigger", nil))
	if err != nil {
		t.Fatalf("handleDebugTrigger returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error result: %s", resultText(t, result))
	}

	var triggered types.TriggerResult
	if err := json.Unmarshal([]byte(resultText(t, result)), &triggered); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}

	if triggered.State != types.StateDone {
		t.Errorf("expected state %q, got %q", types.StateDone, triggered.State)
	}
	if triggered.InvocationID == "" {
		t.Error("expected an invocation ID")
	}
	if triggered.Port != 8123 {
		t.Errorf("expected port 8123, got %d", triggered.Port)
	}
	if triggered.PID != 4242 {
		t.Errorf("expected pid 4242, got %d", triggered.PID)
	}
	if attach.calls != 1 {
		t.Errorf("expected one attach, got %d", attach.calls)
	}
}

// TestHandleDebugTriggerWithOverrides passes a one-shot override string and
// checks it reaches the invocation.
func TestHandleDebugTriggerWithOverrides(t *testing.T) {
	launcher := &fakeLauncher{pid: 1}
	attach := &fakeAttach{}
	s := newTestServer(t, &fakeProvider{base: testBase()}, launcher, attach, "")

	request := toolRequest("debug_trigger", map[string]interface{}{
		"overrides": `-TargetPort=9000 -TargetArguments="-level 3"`,
	})

	result, err := s.handleDebugTrigger(context.Background(), request)
	if err != nil {
		t.Fatalf("handleDebugTrigger returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error result: %s", resultText(t, result))
	}

	var triggered types.TriggerResult
	if err := json.Unmarshal([]byte(resultText(t, result)), &triggered); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}

	if triggered.Port != 9000 {
		t.Errorf("expected overridden port 9000, got %d", triggered.Port)
	}
	if attach.port != 9000 {
		t.Errorf("expected attach on port 9000, got %d", attach.port)
	}
}

// TestHandleDebugTriggerFailure checks a failed invocation comes back as an
// error result carrying the invocation ID for trigger_history lookup.
func TestHandleDebugTriggerFailure(t *testing.T) {
	launcher := &fakeLauncher{err: fmt.Errorf("no such file")}
	attach := &fakeAttach{}
	s := newTestServer(t, &fakeProvider{base: testBase()}, launcher, attach, "")

	result, err := s.handleDebugTrigger(context.Background(), toolRequest("debug_trigger", nil))
	if err != nil {
		t.Fatalf("handler errors surface as tool results, got: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result")
	}

	message := resultText(t, result)
	if !strings.Contains(message, "no such file") {
		t.Errorf("expected the launch failure in the message, got %q", message)
	}
	if !strings.Contains(message, "invocation ") {
		t.Errorf("expected the invocation ID in the message, got %q", message)
	}
	if attach.calls != 0 {
		t.Errorf("expected no attach after launch failure, got %d", attach.calls)
	}
}

// TestHandleTriggerHistory lists past invocations and fetches one by ID.
func TestHandleTriggerHistory(t *testing.T) {
	launcher := &fakeLauncher{pid: 7}
	s := newTestServer(t, &fakeProvider{base: testBase()}, launcher, &fakeAttach{}, "")

	for i := 0; i < 2; i++ {
		if _, err := s.handleDebugTrigger(context.Background(), toolRequest("debug_trigger", nil)); err != nil {
			t.Fatalf("trigger %d failed: %v", i, err)
		}
	}

	result, err := s.handleTriggerHistory(context.Background(), toolRequest("trigger_history", nil))
	if err != nil {
		t.Fatalf("handleTriggerHistory returned error: %v", err)
	}

	var listing struct {
		Invocations []types.InvocationRecord `json:"invocations"`
		Count       int                      `json:"count"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &listing); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if listing.Count != 2 || len(listing.Invocations) != 2 {
		t.Fatalf("expected 2 invocations, got count=%d len=%d", listing.Count, len(listing.Invocations))
	}

	request := toolRequest("trigger_history", map[string]interface{}{
		"invocationId": listing.Invocations[0].ID,
	})
	result, err = s.handleTriggerHistory(context.Background(), request)
	if err != nil {
		t.Fatalf("handleTriggerHistory by ID returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error result: %s", resultText(t, result))
	}

	var record types.InvocationRecord
	if err := json.Unmarshal([]byte(resultText(t, result)), &record); err != nil {
		t.Fatalf("failed to decode record: %v", err)
	}
	if record.ID != listing.Invocations[0].ID {
		t.Errorf("expected record %s, got %s", listing.Invocations[0].ID, record.ID)
	}
	if record.State != types.StateDone {
		t.Errorf("expected state %q, got %q", types.StateDone, record.State)
	}
}

// TestHandleTriggerHistoryUnknownID checks the error result for a lookup of
// an ID that was never issued.
func TestHandleTriggerHistoryUnknownID(t *testing.T) {
	s := newTestServer(t, &fakeProvider{base: testBase()}, &fakeLauncher{}, &fakeAttach{}, "")

	request := toolRequest("trigger_history", map[string]interface{}{
		"invocationId": "does-not-exist",
	})
	result, err := s.handleTriggerHistory(context.Background(), request)
	if err != nil {
		t.Fatalf("handleTriggerHistory returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result for unknown invocation ID")
	}
	if message := resultText(t, result); !strings.Contains(message, "does-not-exist") {
		t.Errorf("expected the unknown ID in the message, got %q", message)
	}
}

// TestHandleConfigShow reads a config file and reports the persisted values.
func TestHandleConfigShow(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[target]
path = "/opt/game/run.sh"
arguments = "-windowed"
port = 8123

[attach]
host = "127.0.0.1"
connect_retries = 5
request_timeout_seconds = 3
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	s := newTestServer(t, &fakeProvider{base: testBase()}, &fakeLauncher{}, &fakeAttach{}, configPath)

	result, err := s.handleConfigShow(context.Background(), toolRequest("config_show", nil))
	if err != nil {
		t.Fatalf("handleConfigShow returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error result: %s", resultText(t, result))
	}

	var shown struct {
		ConfigFile string `json:"configFile"`
		Target     struct {
			Path string `json:"path"`
			Port int    `json:"port"`
		} `json:"target"`
		Attach struct {
			Host           string `json:"host"`
			ConnectRetries int    `json:"connectRetries"`
		} `json:"attach"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &shown); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}

	if shown.ConfigFile != configPath {
		t.Errorf("expected config file %q, got %q", configPath, shown.ConfigFile)
	}
	if shown.Target.Path != "/opt/game/run.sh" {
		t.Errorf("unexpected target path %q", shown.Target.Path)
	}
	if shown.Target.Port != 8123 {
		t.Errorf("unexpected target port %d", shown.Target.Port)
	}
	if shown.Attach.Host != "127.0.0.1" {
		t.Errorf("unexpected attach host %q", shown.Attach.Host)
	}
	if shown.Attach.ConnectRetries != 5 {
		t.Errorf("unexpected connect retries %d", shown.Attach.ConnectRetries)
	}
}

// TestHandleConfigShowMissingFile checks an explicitly named but missing
// config file comes back as an error result.
func TestHandleConfigShowMissingFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing.toml")
	s := newTestServer(t, &fakeProvider{base: testBase()}, &fakeLauncher{}, &fakeAttach{}, configPath)

	result, err := s.handleConfigShow(context.Background(), toolRequest("config_show", nil))
	if err != nil {
		t.Fatalf("handleConfigShow returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result for missing config file")
	}
}
