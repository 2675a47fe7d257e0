// Package types defines shared data types used across the launch-mcp tool.
//
// This package provides type definitions for:
//   - InvocationState: the phases of a trigger invocation (idle, resolving,
//     starting, attaching, done, failed)
//   - ProcessHandle: the port-keyed reference handed to the attach service
//   - StartedProcess: what the launcher reports back after a start
//   - InvocationRecord / TriggerResult: observability DTOs for the MCP tools
//     and the CLI
//
// These types are used throughout the codebase to maintain type safety
// and provide clear contracts between components.
package types

import "time"

// InvocationState represents the phase a trigger invocation is in. The
// states form a line: idle, resolving, starting, attaching, done. Failed
// absorbs from resolving, starting, and attaching; there is no retry state.
type InvocationState string

const (
	StateIdle      InvocationState = "idle"
	StateResolving InvocationState = "resolving"
	StateStarting  InvocationState = "starting"
	StateAttaching InvocationState = "attaching"
	StateDone      InvocationState = "done"
	StateFailed    InvocationState = "failed"
)

// ProcessHandle is a reference to a running process believed to be listening
// for debug attach. It is keyed by port alone: the PID of whatever the
// launcher started never appears here, because the target may fork or
// relaunch itself under a different PID before opening its debug port.
type ProcessHandle struct {
	// ID identifies the handle in logs and invocation records.
	ID string `json:"id"`

	// Port is the TCP port the attach connects to. This is the sole
	// correlation between the launched process and the attach target.
	Port int `json:"port"`

	// Address is the full dial address, host included.
	Address string `json:"address"`
}

// StartedProcess describes the process the launcher spawned. The PID is
// informational only; nothing downstream keys on it.
type StartedProcess struct {
	PID  int    `json:"pid"`
	Path string `json:"path"`
}

// InvocationRecord is one entry in the trigger history.
type InvocationRecord struct {
	ID               string          `json:"id"`
	State            InvocationState `json:"state"`
	Path             string          `json:"path"`
	WorkingDirectory string          `json:"workingDirectory,omitempty"`
	Arguments        string          `json:"arguments,omitempty"`
	Port             int             `json:"port"`
	PID              int             `json:"pid,omitempty"`
	Error            string          `json:"error,omitempty"`
	StartedAt        time.Time       `json:"startedAt"`
	FinishedAt       time.Time       `json:"finishedAt,omitempty"`
}

// TriggerResult is the outcome of one trigger invocation as reported to the
// caller.
type TriggerResult struct {
	InvocationID     string          `json:"invocationId"`
	State            InvocationState `json:"state"`
	Path             string          `json:"path"`
	WorkingDirectory string          `json:"workingDirectory,omitempty"`
	Port             int             `json:"port"`
	PID              int             `json:"pid,omitempty"`
	Error            string          `json:"error,omitempty"`
}
