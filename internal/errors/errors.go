// Package errors provides structured error types for the launch-and-attach
// trigger. These errors include hints that tell the caller what to fix or
// re-check before triggering again; a failed invocation is never retried
// automatically.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a category of error for programmatic handling
type ErrorCode string

const (
	// Override resolution errors
	CodeOverrideParse ErrorCode = "OVERRIDE_PARSE_FAILED"

	// Launch errors
	CodeLaunchFailed ErrorCode = "LAUNCH_FAILED"

	// Attach errors
	CodeAttachFailed  ErrorCode = "ATTACH_FAILED"
	CodeAttachTimeout ErrorCode = "ATTACH_TIMEOUT"
	CodeConnectFailed ErrorCode = "CONNECT_FAILED"

	// Parameter errors
	CodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	CodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// Configuration errors
	CodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	CodeConfigInvalid  ErrorCode = "CONFIG_INVALID"
)

// TriggerError is a structured error type that includes enough information
// for the caller to understand which phase of an invocation went wrong and
// how to fix it.
type TriggerError struct {
	// Code is a machine-readable error category
	Code ErrorCode `json:"code"`

	// Message is a human-readable description of what went wrong
	Message string `json:"message"`

	// Hint provides actionable guidance on how to fix the error
	Hint string `json:"hint,omitempty"`

	// Details contains additional context (e.g., the offending token or port)
	Details map[string]interface{} `json:"details,omitempty"`

	// Cause is the underlying error, if any
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *TriggerError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Hint != "" {
		sb.WriteString(" | Hint: ")
		sb.WriteString(e.Hint)
	}

	return sb.String()
}

// Unwrap returns the underlying error for error chaining
func (e *TriggerError) Unwrap() error {
	return e.Cause
}

// WithDetails adds details to the error
func (e *TriggerError) WithDetails(key string, value interface{}) *TriggerError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *TriggerError) WithCause(err error) *TriggerError {
	e.Cause = err
	return e
}

// --- Override Resolution Errors ---

// OverrideParseFailed creates an error for an override token whose value
// cannot be parsed. Resolution aborts on the first such token; no launch is
// attempted with a partially resolved configuration.
func OverrideParseFailed(token string, err error) *TriggerError {
	return &TriggerError{
		Code:    CodeOverrideParse,
		Message: fmt.Sprintf("failed to parse override token '%s': %v", token, err),
		Hint:    "The -TargetPort= value must be a base-10 integer, e.g. -TargetPort=8123.",
		Cause:   err,
		Details: map[string]interface{}{
			"token": token,
		},
	}
}

// --- Launch Errors ---

// LaunchFailed creates an error for a target executable that could not be
// started (missing file, permission denied, OS-level failure).
func LaunchFailed(path string, err error) *TriggerError {
	return &TriggerError{
		Code:    CodeLaunchFailed,
		Message: fmt.Sprintf("failed to start target '%s': %v", path, err),
		Hint:    "Check that the target path exists and is something the OS shell can open. Override it for one invocation with -TargetPath=<path>.",
		Cause:   err,
		Details: map[string]interface{}{
			"path": path,
		},
	}
}

// --- Attach Errors ---

// AttachFailed creates an error when the debugger could not attach to the
// resolved port. The already-started target is left running.
func AttachFailed(port int, err error) *TriggerError {
	return &TriggerError{
		Code:    CodeAttachFailed,
		Message: fmt.Sprintf("failed to attach to port %d: %v", port, err),
		Hint:    "Ensure the target opens its debug port after launch and that the port matches. The started process is left running; re-trigger after fixing the port.",
		Cause:   err,
		Details: map[string]interface{}{
			"port": port,
		},
	}
}

// AttachTimeout creates an error for attach-sequence timeouts
func AttachTimeout(operation string, timeoutSeconds int) *TriggerError {
	return &TriggerError{
		Code:    CodeAttachTimeout,
		Message: fmt.Sprintf("%s timed out after %d seconds", operation, timeoutSeconds),
		Hint:    "The target accepted the connection but did not answer the debug handshake in time. It may still be starting up; re-trigger once it is ready.",
		Details: map[string]interface{}{
			"operation":      operation,
			"timeoutSeconds": timeoutSeconds,
		},
	}
}

// ConnectFailed creates an error when no listener answers on the attach
// address.
func ConnectFailed(address string, err error) *TriggerError {
	return &TriggerError{
		Code:    CodeConnectFailed,
		Message: fmt.Sprintf("failed to connect to debug port at %s: %v", address, err),
		Hint:    "No process is listening on the configured port. The target may have crashed on startup or opens its port later than the retry window.",
		Cause:   err,
		Details: map[string]interface{}{
			"address": address,
		},
	}
}

// --- Parameter Errors ---

// MissingParameter creates an error for missing required parameters
func MissingParameter(paramName, description string) *TriggerError {
	return &TriggerError{
		Code:    CodeMissingParameter,
		Message: fmt.Sprintf("required parameter '%s' is missing", paramName),
		Hint:    description,
		Details: map[string]interface{}{
			"parameter": paramName,
		},
	}
}

// InvalidParameter creates an error for invalid parameter values
func InvalidParameter(paramName string, value interface{}, expected string) *TriggerError {
	return &TriggerError{
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf("invalid value for parameter '%s': %v", paramName, value),
		Hint:    fmt.Sprintf("Expected: %s", expected),
		Details: map[string]interface{}{
			"parameter": paramName,
			"value":     value,
			"expected":  expected,
		},
	}
}

// --- Configuration Errors ---

// ConfigNotFound creates an error for a missing config file
func ConfigNotFound(path string, err error) *TriggerError {
	return &TriggerError{
		Code:    CodeConfigNotFound,
		Message: fmt.Sprintf("configuration file '%s' not found", path),
		Hint:    "Run 'launch-mcp config init' to create a default configuration, or pass --config with the file location.",
		Cause:   err,
		Details: map[string]interface{}{
			"path": path,
		},
	}
}

// ConfigInvalid creates an error for invalid configuration values
func ConfigInvalid(field, reason string) *TriggerError {
	return &TriggerError{
		Code:    CodeConfigInvalid,
		Message: fmt.Sprintf("configuration field '%s' is invalid: %s", field, reason),
		Hint:    "Fix the value in the config file, or override it for one invocation with the matching -Key=Value override.",
		Details: map[string]interface{}{
			"field":  field,
			"reason": reason,
		},
	}
}

// --- Kind predicates ---

// IsParseError reports whether err is an override parse failure.
func IsParseError(err error) bool {
	return hasCode(err, CodeOverrideParse)
}

// IsLaunchError reports whether err is a target start failure.
func IsLaunchError(err error) bool {
	return hasCode(err, CodeLaunchFailed)
}

// IsAttachError reports whether err came from the attach sequence.
func IsAttachError(err error) bool {
	return hasCode(err, CodeAttachFailed) || hasCode(err, CodeAttachTimeout) || hasCode(err, CodeConnectFailed)
}

func hasCode(err error, code ErrorCode) bool {
	var te *TriggerError
	if stderrors.As(err, &te) {
		return te.Code == code
	}
	return false
}

// --- Helper for wrapping generic errors ---

// Wrap wraps a generic error with context
func Wrap(code ErrorCode, message string, hint string, err error) *TriggerError {
	return &TriggerError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   err,
	}
}

// FromError creates a TriggerError from a generic error, attempting to
// preserve any existing structure
func FromError(err error) *TriggerError {
	var te *TriggerError
	if stderrors.As(err, &te) {
		return te
	}
	return &TriggerError{
		Code:    "UNKNOWN_ERROR",
		Message: err.Error(),
		Hint:    "An unexpected error occurred. Please check the error message for details.",
		Cause:   err,
	}
}
