// Package trigger implements the launch-then-attach invocation: resolve
// one-shot overrides against the persisted launch configuration, start the
// target with operating-system launch semantics, and attach the debugger
// to the target's TCP debug port.
//
// An invocation moves through a fixed sequence of states (idle, resolving,
// starting, attaching, done) and any failure along the way parks it in the
// failed state. There is no retry and no rollback: a target that started
// before a later step failed is left running.
package trigger

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ctagard/launch-mcp/internal/diag"
	"github.com/ctagard/launch-mcp/internal/errors"
	"github.com/ctagard/launch-mcp/internal/launchconfig"
	"github.com/ctagard/launch-mcp/pkg/types"
)

// ConfigurationProvider supplies the persisted launch configuration an
// invocation starts from. It is consulted once per invocation, so edits to
// the underlying store take effect on the next trigger.
type ConfigurationProvider interface {
	BaseConfiguration() (launchconfig.LaunchConfiguration, error)
}

// Launcher starts the target. Implementations use operating-system launch
// semantics, so the path may name anything the OS can open, not only an
// executable.
type Launcher interface {
	Start(ctx context.Context, path, workingDirectory, arguments string) (types.StartedProcess, error)
}

// AttachService connects a debugger to the running target. Handles are
// created from the resolved port alone; whatever PID the launch step
// produced plays no part in attaching.
type AttachService interface {
	CreateProcessHandle(port int) types.ProcessHandle
	Attach(ctx context.Context, handle types.ProcessHandle) error
}

// Coordinator drives trigger invocations end to end and records each one
// in the invocation history.
type Coordinator struct {
	provider ConfigurationProvider
	launcher Launcher
	attach   AttachService
	history  *History
	log      *diag.Entry
}

// NewCoordinator wires a coordinator from its collaborators.
func NewCoordinator(provider ConfigurationProvider, launcher Launcher, attach AttachService, history *History) *Coordinator {
	return &Coordinator{
		provider: provider,
		launcher: launcher,
		attach:   attach,
		history:  history,
		log:      diag.Named("trigger"),
	}
}

// Execute runs one invocation: resolve the given override string against
// the persisted configuration, start the target, attach to its debug port.
// The returned result mirrors the history record; err is non-nil exactly
// when the invocation ended in the failed state, and has already been
// reported to the diagnostic sink.
func (c *Coordinator) Execute(ctx context.Context, overrides string) (types.TriggerResult, error) {
	record := types.InvocationRecord{
		ID:        uuid.New().String(),
		State:     types.StateIdle,
		StartedAt: time.Now().UTC(),
	}
	c.history.Put(record)

	log := c.log.WithField("invocation", record.ID)

	fail := func(err error) (types.TriggerResult, error) {
		record.State = types.StateFailed
		record.Error = err.Error()
		record.FinishedAt = time.Now().UTC()
		c.history.Put(record)
		diag.ReportFailure(c.log, record.ID, err)
		return resultFromRecord(record), err
	}

	// Resolving: fold the one-shot overrides over the persisted defaults.
	// A parse failure aborts before anything is started.
	record.State = types.StateResolving
	c.history.Put(record)

	base, err := c.provider.BaseConfiguration()
	if err != nil {
		return fail(err)
	}

	cfg, err := launchconfig.Resolve(base, launchconfig.Tokenize(overrides))
	if err != nil {
		return fail(err)
	}

	if err := launchconfig.ValidateConfiguration(cfg); err != nil {
		return fail(err)
	}

	// An empty working directory falls back to the directory containing
	// the resolved target. Derived here, after overrides are applied, so a
	// path override moves the fallback with it.
	workingDirectory := cfg.WorkingDirectory
	if workingDirectory == "" {
		workingDirectory = filepath.Dir(cfg.Path)
	}

	record.Path = cfg.Path
	record.WorkingDirectory = workingDirectory
	record.Arguments = cfg.Arguments
	record.Port = cfg.Port
	c.history.Put(record)

	log.WithFields(diag.Fields{"path": cfg.Path, "port": cfg.Port}).Info("configuration resolved")

	// Starting: hand the target to the OS.
	record.State = types.StateStarting
	c.history.Put(record)

	started, err := c.launcher.Start(ctx, cfg.Path, workingDirectory, cfg.Arguments)
	if err != nil {
		return fail(errors.LaunchFailed(cfg.Path, err))
	}

	record.PID = started.PID
	c.history.Put(record)

	log.WithField("pid", started.PID).Info("target started")

	// Attaching: the handle is built from the resolved port, never from
	// the PID the launch step reported. An attach failure leaves the
	// started target running.
	record.State = types.StateAttaching
	c.history.Put(record)

	handle := c.attach.CreateProcessHandle(cfg.Port)
	if err := c.attach.Attach(ctx, handle); err != nil {
		return fail(err)
	}

	record.State = types.StateDone
	record.FinishedAt = time.Now().UTC()
	c.history.Put(record)

	log.WithField("port", cfg.Port).Info("trigger complete")

	return resultFromRecord(record), nil
}

func resultFromRecord(record types.InvocationRecord) types.TriggerResult {
	return types.TriggerResult{
		InvocationID:     record.ID,
		State:            record.State,
		Path:             record.Path,
		WorkingDirectory: record.WorkingDirectory,
		Port:             record.Port,
		PID:              record.PID,
		Error:            record.Error,
	}
}
