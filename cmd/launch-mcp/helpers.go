package main

import (
	"github.com/ctagard/launch-mcp/internal/config"
	"github.com/ctagard/launch-mcp/internal/dap"
	"github.com/ctagard/launch-mcp/internal/trigger"
)

// newCoordinator wires a trigger coordinator from the loaded configuration.
// The caller owns the returned history and must Close it.
func newCoordinator() (*trigger.Coordinator, *trigger.History) {
	provider := config.NewProvider(configPath)
	launcher := trigger.NewOSLauncher()
	attach := dap.NewService(cfg.Attach)
	history := trigger.NewHistory(0, 0)
	return trigger.NewCoordinator(provider, launcher, attach, history), history
}
