package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ctagard/launch-mcp/internal/diag"
	"github.com/ctagard/launch-mcp/internal/mcp"
	"github.com/ctagard/launch-mcp/internal/version"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trigger to MCP clients over stdio",
		Args:  cobra.NoArgs,
		Long: `Serve the launch-and-attach trigger as a Model Context Protocol server
over stdio. MCP clients get three tools: debug_trigger, trigger_history,
and config_show.

Add it to an MCP client configuration, for example:

  {
    "mcpServers": {
      "launch-mcp": {
        "command": "launch-mcp",
        "args": ["serve"]
      }
    }
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			checker := version.NewChecker()
			checker.CheckForUpdatesAsync()

			coordinator, history := newCoordinator()
			server := mcp.NewServer(coordinator, history, configPath)
			defer server.Close()

			if err := server.ServeStdio(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			if checker.HasChecked() {
				if info := checker.GetUpdateInfo(); info != nil {
					if msg := info.UpdateMessage(); msg != "" {
						diag.Named("version").Info(msg)
					}
				}
			}
			return nil
		},
	}

	return cmd
}
