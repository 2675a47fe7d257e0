package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ctagard/launch-mcp/internal/version"
)

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Example: `  launch-mcp version
  launch-mcp version --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("launch-mcp %s\n", version.Version)

			if !check {
				return nil
			}

			info := version.NewChecker().CheckForUpdates(cmd.Context())
			if info.Error != "" {
				return fmt.Errorf("update check failed: %s", info.Error)
			}
			if msg := info.UpdateMessage(); msg != "" {
				fmt.Println(msg)
				return nil
			}
			fmt.Println("launch-mcp is up to date")
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")

	return cmd
}
