package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/ctagard/launch-mcp/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the persisted launch configuration",
		Long: `Manage the persisted launch configuration.

The config file holds the target defaults every trigger starts from
(path, arguments, working directory, debug port) plus attach and
logging settings. Default location: ~/.config/launch-mcp/config.toml`,
		Example: `  launch-mcp config init   # Create a commented default config
  launch-mcp config show   # Show the effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Args:  cobra.NoArgs,
		Long: `Create a commented default config file at the default location, or at
the path given with --config.`,
		Example: `  launch-mcp config init
  launch-mcp config init -f
  launch-mcp config init --config ./launch-mcp.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Init(configPath, force)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s\n", path)
			fmt.Println("Edit it to set the target path and debug port.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show the configuration the next trigger starts from, defaults filled
in, as TOML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}
}
