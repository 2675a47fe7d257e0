package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ctagard/launch-mcp/internal/config"
	"github.com/ctagard/launch-mcp/internal/diag"
	"github.com/ctagard/launch-mcp/internal/version"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Shared state injected into commands
	cfg       *config.Config
	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "launch-mcp",
	Short: "Launch a target executable and attach a debugger to its TCP debug port",
	Long: `launch-mcp starts a configured target the way the operating system would
and attaches a Debug Adapter Protocol debugger to the TCP port the target
opens for debugging.

The persisted launch configuration (target path, arguments, working
directory, debug port) lives in a TOML file. Any value can be overridden
for a single invocation with -Key=Value tokens; the file is never changed
by an override. Run one invocation with 'trigger', or expose the same
operation to MCP clients with 'serve'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		// Commands that must work without a loadable config file.
		case "help", "completion", "__complete", "init", "version":
			return nil
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}

		closer, err := diag.Init(level, cfg.Log.File)
		if err != nil {
			return err
		}
		logCloser = closer
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.config/launch-mcp/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Version flag
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate("launch-mcp {{.Version}}\n")

	rootCmd.AddCommand(newTriggerCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}
