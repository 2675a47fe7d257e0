package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newTriggerCmd() *cobra.Command {
	var overrides string

	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Run one launch-and-attach invocation",
		Args:  cobra.NoArgs,
		Long: `Run one invocation: resolve overrides against the persisted launch
configuration, start the target, and attach the debugger to its TCP
debug port. The target keeps running after the command returns, and is
left running even if the attach step fails.

Override tokens are case-insensitive on the key and apply to this
invocation only:

  -TargetPath=<path>          target to launch
  -TargetArguments=<string>   argument string (supports \n \t \" \\)
  -WorkingDirectory=<dir>     directory the target starts in
  -TargetPort=<integer>       TCP debug port to attach to

Values containing spaces go in double quotes. Unrecognized tokens are
ignored; a later duplicate of the same key wins.`,
		Example: `  launch-mcp trigger
  launch-mcp trigger --overrides '-TargetPort=9000'
  launch-mcp trigger --overrides '-TargetPath="/opt/game dir/run.sh" -TargetArguments="-level 3"'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			coordinator, history := newCoordinator()
			defer history.Close()

			result, err := coordinator.Execute(cmd.Context(), overrides)
			if err != nil {
				return err
			}

			payload, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(payload))
			return nil
		},
	}

	cmd.Flags().StringVarP(&overrides, "overrides", "o", "", "One-shot override tokens, e.g. '-TargetPort=9000'")

	return cmd
}
