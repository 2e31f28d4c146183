package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild whenever a source changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := configOptions(cmd)
			opts.Debounce, _ = cmd.Flags().GetDuration("debounce")
			return c.app.Watch(cmd.Context(), opts)
		},
	}
	cmd.Flags().Duration("debounce", 0, "Quiet period before a rebuild (default from incc.yaml)")
	return cmd
}
