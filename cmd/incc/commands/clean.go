package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/incc/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build state so the next build compiles everything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return c.app.Clean(cmd.Context(), app.CleanOptions{
				ConfigOptions: configOptions(cmd),
				All:           all,
			})
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Also remove every compiled artifact")
	return cmd
}
