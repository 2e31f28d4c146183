package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/incc/internal/app"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the dependency graph recorded by the last build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			return c.app.Graph(cmd.Context(), app.GraphOptions{
				ConfigOptions: configOptions(cmd),
				Format:        format,
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringP("format", "f", app.GraphFormatText, "Output format: text or yaml")
	return cmd
}
