// Package commands implements the CLI commands for the incc compilation driver.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/incc/internal/app"
	"go.trai.ch/incc/internal/build"
)

// CLI represents the command line interface for incc.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.ConfigOptions) error
	Watch(ctx context.Context, opts app.ConfigOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
	Graph(ctx context.Context, opts app.GraphOptions, w io.Writer) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "incc",
		Short:         "An incremental compilation driver",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to the configuration file (default incc.yaml)")
	flags.StringP("source-dir", "s", "", "Root directory of the source units")
	flags.StringP("artifact-dir", "d", "", "Root directory of the compiled artifacts")
	flags.String("state", "", "Build state backend: file or sqlite")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newGraphCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// configOptions reads the persistent settings flags.
func configOptions(cmd *cobra.Command) app.ConfigOptions {
	configFile, _ := cmd.Flags().GetString("config")
	sourceDir, _ := cmd.Flags().GetString("source-dir")
	artifactDir, _ := cmd.Flags().GetString("artifact-dir")
	state, _ := cmd.Flags().GetString("state")

	return app.ConfigOptions{
		ConfigFile:  configFile,
		SourceDir:   sourceDir,
		ArtifactDir: artifactDir,
		State:       state,
	}
}
