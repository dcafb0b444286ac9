// Package commands implements the CLI commands for the pbuild parallel build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/pbuild/internal/build"
	"go.trai.ch/pbuild/internal/core/domain"
)

// CLI represents the command line interface for pbuild.
type CLI struct {
	app     Application
	worker  Worker
	logs    LogFormat
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, req domain.BuildRequest) error
}

// Worker is the agent run inside each spawned worker process.
type Worker interface {
	Serve(ctx context.Context, addr string, target domain.Target) error
}

// LogFormat switches the logger between pretty and JSON records.
type LogFormat interface {
	SetJSON(enable bool)
}

// New creates a new CLI instance. logs may be nil, in which case --log-json has no effect.
func New(a Application, w Worker, logs LogFormat) *CLI {
	rootCmd := &cobra.Command{
		Use:           "pbuild",
		Short:         "Build many targets in parallel, one worker process per target",
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

	rootCmd.PersistentFlags().Bool("log-json", false, "Write log records as JSON")

	c := &CLI{
		app:     a,
		worker:  w,
		logs:    logs,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if c.logs != nil && jsonLogs {
			c.logs.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newWorkerCmd())
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
