package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pbuild/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build",
		Aliases: []string{"build:parallel"},
		Short:   "Build the root and its targets in parallel",
		Long: "Build spawns one worker process per target, waits until every worker is ready and\n" +
			"then assigns builds within the concurrency limit. Targets are the packages listed in\n" +
			"pbuild.work.yaml (with --with-packages), then every --with path, then the root.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, _ := cmd.Flags().GetString("root")
			watch, _ := cmd.Flags().GetBool("watch")
			with, _ := cmd.Flags().GetStringArray("with")
			withPackages, _ := cmd.Flags().GetBool("with-packages")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			if ci, _ := cmd.Flags().GetBool("ci"); ci {
				outputMode = "linear"
			}

			req := domain.BuildRequest{
				Root:         root,
				With:         with,
				WithPackages: withPackages,
				Watch:        watch,
				Concurrency:  concurrency,
				MetricsAddr:  metricsAddr,
				Output:       outputMode,
			}

			// Only an explicit flag overrides the workspace file.
			if cmd.Flags().Changed("ready-timeout") {
				readyTimeout, _ := cmd.Flags().GetDuration("ready-timeout")
				req.ReadyTimeout = &readyTimeout
			}

			return c.app.Build(cmd.Context(), req)
		},
	}
	cmd.Flags().StringP("root", "r", ".", "Root directory of the build")
	cmd.Flags().BoolP("watch", "w", false, "Keep running and rebuild targets when their files change")
	cmd.Flags().StringArray("with", nil, "Additional target directory, relative to the root (repeatable)")
	cmd.Flags().Bool("with-packages", false, "Also build the packages listed in pbuild.work.yaml")
	cmd.Flags().IntP("concurrency", "c", 0, "Maximum number of simultaneous builds (default 1)")
	cmd.Flags().Duration("ready-timeout", domain.DefaultReadyTimeout,
		"How long to wait for every worker to become ready, 0 waits forever")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	return cmd
}
