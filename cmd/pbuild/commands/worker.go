package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "worker",
		Short:  "Build one target for a running build (internal use)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("channel")
			target, _ := cmd.Flags().GetString("target")

			if target == "" {
				wd, err := os.Getwd()
				if err != nil {
					return zerr.Wrap(err, "failed to resolve working directory")
				}
				target = wd
			}

			return c.worker.Serve(cmd.Context(), addr, domain.Target(target))
		},
	}
	cmd.Flags().String("channel", "", "Address of the coordinator's message channel")
	cmd.Flags().String("target", "", "Target directory to build (default: working directory)")
	_ = cmd.MarkFlagRequired("channel")
	return cmd
}
