package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipper/internal/preflight"
	"clipper/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, directories, and free space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			results := preflight.RunAll(cfg)
			for _, result := range results {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if !preflight.Passed(results) {
				return services.Wrap(services.ErrConfiguration, "cli", "doctor", "environment checks failed", nil)
			}
			fmt.Fprintln(out, "All checks passed.")
			return nil
		},
	}
}
