package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"platter/internal/fault"
	"platter/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check directories, the drive, and freedb servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)

			if ctx.JSONMode() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, r := range results {
					mark := "ok  "
					if !r.Passed {
						mark = "FAIL"
					}
					fmt.Fprintf(out, "[%s] %s: %s\n", mark, r.Name, r.Detail)
				}
			}
			if preflight.Failed(results) {
				return fault.Wrap(fault.ErrConfiguration, "cli", "check", "one or more checks failed", nil)
			}
			return nil
		},
	}
}
