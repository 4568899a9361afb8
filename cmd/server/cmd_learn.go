package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/learning"
)

func newLearnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Run one learning cycle against the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.controller.Run(cmd.Context())
			if res.Outcome == learning.OutcomeFailed {
				return fmt.Errorf("learning cycle failed: %w", res.Err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Outcome: %s (%d documents)\n", res.Outcome, res.Documents)
			if res.State != nil {
				fmt.Fprintf(out, "Version: %s\nAverage quality: %.3f\n", res.State.Version, res.State.AverageQuality)
			}
			return nil
		},
	}
	return cmd
}
