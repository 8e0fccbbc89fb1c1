package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerquest/internal/screens/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show level, experience and per-career progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ov, err := e.svc.Overview(cmd.Context(), e.userID, e.catalog.Careers())
		if err != nil {
			return fmt.Errorf("load overview: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), stats.RenderOverview(ov, 60))
		return nil
	},
}
