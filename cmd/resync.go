package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerquest/internal/catalog"
)

var resyncCmd = &cobra.Command{
	Use:   "resync [career-id]",
	Short: "Repair career rollups and profile totals after a failed save",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		careers := e.catalog.Careers()
		if len(args) == 1 {
			c, err := e.catalog.Career(args[0])
			if err != nil {
				return err
			}
			careers = []catalog.Career{c}
		}

		ctx, w := cmd.Context(), cmd.OutOrStdout()
		for _, c := range careers {
			res, err := e.svc.Resync(ctx, e.userID, c.ID)
			if err != nil {
				return fmt.Errorf("resync %s: %w", c.ID, err)
			}
			if res.Changed {
				fmt.Fprintf(w, "%s: %s (score %d)\n", c.Name, res.Career.Status.DisplayName(), res.Career.Score)
			}
		}

		credited, err := e.svc.ResyncProfile(ctx, e.userID)
		if err != nil {
			return fmt.Errorf("resync profile: %w", err)
		}
		if credited > 0 {
			fmt.Fprintf(w, "Profile credited %d XP\n", credited)
		}
		fmt.Fprintln(w, "Progress is in sync.")
		return nil
	},
}
