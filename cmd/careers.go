package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

var careersCmd = &cobra.Command{
	Use:   "careers",
	Short: "List careers and their challenges with unlock state",
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

		w := cmd.OutOrStdout()
		for i, cv := range ov.Careers {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s (%s)  %s  %d%%\n", cv.Career.Name, cv.Career.ID, cv.Status.DisplayName(), int(cv.Completion*100))
			for _, ch := range cv.Challenges {
				best := "-"
				if ch.Record != nil && ch.Status() != progress.StatusNotStarted {
					best = fmt.Sprintf("%d/%d", ch.Record.BestScore, ch.Definition.MaxScore)
				}
				fmt.Fprintf(w, "  %s %-24s %-28s %-12s %s\n",
					theme.StatusIcon(ch.Status(), ch.Unlocked), ch.Definition.ID, ch.Definition.Title,
					ch.Definition.Archetype.DisplayName(), best)
			}
		}
		return nil
	},
}
