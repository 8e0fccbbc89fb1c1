package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerquest/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent challenge completions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		challengeID, _ := cmd.Flags().GetString("challenge")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.Events().RecentCompletions(cmd.Context(), e.userID,
			store.QueryOpts{Limit: limit, ChallengeID: challengeID})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(w, "No completed challenges yet.")
			return nil
		}

		fmt.Fprintf(w, "%-5s  %-16s  %-24s  %5s  %5s  %6s  %s\n",
			"Seq", "Time", "Challenge", "Raw", "Score", "XP", "Attempt")
		fmt.Fprintln(w, strings.Repeat("─", 84))
		for _, ev := range events {
			first := ""
			if ev.FirstCompletion {
				first = "  first"
			}
			fmt.Fprintf(w, "%-5d  %-16s  %-24s  %5d  %5d  %+6d  %d%s\n",
				ev.Sequence,
				ev.Timestamp.Local().Format("2006-01-02 15:04"),
				ev.ChallengeID,
				ev.RawScore,
				ev.Score,
				ev.ScoreDelta,
				ev.Attempt,
				first,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	historyCmd.Flags().StringP("challenge", "c", "", "Only show one challenge")
}
