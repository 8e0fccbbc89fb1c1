package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerquest/internal/challenge"
	"github.com/abhisek/careerquest/internal/scoring"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <challenge-id> <outcome.json>",
	Short: "Score a JSON outcome headlessly and record it",
	Long: "Runs the challenge's state machine on a prepared outcome, as if a player " +
		"had produced it, then records the resulting score. Use --dry-run to only score.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		elapsed, _ := cmd.Flags().GetDuration("elapsed")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		raw, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read outcome: %w", err)
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		def, err := e.catalog.Challenge(args[0])
		if err != nil {
			return err
		}
		out, err := scoring.DecodeOutcome(def.Archetype, raw)
		if err != nil {
			return fmt.Errorf("decode %s outcome: %w", def.Archetype, err)
		}

		res, err := challenge.RunHeadless(def, out, elapsed)
		if err != nil {
			return err
		}
		e.log.Debug("simulated", "challenge_id", def.ID, "score", res.Score, "timed_out", res.TimedOut)

		w := cmd.OutOrStdout()
		if res.TimedOut {
			fmt.Fprintf(w, "Time ran out after %s\n", def.TimeLimit)
		}
		if dryRun {
			fmt.Fprintf(w, "%s: %d/%d (not recorded)\n", def.Title, res.Score, def.MaxScore)
			return nil
		}
		return recordScore(cmd.Context(), w, e, def, res.SessionID, res.Score)
	},
}

func init() {
	simulateCmd.Flags().Duration("elapsed", 10*time.Second, "Time the simulated player took")
	simulateCmd.Flags().Bool("dry-run", false, "Score without recording")
}
