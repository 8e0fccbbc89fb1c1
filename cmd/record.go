package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/progression"
)

var recordCmd = &cobra.Command{
	Use:   "record <challenge-id> <score>",
	Short: "Record a raw score for a challenge played elsewhere",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid score %q: %w", args[1], err)
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
		return recordScore(cmd.Context(), cmd.OutOrStdout(), e, def, uuid.NewString(), score)
	},
}

// recordScore refuses locked challenges, records the score and prints the
// report. Recording is best effort: failed writes are printed as warnings
// with a resync hint and do not fail the command.
func recordScore(ctx context.Context, w io.Writer, e *env, def catalog.ChallengeDefinition, sessionID string, score int) error {
	if err := e.svc.CheckUnlocked(ctx, e.userID, def); err != nil {
		return err
	}

	rep := e.svc.Record(ctx, progression.Completion{
		UserID:      e.userID,
		ChallengeID: def.ID,
		CareerID:    def.CareerID,
		SessionID:   sessionID,
		RawScore:    score,
	})
	printReport(w, def, rep)

	if !rep.OK() {
		e.log.Warn("progress not fully saved", "challenge_id", def.ID, "error", rep.Err())
		fmt.Fprintf(w, "  Some progress was not saved. Run `careerquest resync %s` to repair it.\n", def.CareerID)
	}
	return nil
}

func printReport(w io.Writer, def catalog.ChallengeDefinition, rep progression.Report) {
	fmt.Fprintf(w, "%s: %d/%d\n", def.Title, rep.Score, def.MaxScore)

	rc := rep.Reconciliation
	switch {
	case rc.IsFirstCompletion:
		fmt.Fprintf(w, "  First clear! +%d XP\n", rc.ScoreDelta)
	case rc.ScoreDelta > 0:
		fmt.Fprintf(w, "  New best %d (+%d XP)\n", rc.Next.BestScore, rc.ScoreDelta)
	default:
		fmt.Fprintf(w, "  Best stays at %d\n", rc.Next.BestScore)
	}
	if rep.Unlocked != "" {
		fmt.Fprintf(w, "  Unlocked %s\n", rep.Unlocked)
	}
	if rep.CareerCompleted {
		fmt.Fprintf(w, "  Career complete: %s\n", def.CareerID)
	}
	if !rep.Failed(progression.StepReload) && rep.Profile.Level > 0 {
		fmt.Fprintf(w, "  Level %d, %d XP\n", rep.Profile.Level, rep.Profile.Experience)
	}
	for _, f := range rep.Failures {
		fmt.Fprintf(w, "  warning: %v\n", f)
	}
}
