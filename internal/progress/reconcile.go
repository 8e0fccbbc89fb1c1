package progress

import "time"

// Reconciliation is the outcome of folding one new score into a challenge record.
type Reconciliation struct {
	Next              ChallengeRecord
	ScoreDelta        int
	IsFirstCompletion bool
}

// ClampScore bounds a raw score to [0, maxScore]. A non-positive maxScore
// leaves only the lower bound.
func ClampScore(score, maxScore int) int {
	score = max(score, 0)
	if maxScore > 0 {
		score = min(score, maxScore)
	}
	return score
}

// Reconcile folds newScore into existing (nil when the user has never
// completed the challenge). The returned delta is never negative and is the
// only amount ever credited to the profile: replays below the best score
// still count as attempts but add nothing.
func Reconcile(existing *ChallengeRecord, userID, challengeID, careerID string, newScore int, now time.Time) Reconciliation {
	completedAt := now

	if existing == nil {
		return Reconciliation{
			Next: ChallengeRecord{
				UserID:      userID,
				ChallengeID: challengeID,
				CareerID:    careerID,
				Status:      StatusCompleted,
				Score:       newScore,
				BestScore:   newScore,
				Attempts:    1,
				CompletedAt: &completedAt,
				UpdatedAt:   now,
			},
			ScoreDelta:        newScore,
			IsFirstCompletion: true,
		}
	}

	next := *existing
	if next.CareerID == "" {
		next.CareerID = careerID
	}
	next.Status = StatusCompleted
	next.Score = newScore
	next.BestScore = max(existing.BestScore, newScore)
	next.Attempts = existing.Attempts + 1
	next.CompletedAt = &completedAt
	next.UpdatedAt = now

	return Reconciliation{
		Next:              next,
		ScoreDelta:        max(0, newScore-existing.BestScore),
		IsFirstCompletion: false,
	}
}
