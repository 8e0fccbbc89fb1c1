package progress

import "time"

// AggregateCareer decides a career's status from its challenge ids and the
// known per-challenge statuses. Callers merge the just-written record into
// statuses first. A career with no challenges is never completed.
func AggregateCareer(challengeIDs []string, statuses map[string]Status) Status {
	if len(challengeIDs) == 0 {
		return StatusNotStarted
	}

	completed, touched := 0, 0
	for _, id := range challengeIDs {
		st, ok := statuses[id]
		if !ok {
			continue
		}
		touched++
		if st == StatusCompleted {
			completed++
		}
	}

	switch {
	case completed == len(challengeIDs):
		return StatusCompleted
	case touched > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// Advance returns the later of current and next. Career status never moves
// backward, so a recomputed lower status is ignored.
func Advance(current, next Status) Status {
	if next.rank() > current.rank() {
		return next
	}
	return current
}

// StatusMap indexes records by challenge id.
func StatusMap(records []ChallengeRecord) map[string]Status {
	m := make(map[string]Status, len(records))
	for _, r := range records {
		m[r.ChallengeID] = r.Status
	}
	return m
}

// CareerScore sums the best scores of the records belonging to challengeIDs.
func CareerScore(challengeIDs []string, records []ChallengeRecord) int {
	want := make(map[string]bool, len(challengeIDs))
	for _, id := range challengeIDs {
		want[id] = true
	}
	total := 0
	for _, r := range records {
		if want[r.ChallengeID] {
			total += r.BestScore
		}
	}
	return total
}

// NextCareer computes the next career record from the current one (nil if
// none exists yet) and the aggregated status. StartedAt is stamped on
// creation and CompletedAt exactly once, on the transition to completed.
// changed reports whether anything needs writing.
func NextCareer(current *CareerRecord, userID, careerID string, aggregated Status, score int, now time.Time) (next CareerRecord, changed bool) {
	if current == nil {
		next = CareerRecord{UserID: userID, CareerID: careerID, Status: StatusNotStarted}
		changed = true
	} else {
		next = *current
	}

	status := Advance(next.Status, aggregated)
	if status != next.Status {
		next.Status = status
		changed = true
	}
	if next.Status != StatusNotStarted && next.StartedAt == nil {
		started := now
		next.StartedAt = &started
		changed = true
	}
	if next.Status == StatusCompleted && next.CompletedAt == nil {
		completed := now
		next.CompletedAt = &completed
		changed = true
	}
	if score > next.Score {
		next.Score = score
		changed = true
	}
	if changed {
		next.UpdatedAt = now
	}
	return next, changed
}

// Unlocked reports which challenges of a career are playable. Challenges are
// unlocked in order: the first always, each later one once its predecessor
// is completed. A challenge the user already has progress on stays unlocked.
func Unlocked(orderedIDs []string, statuses map[string]Status) map[string]bool {
	out := make(map[string]bool, len(orderedIDs))
	prevDone := true
	for _, id := range orderedIDs {
		st, seen := statuses[id]
		out[id] = prevDone || seen
		prevDone = st == StatusCompleted
	}
	return out
}

// CompletionRatio returns the fraction of challengeIDs whose status is completed.
func CompletionRatio(challengeIDs []string, statuses map[string]Status) float64 {
	if len(challengeIDs) == 0 {
		return 0
	}
	done := 0
	for _, id := range challengeIDs {
		if statuses[id] == StatusCompleted {
			done++
		}
	}
	return float64(done) / float64(len(challengeIDs))
}
