package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestReconcile_FirstCompletion(t *testing.T) {
	r := Reconcile(nil, "u1", "c1", "doctor", 72, t0)

	assert.True(t, r.IsFirstCompletion)
	assert.Equal(t, 72, r.ScoreDelta)
	assert.Equal(t, StatusCompleted, r.Next.Status)
	assert.Equal(t, 72, r.Next.Score)
	assert.Equal(t, 72, r.Next.BestScore)
	assert.Equal(t, 1, r.Next.Attempts)
	require.NotNil(t, r.Next.CompletedAt)
	assert.Equal(t, t0, *r.Next.CompletedAt)
	assert.Equal(t, "doctor", r.Next.CareerID)
}

func TestReconcile_ReplayScenario(t *testing.T) {
	plays := []struct {
		score     int
		wantBest  int
		wantDelta int
	}{
		{72, 72, 72},
		{60, 72, 0},
		{95, 95, 23},
	}

	var rec *ChallengeRecord
	for i, p := range plays {
		r := Reconcile(rec, "u1", "c1", "doctor", p.score, t0.Add(time.Duration(i)*time.Hour))
		assert.Equal(t, p.wantBest, r.Next.BestScore, "play %d best", i+1)
		assert.Equal(t, p.wantDelta, r.ScoreDelta, "play %d delta", i+1)
		assert.Equal(t, i+1, r.Next.Attempts, "play %d attempts", i+1)
		assert.Equal(t, p.score, r.Next.Score, "play %d last score", i+1)
		assert.Equal(t, i == 0, r.IsFirstCompletion)
		next := r.Next
		rec = &next
	}
}

func TestReconcile_DeltasTelescope(t *testing.T) {
	scores := []int{10, 40, 30, 40, 90, 0, 85, 100, 99}

	var rec *ChallengeRecord
	sum, prevBest := 0, 0
	for _, s := range scores {
		r := Reconcile(rec, "u", "c", "k", s, t0)
		require.GreaterOrEqual(t, r.ScoreDelta, 0)
		require.GreaterOrEqual(t, r.Next.BestScore, prevBest, "best score decreased")
		prevBest = r.Next.BestScore
		sum += r.ScoreDelta
		next := r.Next
		rec = &next
	}
	assert.Equal(t, rec.BestScore, sum)
	assert.Equal(t, len(scores), rec.Attempts)
}

func TestReconcile_DoesNotMutateExisting(t *testing.T) {
	existing := &ChallengeRecord{UserID: "u", ChallengeID: "c", Status: StatusCompleted, Score: 50, BestScore: 50, Attempts: 1}
	_ = Reconcile(existing, "u", "c", "k", 80, t0)
	assert.Equal(t, 50, existing.BestScore)
	assert.Equal(t, 1, existing.Attempts)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-5, 100))
	assert.Equal(t, 80, ClampScore(120, 80))
	assert.Equal(t, 42, ClampScore(42, 100))
	assert.Equal(t, 300, ClampScore(300, 0))
}

func TestAggregateCareer(t *testing.T) {
	ids := []string{"a", "b", "c"}

	tests := []struct {
		name     string
		statuses map[string]Status
		want     Status
	}{
		{"nothing", map[string]Status{}, StatusNotStarted},
		{"two of three", map[string]Status{"a": StatusCompleted, "b": StatusCompleted}, StatusInProgress},
		{"all three", map[string]Status{"a": StatusCompleted, "b": StatusCompleted, "c": StatusCompleted}, StatusCompleted},
		{"one in progress", map[string]Status{"a": StatusInProgress}, StatusInProgress},
		{"foreign ids ignored", map[string]Status{"z": StatusCompleted}, StatusNotStarted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateCareer(ids, tt.statuses))
		})
	}

	assert.Equal(t, StatusNotStarted, AggregateCareer(nil, map[string]Status{"a": StatusCompleted}))
}

func TestAggregateCareer_EveryChildRequired(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	for _, missing := range ids {
		statuses := map[string]Status{}
		for _, id := range ids {
			if id != missing {
				statuses[id] = StatusCompleted
			}
		}
		assert.NotEqual(t, StatusCompleted, AggregateCareer(ids, statuses), "completed without %s", missing)
	}
}

func TestAdvance_NeverBackward(t *testing.T) {
	assert.Equal(t, StatusInProgress, Advance(StatusNotStarted, StatusInProgress))
	assert.Equal(t, StatusCompleted, Advance(StatusInProgress, StatusCompleted))
	assert.Equal(t, StatusCompleted, Advance(StatusCompleted, StatusInProgress))
	assert.Equal(t, StatusCompleted, Advance(StatusCompleted, StatusNotStarted))
	assert.Equal(t, StatusInProgress, Advance(StatusInProgress, StatusNotStarted))
}

func TestNextCareer_CompletedAtSetOnce(t *testing.T) {
	ids := []string{"a", "b", "c"}

	statuses := map[string]Status{"a": StatusCompleted, "b": StatusCompleted}
	rec, changed := NextCareer(nil, "u", "doctor", AggregateCareer(ids, statuses), 150, t0)
	require.True(t, changed)
	assert.Equal(t, StatusInProgress, rec.Status)
	require.NotNil(t, rec.StartedAt)
	assert.Nil(t, rec.CompletedAt)

	statuses["c"] = StatusCompleted
	later := t0.Add(time.Hour)
	rec, changed = NextCareer(&rec, "u", "doctor", AggregateCareer(ids, statuses), 240, later)
	require.True(t, changed)
	assert.Equal(t, StatusCompleted, rec.Status)
	require.NotNil(t, rec.CompletedAt)
	assert.Equal(t, later, *rec.CompletedAt)
	assert.Equal(t, t0, *rec.StartedAt)

	// Replaying the last challenge must not move completed_at.
	evenLater := later.Add(time.Hour)
	rec, changed = NextCareer(&rec, "u", "doctor", AggregateCareer(ids, statuses), 240, evenLater)
	assert.False(t, changed)
	assert.Equal(t, later, *rec.CompletedAt)

	// A lower recomputation never downgrades.
	rec, _ = NextCareer(&rec, "u", "doctor", StatusInProgress, 240, evenLater)
	assert.Equal(t, StatusCompleted, rec.Status)
}

func TestNextCareer_ScoreOnlyGrows(t *testing.T) {
	cur := &CareerRecord{UserID: "u", CareerID: "k", Status: StatusInProgress, Score: 90, StartedAt: &t0}
	rec, changed := NextCareer(cur, "u", "k", StatusInProgress, 80, t0)
	assert.False(t, changed)
	assert.Equal(t, 90, rec.Score)

	rec, changed = NextCareer(cur, "u", "k", StatusInProgress, 120, t0)
	assert.True(t, changed)
	assert.Equal(t, 120, rec.Score)
}

func TestUnlocked(t *testing.T) {
	ids := []string{"a", "b", "c"}

	got := Unlocked(ids, map[string]Status{})
	assert.Equal(t, map[string]bool{"a": true, "b": false, "c": false}, got)

	got = Unlocked(ids, map[string]Status{"a": StatusCompleted})
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": false}, got)

	got = Unlocked(ids, map[string]Status{"a": StatusCompleted, "b": StatusCompleted})
	assert.True(t, got["c"])
}

func TestCareerScoreAndRatio(t *testing.T) {
	ids := []string{"a", "b"}
	records := []ChallengeRecord{
		{ChallengeID: "a", Status: StatusCompleted, BestScore: 70},
		{ChallengeID: "b", Status: StatusCompleted, BestScore: 20},
		{ChallengeID: "x", Status: StatusCompleted, BestScore: 99},
	}
	assert.Equal(t, 90, CareerScore(ids, records))
	assert.InDelta(t, 1.0, CompletionRatio(ids, StatusMap(records)), 1e-9)
	assert.InDelta(t, 0.5, CompletionRatio(ids, map[string]Status{"a": StatusCompleted}), 1e-9)
}

func TestLevelFor(t *testing.T) {
	tests := []struct{ xp, want int }{
		{0, 1}, {99, 1}, {100, 2}, {199, 2}, {250, 3}, {-10, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.xp), "xp=%d", tt.xp)
	}
}

func TestCredit(t *testing.T) {
	p := Profile{UserID: "u", TotalScore: 72, Experience: 72, Level: 1}

	upd, changed := Credit(p, 0)
	assert.False(t, changed)
	assert.Equal(t, 72, upd.Experience)

	upd, changed = Credit(p, 23)
	assert.True(t, changed)
	assert.Equal(t, 95, upd.TotalScore)
	assert.Equal(t, 95, upd.Experience)
	assert.Equal(t, 1, upd.Level)

	upd, _ = Credit(Profile{Experience: 95}, 30)
	assert.Equal(t, 2, upd.Level)
	assert.Equal(t, LevelFor(upd.Experience), upd.Level)
}

func TestProgressFor(t *testing.T) {
	lp := ProgressFor(250)
	assert.Equal(t, 3, lp.Level)
	assert.Equal(t, 50, lp.IntoXP)
	assert.Equal(t, 50, lp.NeedXP)
	assert.InDelta(t, 0.5, lp.Percent, 1e-9)
}
