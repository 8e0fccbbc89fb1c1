package scoring

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	roundCorrectWeight  = 70
	roundSpeedWeight    = 30
	roundsFlawlessBonus = 5
)

// Round is one question of a multi-round challenge.
type Round struct {
	Prompt       string   `json:"prompt"`
	Choices      []string `json:"choices"`
	Answer       int      `json:"answer"`
	LimitSeconds float64  `json:"limit_seconds,omitempty"`
}

// RoundsConfig describes a multi-round challenge.
type RoundsConfig struct {
	Rounds []Round `json:"rounds"`
}

func (*RoundsConfig) Archetype() Archetype { return ArchetypeRounds }

func (c *RoundsConfig) Validate() error {
	if len(c.Rounds) == 0 {
		return errors.New("at least one round is required")
	}
	for i, r := range c.Rounds {
		if len(r.Choices) < 2 {
			return fmt.Errorf("round %d: at least two choices are required", i+1)
		}
		if r.Answer < 0 || r.Answer >= len(r.Choices) {
			return fmt.Errorf("round %d: answer index %d out of range", i+1, r.Answer)
		}
	}
	return nil
}

// RoundAnswer is the player's answer to one round.
type RoundAnswer struct {
	Choice    int   `json:"choice"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

// RoundsOutcome holds the answers of the rounds actually played, in order.
type RoundsOutcome struct {
	Answers   []RoundAnswer `json:"answers"`
	ElapsedMs int64         `json:"elapsed_ms,omitempty"`
}

func (*RoundsOutcome) Archetype() Archetype { return ArchetypeRounds }

func (o *RoundsOutcome) SetElapsed(d time.Duration) { o.ElapsedMs = durationMs(d) }

// Answer records the answer to the next round.
func (o *RoundsOutcome) Answer(choice int, elapsed time.Duration) {
	o.Answers = append(o.Answers, RoundAnswer{Choice: choice, ElapsedMs: durationMs(elapsed)})
}

// ScoreRound scores a single round: correctness plus speed against the
// round's limit. Wrong answers score zero.
func ScoreRound(r Round, a RoundAnswer) int {
	if a.Choice != r.Answer {
		return MinScore
	}
	speed := 1.0
	if r.LimitSeconds > 0 {
		elapsed := float64(max(a.ElapsedMs, 0)) / 1000
		speed = min(max(1-elapsed/r.LimitSeconds, 0), 1)
	}
	return finalize(roundCorrectWeight + roundSpeedWeight*speed)
}

// ScoreRounds averages the per-round scores over the rounds actually
// completed, so an abandoned session is not diluted by unplayed rounds.
// Completing every round correctly earns a small bonus.
func ScoreRounds(cfg RoundsConfig, out RoundsOutcome) int {
	played := min(len(out.Answers), len(cfg.Rounds))
	if played == 0 {
		return MinScore
	}

	scores := make([]int, played)
	allCorrect := true
	for i := range played {
		scores[i] = ScoreRound(cfg.Rounds[i], out.Answers[i])
		if out.Answers[i].Choice != cfg.Rounds[i].Answer {
			allCorrect = false
		}
	}

	score := AverageRounds(scores)
	if allCorrect && played == len(cfg.Rounds) {
		score += roundsFlawlessBonus
	}
	return Clamp(score)
}

// AverageRounds returns the rounded mean of scores, dividing by the number
// of scores given. No rounds averages to zero.
func AverageRounds(scores []int) int {
	if len(scores) == 0 {
		return MinScore
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}
