package scoring

import (
	"errors"
	"math"
	"slices"
	"time"
)

const (
	timingAccuracyWeight  = 60
	timingPrecisionWeight = 25
	timingEconomyWeight   = 15
	timingTightBonus      = 10
	timingWildPenalty     = 3

	// wildTapReach is how many tolerances away from every cue a tap must
	// land to count as wild.
	wildTapReach = 3
)

// TimingConfig describes a "hit the cues" challenge: the player taps as
// close as possible to each cue time (milliseconds from session start).
type TimingConfig struct {
	Prompt      string  `json:"prompt,omitempty"`
	CuesMs      []int64 `json:"cues_ms"`
	ToleranceMs int64   `json:"tolerance_ms"`
}

func (*TimingConfig) Archetype() Archetype { return ArchetypeTiming }

func (c *TimingConfig) Validate() error {
	if len(c.CuesMs) == 0 {
		return errors.New("at least one cue is required")
	}
	if c.ToleranceMs <= 0 {
		return errors.New("tolerance_ms must be positive")
	}
	if !slices.IsSorted(c.CuesMs) {
		return errors.New("cues_ms must be in ascending order")
	}
	return nil
}

// TimingOutcome holds the tap timestamps, in milliseconds from session start.
type TimingOutcome struct {
	TapsMs    []int64 `json:"taps_ms"`
	ElapsedMs int64   `json:"elapsed_ms,omitempty"`
}

func (*TimingOutcome) Archetype() Archetype { return ArchetypeTiming }

func (o *TimingOutcome) SetElapsed(d time.Duration) { o.ElapsedMs = durationMs(d) }

// Tap records a tap at offset d from the session start.
func (o *TimingOutcome) Tap(d time.Duration) {
	o.TapsMs = append(o.TapsMs, durationMs(d))
}

// ScoreTiming matches each cue to the nearest unused tap inside tolerance,
// then scores hit rate, mean offset of hits and tap economy. Hitting every
// cue within a quarter tolerance earns a bonus; taps far from any cue are
// penalized.
func ScoreTiming(cfg TimingConfig, out TimingOutcome) int {
	if len(out.TapsMs) == 0 || len(cfg.CuesMs) == 0 {
		return MinScore
	}
	tol := max(cfg.ToleranceMs, 1)
	reach := int64(math.MaxInt64)
	if tol <= math.MaxInt64/wildTapReach {
		reach = wildTapReach * tol
	}

	taps := slices.Clone(out.TapsMs)
	slices.Sort(taps)
	used := make([]bool, len(taps))

	hits := 0
	var offsetSum float64
	for _, cue := range cfg.CuesMs {
		best, bestDist := -1, int64(0)
		for i, tap := range taps {
			if used[i] {
				continue
			}
			d := distance(tap, cue)
			if best < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		if best >= 0 && bestDist <= tol {
			used[best] = true
			hits++
			offsetSum += float64(bestDist)
		}
	}

	wild := 0
	for i, tap := range taps {
		if used[i] {
			continue
		}
		near := false
		for _, cue := range cfg.CuesMs {
			if distance(tap, cue) <= reach {
				near = true
				break
			}
		}
		if !near {
			wild++
		}
	}

	precision := 0.0
	meanOffset := 0.0
	if hits > 0 {
		meanOffset = offsetSum / float64(hits)
		precision = 1 - meanOffset/float64(tol)
	}

	points := timingAccuracyWeight*ratio(hits, len(cfg.CuesMs)) +
		timingPrecisionWeight*precision +
		timingEconomyWeight*ratio(hits, len(taps))

	if hits == len(cfg.CuesMs) && meanOffset <= float64(tol)/4 {
		points += timingTightBonus
	}
	points -= float64(timingWildPenalty * wild)

	return finalize(points)
}

// distance is |a-b|, saturating at math.MaxInt64 instead of overflowing.
func distance(a, b int64) int64 {
	if a < b {
		a, b = b, a
	}
	if d := uint64(a) - uint64(b); d <= math.MaxInt64 {
		return int64(d)
	}
	return math.MaxInt64
}
