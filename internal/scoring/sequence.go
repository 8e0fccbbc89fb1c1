package scoring

import (
	"errors"
	"time"
)

const (
	sequencePositionWeight     = 50
	sequenceOrderWeight        = 40
	sequenceCompletenessWeight = 10
	sequenceStrayPenalty       = 10
)

// SequenceConfig describes an "order the steps" challenge. Steps lists the
// step ids in the correct order.
type SequenceConfig struct {
	Prompt string            `json:"prompt,omitempty"`
	Steps  []string          `json:"steps"`
	Labels map[string]string `json:"labels,omitempty"`
}

func (*SequenceConfig) Archetype() Archetype { return ArchetypeSequence }

func (c *SequenceConfig) Validate() error {
	if len(c.Steps) < 2 {
		return errors.New("at least two steps are required")
	}
	if len(toSet(c.Steps)) != len(c.Steps) {
		return errors.New("steps must be unique")
	}
	return nil
}

// SequenceOutcome is the order in which the player placed steps.
type SequenceOutcome struct {
	Order     []string `json:"order"`
	ElapsedMs int64    `json:"elapsed_ms,omitempty"`
}

func (*SequenceOutcome) Archetype() Archetype { return ArchetypeSequence }

func (o *SequenceOutcome) SetElapsed(d time.Duration) { o.ElapsedMs = durationMs(d) }

// Place appends a step to the player's order.
func (o *SequenceOutcome) Place(id string) { o.Order = append(o.Order, id) }

// Undo removes the most recently placed step.
func (o *SequenceOutcome) Undo() {
	if len(o.Order) > 0 {
		o.Order = o.Order[:len(o.Order)-1]
	}
}

// ScoreSequence scores exact positions, relative order (longest common
// subsequence with the correct order) and completeness. Unknown or repeated
// steps are each penalized.
func ScoreSequence(cfg SequenceConfig, out SequenceOutcome) int {
	if len(out.Order) == 0 || len(cfg.Steps) == 0 {
		return MinScore
	}

	known := toSet(cfg.Steps)
	seen := make(map[string]bool, len(out.Order))
	placed := make([]string, 0, len(out.Order))
	strays := 0
	for _, id := range out.Order {
		if !known[id] || seen[id] {
			strays++
			continue
		}
		seen[id] = true
		placed = append(placed, id)
	}

	inPlace := 0
	for i, id := range placed {
		if cfg.Steps[i] == id {
			inPlace++
		}
	}

	n := len(cfg.Steps)
	points := sequencePositionWeight*ratio(inPlace, n) +
		sequenceOrderWeight*ratio(lcsLen(placed, cfg.Steps), n) +
		sequenceCompletenessWeight*ratio(len(placed), n)
	points -= float64(sequenceStrayPenalty * strays)

	return finalize(points)
}

// lcsLen returns the length of the longest common subsequence of a and b.
func lcsLen(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
