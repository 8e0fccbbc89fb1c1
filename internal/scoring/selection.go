package scoring

import (
	"errors"
	"fmt"
	"time"
)

// Selection weights and adjustments.
const (
	selectionPrecisionWeight = 40
	selectionRecallWeight    = 40
	selectionSpeedWeight     = 20
	selectionPerfectBonus    = 10
	selectionUnsafePenalty   = 25
)

// SelectionConfig describes a "pick the right set" challenge, e.g. choosing
// the treatments for a patient. Contraindicated options are actively unsafe.
type SelectionConfig struct {
	Prompt          string   `json:"prompt,omitempty"`
	Options         []string `json:"options"`
	Correct         []string `json:"correct"`
	Contraindicated []string `json:"contraindicated,omitempty"`
	ParSeconds      float64  `json:"par_seconds,omitempty"`
}

func (*SelectionConfig) Archetype() Archetype { return ArchetypeSelection }

func (c *SelectionConfig) Validate() error {
	if len(c.Correct) == 0 {
		return errors.New("at least one correct option is required")
	}
	opts := toSet(c.Options)
	if len(opts) != len(c.Options) {
		return errors.New("options must be unique")
	}
	correct := toSet(c.Correct)
	for _, id := range c.Correct {
		if !opts[id] {
			return fmt.Errorf("correct option %q is not among options", id)
		}
	}
	for _, id := range c.Contraindicated {
		if !opts[id] {
			return fmt.Errorf("contraindicated option %q is not among options", id)
		}
		if correct[id] {
			return fmt.Errorf("option %q cannot be both correct and contraindicated", id)
		}
	}
	return nil
}

// SelectionOutcome is the player's chosen option set.
type SelectionOutcome struct {
	Selected  []string `json:"selected"`
	ElapsedMs int64    `json:"elapsed_ms,omitempty"`
}

func (*SelectionOutcome) Archetype() Archetype { return ArchetypeSelection }

func (o *SelectionOutcome) SetElapsed(d time.Duration) { o.ElapsedMs = durationMs(d) }

// Toggle adds id to the selection, or removes it if already selected.
func (o *SelectionOutcome) Toggle(id string) {
	for i, s := range o.Selected {
		if s == id {
			o.Selected = append(o.Selected[:i], o.Selected[i+1:]...)
			return
		}
	}
	o.Selected = append(o.Selected, id)
}

// ScoreSelection scores precision and recall of the chosen set plus speed,
// with a bonus for the exact set and a penalty per contraindicated pick.
func ScoreSelection(cfg SelectionConfig, out SelectionOutcome) int {
	selected := uniq(out.Selected)
	if len(selected) == 0 || len(cfg.Correct) == 0 {
		return MinScore
	}

	correct := toSet(cfg.Correct)
	unsafe := toSet(cfg.Contraindicated)

	hits, unsafePicks := 0, 0
	for _, id := range selected {
		if correct[id] {
			hits++
		}
		if unsafe[id] {
			unsafePicks++
		}
	}

	// Speed is scaled by precision so fast wrong answers earn nothing.
	precision := ratio(hits, len(selected))
	points := selectionPrecisionWeight*precision +
		selectionRecallWeight*ratio(hits, len(correct)) +
		selectionSpeedWeight*speedFactor(out.ElapsedMs, cfg.ParSeconds)*precision

	if hits == len(correct) && hits == len(selected) {
		points += selectionPerfectBonus
	}
	points -= float64(selectionUnsafePenalty * unsafePicks)

	return finalize(points)
}
