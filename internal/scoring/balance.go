package scoring

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"time"
)

const (
	balanceCoverageWeight  = 50
	balanceBalanceWeight   = 30
	balanceBudgetWeight    = 20
	balanceExactBonus      = 10
	balanceConflictPenalty = 15
)

// BalanceItem is one pickable item and the category it counts toward.
type BalanceItem struct {
	Label    string  `json:"label,omitempty"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost,omitempty"`
}

// BalanceConfig describes a "balance the mix" challenge such as plating a
// meal: each category has a target count, an optional budget caps total
// cost, and conflicting pairs must not be combined.
type BalanceConfig struct {
	Prompt    string                 `json:"prompt,omitempty"`
	Items     map[string]BalanceItem `json:"items"`
	Targets   map[string]int         `json:"targets"`
	Budget    float64                `json:"budget,omitempty"`
	Conflicts [][2]string            `json:"conflicts,omitempty"`
}

func (*BalanceConfig) Archetype() Archetype { return ArchetypeBalance }

func (c *BalanceConfig) Validate() error {
	if len(c.Targets) == 0 {
		return errors.New("at least one category target is required")
	}
	for cat, n := range c.Targets {
		if n <= 0 {
			return fmt.Errorf("target for category %q must be positive", cat)
		}
	}
	for id, item := range c.Items {
		if _, ok := c.Targets[item.Category]; !ok {
			return fmt.Errorf("item %q has category %q with no target", id, item.Category)
		}
	}
	for _, pair := range c.Conflicts {
		for _, id := range pair {
			if _, ok := c.Items[id]; !ok {
				return fmt.Errorf("conflict references unknown item %q", id)
			}
		}
	}
	return nil
}

// ItemIDs returns the item ids in sorted order.
func (c *BalanceConfig) ItemIDs() []string {
	return slices.Sorted(maps.Keys(c.Items))
}

// BalanceOutcome is the set of items the player picked.
type BalanceOutcome struct {
	Selected  []string `json:"selected"`
	ElapsedMs int64    `json:"elapsed_ms,omitempty"`
}

func (*BalanceOutcome) Archetype() Archetype { return ArchetypeBalance }

func (o *BalanceOutcome) SetElapsed(d time.Duration) { o.ElapsedMs = durationMs(d) }

// Toggle adds id to the selection, or removes it if already selected.
func (o *BalanceOutcome) Toggle(id string) {
	for i, s := range o.Selected {
		if s == id {
			o.Selected = append(o.Selected[:i], o.Selected[i+1:]...)
			return
		}
	}
	o.Selected = append(o.Selected, id)
}

// ScoreBalance scores category coverage, closeness to each category target
// and budget adherence. Hitting every target exactly earns a bonus; each
// conflicting pair selected together costs a penalty.
func ScoreBalance(cfg BalanceConfig, out BalanceOutcome) int {
	selected := uniq(out.Selected)
	if len(selected) == 0 || len(cfg.Targets) == 0 {
		return MinScore
	}

	counts := make(map[string]int, len(cfg.Targets))
	cost := 0.0
	picked := make(map[string]bool, len(selected))
	for _, id := range selected {
		item, ok := cfg.Items[id]
		if !ok {
			continue
		}
		picked[id] = true
		counts[item.Category]++
		cost += item.Cost
	}
	if len(picked) == 0 {
		return MinScore
	}

	categories := slices.Sorted(maps.Keys(cfg.Targets))
	covered, exact := 0, 0
	closeness := 0.0
	for _, cat := range categories {
		got, want := counts[cat], cfg.Targets[cat]
		if got > 0 {
			covered++
		}
		if got == want {
			exact++
		}
		if top := max(got, want); top > 0 {
			closeness += 1 - math.Abs(float64(got-want))/float64(top)
		} else {
			closeness++
		}
	}

	budget := 1.0
	if cfg.Budget > 0 && cost > cfg.Budget {
		budget = cfg.Budget / cost
	}

	points := balanceCoverageWeight*ratio(covered, len(categories)) +
		balanceBalanceWeight*closeness/float64(len(categories)) +
		balanceBudgetWeight*budget

	if exact == len(categories) {
		points += balanceExactBonus
	}
	for _, pair := range cfg.Conflicts {
		if picked[pair[0]] && picked[pair[1]] {
			points -= balanceConflictPenalty
		}
	}

	return finalize(points)
}
