package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// Archetype identifies the scoring algorithm family a challenge belongs to.
// It selects both the Config shape and the Outcome shape.
type Archetype string

const (
	ArchetypeSelection   Archetype = "selection"
	ArchetypeBalance     Archetype = "balance"
	ArchetypeTiming      Archetype = "timing"
	ArchetypeMeasurement Archetype = "measurement"
	ArchetypeSequence    Archetype = "sequence"
	ArchetypeRounds      Archetype = "rounds"
)

// Score bounds shared by every archetype.
const (
	MinScore = 0
	MaxScore = 100
)

// ErrUnknownArchetype is returned when a tag does not name a known archetype.
var ErrUnknownArchetype = errors.New("unknown archetype")

// AllArchetypes returns every archetype in display order.
func AllArchetypes() []Archetype {
	return []Archetype{
		ArchetypeSelection,
		ArchetypeBalance,
		ArchetypeTiming,
		ArchetypeMeasurement,
		ArchetypeSequence,
		ArchetypeRounds,
	}
}

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeSelection, ArchetypeBalance, ArchetypeTiming,
		ArchetypeMeasurement, ArchetypeSequence, ArchetypeRounds:
		return true
	}
	return false
}

// DisplayName returns a human-readable label for the archetype.
func (a Archetype) DisplayName() string {
	switch a {
	case ArchetypeSelection:
		return "Pick the right set"
	case ArchetypeBalance:
		return "Balance the mix"
	case ArchetypeTiming:
		return "Hit the cues"
	case ArchetypeMeasurement:
		return "Measure precisely"
	case ArchetypeSequence:
		return "Order the steps"
	case ArchetypeRounds:
		return "Quick-fire rounds"
	default:
		return string(a)
	}
}

// Config is the static, archetype-specific configuration of a challenge.
type Config interface {
	Archetype() Archetype
	// Validate checks semantic constraints the JSON schema cannot express.
	Validate() error
}

// Outcome is the interaction data collected during one play session.
type Outcome interface {
	Archetype() Archetype
	// SetElapsed stamps the time the session spent in the playing state.
	SetElapsed(d time.Duration)
}

// NewConfig returns an empty config of the archetype's shape, ready for decoding.
func NewConfig(a Archetype) (Config, error) {
	switch a {
	case ArchetypeSelection:
		return &SelectionConfig{}, nil
	case ArchetypeBalance:
		return &BalanceConfig{}, nil
	case ArchetypeTiming:
		return &TimingConfig{}, nil
	case ArchetypeMeasurement:
		return &MeasurementConfig{}, nil
	case ArchetypeSequence:
		return &SequenceConfig{}, nil
	case ArchetypeRounds:
		return &RoundsConfig{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, a)
}

// NewOutcome returns an empty outcome of the archetype's shape.
func NewOutcome(a Archetype) (Outcome, error) {
	switch a {
	case ArchetypeSelection:
		return &SelectionOutcome{}, nil
	case ArchetypeBalance:
		return &BalanceOutcome{}, nil
	case ArchetypeTiming:
		return &TimingOutcome{}, nil
	case ArchetypeMeasurement:
		return &MeasurementOutcome{Values: map[string]float64{}}, nil
	case ArchetypeSequence:
		return &SequenceOutcome{}, nil
	case ArchetypeRounds:
		return &RoundsOutcome{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, a)
}

// DecodeConfig decodes raw JSON into the archetype's config and validates it.
func DecodeConfig(a Archetype, raw []byte) (Config, error) {
	cfg, err := NewConfig(a)
	if err != nil {
		return nil, err
	}
	if err := decodeStrict(raw, cfg); err != nil {
		return nil, fmt.Errorf("decode %s config: %w", a, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", a, err)
	}
	return cfg, nil
}

// DecodeOutcome decodes raw JSON into the archetype's outcome shape.
func DecodeOutcome(a Archetype, raw []byte) (Outcome, error) {
	out, err := NewOutcome(a)
	if err != nil {
		return nil, err
	}
	if err := decodeStrict(raw, out); err != nil {
		return nil, fmt.Errorf("decode %s outcome: %w", a, err)
	}
	return out, nil
}

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Score computes the [0,100] score of an outcome under a config.
// A config/outcome archetype mismatch, or a nil value, scores MinScore.
func Score(cfg Config, out Outcome) int {
	switch c := cfg.(type) {
	case *SelectionConfig:
		if o, ok := out.(*SelectionOutcome); ok && c != nil && o != nil {
			return ScoreSelection(*c, *o)
		}
	case *BalanceConfig:
		if o, ok := out.(*BalanceOutcome); ok && c != nil && o != nil {
			return ScoreBalance(*c, *o)
		}
	case *TimingConfig:
		if o, ok := out.(*TimingOutcome); ok && c != nil && o != nil {
			return ScoreTiming(*c, *o)
		}
	case *MeasurementConfig:
		if o, ok := out.(*MeasurementOutcome); ok && c != nil && o != nil {
			return ScoreMeasurement(*c, *o)
		}
	case *SequenceConfig:
		if o, ok := out.(*SequenceOutcome); ok && c != nil && o != nil {
			return ScoreSequence(*c, *o)
		}
	case *RoundsConfig:
		if o, ok := out.(*RoundsOutcome); ok && c != nil && o != nil {
			return ScoreRounds(*c, *o)
		}
	}
	return MinScore
}

// Clamp bounds v to [MinScore, MaxScore].
func Clamp(v int) int {
	return min(max(v, MinScore), MaxScore)
}

// finalize rounds accumulated points and clamps them into range.
// NaN collapses to MinScore.
func finalize(points float64) int {
	if math.IsNaN(points) {
		return MinScore
	}
	if math.IsInf(points, 1) {
		return MaxScore
	}
	if math.IsInf(points, -1) {
		return MinScore
	}
	return Clamp(int(math.Round(points)))
}

// speedFactor returns 1.0 at or under par, decaying linearly to 0.0 at
// twice par. A non-positive par disables the factor (always 1.0).
func speedFactor(elapsedMs int64, parSeconds float64) float64 {
	if parSeconds <= 0 {
		return 1
	}
	elapsed := float64(max(elapsedMs, 0)) / 1000
	if elapsed <= parSeconds {
		return 1
	}
	return max(0, 1-(elapsed-parSeconds)/parSeconds)
}

// ratio returns num/den, or 0 when den is zero.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// uniq returns the values of xs in order, dropping repeats.
func uniq(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if seen[x] {
			continue
		}
		seen[x] = true
		out = append(out, x)
	}
	return out
}

func toSet(xs []string) map[string]bool {
	set := make(map[string]bool, len(xs))
	for _, x := range xs {
		set[x] = true
	}
	return set
}

func durationMs(d time.Duration) int64 {
	return max(d.Milliseconds(), 0)
}
