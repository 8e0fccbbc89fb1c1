package scoring

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	measurementAccuracyWeight     = 70
	measurementCompletenessWeight = 20
	measurementSpeedWeight        = 10
	measurementPreciseBonus       = 10
	measurementBreachPenalty      = 30

	// falloffTolerances is how many tolerances past the edge accuracy takes
	// to decay to zero.
	falloffTolerances = 4
)

// MeasurementTarget is one quantity the player must dial in.
// SafeMin/SafeMax, when set, bound the values that are safe to use at all.
type MeasurementTarget struct {
	Name      string   `json:"name"`
	Unit      string   `json:"unit,omitempty"`
	Value     float64  `json:"value"`
	Tolerance float64  `json:"tolerance"`
	SafeMin   *float64 `json:"safe_min,omitempty"`
	SafeMax   *float64 `json:"safe_max,omitempty"`
}

// MeasurementConfig describes a "measure precisely" challenge, such as
// calibrating a load or mixing a reagent.
type MeasurementConfig struct {
	Prompt     string              `json:"prompt,omitempty"`
	Targets    []MeasurementTarget `json:"targets"`
	ParSeconds float64             `json:"par_seconds,omitempty"`
}

func (*MeasurementConfig) Archetype() Archetype { return ArchetypeMeasurement }

func (c *MeasurementConfig) Validate() error {
	if len(c.Targets) == 0 {
		return errors.New("at least one target is required")
	}
	names := make(map[string]bool, len(c.Targets))
	for _, t := range c.Targets {
		if names[t.Name] {
			return fmt.Errorf("duplicate target %q", t.Name)
		}
		names[t.Name] = true
		if t.Tolerance <= 0 {
			return fmt.Errorf("target %q: tolerance must be positive", t.Name)
		}
		if t.SafeMin != nil && t.SafeMax != nil && *t.SafeMin > *t.SafeMax {
			return fmt.Errorf("target %q: safe_min exceeds safe_max", t.Name)
		}
	}
	return nil
}

// MeasurementOutcome maps target names to the values the player entered.
type MeasurementOutcome struct {
	Values    map[string]float64 `json:"values"`
	ElapsedMs int64              `json:"elapsed_ms,omitempty"`
}

func (*MeasurementOutcome) Archetype() Archetype { return ArchetypeMeasurement }

func (o *MeasurementOutcome) SetElapsed(d time.Duration) { o.ElapsedMs = durationMs(d) }

// Set records the value entered for name.
func (o *MeasurementOutcome) Set(name string, v float64) {
	if o.Values == nil {
		o.Values = make(map[string]float64)
	}
	o.Values[name] = v
}

// ScoreMeasurement scores per-target accuracy (full inside tolerance,
// falling off linearly outside), completeness and speed. All targets within
// half tolerance earns a bonus; every value outside its safe range is
// penalized. Non-finite values count as not measured.
func ScoreMeasurement(cfg MeasurementConfig, out MeasurementOutcome) int {
	if len(out.Values) == 0 || len(cfg.Targets) == 0 {
		return MinScore
	}

	measured, precise, breaches := 0, 0, 0
	accuracy := 0.0
	for _, t := range cfg.Targets {
		v, ok := out.Values[t.Name]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		measured++

		tol := t.Tolerance
		if tol <= 0 {
			tol = math.SmallestNonzeroFloat64
		}
		diff := math.Abs(v - t.Value)
		switch {
		case diff <= tol:
			accuracy++
		default:
			accuracy += max(0, 1-(diff-tol)/(falloffTolerances*tol))
		}
		if diff <= tol/2 {
			precise++
		}
		if (t.SafeMin != nil && v < *t.SafeMin) || (t.SafeMax != nil && v > *t.SafeMax) {
			breaches++
		}
	}

	if measured == 0 {
		return MinScore
	}

	// Speed only counts for as much as the readings are worth.
	accuracyRate := accuracy / float64(len(cfg.Targets))
	points := measurementAccuracyWeight*accuracyRate +
		measurementCompletenessWeight*ratio(measured, len(cfg.Targets)) +
		measurementSpeedWeight*speedFactor(out.ElapsedMs, cfg.ParSeconds)*accuracyRate

	if precise == len(cfg.Targets) {
		points += measurementPreciseBonus
	}
	points -= float64(measurementBreachPenalty * breaches)

	return finalize(points)
}
