package challenge

import (
	"fmt"
	"time"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/scoring"
)

// Adopt replaces the session outcome with out, which must share the
// challenge's archetype. Only valid while playing.
func (m *Machine) Adopt(out scoring.Outcome) error {
	if out == nil || out.Archetype() != m.def.Archetype {
		return fmt.Errorf("outcome does not match %s challenge %q", m.def.Archetype, m.def.ID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhasePlaying {
		return m.invalid("adopt outcome")
	}
	m.session.Outcome = out
	return nil
}

// RunHeadless plays def to completion with a prepared outcome, as if the
// player had produced it in elapsed time. An elapsed past the time limit
// counts as a timeout.
func RunHeadless(def catalog.ChallengeDefinition, out scoring.Outcome, elapsed time.Duration) (Result, error) {
	clock := &stepClock{now: time.Now()}
	m := New(def, Options{Clock: clock})
	if _, err := m.Start(); err != nil {
		return Result{}, err
	}
	if err := m.Adopt(out); err != nil {
		_ = m.Exit()
		return Result{}, err
	}

	if def.Timed() && elapsed >= def.TimeLimit {
		clock.advance(def.TimeLimit)
		if res, ok := m.Result(); ok {
			return res, nil
		}
	}
	clock.advance(elapsed)
	return m.Submit()
}

// stepClock is a manually advanced clock used for headless runs.
type stepClock struct {
	now    time.Time
	timers []*stepTimer
}

type stepTimer struct {
	at      time.Time
	f       func()
	stopped bool
}

func (t *stepTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &stepTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *stepClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
	for _, t := range c.timers {
		if !t.stopped && !c.now.Before(t.at) {
			t.stopped = true
			t.f()
		}
	}
}
