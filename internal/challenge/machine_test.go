package challenge

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/scoring"
)

// fakeClock fires timers only when advanced. Safe for concurrent use.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !c.now.Before(t.at) {
			t.stopped = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

// pending returns the number of armed timers.
func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func selectionDef(limit time.Duration) catalog.ChallengeDefinition {
	return catalog.ChallengeDefinition{
		ID:        "doctor-prescribe",
		CareerID:  "doctor",
		Order:     1,
		MaxScore:  100,
		Archetype: scoring.ArchetypeSelection,
		TimeLimit: limit,
		Config: &scoring.SelectionConfig{
			Options: []string{"a", "b", "c"},
			Correct: []string{"a", "b"},
		},
	}
}

func pick(ids ...string) func(scoring.Outcome) {
	return func(o scoring.Outcome) {
		sel := o.(*scoring.SelectionOutcome)
		for _, id := range ids {
			sel.Toggle(id)
		}
	}
}

func TestMachine_HappyPath(t *testing.T) {
	clock := newFakeClock()
	var completed, continued []Result
	m := New(selectionDef(0), Options{
		Clock:      clock,
		OnComplete: func(r Result) { completed = append(completed, r) },
		OnContinue: func(r Result) { continued = append(continued, r) },
	})

	if m.Phase() != PhaseIntro {
		t.Fatalf("Phase = %v, want intro", m.Phase())
	}
	sess, err := m.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if sess.ID == "" {
		t.Error("expected a session id")
	}
	if !m.Interact(pick("a", "b")) {
		t.Fatal("Interact returned false while playing")
	}
	clock.Advance(5 * time.Second)

	res, err := m.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 100 {
		t.Errorf("Score = %d, want 100", res.Score)
	}
	if res.SessionID != sess.ID {
		t.Errorf("SessionID = %q, want %q", res.SessionID, sess.ID)
	}
	if res.Elapsed != 5*time.Second {
		t.Errorf("Elapsed = %v, want 5s", res.Elapsed)
	}
	if len(completed) != 1 {
		t.Fatalf("OnComplete called %d times, want 1", len(completed))
	}

	if _, err := m.Continue(); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if len(continued) != 1 || continued[0].Score != 100 {
		t.Errorf("continued = %+v, want one result with score 100", continued)
	}
	if m.Phase() != PhaseContinued {
		t.Errorf("Phase = %v, want continued", m.Phase())
	}
}

func TestMachine_InvalidTransitions(t *testing.T) {
	m := New(selectionDef(0), Options{Clock: newFakeClock()})

	if _, err := m.Submit(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Submit from intro: err = %v, want ErrInvalidTransition", err)
	}
	if err := m.Retry(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Retry from intro: err = %v", err)
	}
	if _, err := m.Continue(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Continue from intro: err = %v", err)
	}
	if m.Phase() != PhaseIntro {
		t.Errorf("Phase = %v, want intro after rejected actions", m.Phase())
	}

	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Start: err = %v", err)
	}
	if m.Phase() != PhasePlaying {
		t.Errorf("Phase = %v, want playing", m.Phase())
	}
}

func TestMachine_InteractIgnoredOutsidePlaying(t *testing.T) {
	m := New(selectionDef(0), Options{Clock: newFakeClock()})
	called := false
	if m.Interact(func(scoring.Outcome) { called = true }) || called {
		t.Error("Interact ran in intro")
	}

	m.Start()
	m.Submit()
	if m.Interact(func(scoring.Outcome) { called = true }) || called {
		t.Error("Interact ran after completion")
	}
}

func TestMachine_IncompleteSessionStillScores(t *testing.T) {
	m := New(selectionDef(0), Options{Clock: newFakeClock()})
	m.Start()
	m.Interact(pick("a"))
	res, err := m.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != 80 {
		t.Errorf("Score = %d, want 80", res.Score)
	}
}

func TestMachine_CountdownExpiry(t *testing.T) {
	clock := newFakeClock()
	var got []Result
	m := New(selectionDef(10*time.Second), Options{
		Clock:      clock,
		OnComplete: func(r Result) { got = append(got, r) },
	})
	m.Start()
	m.Interact(pick("a", "b"))

	clock.Advance(4 * time.Second)
	if rem := m.Remaining(); rem != 6*time.Second {
		t.Errorf("Remaining = %v, want 6s", rem)
	}
	clock.Advance(6 * time.Second)

	if m.Phase() != PhaseComplete {
		t.Fatalf("Phase = %v, want complete after expiry", m.Phase())
	}
	if len(got) != 1 {
		t.Fatalf("OnComplete called %d times, want 1", len(got))
	}
	if !got[0].TimedOut {
		t.Error("expected TimedOut")
	}
	if got[0].Elapsed != 10*time.Second {
		t.Errorf("Elapsed = %v, want 10s", got[0].Elapsed)
	}
	if _, err := m.Submit(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Submit after expiry: err = %v", err)
	}
}

func TestMachine_SubmitCancelsCountdown(t *testing.T) {
	clock := newFakeClock()
	var calls int
	m := New(selectionDef(10*time.Second), Options{
		Clock:      clock,
		OnComplete: func(Result) { calls++ },
	})
	m.Start()
	m.Submit()
	if clock.pending() != 0 {
		t.Errorf("pending timers = %d, want 0", clock.pending())
	}
	clock.Advance(time.Minute)
	if calls != 1 {
		t.Errorf("OnComplete called %d times, want 1", calls)
	}
}

func TestMachine_SubmitRacingTimeoutScoresOnce(t *testing.T) {
	for range 50 {
		clock := newFakeClock()
		var calls atomic.Int32
		m := New(selectionDef(time.Second), Options{
			Clock:      clock,
			OnComplete: func(Result) { calls.Add(1) },
		})
		m.Start()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); m.Submit() }()
		go func() { defer wg.Done(); clock.Advance(time.Second) }()
		wg.Wait()

		if n := calls.Load(); n != 1 {
			t.Fatalf("OnComplete called %d times, want exactly 1", n)
		}
	}
}

func TestMachine_RetryNewSession(t *testing.T) {
	clock := newFakeClock()
	var calls int
	m := New(selectionDef(10*time.Second), Options{
		Clock:      clock,
		OnComplete: func(Result) { calls++ },
	})

	first, _ := m.Start()
	m.Interact(pick("a", "b"))
	m.Submit()
	if err := m.Retry(); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if m.Phase() != PhaseIntro {
		t.Fatalf("Phase = %v, want intro", m.Phase())
	}
	if _, ok := m.Result(); ok {
		t.Error("result survived retry")
	}

	second, _ := m.Start()
	if second.ID == first.ID {
		t.Error("retry reused the session id")
	}
	sel := second.Outcome.(*scoring.SelectionOutcome)
	if len(sel.Selected) != 0 {
		t.Errorf("new session outcome = %v, want empty", sel.Selected)
	}

	clock.Advance(10 * time.Second)
	if calls != 2 {
		t.Errorf("OnComplete called %d times, want 2", calls)
	}
}

func TestMachine_ExitNeverScores(t *testing.T) {
	clock := newFakeClock()
	var calls int
	m := New(selectionDef(5*time.Second), Options{
		Clock:      clock,
		OnComplete: func(Result) { calls++ },
		OnContinue: func(Result) { calls++ },
	})
	m.Start()
	m.Interact(pick("a", "b"))

	if err := m.Exit(); err != nil {
		t.Fatalf("Exit: %v", err)
	}
	clock.Advance(time.Minute)

	if calls != 0 {
		t.Errorf("callbacks fired %d times after exit, want 0", calls)
	}
	if m.Phase() != PhaseExited {
		t.Errorf("Phase = %v, want exited", m.Phase())
	}
	if _, ok := m.Session(); ok {
		t.Error("session survived exit")
	}
	if err := m.Exit(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Exit: err = %v", err)
	}
	if _, err := m.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Start after exit: err = %v", err)
	}
}

func TestMachine_ExitFromIntroAndComplete(t *testing.T) {
	m := New(selectionDef(0), Options{Clock: newFakeClock()})
	if err := m.Exit(); err != nil {
		t.Errorf("Exit from intro: %v", err)
	}

	m = New(selectionDef(0), Options{Clock: newFakeClock()})
	m.Start()
	m.Submit()
	if err := m.Exit(); err != nil {
		t.Errorf("Exit from complete: %v", err)
	}
	if _, err := m.Continue(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Continue after exit: err = %v", err)
	}
}

func TestRunHeadless(t *testing.T) {
	def := selectionDef(30 * time.Second)

	res, err := RunHeadless(def, &scoring.SelectionOutcome{Selected: []string{"a", "b"}}, 3*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != 100 || res.TimedOut {
		t.Errorf("res = %+v, want score 100 without timeout", res)
	}

	res, err = RunHeadless(def, &scoring.SelectionOutcome{Selected: []string{"a"}}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !res.TimedOut || res.Elapsed != 30*time.Second {
		t.Errorf("res = %+v, want timeout at 30s", res)
	}

	if _, err := RunHeadless(def, &scoring.SequenceOutcome{}, time.Second); err == nil {
		t.Error("expected archetype mismatch error")
	}
}
