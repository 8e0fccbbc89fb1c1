// Package challenge runs a single challenge play-through: intro, a timed or
// untimed playing phase, and a scored completion.
package challenge

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/scoring"
)

// ErrInvalidTransition is returned when an action is not allowed in the
// machine's current phase. The machine is left unchanged.
var ErrInvalidTransition = errors.New("invalid challenge transition")

// Phase is the machine's lifecycle position.
type Phase int

const (
	PhaseIntro     Phase = iota // Waiting for the player to start
	PhasePlaying                // Collecting the outcome
	PhaseComplete               // Scored, waiting for retry or continue
	PhaseContinued              // Score handed off (terminal)
	PhaseExited                 // Abandoned without scoring (terminal)
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhasePlaying:
		return "playing"
	case PhaseComplete:
		return "complete"
	case PhaseContinued:
		return "continued"
	case PhaseExited:
		return "exited"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == PhaseContinued || p == PhaseExited
}

// PlaySession is one attempt at a challenge. It lives in memory only.
type PlaySession struct {
	ID        string
	StartedAt time.Time
	Outcome   scoring.Outcome
}

// Result is the scored end of a play session.
type Result struct {
	SessionID   string
	ChallengeID string
	CareerID    string
	Score       int
	Elapsed     time.Duration
	TimedOut    bool
	Outcome     scoring.Outcome
}

// Options configures a Machine. Callbacks run on the goroutine that caused
// the transition (possibly a timer goroutine) and never under the machine's
// lock.
type Options struct {
	Clock Clock

	// OnComplete fires exactly once per session, when it is scored.
	OnComplete func(Result)

	// OnContinue fires when the player accepts a completed result.
	OnContinue func(Result)
}

// Machine drives one challenge definition through its lifecycle. The mutex
// exists because countdown expiry arrives on a timer goroutine.
type Machine struct {
	def  catalog.ChallengeDefinition
	opts Options

	mu      sync.Mutex
	phase   Phase
	session *PlaySession
	result  *Result
	timer   Timer
	gen     uint64 // bumped on every new session; stale timers compare against it
}

// New creates a machine in the intro phase.
func New(def catalog.ChallengeDefinition, opts Options) *Machine {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	return &Machine{def: def, opts: opts, phase: PhaseIntro}
}

// Definition returns the challenge being played.
func (m *Machine) Definition() catalog.ChallengeDefinition { return m.def }

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Session returns a copy of the current session, or false outside playing
// and complete.
func (m *Machine) Session() (PlaySession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return PlaySession{}, false
	}
	return *m.session, true
}

// Result returns the scored result once the machine is complete.
func (m *Machine) Result() (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// Elapsed returns the time since the session started, or zero when no
// session is active.
func (m *Machine) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.phase != PhasePlaying {
		return 0
	}
	return m.opts.Clock.Now().Sub(m.session.StartedAt)
}

// Remaining returns the countdown left, or zero for untimed challenges and
// outside the playing phase.
func (m *Machine) Remaining() time.Duration {
	if !m.def.Timed() {
		return 0
	}
	return max(m.def.TimeLimit-m.Elapsed(), 0)
}

// Start moves intro to playing with a fresh session and arms the countdown.
func (m *Machine) Start() (PlaySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseIntro {
		return PlaySession{}, m.invalid("start")
	}
	out, err := scoring.NewOutcome(m.def.Archetype)
	if err != nil {
		return PlaySession{}, err
	}

	m.gen++
	m.session = &PlaySession{
		ID:        uuid.New().String(),
		StartedAt: m.opts.Clock.Now(),
		Outcome:   out,
	}
	m.result = nil
	m.phase = PhasePlaying

	if m.def.Timed() {
		gen := m.gen
		m.timer = m.opts.Clock.AfterFunc(m.def.TimeLimit, func() { m.expire(gen) })
	}
	return *m.session, nil
}

// Interact applies fn to the session outcome. It reports false, and does
// nothing, outside the playing phase. fn must not call back into m.
func (m *Machine) Interact(fn func(scoring.Outcome)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhasePlaying || m.session == nil {
		return false
	}
	fn(m.session.Outcome)
	return true
}

// Submit ends the playing phase and scores the session. Incomplete outcomes
// are still scored.
func (m *Machine) Submit() (Result, error) {
	m.mu.Lock()
	if m.phase != PhasePlaying {
		err := m.invalid("submit")
		m.mu.Unlock()
		return Result{}, err
	}
	res := m.completeLocked(false)
	m.mu.Unlock()

	m.notify(m.opts.OnComplete, res)
	return res, nil
}

// expire is the countdown callback. A timer from an earlier session, or one
// that lost the race with Submit, finds the generation or phase changed and
// does nothing.
func (m *Machine) expire(gen uint64) {
	m.mu.Lock()
	if m.gen != gen || m.phase != PhasePlaying {
		m.mu.Unlock()
		return
	}
	res := m.completeLocked(true)
	m.mu.Unlock()

	m.notify(m.opts.OnComplete, res)
}

func (m *Machine) completeLocked(timedOut bool) Result {
	m.stopTimerLocked()

	elapsed := m.opts.Clock.Now().Sub(m.session.StartedAt)
	if timedOut && m.def.Timed() {
		elapsed = m.def.TimeLimit
	}
	m.session.Outcome.SetElapsed(elapsed)

	res := Result{
		SessionID:   m.session.ID,
		ChallengeID: m.def.ID,
		CareerID:    m.def.CareerID,
		Score:       scoring.Score(m.def.Config, m.session.Outcome),
		Elapsed:     elapsed,
		TimedOut:    timedOut,
		Outcome:     m.session.Outcome,
	}
	m.result = &res
	m.phase = PhaseComplete
	return res
}

// Retry discards the completed session and returns to intro.
func (m *Machine) Retry() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseComplete {
		return m.invalid("retry")
	}
	m.stopTimerLocked()
	m.session = nil
	m.result = nil
	m.phase = PhaseIntro
	return nil
}

// Continue accepts the completed result and hands it to OnContinue.
func (m *Machine) Continue() (Result, error) {
	m.mu.Lock()
	if m.phase != PhaseComplete || m.result == nil {
		err := m.invalid("continue")
		m.mu.Unlock()
		return Result{}, err
	}
	res := *m.result
	m.phase = PhaseContinued
	m.mu.Unlock()

	m.notify(m.opts.OnContinue, res)
	return res, nil
}

// Exit abandons the machine from any non-terminal phase. The session is
// discarded without scoring.
func (m *Machine) Exit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase.Terminal() {
		return m.invalid("exit")
	}
	m.stopTimerLocked()
	m.gen++
	m.session = nil
	m.result = nil
	m.phase = PhaseExited
	return nil
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Machine) invalid(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, m.phase)
}

func (m *Machine) notify(fn func(Result), res Result) {
	if fn != nil {
		fn(res)
	}
}
