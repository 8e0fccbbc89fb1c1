package progression

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/logger"
	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/scoring"
	"github.com/abhisek/careerquest/internal/store"
)

// Step names one stage of Record, used in failures.
type Step string

const (
	StepDefinitions     Step = "definitions"
	StepFetchChallenge  Step = "fetch_challenge"
	StepUpsertChallenge Step = "upsert_challenge"
	StepProfile         Step = "profile"
	StepCareer          Step = "career"
	StepEvent           Step = "event"
	StepReload          Step = "reload"
)

// ErrSkipped marks steps that did not run because an earlier one failed.
var ErrSkipped = errors.New("skipped after earlier failure")

// Completion is one finished play session handed to the orchestrator.
type Completion struct {
	UserID      string
	ChallengeID string
	CareerID    string
	SessionID   string
	RawScore    int
}

// StepFailure records a step that did not complete.
type StepFailure struct {
	Step Step
	Err  error
}

func (f StepFailure) Error() string { return fmt.Sprintf("%s: %v", f.Step, f.Err) }
func (f StepFailure) Unwrap() error { return f.Err }

// Report describes what Record did. Score is what the player is shown no
// matter which writes failed.
type Report struct {
	Completion Completion
	Score      int // RawScore clamped to the challenge's max score

	Reconciliation  progress.Reconciliation
	ChallengeSaved  bool
	ProfileCredited bool
	CareerChanged   bool
	CareerCompleted bool   // this completion finished the career
	Unlocked        string // challenge opened by this first completion, if any
	Event           *store.CompletionEvent

	// Reloaded state, nil or zero when the reload failed.
	Profile progress.Profile
	Career  *progress.CareerRecord

	Failures []StepFailure
}

// OK reports whether every step succeeded.
func (r Report) OK() bool { return len(r.Failures) == 0 }

// Failed reports whether step failed or was skipped.
func (r Report) Failed(step Step) bool {
	for _, f := range r.Failures {
		if f.Step == step {
			return true
		}
	}
	return false
}

// Err joins every failure, or returns nil.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func (r *Report) fail(step Step, err error) {
	r.Failures = append(r.Failures, StepFailure{Step: step, Err: err})
}

// Options configures a Service.
type Options struct {
	Logger *logger.Logger
	Events EventSink        // optional; completion events are skipped when nil
	Now    func() time.Time // defaults to time.Now
}

// Service is the progression orchestrator. Calls for the same user are
// serialized in-process; different users proceed independently.
type Service struct {
	gw     Gateway
	events EventSink
	log    *logger.Logger
	now    func() time.Time

	mu    sync.Mutex
	users map[string]*sync.Mutex

	inflight sync.WaitGroup
}

// NewService creates an orchestrator over gw.
func NewService(gw Gateway, opts Options) *Service {
	s := &Service{
		gw:     gw,
		events: opts.Events,
		log:    opts.Logger,
		now:    opts.Now,
		users:  make(map[string]*sync.Mutex),
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.log = s.log.Named("progression")
	return s
}

// lockUser serializes Record per user. Entries are never removed; one
// mutex per user is fine for a local single-player store.
func (s *Service) lockUser(userID string) func() {
	s.mu.Lock()
	m, ok := s.users[userID]
	if !ok {
		m = &sync.Mutex{}
		s.users[userID] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// OnChallengeComplete records a completion in the background. The returned
// channel yields the report once and is then closed; callers may ignore it.
// The work outlives ctx cancellation so leaving a screen never drops a write.
func (s *Service) OnChallengeComplete(ctx context.Context, userID, challengeID, careerID string, rawScore int) <-chan Report {
	return s.RecordAsync(ctx, Completion{
		UserID:      userID,
		ChallengeID: challengeID,
		CareerID:    careerID,
		RawScore:    rawScore,
	})
}

// RecordAsync is OnChallengeComplete for a full Completion.
func (s *Service) RecordAsync(ctx context.Context, c Completion) <-chan Report {
	out := make(chan Report, 1)
	ctx = context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer close(out)
		out <- s.Record(ctx, c)
	}()
	return out
}

// Wait blocks until every background Record has finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}

// Record folds one completion into persisted state. Steps run in order and
// each failure is logged and reported without aborting later independent
// steps. Nothing is rolled back; every step is safe to repeat, and Resync
// heals a career rollup left behind.
func (s *Service) Record(ctx context.Context, c Completion) Report {
	unlock := s.lockUser(c.UserID)
	defer unlock()

	rep := Report{Completion: c, Score: scoring.Clamp(c.RawScore)}
	log := s.log.With("user_id", c.UserID, "challenge_id", c.ChallengeID, "career_id", c.CareerID)

	defs, err := s.gw.ListChallengeDefinitions(ctx, c.CareerID)
	if err != nil {
		log.Error("list challenge definitions", "error", err)
		rep.fail(StepDefinitions, err)
		s.skip(&rep, StepFetchChallenge, StepUpsertChallenge, StepProfile, StepCareer, StepEvent)
		return rep
	}
	def, ok := findDefinition(defs, c.ChallengeID)
	if !ok {
		err := fmt.Errorf("%w: %s in career %s", catalog.ErrUnknownChallenge, c.ChallengeID, c.CareerID)
		log.Error("completion for unknown challenge", "error", err)
		rep.fail(StepDefinitions, err)
		s.skip(&rep, StepFetchChallenge, StepUpsertChallenge, StepProfile, StepCareer, StepEvent)
		return rep
	}
	rep.Score = progress.ClampScore(c.RawScore, def.MaxScore)
	now := s.now()

	// 1. Existing record. Without it a replay would look like a first
	// completion and overwrite the best score, so nothing else runs.
	existing, err := s.gw.GetChallengeProgress(ctx, c.UserID, c.ChallengeID)
	if err != nil {
		log.Error("fetch challenge progress", "error", err)
		rep.fail(StepFetchChallenge, err)
		s.skip(&rep, StepUpsertChallenge, StepProfile, StepCareer, StepEvent)
		s.reload(ctx, &rep, log)
		return rep
	}

	// 2. Reconcile.
	rec := progress.Reconcile(existing, c.UserID, c.ChallengeID, c.CareerID, rep.Score, now)
	rep.Reconciliation = rec

	// 3. Persist the challenge record.
	if err := s.gw.UpsertChallengeProgress(ctx, rec.Next); err != nil {
		log.Error("upsert challenge progress", "error", err, "score", rep.Score)
		rep.fail(StepUpsertChallenge, err)
		s.skip(&rep, StepProfile, StepCareer, StepEvent)
		s.reload(ctx, &rep, log)
		return rep
	}
	rep.ChallengeSaved = true
	if rec.IsFirstCompletion {
		if next, ok := nextDefinition(defs, def); ok {
			rep.Unlocked = next.ID
		}
	}

	// 4. Credit the profile with the positive delta only.
	if rec.ScoreDelta > 0 {
		if err := s.creditProfile(ctx, c.UserID, rec.ScoreDelta); err != nil {
			log.Warn("profile credit lagging", "error", err, "delta", rec.ScoreDelta)
			rep.fail(StepProfile, err)
		} else {
			rep.ProfileCredited = true
		}
	}

	// 5. Career rollup with the new record merged in.
	career, changed, completedNow, err := s.rollupCareer(ctx, c.UserID, c.CareerID, defs, &rec.Next, now)
	if err != nil {
		log.Warn("career rollup lagging", "error", err)
		rep.fail(StepCareer, err)
	} else {
		rep.CareerChanged = changed
		rep.CareerCompleted = completedNow
		rep.Career = &career
	}

	// 6. Completion event, best effort.
	if s.events != nil {
		ev, err := s.events.AppendCompletion(ctx, store.CompletionEvent{
			Timestamp:       now,
			UserID:          c.UserID,
			ChallengeID:     c.ChallengeID,
			CareerID:        c.CareerID,
			SessionID:       c.SessionID,
			RawScore:        c.RawScore,
			Score:           rep.Score,
			ScoreDelta:      rec.ScoreDelta,
			FirstCompletion: rec.IsFirstCompletion,
			Attempt:         rec.Next.Attempts,
		})
		if err != nil {
			log.Warn("append completion event", "error", err)
			rep.fail(StepEvent, err)
		} else {
			rep.Event = &ev
		}
	}

	// 7. Reload what the UI shows.
	s.reload(ctx, &rep, log)

	log.Info("challenge recorded",
		"score", rep.Score,
		"best", rec.Next.BestScore,
		"attempts", rec.Next.Attempts,
		"delta", rec.ScoreDelta,
		"career_status", careerStatus(rep.Career),
		"failures", len(rep.Failures),
	)
	return rep
}

func (s *Service) skip(rep *Report, steps ...Step) {
	for _, st := range steps {
		if st == StepEvent && s.events == nil {
			continue
		}
		rep.fail(st, ErrSkipped)
	}
}

func (s *Service) creditProfile(ctx context.Context, userID string, delta int) error {
	p, err := s.gw.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}
	upd, changed := progress.Credit(p, delta)
	if !changed {
		return nil
	}
	if err := s.gw.UpdateProfile(ctx, userID, upd); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// rollupCareer aggregates a career from its definitions and the user's
// records, with fresh (if non-nil) replacing any stored copy, and writes the
// career record when it changed.
func (s *Service) rollupCareer(ctx context.Context, userID, careerID string, defs []catalog.ChallengeDefinition, fresh *progress.ChallengeRecord, now time.Time) (rec progress.CareerRecord, changed, completedNow bool, err error) {
	siblings, err := s.gw.ListChallengeProgress(ctx, userID, careerID)
	if err != nil {
		return rec, false, false, fmt.Errorf("list sibling progress: %w", err)
	}
	if fresh != nil {
		siblings = mergeRecord(siblings, *fresh)
	}

	ids := definitionIDs(defs)
	aggregated := progress.AggregateCareer(ids, progress.StatusMap(siblings))
	score := progress.CareerScore(ids, siblings)

	current, err := s.gw.GetCareerProgress(ctx, userID, careerID)
	if err != nil {
		return rec, false, false, fmt.Errorf("get career progress: %w", err)
	}

	rec, changed = progress.NextCareer(current, userID, careerID, aggregated, score, now)
	if !changed {
		return rec, false, false, nil
	}
	if err := s.gw.UpsertCareerProgress(ctx, rec); err != nil {
		return rec, false, false, fmt.Errorf("upsert career progress: %w", err)
	}
	wasCompleted := current != nil && current.Status == progress.StatusCompleted
	return rec, true, rec.Status == progress.StatusCompleted && !wasCompleted, nil
}

func (s *Service) reload(ctx context.Context, rep *Report, log *logger.Logger) {
	c := rep.Completion
	p, err := s.gw.GetProfile(ctx, c.UserID)
	if err != nil {
		log.Warn("reload profile", "error", err)
		rep.fail(StepReload, err)
		return
	}
	rep.Profile = p

	career, err := s.gw.GetCareerProgress(ctx, c.UserID, c.CareerID)
	if err != nil {
		log.Warn("reload career", "error", err)
		rep.fail(StepReload, err)
		return
	}
	rep.Career = career
}

// ResyncResult describes a Resync run.
type ResyncResult struct {
	Career  progress.CareerRecord
	Changed bool
}

// Resync re-runs the career rollup for one career. It is idempotent and
// repairs a career record that lagged after a failed write.
func (s *Service) Resync(ctx context.Context, userID, careerID string) (ResyncResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	defs, err := s.gw.ListChallengeDefinitions(ctx, careerID)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("list challenge definitions: %w", err)
	}
	rec, changed, _, err := s.rollupCareer(ctx, userID, careerID, defs, nil, s.now())
	if err != nil {
		s.log.Warn("resync career", "user_id", userID, "career_id", careerID, "error", err)
		return ResyncResult{}, err
	}
	if changed {
		s.log.Info("career resynced", "user_id", userID, "career_id", careerID, "status", string(rec.Status))
	}
	return ResyncResult{Career: rec, Changed: changed}, nil
}

// ResyncProfile credits a profile whose total lags the sum of the user's
// best scores, which happens when a profile write failed after its challenge
// record was saved. Profiles are never debited. It returns the credited
// amount.
func (s *Service) ResyncProfile(ctx context.Context, userID string) (int, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	records, err := s.gw.ListChallengeProgress(ctx, userID, "")
	if err != nil {
		return 0, fmt.Errorf("list progress: %w", err)
	}
	best := 0
	for _, r := range records {
		best += r.BestScore
	}

	p, err := s.gw.GetProfile(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get profile: %w", err)
	}
	lag := best - p.TotalScore
	if lag <= 0 {
		return 0, nil
	}
	upd, _ := progress.Credit(p, lag)
	if err := s.gw.UpdateProfile(ctx, userID, upd); err != nil {
		return 0, fmt.Errorf("update profile: %w", err)
	}
	s.log.Info("profile resynced", "user_id", userID, "credited", lag)
	return lag, nil
}

func findDefinition(defs []catalog.ChallengeDefinition, id string) (catalog.ChallengeDefinition, bool) {
	for _, d := range defs {
		if d.ID == id {
			return d, true
		}
	}
	return catalog.ChallengeDefinition{}, false
}

// nextDefinition returns the challenge ordered right after def.
func nextDefinition(defs []catalog.ChallengeDefinition, def catalog.ChallengeDefinition) (catalog.ChallengeDefinition, bool) {
	var next catalog.ChallengeDefinition
	found := false
	for _, d := range defs {
		if d.Order > def.Order && (!found || d.Order < next.Order) {
			next, found = d, true
		}
	}
	return next, found
}

func definitionIDs(defs []catalog.ChallengeDefinition) []string {
	ids := make([]string, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}
	return ids
}

func mergeRecord(records []progress.ChallengeRecord, fresh progress.ChallengeRecord) []progress.ChallengeRecord {
	out := make([]progress.ChallengeRecord, 0, len(records)+1)
	for _, r := range records {
		if r.ChallengeID != fresh.ChallengeID {
			out = append(out, r)
		}
	}
	return append(out, fresh)
}

func careerStatus(rec *progress.CareerRecord) string {
	if rec == nil {
		return ""
	}
	return string(rec.Status)
}
