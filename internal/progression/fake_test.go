package progression

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/store"
)

// fakeGateway is an in-memory Gateway. fail maps a method name to the error
// it returns (once if failOnce is set for it, otherwise until cleared).
type fakeGateway struct {
	mu         sync.Mutex
	defs       map[string][]catalog.ChallengeDefinition
	challenges map[string]progress.ChallengeRecord // user/challenge
	careers    map[string]progress.CareerRecord    // user/career
	profiles   map[string]progress.Profile
	fail       map[string]error
	failOnce   map[string]bool
	calls      map[string]int
}

func newFakeGateway(careers ...catalog.Career) *fakeGateway {
	g := &fakeGateway{
		defs:       make(map[string][]catalog.ChallengeDefinition),
		challenges: make(map[string]progress.ChallengeRecord),
		careers:    make(map[string]progress.CareerRecord),
		profiles:   make(map[string]progress.Profile),
		fail:       make(map[string]error),
		failOnce:   make(map[string]bool),
		calls:      make(map[string]int),
	}
	for _, c := range careers {
		g.defs[c.ID] = c.Challenges
	}
	return g
}

func (g *fakeGateway) failWith(method string, err error, once bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail[method] = err
	g.failOnce[method] = once
}

func (g *fakeGateway) clearFailures() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail = make(map[string]error)
}

// enter records a call and returns its injected error. Callers hold g.mu.
func (g *fakeGateway) enter(method string) error {
	g.calls[method]++
	err := g.fail[method]
	if err != nil && g.failOnce[method] {
		delete(g.fail, method)
	}
	return err
}

func (g *fakeGateway) callCount(method string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[method]
}

func key(a, b string) string { return a + "/" + b }

func (g *fakeGateway) GetChallengeProgress(_ context.Context, userID, challengeID string) (*progress.ChallengeRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("GetChallengeProgress"); err != nil {
		return nil, err
	}
	rec, ok := g.challenges[key(userID, challengeID)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (g *fakeGateway) UpsertChallengeProgress(_ context.Context, rec progress.ChallengeRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("UpsertChallengeProgress"); err != nil {
		return err
	}
	g.challenges[key(rec.UserID, rec.ChallengeID)] = rec
	return nil
}

func (g *fakeGateway) ListChallengeProgress(_ context.Context, userID, careerID string) ([]progress.ChallengeRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("ListChallengeProgress"); err != nil {
		return nil, err
	}
	var out []progress.ChallengeRecord
	for _, rec := range g.challenges {
		if rec.UserID == userID && (careerID == "" || rec.CareerID == careerID) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChallengeID < out[j].ChallengeID })
	return out, nil
}

func (g *fakeGateway) GetCareerProgress(_ context.Context, userID, careerID string) (*progress.CareerRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("GetCareerProgress"); err != nil {
		return nil, err
	}
	rec, ok := g.careers[key(userID, careerID)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (g *fakeGateway) UpsertCareerProgress(_ context.Context, rec progress.CareerRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("UpsertCareerProgress"); err != nil {
		return err
	}
	g.careers[key(rec.UserID, rec.CareerID)] = rec
	return nil
}

func (g *fakeGateway) GetProfile(_ context.Context, userID string) (progress.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("GetProfile"); err != nil {
		return progress.Profile{}, err
	}
	p, ok := g.profiles[userID]
	if !ok {
		return progress.Profile{UserID: userID, Level: 1}, nil
	}
	return p, nil
}

func (g *fakeGateway) UpdateProfile(_ context.Context, userID string, upd progress.ProfileUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("UpdateProfile"); err != nil {
		return err
	}
	g.profiles[userID] = progress.Profile{
		UserID:     userID,
		TotalScore: upd.TotalScore,
		Experience: upd.Experience,
		Level:      upd.Level,
	}
	return nil
}

func (g *fakeGateway) ListChallengeDefinitions(_ context.Context, careerID string) ([]catalog.ChallengeDefinition, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.enter("ListChallengeDefinitions"); err != nil {
		return nil, err
	}
	defs, ok := g.defs[careerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownCareer, careerID)
	}
	return defs, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []store.CompletionEvent
	err    error
}

func (f *fakeEvents) AppendCompletion(_ context.Context, ev store.CompletionEvent) (store.CompletionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return store.CompletionEvent{}, f.err
	}
	ev.Sequence = int64(len(f.events) + 1)
	f.events = append(f.events, ev)
	return ev, nil
}

func testCareer(id string, n int) catalog.Career {
	c := catalog.Career{ID: id, Name: id}
	for i := 1; i <= n; i++ {
		c.Challenges = append(c.Challenges, catalog.ChallengeDefinition{
			ID:       fmt.Sprintf("%s-%d", id, i),
			CareerID: id,
			Order:    i,
			MaxScore: 100,
		})
	}
	return c
}
