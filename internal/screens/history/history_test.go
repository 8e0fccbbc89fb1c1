package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/router"
	"github.com/abhisek/careerquest/internal/store"
)

type fakeSource struct {
	events []store.CompletionEvent
	opts   store.QueryOpts
}

func (f *fakeSource) RecentCompletions(_ context.Context, _ string, opts store.QueryOpts) ([]store.CompletionEvent, error) {
	f.opts = opts
	return f.events, nil
}

func testEvents() []store.CompletionEvent {
	ts := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []store.CompletionEvent{
		{Sequence: 2, Timestamp: ts, ChallengeID: "pilot-callouts", CareerID: "pilot", SessionID: "abcdef123456",
			RawScore: 120, Score: 100, ScoreDelta: 30, Attempt: 2},
		{Sequence: 1, Timestamp: ts.Add(-time.Hour), ChallengeID: "unknown-id", CareerID: "pilot",
			RawScore: 70, Score: 70, ScoreDelta: 70, FirstCompletion: true, Attempt: 1},
	}
}

func TestHistoryScreen_ListsEvents(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	src := &fakeSource{events: testEvents()}
	s := New(src, cat, "u1")

	if !strings.Contains(s.View(120, 30), "Loading") {
		t.Error("expected loading view before events arrive")
	}
	s.Update(s.Init()())
	if src.opts.Limit != Limit {
		t.Errorf("limit = %d, want %d", src.opts.Limit, Limit)
	}

	def, err := cat.Challenge("pilot-callouts")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	view := s.View(120, 30)
	for _, want := range []string{def.Title, "unknown-id", "+30 XP", "first clear"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_ExpandAndNavigate(t *testing.T) {
	s := New(&fakeSource{events: testEvents()}, nil, "u1")
	s.Update(s.Init()())

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 30), "session abcdef12") {
		t.Error("expanded row should show the short session id")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc should pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(&fakeSource{}, nil, "u1")
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 24), "No completed challenges") {
		t.Error("expected the empty state")
	}
}
