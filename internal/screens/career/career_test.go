package career

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/progression"
	"github.com/abhisek/careerquest/internal/router"
	"github.com/abhisek/careerquest/internal/scoring"
	"github.com/abhisek/careerquest/internal/screen"
	"github.com/abhisek/careerquest/internal/screens/play"
)

type fakeProgression struct {
	overview progression.Overview
	err      error
	calls    int
}

func (f *fakeProgression) Overview(_ context.Context, _ string, _ []catalog.Career) (progression.Overview, error) {
	f.calls++
	return f.overview, f.err
}

func (f *fakeProgression) RecordAsync(_ context.Context, c progression.Completion) <-chan progression.Report {
	out := make(chan progression.Report, 1)
	out <- progression.Report{Completion: c, Score: c.RawScore}
	close(out)
	return out
}

func testCareer() catalog.Career {
	defs := []catalog.ChallengeDefinition{
		{
			ID: "chef-pantry", CareerID: "chef", Title: "Stock the Pantry", Order: 1, MaxScore: 100,
			Archetype: scoring.ArchetypeSelection,
			Config:    &scoring.SelectionConfig{Options: []string{"salt", "sand"}, Correct: []string{"salt"}},
		},
		{
			ID: "chef-plating", CareerID: "chef", Title: "Plating Order", Order: 2, MaxScore: 100,
			Archetype: scoring.ArchetypeSelection,
			Config:    &scoring.SelectionConfig{Options: []string{"sauce", "garnish"}, Correct: []string{"garnish"}},
		},
	}
	return catalog.Career{ID: "chef", Name: "Chef", Description: "Run the line.", Challenges: defs}
}

func testOverview(c catalog.Career) progression.Overview {
	rec := &progress.ChallengeRecord{ChallengeID: "chef-pantry", Status: progress.StatusInProgress, BestScore: 40, Attempts: 2}
	return progression.Overview{
		Profile: progress.Profile{UserID: "u1", Experience: 40, Level: 1},
		Level:   progress.ProgressFor(40),
		Careers: []progression.CareerView{{
			Career: c,
			Status: progress.StatusInProgress,
			Challenges: []progression.ChallengeView{
				{Definition: c.Challenges[0], Record: rec, Unlocked: true},
				{Definition: c.Challenges[1], Unlocked: false},
			},
		}},
	}
}

func loaded(t *testing.T, prog *fakeProgression) *CareerScreen {
	t.Helper()
	c := testCareer()
	prog.overview = testOverview(c)
	s := New(c, prog, play.Options{UserID: "u1"})
	msg := s.Init()()
	_, cmd := s.Update(msg)
	if cmd == nil {
		t.Fatal("expected a profile command after load")
	}
	if _, ok := cmd().(screen.ProfileMsg); !ok {
		t.Fatal("load should emit a ProfileMsg")
	}
	return s
}

func TestCareerScreen_ListsChallenges(t *testing.T) {
	s := loaded(t, &fakeProgression{})

	view := s.View(100, 30)
	for _, want := range []string{"CHEF", "Stock the Pantry", "Plating Order", "best 40/100"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestCareerScreen_LockedChallengeShowsNotice(t *testing.T) {
	s := loaded(t, &fakeProgression{})

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("a locked challenge should not open")
	}
	if !strings.Contains(s.notice, "Locked") {
		t.Errorf("notice = %q", s.notice)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.notice != "" {
		t.Error("moving should clear the notice")
	}
}

func TestCareerScreen_PushesPlayScreen(t *testing.T) {
	s := loaded(t, &fakeProgression{})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*play.PlayScreen); !ok {
		t.Errorf("pushed %T, want *play.PlayScreen", push.Screen)
	}
}

func TestCareerScreen_ResumeReloads(t *testing.T) {
	prog := &fakeProgression{}
	s := loaded(t, prog)

	msg := s.Resume()()
	if prog.calls != 2 {
		t.Errorf("overview calls = %d, want 2", prog.calls)
	}
	if _, ok := msg.(loadedMsg); !ok {
		t.Errorf("resume produced %T", msg)
	}
}

func TestCareerScreen_LoadError(t *testing.T) {
	prog := &fakeProgression{err: errors.New("disk gone")}
	s := New(testCareer(), prog, play.Options{UserID: "u1"})
	s.Update(s.Init()())

	if !strings.Contains(s.View(80, 24), "disk gone") {
		t.Error("view should show the load error")
	}
}
