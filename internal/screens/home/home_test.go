package home

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/progression"
	"github.com/abhisek/careerquest/internal/router"
	"github.com/abhisek/careerquest/internal/screen"
	"github.com/abhisek/careerquest/internal/screens/career"
	"github.com/abhisek/careerquest/internal/screens/stats"
)

type fakeProgression struct {
	overview progression.Overview
}

func (f *fakeProgression) Overview(_ context.Context, _ string, _ []catalog.Career) (progression.Overview, error) {
	return f.overview, nil
}

func (f *fakeProgression) RecordAsync(_ context.Context, c progression.Completion) <-chan progression.Report {
	out := make(chan progression.Report, 1)
	out <- progression.Report{Completion: c}
	close(out)
	return out
}

func newTestHome(t *testing.T) (*HomeScreen, *catalog.Catalog, *fakeProgression) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	prog := &fakeProgression{}
	h := New(Deps{Catalog: cat, Progression: prog, UserID: "u1"})
	return h, cat, prog
}

func TestHome_MenuLabels(t *testing.T) {
	h, cat, _ := newTestHome(t)

	labels := h.menu.Labels()
	careers := cat.Careers()
	if len(labels) != len(careers)+3 {
		t.Fatalf("got %d items, want %d", len(labels), len(careers)+3)
	}
	for i, c := range careers {
		if labels[i] != strings.ToUpper(c.Name) {
			t.Errorf("item %d = %q, want %q", i, labels[i], strings.ToUpper(c.Name))
		}
	}
	tail := labels[len(careers):]
	if tail[0] != "STATS" || tail[1] != "HISTORY" || tail[2] != "EXIT" {
		t.Errorf("unexpected trailing items %v", tail)
	}
	if !h.menu.DisabledSet()[len(careers)+1] {
		t.Error("HISTORY should be disabled without a history source")
	}
}

func TestHome_LoadShowsCounts(t *testing.T) {
	h, cat, prog := newTestHome(t)

	first := cat.Careers()[0]
	var views []progression.ChallengeView
	for i, def := range first.Challenges {
		v := progression.ChallengeView{Definition: def, Unlocked: i == 0}
		if i == 0 {
			v.Record = &progress.ChallengeRecord{Status: progress.StatusCompleted, BestScore: def.MaxScore}
		}
		views = append(views, v)
	}
	prog.overview = progression.Overview{
		Profile: progress.Profile{UserID: "u1", Experience: 150, Level: 2},
		Level:   progress.ProgressFor(150),
		Careers: []progression.CareerView{{
			Career:     first,
			Record:     &progress.CareerRecord{Status: progress.StatusInProgress},
			Status:     progress.StatusInProgress,
			Challenges: views,
		}},
	}

	_, cmd := h.Update(h.Init()())
	if cmd == nil {
		t.Fatal("expected a profile command")
	}
	pm, ok := cmd().(screen.ProfileMsg)
	if !ok {
		t.Fatalf("expected ProfileMsg, got %T", cmd())
	}
	if pm.Profile.Level != 2 {
		t.Errorf("profile level = %d, want 2", pm.Profile.Level)
	}

	want := fmt.Sprintf("%s  1/%d", strings.ToUpper(first.Name), len(first.Challenges))
	if got := h.menu.Labels()[0]; got != want {
		t.Errorf("label = %q, want %q", got, want)
	}
	if h.mascot != MascotNudge {
		t.Errorf("mascot = %d, want nudge", h.mascot)
	}
	if !strings.Contains(h.View(100, 40), "LEVEL 2") {
		t.Error("stats bar should show the level")
	}
}

func TestHome_Navigation(t *testing.T) {
	h, cat, _ := newTestHome(t)

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*career.CareerScreen); !ok {
		t.Errorf("pushed %T, want *career.CareerScreen", push.Screen)
	}

	for range cat.Careers() {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd = h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push, ok = cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg for STATS")
	}
	if _, ok := push.Screen.(*stats.StatsScreen); !ok {
		t.Errorf("pushed %T, want *stats.StatsScreen", push.Screen)
	}

	// HISTORY is disabled, so one more down lands on EXIT.
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd = h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("EXIT should quit")
	}
}

func TestPickMascot(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-2 * time.Hour)
	old := now.Add(-72 * time.Hour)

	tests := []struct {
		name string
		ov   progression.Overview
		want MascotVariant
	}{
		{"empty", progression.Overview{}, MascotIdle},
		{"in progress", progression.Overview{Careers: []progression.CareerView{
			{Status: progress.StatusInProgress, Record: &progress.CareerRecord{Status: progress.StatusInProgress}},
		}}, MascotNudge},
		{"just finished", progression.Overview{Careers: []progression.CareerView{
			{Status: progress.StatusCompleted, Record: &progress.CareerRecord{Status: progress.StatusCompleted, CompletedAt: &recent}},
		}}, MascotCelebrating},
		{"finished long ago", progression.Overview{Careers: []progression.CareerView{
			{Status: progress.StatusCompleted, Record: &progress.CareerRecord{Status: progress.StatusCompleted, CompletedAt: &old}},
		}}, MascotIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickMascot(tt.ov, now); got != tt.want {
				t.Errorf("pickMascot = %d, want %d", got, tt.want)
			}
		})
	}
}
