package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerquest/internal/router"
	"github.com/abhisek/careerquest/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "home" }
func (s *stubScreen) Title() string                          { return "Home" }

func newTestWelcome() (*WelcomeScreen, *int) {
	calls := 0
	next := func() screen.Screen {
		calls++
		return &stubScreen{}
	}
	return New(next, []string{"Pilot", "Chef", "Doctor"}), &calls
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestBadgesRevealInOrder(t *testing.T) {
	w, _ := newTestWelcome()

	if w.lit() != 0 {
		t.Errorf("no badge should be lit at start, got %d", w.lit())
	}
	if strings.Contains(w.View(100, 30), "Pilot") {
		t.Error("career names should be hidden before the reveal")
	}

	sendTicks(w, 5) // 500ms
	if w.lit() != 1 {
		t.Errorf("lit = %d at 500ms, want 1", w.lit())
	}
	view := w.View(100, 30)
	if !strings.Contains(view, "Pilot") || strings.Contains(view, "Chef") {
		t.Error("only the first career should be revealed")
	}

	sendTicks(w, 4) // 900ms
	if w.lit() != 3 {
		t.Errorf("lit = %d at 900ms, want all 3", w.lit())
	}
	if w.highlighted() != -1 {
		t.Error("no highlight before the banner")
	}
	if containsTagline(w.View(100, 30)) {
		t.Error("tagline should wait for the banner")
	}
}

func TestBannerAndHighlight(t *testing.T) {
	w, _ := newTestWelcome()

	sendTicks(w, 15) // 1500ms
	if !containsTagline(w.View(100, 30)) {
		t.Error("tagline should be visible with the banner")
	}
	first := w.highlighted()
	if first < 0 {
		t.Fatal("a career should be highlighted once the banner is up")
	}
	sendTicks(w, highlightEvery)
	if w.highlighted() == first {
		t.Error("highlight should move to the next career")
	}
}

func TestElapsedCapped(t *testing.T) {
	w, calls := newTestWelcome()

	sendTicks(w, 60)
	if w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want capped at %v", w.elapsed, totalDur)
	}
	if *calls != 0 {
		t.Errorf("next should not be built without a keypress, got %d calls", *calls)
	}
}

func TestKeypressReplacesOnce(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress mid-animation should transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen == nil {
		t.Error("replacement screen should not be nil")
	}

	_, cmd = w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *calls != 1 {
		t.Errorf("next should be built exactly once, got %d", *calls)
	}
}

func TestNoCareers(t *testing.T) {
	w := New(func() screen.Screen { return &stubScreen{} }, nil)
	sendTicks(w, 20)
	if w.highlighted() != -1 || w.lit() != 0 {
		t.Error("an empty marquee has nothing to light")
	}
	if !containsTagline(w.View(80, 24)) {
		t.Error("tagline should still show")
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcome()
	if w.Title() != "" {
		t.Errorf("expected empty title, got %q", w.Title())
	}
}

func containsTagline(s string) bool {
	return strings.Contains(s, "one challenge at a time")
}
