package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/router"
	"github.com/abhisek/careerquest/internal/screen"
	"github.com/abhisek/careerquest/internal/store"
	"github.com/abhisek/careerquest/internal/ui/layout"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

// Source reads completion events.
type Source interface {
	RecentCompletions(ctx context.Context, userID string, opts store.QueryOpts) ([]store.CompletionEvent, error)
}

// Limit is how many events the screen loads.
const Limit = 50

type historyLoadedMsg struct {
	Events []store.CompletionEvent
	Err    error
}

// HistoryScreen displays recent challenge completions.
type HistoryScreen struct {
	source   Source
	catalog  *catalog.Catalog
	userID   string
	events   []store.CompletionEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. cat resolves challenge titles and may
// be nil.
func New(source Source, cat *catalog.Catalog, userID string) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		catalog:  cat,
		userID:   userID,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		events, err := s.source.RecentCompletions(context.Background(), s.userID, store.QueryOpts{Limit: Limit})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) title(ev store.CompletionEvent) string {
	if s.catalog != nil {
		if def, err := s.catalog.Challenge(ev.ChallengeID); err == nil && def.Title != "" {
			return def.Title
		}
	}
	return ev.ChallengeID
}

func notice(width int, fg color.Color, text string) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(fg).Render("\n\n" + text)
}

// rows renders event i as its summary line plus, when expanded, a detail line.
func (s *HistoryScreen) rows(i int) []string {
	ev := s.events[i]
	cursor, style := "  ", lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		cursor, style = "> ", style.Foreground(theme.Primary).Bold(true)
	}

	var tail strings.Builder
	if ev.ScoreDelta > 0 {
		fmt.Fprintf(&tail, "  +%d XP", ev.ScoreDelta)
	}
	if ev.FirstCompletion {
		tail.WriteString("  ★ first clear")
	}

	out := []string{style.Render(fmt.Sprintf("%s%s  %-28s %3d pts%s",
		cursor, ev.Timestamp.Local().Format("Jan 02 15:04"), s.title(ev), ev.Score, tail.String()))}
	if s.expanded[i] {
		out = append(out, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(
			fmt.Sprintf("    %s · attempt %d · reported %d · session %s",
				ev.CareerID, ev.Attempt, ev.RawScore, shortID(ev.SessionID))))
	}
	return out
}

func (s *HistoryScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return notice(width, theme.Error, "Error: "+s.errMsg)
	case !s.loaded:
		return notice(width, theme.TextDim, "Loading history...")
	case len(s.events) == 0:
		return notice(width, theme.TextDim, "No completed challenges yet. Pick a career!")
	}

	// Start the window early enough that the selected event stays on screen.
	visible := max(height-2, 1)
	start := max(s.selected-visible+2, 0)

	lines := []string{""}
	for i := start; i < len(s.events) && len(lines) <= visible; i++ {
		lines = append(lines, s.rows(i)...)
	}
	for i, l := range lines {
		lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, l)
	}
	return strings.Join(lines, "\n")
}

func shortID(id string) string {
	switch {
	case id == "":
		return "-"
	case len(id) > 8:
		return id[:8]
	}
	return id
}
