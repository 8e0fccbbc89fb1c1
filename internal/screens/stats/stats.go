// Package stats renders the player's level and per-career progress, both
// as a TUI screen and as plain lipgloss output for the CLI.
package stats

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/progression"
	"github.com/abhisek/careerquest/internal/router"
	"github.com/abhisek/careerquest/internal/screen"
	"github.com/abhisek/careerquest/internal/ui/components"
	"github.com/abhisek/careerquest/internal/ui/layout"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

// Loader reads the overview.
type Loader interface {
	Overview(ctx context.Context, userID string, careers []catalog.Career) (progression.Overview, error)
}

type loadedMsg struct {
	overview progression.Overview
	err      error
}

// StatsScreen shows the overview.
type StatsScreen struct {
	loader   Loader
	careers  []catalog.Career
	userID   string
	overview progression.Overview
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a StatsScreen.
func New(loader Loader, careers []catalog.Career, userID string) *StatsScreen {
	return &StatsScreen{loader: loader, careers: careers, userID: userID}
}

func (s *StatsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ov, err := s.loader.Overview(context.Background(), s.userID, s.careers)
		return loadedMsg{overview: ov, err: err}
	}
}

func (s *StatsScreen) Title() string {
	return "Stats"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.overview = msg.overview
	case tea.KeyMsg:
		if msg.String() == "esc" || msg.String() == "q" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading stats...")
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		RenderOverview(s.overview, components.ContentWidth(width)))
}

// RenderOverview draws the level bar and one progress bar per career.
func RenderOverview(ov progression.Overview, width int) string {
	var b strings.Builder

	lp := ov.Level
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).
		Render(fmt.Sprintf("Level %d", lp.Level)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("   %d XP  ·  total score %d", ov.Profile.Experience, ov.Profile.TotalScore)))
	b.WriteString("\n")

	xp := components.NewProgressBar("XP", lp.Percent, false, width)
	xp.Fill = theme.Gold
	xp.Suffix = fmt.Sprintf("%d/%d", lp.IntoXP, progress.XPPerLevel)
	b.WriteString(xp.View())
	b.WriteString("\n\n")

	nameWidth := 0
	for _, cv := range ov.Careers {
		nameWidth = max(nameWidth, lipgloss.Width(cv.Career.Name))
	}

	for _, cv := range ov.Careers {
		done := 0
		for _, ch := range cv.Challenges {
			if ch.Status() == progress.StatusCompleted {
				done++
			}
		}
		score := 0
		if cv.Record != nil {
			score = cv.Record.Score
		}

		label := cv.Career.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(cv.Career.Name))
		bar := components.NewProgressBar(label, cv.Completion, false, width)
		bar.Fill = theme.StatusColor(cv.Status)
		bar.Suffix = fmt.Sprintf("%d/%d  %3d pts", done, len(cv.Challenges), score)
		b.WriteString(bar.View())
		b.WriteString("\n")

		status := lipgloss.NewStyle().Foreground(theme.StatusColor(cv.Status)).
			Render(theme.StatusIcon(cv.Status, true) + " " + cv.Status.DisplayName())
		b.WriteString(strings.Repeat(" ", nameWidth+2))
		b.WriteString(status)
		b.WriteString("\n")
	}
	return b.String()
}
