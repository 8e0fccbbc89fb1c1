// Package career lists one career's challenges with their unlock state
// and launches the play screen.
package career

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
	"github.com/abhisek/careerquest/internal/screens/play"
	"github.com/abhisek/careerquest/internal/ui/components"
	"github.com/abhisek/careerquest/internal/ui/layout"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

// Progression is the slice of the progression service the career and home
// screens need.
type Progression interface {
	Overview(ctx context.Context, userID string, careers []catalog.Career) (progression.Overview, error)
	play.Recorder
}

type loadedMsg struct {
	overview progression.Overview
	err      error
}

// CareerScreen shows a career's challenges in play order.
type CareerScreen struct {
	career   catalog.Career
	prog     Progression
	opts     play.Options
	view     *progression.CareerView
	selected int
	loaded   bool
	errMsg   string
	notice   string
}

var _ screen.Screen = (*CareerScreen)(nil)
var _ screen.KeyHintProvider = (*CareerScreen)(nil)
var _ screen.Resumer = (*CareerScreen)(nil)

// New creates a CareerScreen.
func New(c catalog.Career, prog Progression, opts play.Options) *CareerScreen {
	return &CareerScreen{career: c, prog: prog, opts: opts}
}

func (s *CareerScreen) Init() tea.Cmd {
	return s.load()
}

// Resume reloads after a challenge screen pops.
func (s *CareerScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *CareerScreen) load() tea.Cmd {
	prog, userID, c := s.prog, s.opts.UserID, s.career
	return func() tea.Msg {
		ov, err := prog.Overview(context.Background(), userID, []catalog.Career{c})
		return loadedMsg{overview: ov, err: err}
	}
}

func (s *CareerScreen) Title() string {
	return s.career.Name
}

func (s *CareerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CareerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		if len(msg.overview.Careers) > 0 {
			cv := msg.overview.Careers[0]
			s.view = &cv
			s.selected = min(s.selected, max(len(cv.Challenges)-1, 0))
		}
		profile := msg.overview.Profile
		return s, func() tea.Msg { return screen.ProfileMsg{Profile: profile} }

	case tea.KeyMsg:
		if s.view == nil {
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			s.notice = ""
		case "down", "j":
			if s.selected < len(s.view.Challenges)-1 {
				s.selected++
			}
			s.notice = ""
		case "enter":
			return s, s.open()
		}
	}
	return s, nil
}

func (s *CareerScreen) open() tea.Cmd {
	if s.selected >= len(s.view.Challenges) {
		return nil
	}
	ch := s.view.Challenges[s.selected]
	if !ch.Unlocked {
		s.notice = "Locked. Complete the previous challenge first."
		return nil
	}
	ps, err := play.New(ch.Definition, s.prog, s.opts)
	if err != nil {
		s.notice = err.Error()
		return nil
	}
	s.notice = ""
	return func() tea.Msg { return router.PushScreenMsg{Screen: ps} }
}

func (s *CareerScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded || s.view == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading career...")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Width(cw).Render(strings.ToUpper(s.career.Name)))
	b.WriteString("\n")
	if s.career.Description != "" {
		b.WriteString(theme.Subtitle.Width(cw).Render(s.career.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	bar := components.NewProgressBar("", s.view.Completion, false, cw)
	bar.Fill = theme.StatusColor(s.view.Status)
	bar.Suffix = s.view.Status.DisplayName()
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	for i, ch := range s.view.Challenges {
		b.WriteString(s.challengeLine(i, ch))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render(s.notice))
	}

	return components.CabinetFrame(b.String(), width, height)
}

func (s *CareerScreen) challengeLine(i int, ch progression.ChallengeView) string {
	status := ch.Status()
	icon := theme.StatusIcon(status, ch.Unlocked)

	prefix := "  "
	style := lipgloss.NewStyle().Foreground(theme.Text)
	switch {
	case i == s.selected:
		prefix = "▸ "
		style = theme.Selected
	case !ch.Unlocked:
		style = theme.Locked
	}

	line := style.Render(fmt.Sprintf("%s%s %d. %s", prefix, icon, ch.Definition.Order, ch.Definition.Title))

	detail := ch.Definition.Archetype.DisplayName()
	if ch.Record != nil && status != progress.StatusNotStarted {
		detail = fmt.Sprintf("best %d/%d · %d tries", ch.Record.BestScore, ch.Definition.MaxScore, ch.Record.Attempts)
	}
	if !play.Playable(ch.Definition) {
		detail += " · record only"
	}
	return line + lipgloss.NewStyle().Foreground(theme.TextDim).Render("   "+detail)
}
