// Package welcome plays the opening marquee: career badges light up one by
// one, then the banner and a prompt appear.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/router"
	"github.com/abhisek/careerquest/internal/screen"
	"github.com/abhisek/careerquest/internal/ui/components"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	revealStart  = 500 * time.Millisecond
	revealStep   = 200 * time.Millisecond
	bannerAt     = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond

	// highlightEvery is how many ticks each career stays highlighted once
	// the marquee is lit.
	highlightEvery = 8
)

const tagline = "Try on a career, one challenge at a time."

type tickMsg time.Time

// WelcomeScreen shows the marquee until a key is pressed, then replaces
// itself with the screen built by next.
type WelcomeScreen struct {
	next         func() screen.Screen
	careers      []string
	elapsed      time.Duration
	ticks        int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. careers are the names shown as badges.
func New(next func() screen.Screen, careers []string) *WelcomeScreen {
	return &WelcomeScreen{next: next, careers: careers}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		w.elapsed = min(w.elapsed+tickInterval, totalDur)
		w.ticks++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	s := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: s}
	}
}

// lit returns how many badges are revealed.
func (w *WelcomeScreen) lit() int {
	if w.elapsed < revealStart {
		return 0
	}
	n := int((w.elapsed-revealStart)/revealStep) + 1
	return min(n, len(w.careers))
}

// highlighted returns the index of the badge drawn in gold, or -1.
func (w *WelcomeScreen) highlighted() int {
	if len(w.careers) == 0 || w.elapsed < bannerAt {
		return -1
	}
	return (w.ticks / highlightEvery) % len(w.careers)
}

func (w *WelcomeScreen) badges(width int) string {
	lit, hl := w.lit(), w.highlighted()
	var row []string
	for i, name := range w.careers {
		style := lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.TextDim)
		label := "   "
		switch {
		case i == hl:
			style = style.BorderForeground(theme.Gold).Foreground(theme.Gold).Bold(true)
			label = name
		case i < lit:
			style = style.BorderForeground(theme.Secondary).Foreground(theme.Text)
			label = name
		}
		row = append(row, style.Render(label))
	}
	badges := lipgloss.JoinHorizontal(lipgloss.Top, row...)
	if lipgloss.Width(badges) > width {
		// Too many careers for one row: stack them.
		badges = lipgloss.JoinVertical(lipgloss.Center, row...)
	}
	return badges
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{w.badges(width)}

	if w.elapsed >= bannerAt {
		sections = append(sections,
			"",
			components.Banner(width, false, theme.Primary),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(tagline),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
