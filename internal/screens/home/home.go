package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/logger"
	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/progression"
	"github.com/abhisek/careerquest/internal/router"
	"github.com/abhisek/careerquest/internal/screen"
	"github.com/abhisek/careerquest/internal/screens/career"
	"github.com/abhisek/careerquest/internal/screens/history"
	"github.com/abhisek/careerquest/internal/screens/play"
	"github.com/abhisek/careerquest/internal/screens/stats"
	"github.com/abhisek/careerquest/internal/ui/components"
	"github.com/abhisek/careerquest/internal/ui/layout"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

// Deps is everything the home screen and the screens it opens need.
type Deps struct {
	Catalog     *catalog.Catalog
	Progression career.Progression
	History     history.Source // nil hides HISTORY
	UserID      string
	Logger      *logger.Logger
}

type overviewMsg struct {
	overview progression.Overview
	err      error
}

// HomeScreen is the main menu: one button per career plus stats, history
// and exit.
type HomeScreen struct {
	deps     Deps
	menu     components.Menu
	overview progression.Overview
	errMsg   string
	mascot   MascotVariant
	now      func() time.Time
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	h := &HomeScreen{deps: deps, now: time.Now}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	var items []components.MenuItem
	for _, c := range h.deps.Catalog.Careers() {
		label := strings.ToUpper(c.Name)
		if cv, ok := h.careerView(c.ID); ok && len(cv.Challenges) > 0 {
			done := 0
			for _, ch := range cv.Challenges {
				if ch.Status() == progress.StatusCompleted {
					done++
				}
			}
			label = fmt.Sprintf("%s  %d/%d", label, done, len(cv.Challenges))
		}
		items = append(items, components.MenuItem{Label: label, Action: func() tea.Cmd {
			opts := play.Options{UserID: h.deps.UserID, Logger: h.deps.Logger}
			cs := career.New(c, h.deps.Progression, opts)
			return func() tea.Msg { return router.PushScreenMsg{Screen: cs} }
		}})
	}

	items = append(items, components.MenuItem{Label: "STATS", Action: func() tea.Cmd {
		ss := stats.New(h.deps.Progression, h.deps.Catalog.Careers(), h.deps.UserID)
		return func() tea.Msg { return router.PushScreenMsg{Screen: ss} }
	}})
	items = append(items, components.MenuItem{
		Label:    "HISTORY",
		Disabled: h.deps.History == nil,
		Action: func() tea.Cmd {
			hs := history.New(h.deps.History, h.deps.Catalog, h.deps.UserID)
			return func() tea.Msg { return router.PushScreenMsg{Screen: hs} }
		},
	})
	items = append(items, components.MenuItem{Label: "EXIT", Action: func() tea.Cmd {
		return tea.Quit
	}})
	return items
}

func (h *HomeScreen) careerView(id string) (progression.CareerView, bool) {
	for _, cv := range h.overview.Careers {
		if cv.Career.ID == id {
			return cv, true
		}
	}
	return progression.CareerView{}, false
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume reloads progress when a career or stats screen pops.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	prog, userID, careers := h.deps.Progression, h.deps.UserID, h.deps.Catalog.Careers()
	return func() tea.Msg {
		ov, err := prog.Overview(context.Background(), userID, careers)
		return overviewMsg{overview: ov, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewMsg:
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			h.deps.Logger.Warn("load overview", "error", msg.err)
			return h, nil
		}
		h.errMsg = ""
		h.overview = msg.overview
		h.mascot = pickMascot(msg.overview, h.now())

		selected := h.menu.Selected
		h.menu = components.NewMenu(h.menuItems())
		if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
			h.menu.Selected = selected
		}
		profile := msg.overview.Profile
		return h, func() tea.Msg { return screen.ProfileMsg{Profile: profile} }
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps
	full := height + layout.HeaderHeight + layout.FooterHeight + 2
	compact := layout.IsCompactHeight(full) || layout.IsCompactWidth(width)

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, renderMascotBox(h.mascot, cw))
	}

	done := 0
	for _, cv := range h.overview.Careers {
		if cv.Status == progress.StatusCompleted {
			done++
		}
	}
	sections = append(sections, renderStatsBar(
		h.overview.Level, h.overview.Profile.Experience, done, len(h.deps.Catalog.Careers()), cw, compact))

	if h.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Error).Width(cw).Align(lipgloss.Center).
			Render("Could not load progress: "+h.errMsg))
	}

	if compact {
		sections = append(sections, renderArcadeMenuCompact(
			h.menu.Labels(), h.menu.Selected, cw, h.menu.DisabledSet()))
	} else {
		sections = append(sections, renderArcadeMenu(
			h.menu.Labels(), h.menu.Selected, cw, h.menu.DisabledSet()))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
