package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/router"
	"github.com/abhisek/careerquest/internal/screen"
	"github.com/abhisek/careerquest/internal/screens/home"
	"github.com/abhisek/careerquest/internal/screens/welcome"
	"github.com/abhisek/careerquest/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router     *router.Router
	first      screen.Screen
	width      int
	height     int
	level      int
	experience int
}

// newAppModel starts on the welcome screen, or on home with first pushed
// above it when first is non-nil.
func newAppModel(deps home.Deps, first screen.Screen) AppModel {
	if first != nil {
		return AppModel{router: router.New(home.New(deps)), first: first}
	}
	var names []string
	for _, c := range deps.Catalog.Careers() {
		names = append(names, c.Name)
	}
	w := welcome.New(func() screen.Screen { return home.New(deps) }, names)
	return AppModel{router: router.New(w)}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}
	if m.first != nil {
		first := m.first
		cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: first} })
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ProfileMsg:
		m.level = msg.Profile.Level
		m.experience = msg.Profile.Experience

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints := p.KeyHints()
		return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.level, m.experience, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program. A nil first screen opens on the
// welcome banner; otherwise first is shown above the home menu.
func Run(deps home.Deps, first screen.Screen) error {
	p := tea.NewProgram(newAppModel(deps, first))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
