package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/ui/components"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

// renderTitle returns the banner centered at content width.
func renderTitle(cw int, compact bool) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(components.Banner(cw, compact, theme.Gold))
}

// renderStatsBar renders level, experience and finished careers in a
// bordered box matching content width.
func renderStatsBar(lp progress.LevelProgress, xp, doneCareers, totalCareers, cw int, compact bool) string {
	levelStyle := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	xpStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	careerStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			levelStyle.Render(fmt.Sprintf("Lv%d", lp.Level)),
			xpStyle.Render(fmt.Sprintf("✦%d", xp)),
			careerStyle.Render(fmt.Sprintf("★%d/%d", doneCareers, totalCareers)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			levelStyle.Render(fmt.Sprintf("LEVEL %d", lp.Level)),
			xpStyle.Render(fmt.Sprintf("✦ %d XP", xp)),
			careerStyle.Render(fmt.Sprintf("★ %d/%d CAREERS", doneCareers, totalCareers)),
		)
	}

	bar := components.NewProgressBar("", lp.Percent, false, cw-6)
	bar.Fill = theme.Gold
	bar.Suffix = fmt.Sprintf("%d to next", lp.NeedXP)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats + "\n" + bar.View())
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 26

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	var buttons []string
	for i, label := range items {
		if disabled[i] {
			buttons = append(buttons, lipgloss.NewStyle().
				Width(buttonWidth).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(theme.Border).
				Padding(0, 1).
				Render(label))
			continue
		}
		buttons = append(buttons, components.ArcadeButton(label, i == selected, buttonWidth))
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact renders menu items as simple text lines (no borders)
// for small terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		if disabled[i] {
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + label)
		} else if i == selected {
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Gold).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
