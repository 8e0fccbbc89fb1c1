package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/ui/theme"
)

const (
	maxContentWidth = 60
	minContentWidth = 20

	// cabinetInset is the cabinet border plus its inner padding.
	cabinetInset = 6
)

// ContentWidth is the shared inner width for every box inside the cabinet,
// so cards and buttons line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-cabinetInset, minContentWidth), maxContentWidth)
}

// CabinetFrame centers content inside a double-bordered box that fills
// width×height.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard is a padded rounded box cw cells wide.
func ArcadeCard(content string, cw int) string {
	return rounded(theme.Border).
		Width(max(cw-2, 0)).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(content)
}

// ArcadeButton draws a menu button; the selected one is filled gold and
// carries a pointer.
func ArcadeButton(label string, selected bool, width int) string {
	style := rounded(theme.Border).
		Width(width).
		Padding(0, 1).
		Align(lipgloss.Center).
		Foreground(theme.Text)
	if selected {
		label = "▸ " + label
		style = style.
			BorderForeground(theme.Gold).
			Background(theme.Gold).
			Foreground(theme.BgDark).
			Bold(true)
	}
	return style.Render(label)
}

func rounded(border color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
}
