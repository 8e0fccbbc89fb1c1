package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int

	// Fill overrides the filled-segment color. Nil uses theme.Secondary.
	Fill color.Color

	// Suffix replaces the percentage text when set, e.g. "40/100 XP".
	Suffix string
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	tail := p.Suffix
	if tail == "" && p.ShowPercent {
		tail = fmt.Sprintf("%d%%", int(p.Percent*100))
	}

	labelWidth := lipgloss.Width(result)
	tailWidth := 0
	if tail != "" {
		tailWidth = lipgloss.Width(tail) + 2
	}

	barWidth := p.Width - labelWidth - tailWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}

	filledStr := lipgloss.NewStyle().
		Background(fill).
		Render(strings.Repeat(" ", filled))

	emptyStr := lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))

	result += filledStr + emptyStr

	if tail != "" {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("  " + tail)
	}

	return result
}
