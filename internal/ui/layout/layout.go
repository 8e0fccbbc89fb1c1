// Package layout draws the frame around every screen: a header with the
// player's level, the screen content, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30

	// meterWidth is the number of cells in the header's XP meter.
	meterWidth = 10
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsCompactHeight returns true if the terminal height is in compact range.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the player to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("The arcade needs at least %d×%d.\nThis terminal is %d×%d.", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Gold).Align(lipgloss.Center).Render(body))
}

// xpMeter draws progress through the current level as filled cells.
func xpMeter(experience int) string {
	lp := progress.ProgressFor(experience)
	filled := min(int(lp.Percent*meterWidth), meterWidth)
	return lipgloss.NewStyle().Foreground(theme.Gold).Render(strings.Repeat("▰", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("▱", meterWidth-filled))
}

// RenderHeader draws the brand, the screen title and, once a profile is
// known (level > 0), the level with an XP meter.
func RenderHeader(title string, level, experience int, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  CareerQuest")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	right := ""
	if level > 0 {
		right = lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(fmt.Sprintf("Lv %d ", level)) +
			xpMeter(experience) +
			lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf(" ✦ %d XP", experience))
	}

	inner := max(width-4, 0)
	bw, cw, rw := lipgloss.Width(brand), lipgloss.Width(center), lipgloss.Width(right)

	// Center the title on the bar, then give the rest to the right side.
	leftGap := max((inner-cw)/2-bw, 1)
	rightGap := max(inner-bw-leftGap-cw-rw, 1)

	return bar(width).Render(brand + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter draws key hints. Hints that do not fit are dropped from the
// end, keeping the last one (usually quit).
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
	}

	sep := lipgloss.NewStyle().Foreground(theme.Border).Render(" · ")
	content := "  " + strings.Join(parts, sep)
	for len(parts) > 2 && lipgloss.Width(content) > width-4 {
		parts = append(parts[:len(parts)-2], parts[len(parts)-1])
		content = "  " + strings.Join(parts, sep)
	}
	return bar(width).Render(content)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	ch := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(ch).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
