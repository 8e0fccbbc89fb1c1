package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/progress"
)

// Color palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Gold      = lipgloss.Color("#FACC15") // Completed careers, selected buttons
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Locked = lipgloss.NewStyle().
		Foreground(TextDim)

	Warning = lipgloss.NewStyle().
		Foreground(Accent)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)

// StatusColor maps a progress status to its display color.
func StatusColor(s progress.Status) color.Color {
	switch s {
	case progress.StatusCompleted:
		return Gold
	case progress.StatusInProgress:
		return Secondary
	default:
		return TextDim
	}
}

// StatusIcon is the one-glyph marker shown next to a status.
func StatusIcon(s progress.Status, unlocked bool) string {
	switch {
	case s == progress.StatusCompleted:
		return "★"
	case s == progress.StatusInProgress:
		return "◐"
	case !unlocked:
		return "🔒"
	default:
		return "○"
	}
}

// ScoreColor grades a score against its maximum.
func ScoreColor(score, maxScore int) color.Color {
	if maxScore <= 0 {
		return Text
	}
	r := float64(score) / float64(maxScore)
	switch {
	case r >= 0.85:
		return Gold
	case r >= 0.6:
		return Success
	case r >= 0.3:
		return Accent
	default:
		return Error
	}
}
