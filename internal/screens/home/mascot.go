package home

import (
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/progression"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

// MascotVariant selects which guide art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Nothing started yet
	MascotCelebrating                      // A career was completed in the last day
	MascotNudge                            // A career is in progress
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ▣▣▣ │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ▣▣▣ │
└─╥═╥─┘
  ╚═╝`

const mascotNudge = `┌─────┐
│ ◉ ◉ │ »
│  ▽  │
│ ▣▣▣ │
└─────┘`

// pickMascot chooses the guide for an overview.
func pickMascot(ov progression.Overview, now time.Time) MascotVariant {
	v := MascotIdle
	for _, c := range ov.Careers {
		if c.Record == nil {
			continue
		}
		if c.Record.CompletedAt != nil && now.Sub(*c.Record.CompletedAt) < 24*time.Hour {
			return MascotCelebrating
		}
		if c.Status == progress.StatusInProgress {
			v = MascotNudge
		}
	}
	return v
}

// RenderMascot returns the guide art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch variant {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Gold
	case MascotNudge:
		art = mascotNudge
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
