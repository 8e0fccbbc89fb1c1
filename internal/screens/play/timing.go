package play

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/challenge"
	"github.com/abhisek/careerquest/internal/scoring"
	"github.com/abhisek/careerquest/internal/ui/layout"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

// timingBoard records space taps against the cue track.
type timingBoard struct {
	cfg  *scoring.TimingConfig
	span time.Duration
	taps []time.Duration
}

func newTimingBoard(cfg *scoring.TimingConfig, limit time.Duration) *timingBoard {
	span := limit
	if span <= 0 {
		last := time.Duration(cfg.CuesMs[len(cfg.CuesMs)-1]) * time.Millisecond
		span = last + 2*time.Second
	}
	return &timingBoard{cfg: cfg, span: span}
}

func (b *timingBoard) Init() tea.Cmd               { return nil }
func (b *timingBoard) Forward(tea.Msg) tea.Cmd     { return nil }
func (b *timingBoard) TickInterval() time.Duration { return 100 * time.Millisecond }

func (b *timingBoard) Update(msg tea.KeyMsg, m *challenge.Machine) (tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		return nil, true
	case "space", " ":
		at := m.Elapsed()
		if m.Interact(func(o scoring.Outcome) { o.(*scoring.TimingOutcome).Tap(at) }) {
			b.taps = append(b.taps, at)
		}
	}
	return nil, false
}

func (b *timingBoard) View(width int, m *challenge.Machine) string {
	var sb strings.Builder
	sb.WriteString(promptView(b.cfg.Prompt, width))

	track := []rune(strings.Repeat("─", width))
	col := func(d time.Duration) int {
		c := int(int64(width-1) * int64(d) / int64(b.span))
		return min(max(c, 0), width-1)
	}
	for _, ms := range b.cfg.CuesMs {
		track[col(time.Duration(ms)*time.Millisecond)] = '┃'
	}
	for _, t := range b.taps {
		track[col(t)] = '•'
	}
	sb.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(string(track)))
	sb.WriteString("\n")

	now := m.Elapsed()
	cursor := strings.Repeat(" ", col(now)) + "▲"
	sb.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Render(cursor))
	sb.WriteString("\n\n")

	sb.WriteString(theme.Body.Render(fmt.Sprintf("%.1fs", now.Seconds())))
	sb.WriteString("   ")
	sb.WriteString(theme.Hint.Render(fmt.Sprintf("%d cues · %d taps", len(b.cfg.CuesMs), len(b.taps))))
	return sb.String()
}

func (b *timingBoard) Hints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Tap"},
		{Key: "Enter", Description: "Finish"},
	}
}
