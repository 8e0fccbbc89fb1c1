package play

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerquest/internal/challenge"
	"github.com/abhisek/careerquest/internal/scoring"
	"github.com/abhisek/careerquest/internal/ui/components"
	"github.com/abhisek/careerquest/internal/ui/layout"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

// roundsBoard asks one multiple-choice round at a time and submits after
// the last answer.
type roundsBoard struct {
	staticBoard
	cfg        *scoring.RoundsConfig
	round      int
	choice     components.MultiChoice
	roundStart time.Duration // session elapsed when the round was shown
	correct    int
	lastResult string
}

func newRoundsBoard(cfg *scoring.RoundsConfig) *roundsBoard {
	b := &roundsBoard{cfg: cfg}
	b.show(0, 0)
	return b
}

func (b *roundsBoard) show(i int, at time.Duration) {
	r := b.cfg.Rounds[i]
	b.round = i
	b.roundStart = at
	b.choice = components.NewMultiChoice(r.Prompt, r.Choices, r.Answer)
}

func (b *roundsBoard) Update(msg tea.KeyMsg, m *challenge.Machine) (tea.Cmd, bool) {
	b.choice, _ = b.choice.Update(msg)
	if !b.choice.Submitted {
		return nil, false
	}

	now := m.Elapsed()
	chosen := b.choice.ChosenIndex
	took := max(now-b.roundStart, 0)
	if !m.Interact(func(o scoring.Outcome) { o.(*scoring.RoundsOutcome).Answer(chosen, took) }) {
		return nil, false
	}
	if b.choice.IsCorrect() {
		b.correct++
		b.lastResult = "Correct!"
	} else {
		r := b.cfg.Rounds[b.round]
		b.lastResult = fmt.Sprintf("The answer was %s.", r.Choices[r.Answer])
	}

	if b.round == len(b.cfg.Rounds)-1 {
		return nil, true
	}
	b.show(b.round+1, now)
	return nil, false
}

func (b *roundsBoard) View(_ int, _ *challenge.Machine) string {
	var sb strings.Builder
	sb.WriteString(theme.Hint.Render(fmt.Sprintf("Round %d of %d  ·  %d correct", b.round+1, len(b.cfg.Rounds), b.correct)))
	if limit := b.cfg.Rounds[b.round].LimitSeconds; limit > 0 {
		sb.WriteString(theme.Hint.Render(fmt.Sprintf("  ·  answer within %.0fs", limit)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(b.choice.View())
	if b.lastResult != "" {
		sb.WriteString("\n")
		sb.WriteString(theme.Subtitle.Render(b.lastResult))
	}
	return sb.String()
}

func (b *roundsBoard) Hints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "A-D", Description: "Answer"},
		{Key: "Enter", Description: "Answer"},
	}
}
