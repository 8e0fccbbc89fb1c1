package play

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/challenge"
	"github.com/abhisek/careerquest/internal/scoring"
	"github.com/abhisek/careerquest/internal/ui/components"
	"github.com/abhisek/careerquest/internal/ui/layout"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

// sequenceBoard places steps one at a time. Steps are listed by label so
// the list never gives away the answer.
type sequenceBoard struct {
	staticBoard
	cfg    *scoring.SequenceConfig
	list   components.Checklist
	placed []string
}

func newSequenceBoard(cfg *scoring.SequenceConfig) *sequenceBoard {
	b := &sequenceBoard{cfg: cfg}
	items := make([]components.ChecklistItem, len(cfg.Steps))
	for i, id := range cfg.Steps {
		items[i] = components.ChecklistItem{ID: id, Label: b.label(id)}
	}
	slices.SortFunc(items, func(a, c components.ChecklistItem) int {
		return strings.Compare(a.Label, c.Label)
	})
	b.list = components.NewChecklist(items)
	return b
}

func (b *sequenceBoard) label(id string) string {
	if l, ok := b.cfg.Labels[id]; ok && l != "" {
		return l
	}
	return humanize(id)
}

func (b *sequenceBoard) Update(msg tea.KeyMsg, m *challenge.Machine) (tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		return nil, true
	case "backspace":
		if len(b.placed) == 0 {
			return nil, false
		}
		if m.Interact(func(o scoring.Outcome) { o.(*scoring.SequenceOutcome).Undo() }) {
			last := b.placed[len(b.placed)-1]
			b.placed = b.placed[:len(b.placed)-1]
			delete(b.list.Marks, last)
		}
		return nil, false
	}

	var id string
	b.list, id = b.list.Update(msg)
	if id == "" || b.list.Marks[id] != "" {
		return nil, false
	}
	if m.Interact(func(o scoring.Outcome) { o.(*scoring.SequenceOutcome).Place(id) }) {
		b.placed = append(b.placed, id)
		b.list.Marks[id] = fmt.Sprint(len(b.placed))
	}
	return nil, false
}

func (b *sequenceBoard) View(width int, _ *challenge.Machine) string {
	var sb strings.Builder
	sb.WriteString(promptView(b.cfg.Prompt, width))
	sb.WriteString(b.list.View())
	sb.WriteString("\n")
	if len(b.placed) == 0 {
		sb.WriteString(theme.Hint.Render("Nothing placed yet."))
		return sb.String()
	}
	labels := make([]string, len(b.placed))
	for i, id := range b.placed {
		labels[i] = b.label(id)
	}
	sb.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Join(labels, " → ")))
	return sb.String()
}

func (b *sequenceBoard) Hints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Space", Description: "Place"},
		{Key: "Bksp", Description: "Undo"},
		{Key: "Enter", Description: "Done"},
	}
}
