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

const markPicked = "x"

var pickHints = []layout.KeyHint{
	{Key: "↑↓", Description: "Move"},
	{Key: "Space", Description: "Pick"},
	{Key: "Enter", Description: "Done"},
}

// selectionBoard toggles options of a "pick the right set" challenge.
type selectionBoard struct {
	staticBoard
	prompt string
	list   components.Checklist
}

func newSelectionBoard(cfg *scoring.SelectionConfig) *selectionBoard {
	items := make([]components.ChecklistItem, len(cfg.Options))
	for i, opt := range cfg.Options {
		items[i] = components.ChecklistItem{ID: opt, Label: humanize(opt)}
	}
	return &selectionBoard{prompt: cfg.Prompt, list: components.NewChecklist(items)}
}

func (b *selectionBoard) Update(msg tea.KeyMsg, m *challenge.Machine) (tea.Cmd, bool) {
	if msg.String() == "enter" {
		return nil, true
	}
	var id string
	b.list, id = b.list.Update(msg)
	if id != "" {
		applied := m.Interact(func(o scoring.Outcome) {
			o.(*scoring.SelectionOutcome).Toggle(id)
		})
		if applied {
			togglePick(b.list.Marks, id)
		}
	}
	return nil, false
}

func (b *selectionBoard) View(width int, _ *challenge.Machine) string {
	return promptView(b.prompt, width) + b.list.View()
}

func (b *selectionBoard) Hints() []layout.KeyHint { return pickHints }

// balanceBoard picks items toward per-category targets under a budget.
type balanceBoard struct {
	staticBoard
	cfg  *scoring.BalanceConfig
	list components.Checklist
}

func newBalanceBoard(cfg *scoring.BalanceConfig) *balanceBoard {
	ids := cfg.ItemIDs()
	items := make([]components.ChecklistItem, len(ids))
	for i, id := range ids {
		item := cfg.Items[id]
		label := item.Label
		if label == "" {
			label = humanize(id)
		}
		detail := item.Category
		if cfg.Budget > 0 {
			detail += fmt.Sprintf(" · %s", formatCost(item.Cost))
		}
		items[i] = components.ChecklistItem{ID: id, Label: label, Detail: detail}
	}
	return &balanceBoard{cfg: cfg, list: components.NewChecklist(items)}
}

func (b *balanceBoard) Update(msg tea.KeyMsg, m *challenge.Machine) (tea.Cmd, bool) {
	if msg.String() == "enter" {
		return nil, true
	}
	var id string
	b.list, id = b.list.Update(msg)
	if id != "" {
		applied := m.Interact(func(o scoring.Outcome) {
			o.(*scoring.BalanceOutcome).Toggle(id)
		})
		if applied {
			togglePick(b.list.Marks, id)
		}
	}
	return nil, false
}

func (b *balanceBoard) View(width int, _ *challenge.Machine) string {
	var sb strings.Builder
	sb.WriteString(promptView(b.cfg.Prompt, width))
	sb.WriteString(b.list.View())
	sb.WriteString("\n")

	counts := make(map[string]int)
	var spent float64
	for id := range b.list.Marks {
		item := b.cfg.Items[id]
		counts[item.Category]++
		spent += item.Cost
	}

	cats := make([]string, 0, len(b.cfg.Targets))
	for cat := range b.cfg.Targets {
		cats = append(cats, cat)
	}
	slices.Sort(cats)

	parts := make([]string, 0, len(cats)+1)
	for _, cat := range cats {
		want := b.cfg.Targets[cat]
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if counts[cat] == want {
			style = lipgloss.NewStyle().Foreground(theme.Success)
		} else if counts[cat] > want {
			style = lipgloss.NewStyle().Foreground(theme.Accent)
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s %d/%d", cat, counts[cat], want)))
	}
	if b.cfg.Budget > 0 {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if spent > b.cfg.Budget {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		parts = append(parts, style.Render(fmt.Sprintf("budget %s/%s", formatCost(spent), formatCost(b.cfg.Budget))))
	}
	sb.WriteString(strings.Join(parts, "   "))
	return sb.String()
}

func (b *balanceBoard) Hints() []layout.KeyHint { return pickHints }

func togglePick(marks map[string]string, id string) {
	if marks[id] != "" {
		delete(marks, id)
		return
	}
	marks[id] = markPicked
}

func promptView(prompt string, width int) string {
	if prompt == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Foreground(theme.Text).
		Bold(true).
		Render(prompt) + "\n\n"
}

// humanize turns an id like "rest-and-fluids" into "rest and fluids".
func humanize(id string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(id)
}

func formatCost(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
