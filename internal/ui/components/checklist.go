package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/ui/theme"
)

// ChecklistItem is one row of a Checklist.
type ChecklistItem struct {
	ID     string
	Label  string
	Detail string // dim text after the label, e.g. a category or cost
}

// Checklist is a cursor over items with a mark per item. It does no
// toggling itself: the owner reacts to Pressed and sets Marks.
type Checklist struct {
	Items  []ChecklistItem
	Cursor int
	Marks  map[string]string // item id -> mark glyph, empty means unmarked
}

// NewChecklist creates a checklist with the cursor on the first item.
func NewChecklist(items []ChecklistItem) Checklist {
	return Checklist{Items: items, Marks: make(map[string]string)}
}

// Update moves the cursor. It reports the item id under the cursor when
// space is pressed.
func (c Checklist) Update(msg tea.Msg) (Checklist, string) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(c.Items) == 0 {
		return c, ""
	}
	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Items)-1 {
			c.Cursor++
		}
	case "space", " ":
		return c, c.Items[c.Cursor].ID
	}
	return c, ""
}

// Current returns the item under the cursor.
func (c Checklist) Current() (ChecklistItem, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.Items) {
		return ChecklistItem{}, false
	}
	return c.Items[c.Cursor], true
}

// View renders one line per item.
func (c Checklist) View() string {
	var s string
	for i, item := range c.Items {
		mark := c.Marks[item.ID]
		box := "[ ]"
		if mark != "" {
			box = "[" + mark + "]"
		}
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == c.Cursor {
			prefix = "▸ "
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		line := style.Render(prefix + box + " " + item.Label)
		if item.Detail != "" {
			line += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + item.Detail)
		}
		s += line + "\n"
	}
	return s
}
