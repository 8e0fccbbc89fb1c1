package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for numeric entry of measurements.
type TextInput struct {
	Model    textinput.Model
	Label    string
	Unit     string
	MaxWidth int
}

// NewTextInput creates a focused numeric input.
func NewTextInput(label, unit string, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = "0"
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:    ti,
		Label:    label,
		Unit:     unit,
		MaxWidth: maxWidth,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Only digits, one decimal point and a leading
// minus sign get through.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if key == "space" || (len(key) == 1 && !t.accepts(key[0])) {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) accepts(c byte) bool {
	v := t.Model.Value()
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.':
		return !strings.Contains(v, ".")
	case c == '-':
		return v == ""
	}
	return false
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// View renders the label, input and unit.
func (t TextInput) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(t.Label)
	view := label + "  " + t.Model.View()
	if t.Unit != "" {
		view += " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Unit)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// FloatValue parses the input. An empty input is not a value.
func (t TextInput) FloatValue() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(t.Model.Value()), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
