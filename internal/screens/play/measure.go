package play

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerquest/internal/challenge"
	"github.com/abhisek/careerquest/internal/scoring"
	"github.com/abhisek/careerquest/internal/ui/components"
	"github.com/abhisek/careerquest/internal/ui/layout"
)

// measurementBoard has one numeric input per target. Enter moves to the
// next field and submits from the last one.
type measurementBoard struct {
	cfg    *scoring.MeasurementConfig
	inputs []components.TextInput
	focus  int
}

func newMeasurementBoard(cfg *scoring.MeasurementConfig) *measurementBoard {
	b := &measurementBoard{cfg: cfg}
	for i, t := range cfg.Targets {
		in := components.NewTextInput(humanize(t.Name), t.Unit, 12)
		if i > 0 {
			in.Blur()
		}
		b.inputs = append(b.inputs, in)
	}
	return b
}

func (b *measurementBoard) Init() tea.Cmd {
	if len(b.inputs) == 0 {
		return nil
	}
	return b.inputs[0].Init()
}

func (b *measurementBoard) TickInterval() time.Duration { return time.Second }

func (b *measurementBoard) Forward(msg tea.Msg) tea.Cmd {
	if len(b.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	b.inputs[b.focus], cmd = b.inputs[b.focus].Update(msg)
	return cmd
}

func (b *measurementBoard) Update(msg tea.KeyMsg, m *challenge.Machine) (tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		b.commit(m)
		if b.focus == len(b.inputs)-1 {
			return nil, true
		}
		return b.move(1), false
	case "tab", "down":
		b.commit(m)
		return b.move(1), false
	case "shift+tab", "up":
		b.commit(m)
		return b.move(-1), false
	}
	var cmd tea.Cmd
	b.inputs[b.focus], cmd = b.inputs[b.focus].Update(msg)
	return cmd, false
}

// commit copies the focused field into the outcome. Blank or unparsable
// fields stay unmeasured.
func (b *measurementBoard) commit(m *challenge.Machine) {
	v, ok := b.inputs[b.focus].FloatValue()
	if !ok {
		return
	}
	name := b.cfg.Targets[b.focus].Name
	m.Interact(func(o scoring.Outcome) { o.(*scoring.MeasurementOutcome).Set(name, v) })
}

func (b *measurementBoard) move(delta int) tea.Cmd {
	next := b.focus + delta
	if next < 0 || next >= len(b.inputs) {
		return nil
	}
	b.inputs[b.focus].Blur()
	b.focus = next
	return b.inputs[b.focus].Focus()
}

func (b *measurementBoard) View(width int, _ *challenge.Machine) string {
	var sb strings.Builder
	sb.WriteString(promptView(b.cfg.Prompt, width))
	for _, in := range b.inputs {
		sb.WriteString(in.View())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *measurementBoard) Hints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "0-9 .", Description: "Value"},
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Next / Done"},
	}
}
