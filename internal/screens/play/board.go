package play

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/challenge"
	"github.com/abhisek/careerquest/internal/scoring"
	"github.com/abhisek/careerquest/internal/ui/layout"
)

// board is the archetype-specific playing surface. Boards write into the
// session outcome only through Machine.Interact, so a write that loses the
// race with the countdown is dropped.
type board interface {
	Init() tea.Cmd

	// Update handles a key while playing and reports whether the player
	// asked to submit.
	Update(msg tea.KeyMsg, m *challenge.Machine) (tea.Cmd, bool)

	// Forward passes non-key messages (cursor blink and the like).
	Forward(msg tea.Msg) tea.Cmd

	View(width int, m *challenge.Machine) string
	Hints() []layout.KeyHint
	TickInterval() time.Duration
}

// Playable reports whether def has a terminal board.
func Playable(def catalog.ChallengeDefinition) bool {
	switch def.Archetype {
	case scoring.ArchetypeSelection, scoring.ArchetypeBalance, scoring.ArchetypeTiming,
		scoring.ArchetypeMeasurement, scoring.ArchetypeSequence, scoring.ArchetypeRounds:
		return def.Config != nil
	}
	return false
}

func newBoard(def catalog.ChallengeDefinition) (board, error) {
	switch cfg := def.Config.(type) {
	case *scoring.SelectionConfig:
		return newSelectionBoard(cfg), nil
	case *scoring.BalanceConfig:
		return newBalanceBoard(cfg), nil
	case *scoring.TimingConfig:
		return newTimingBoard(cfg, def.TimeLimit), nil
	case *scoring.MeasurementConfig:
		return newMeasurementBoard(cfg), nil
	case *scoring.SequenceConfig:
		return newSequenceBoard(cfg), nil
	case *scoring.RoundsConfig:
		return newRoundsBoard(cfg), nil
	}
	return nil, fmt.Errorf("no board for %s config %T", def.Archetype, def.Config)
}

// staticBoard provides the defaults shared by boards with no async input.
type staticBoard struct{}

func (staticBoard) Init() tea.Cmd               { return nil }
func (staticBoard) Forward(tea.Msg) tea.Cmd     { return nil }
func (staticBoard) TickInterval() time.Duration { return time.Second }
