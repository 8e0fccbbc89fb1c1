// Package play hosts one challenge in the terminal. It drives a
// challenge.Machine from key presses and hands the scored result to
// progression when the player continues.
package play

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/challenge"
	"github.com/abhisek/careerquest/internal/logger"
	"github.com/abhisek/careerquest/internal/progression"
	"github.com/abhisek/careerquest/internal/router"
	"github.com/abhisek/careerquest/internal/screen"
	"github.com/abhisek/careerquest/internal/ui/components"
	"github.com/abhisek/careerquest/internal/ui/layout"
	"github.com/abhisek/careerquest/internal/ui/theme"
)

// Recorder persists a completion in the background.
type Recorder interface {
	RecordAsync(ctx context.Context, c progression.Completion) <-chan progression.Report
}

type tickMsg struct{ gen int }

type savedMsg struct{ report progression.Report }

type stage int

const (
	stageIntro stage = iota
	stagePlaying
	stageResult
	stageSaving
	stageSaved
)

// Result menu entries.
const (
	actionContinue = "CONTINUE"
	actionRetry    = "RETRY"
	actionExit     = "EXIT"
)

// Options configures a play screen.
type Options struct {
	UserID string
	Logger *logger.Logger
	Clock  challenge.Clock // nil uses the system clock
}

// PlayScreen runs one challenge definition.
type PlayScreen struct {
	def     catalog.ChallengeDefinition
	machine *challenge.Machine
	rec     Recorder
	opts    Options

	stage   stage
	board   board
	result  challenge.Result
	report  progression.Report
	menu    components.Menu
	tickGen int
	errMsg  string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.Closer = (*PlayScreen)(nil)

// New creates a play screen in the intro stage. It fails for archetypes
// that have no terminal board.
func New(def catalog.ChallengeDefinition, rec Recorder, opts Options) (*PlayScreen, error) {
	if !Playable(def) {
		return nil, fmt.Errorf("challenge %q (%s) cannot be played in the terminal", def.ID, def.Archetype)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	s := &PlayScreen{
		def:  def,
		rec:  rec,
		opts: opts,
	}
	s.machine = challenge.New(def, challenge.Options{Clock: opts.Clock})
	return s, nil
}

func (s *PlayScreen) Init() tea.Cmd {
	return nil
}

func (s *PlayScreen) Title() string {
	return s.def.Title
}

// Close abandons any unfinished session so no timer outlives the screen.
func (s *PlayScreen) Close() {
	if !s.machine.Phase().Terminal() {
		_ = s.machine.Exit()
	}
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	switch s.stage {
	case stageIntro:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case stagePlaying:
		if s.board != nil {
			return append(s.board.Hints(), layout.KeyHint{Key: "Esc", Description: "Abandon"})
		}
	case stageResult:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Select"},
		}
	case stageSaved:
		return []layout.KeyHint{{Key: "Enter", Description: "Back to career"}}
	}
	return nil
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s, s.onTick(msg)

	case savedMsg:
		s.report = msg.report
		s.stage = stageSaved
		if msg.report.Profile.UserID != "" {
			profile := msg.report.Profile
			return s, func() tea.Msg { return screen.ProfileMsg{Profile: profile} }
		}
		return s, nil

	case tea.KeyMsg:
		return s, s.onKey(msg)
	}

	if s.stage == stagePlaying && s.board != nil {
		return s, s.board.Forward(msg)
	}
	return s, nil
}

func (s *PlayScreen) onKey(msg tea.KeyMsg) tea.Cmd {
	switch s.stage {
	case stageIntro:
		if msg.String() == "enter" {
			return s.start()
		}

	case stagePlaying:
		if s.board == nil {
			return nil
		}
		cmd, submit := s.board.Update(msg, s.machine)
		if submit {
			return tea.Batch(cmd, s.submit())
		}
		return cmd

	case stageResult:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return cmd

	case stageSaved:
		if msg.String() == "enter" {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return nil
}

func (s *PlayScreen) start() tea.Cmd {
	sess, err := s.machine.Start()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	b, err := newBoard(s.def)
	if err != nil {
		_ = s.machine.Exit()
		s.errMsg = err.Error()
		return nil
	}
	s.board = b
	s.stage = stagePlaying
	s.errMsg = ""
	s.tickGen++
	s.opts.Logger.Debug("challenge started",
		"challenge_id", s.def.ID, "session_id", sess.ID, "user_id", s.opts.UserID)
	return tea.Batch(b.Init(), s.tick())
}

func (s *PlayScreen) tick() tea.Cmd {
	gen := s.tickGen
	interval := time.Second
	if s.board != nil {
		interval = s.board.TickInterval()
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// onTick keeps the countdown moving and notices when the machine's timer
// completed the session on its own goroutine.
func (s *PlayScreen) onTick(msg tickMsg) tea.Cmd {
	if msg.gen != s.tickGen || s.stage != stagePlaying {
		return nil
	}
	if s.machine.Phase() == challenge.PhaseComplete {
		if res, ok := s.machine.Result(); ok {
			s.showResult(res)
		}
		return nil
	}
	return s.tick()
}

func (s *PlayScreen) submit() tea.Cmd {
	res, err := s.machine.Submit()
	if err != nil {
		// The countdown can win the race with a submit key.
		if r, ok := s.machine.Result(); ok {
			s.showResult(r)
			return nil
		}
		s.errMsg = err.Error()
		return nil
	}
	s.showResult(res)
	return nil
}

func (s *PlayScreen) showResult(res challenge.Result) {
	s.result = res
	s.board = nil
	s.stage = stageResult
	s.tickGen++
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: actionContinue, Action: s.continueCmd},
		{Label: actionRetry, Action: s.retryCmd},
		{Label: actionExit, Action: s.exitCmd},
	})
}

func (s *PlayScreen) continueCmd() tea.Cmd {
	res, err := s.machine.Continue()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.stage = stageSaving
	ch := s.rec.RecordAsync(context.Background(), progression.Completion{
		UserID:      s.opts.UserID,
		ChallengeID: res.ChallengeID,
		CareerID:    res.CareerID,
		SessionID:   res.SessionID,
		RawScore:    res.Score,
	})
	return func() tea.Msg {
		return savedMsg{report: <-ch}
	}
}

func (s *PlayScreen) retryCmd() tea.Cmd {
	if err := s.machine.Retry(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.result = challenge.Result{}
	s.stage = stageIntro
	return nil
}

func (s *PlayScreen) exitCmd() tea.Cmd {
	_ = s.machine.Exit()
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *PlayScreen) View(width, height int) string {
	var body string
	switch s.stage {
	case stageIntro:
		body = s.introView(width)
	case stagePlaying:
		body = s.playingView(width)
	case stageResult:
		body = s.resultView()
	case stageSaving:
		body = lipgloss.NewStyle().Foreground(theme.TextDim).Render("Saving your result...")
	case stageSaved:
		body = s.savedView()
	}
	if s.errMsg != "" {
		body += "\n\n" + theme.Failure.Render(s.errMsg)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *PlayScreen) introView(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.def.Title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(s.def.Archetype.DisplayName()))
	b.WriteString("\n\n")
	if s.def.Description != "" {
		b.WriteString(theme.Body.Render(s.def.Description))
		b.WriteString("\n\n")
	}
	if s.def.Timed() {
		b.WriteString(theme.Warning.Render(fmt.Sprintf("You have %s.", formatDuration(s.def.TimeLimit))))
	} else {
		b.WriteString(theme.Hint.Render("Untimed. Faster is still better."))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Press Enter to start"))
	return components.ArcadeCard(b.String(), components.ContentWidth(width))
}

func (s *PlayScreen) playingView(width int) string {
	if s.board == nil {
		return ""
	}
	var b strings.Builder

	info := theme.Subtitle.Render(s.def.Archetype.DisplayName())
	if s.def.Timed() {
		left := s.machine.Remaining()
		style := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		if left <= 10*time.Second {
			style = style.Foreground(theme.Error)
		}
		info += "   " + style.Render("T "+formatDuration(left))
	}
	b.WriteString(info)
	b.WriteString("\n\n")
	b.WriteString(s.board.View(boardWidth(width), s.machine))
	return b.String()
}

func (s *PlayScreen) resultView() string {
	var b strings.Builder
	if s.result.TimedOut {
		b.WriteString(theme.Warning.Render("Time's up!"))
		b.WriteString("\n\n")
	}
	score := lipgloss.NewStyle().
		Foreground(theme.ScoreColor(s.result.Score, s.def.MaxScore)).
		Bold(true).
		Render(fmt.Sprintf("%d / %d", s.result.Score, s.def.MaxScore))
	b.WriteString(theme.Body.Render("Score  "))
	b.WriteString(score)
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("in " + formatDuration(s.result.Elapsed)))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	return b.String()
}

func (s *PlayScreen) savedView() string {
	rep := s.report
	var b strings.Builder

	b.WriteString(theme.Title.Render(fmt.Sprintf("Score %d", rep.Score)))
	b.WriteString("\n\n")

	if rep.ChallengeSaved {
		next := rep.Reconciliation.Next
		b.WriteString(theme.Body.Render(fmt.Sprintf("Best %d  ·  attempt %d", next.BestScore, next.Attempts)))
		b.WriteString("\n")
		switch {
		case rep.Reconciliation.ScoreDelta > 0:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).
				Render(fmt.Sprintf("+%d XP", rep.Reconciliation.ScoreDelta)))
		default:
			b.WriteString(theme.Hint.Render("No new best this time."))
		}
		b.WriteString("\n")
		if rep.Unlocked != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("Challenge completed! The next one is unlocked."))
			b.WriteString("\n")
		}
	}
	if rep.CareerCompleted {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("★ Career complete! ★"))
		b.WriteString("\n")
	}
	if rep.Profile.UserID != "" {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Level %d  ·  %d XP", rep.Profile.Level, rep.Profile.Experience)))
		b.WriteString("\n")
	}
	return b.String()
}

func boardWidth(width int) int {
	return min(max(width-8, 30), 72)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
