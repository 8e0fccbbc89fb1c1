// Package debrief asks a language model for coach-style feedback on one
// career. It only reads progress; nothing here affects scoring.
package debrief

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/careerquest/internal/llm"
	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/progression"
)

// ErrNothingPlayed is returned for careers without a single completion.
var ErrNothingPlayed = errors.New("no completed challenges to debrief")

// Debrief is the model's feedback.
type Debrief struct {
	Headline  string   `json:"headline"`
	Strengths []string `json:"strengths"`
	NextSteps []string `json:"next_steps"`
}

// Input is what the prompt is built from.
type Input struct {
	UserID string
	Career progression.CareerView
	Level  progress.LevelProgress
}

type Service struct {
	provider  llm.Provider
	timeout   time.Duration
	maxTokens int
}

// NewService creates a debrief service. A zero timeout means no deadline
// beyond ctx.
func NewService(provider llm.Provider, timeout time.Duration) *Service {
	return &Service{provider: provider, timeout: timeout, maxTokens: 512}
}

// Generate requests a debrief for in.Career.
func (s *Service) Generate(ctx context.Context, in Input) (*Debrief, error) {
	if !played(in.Career) {
		return nil, fmt.Errorf("%s: %w", in.Career.Career.ID, ErrNothingPlayed)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	ctx = llm.WithUser(llm.WithPurpose(ctx, "career-debrief"), in.UserID)

	resp, err := s.provider.Generate(ctx, llm.NewRequest(systemPrompt, buildUserMessage(in), Schema, s.maxTokens))
	if err != nil {
		return nil, fmt.Errorf("generate debrief: %w", err)
	}

	var d Debrief
	if err := json.Unmarshal(resp.Content, &d); err != nil {
		return nil, fmt.Errorf("decode debrief: %w", err)
	}
	return &d, nil
}

func played(cv progression.CareerView) bool {
	for _, ch := range cv.Challenges {
		if ch.Record != nil {
			return true
		}
	}
	return false
}
