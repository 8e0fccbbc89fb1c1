package debrief

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/llm"
	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/progression"
	"github.com/abhisek/careerquest/internal/scoring"
)

func doctorView(played bool) progression.CareerView {
	cv := progression.CareerView{
		Career: catalog.Career{ID: "doctor", Name: "Doctor", Description: "Diagnose and treat"},
		Status: progress.StatusNotStarted,
		Challenges: []progression.ChallengeView{
			{Definition: catalog.ChallengeDefinition{ID: "doctor-prescribe", Title: "Prescribe", Archetype: scoring.ArchetypeSelection, MaxScore: 100}, Unlocked: true},
			{Definition: catalog.ChallengeDefinition{ID: "doctor-dosage", Title: "Dosage", Archetype: scoring.ArchetypeMeasurement, MaxScore: 100}},
		},
	}
	if played {
		cv.Status = progress.StatusInProgress
		cv.Completion = 0.5
		cv.Challenges[0].Record = &progress.ChallengeRecord{Status: progress.StatusCompleted, Score: 60, BestScore: 84, Attempts: 3}
		cv.Challenges[1].Unlocked = true
	}
	return cv
}

const reply = `{"headline":"Sharp prescribing instincts","strengths":["Prescribe: 84 best"],"next_steps":["Try Dosage"]}`

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(reply)})
	svc := NewService(mock, 0)

	d, err := svc.Generate(context.Background(), Input{UserID: "u1", Career: doctorView(true), Level: progress.ProgressFor(84)})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if d.Headline != "Sharp prescribing instincts" {
		t.Errorf("headline = %q", d.Headline)
	}
	if len(d.Strengths) != 1 || len(d.NextSteps) != 1 {
		t.Errorf("strengths = %v, next = %v", d.Strengths, d.NextSteps)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema != Schema {
		t.Error("request must carry the debrief schema")
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Career: Doctor", "best 84/100, last 60, 3 attempts", "Dosage (Measure precisely): not played yet", "50%"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestGenerate_LockedChallengeInPrompt(t *testing.T) {
	cv := doctorView(true)
	cv.Challenges[1].Unlocked = false
	msg := buildUserMessage(Input{Career: cv})
	if !strings.Contains(msg, "Dosage (Measure precisely): locked") {
		t.Errorf("prompt should mark locked challenge:\n%s", msg)
	}
}

func TestGenerate_NothingPlayed(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := NewService(mock, 0).Generate(context.Background(), Input{Career: doctorView(false)})
	if !errors.Is(err, ErrNothingPlayed) {
		t.Fatalf("err = %v, want ErrNothingPlayed", err)
	}
	if mock.CallCount() != 0 {
		t.Fatal("provider must not be called")
	}
}

func TestGenerate_ProviderErrors(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"headline":"no lists"}`)},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	svc := NewService(mock, 0)

	_, err := svc.Generate(context.Background(), Input{Career: doctorView(true)})
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want ErrInvalidResponse", err)
	}

	_, err = svc.Generate(context.Background(), Input{Career: doctorView(true)})
	var un *llm.ErrProviderUnavailable
	if !errors.As(err, &un) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}
