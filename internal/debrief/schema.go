package debrief

import "github.com/abhisek/careerquest/internal/llm"

// Schema is the structured output requested from the model.
var Schema = &llm.Schema{
	Name:        "career-debrief",
	Description: "Coach-style feedback on a player's progress through one career",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One encouraging sentence about the player's run (8-15 words)",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-3 things the player did well, each naming a challenge",
			},
			"next_steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-3 concrete suggestions, each naming a challenge to replay or try",
			},
		},
		"required":             []any{"headline", "strengths", "next_steps"},
		"additionalProperties": false,
	},
}
