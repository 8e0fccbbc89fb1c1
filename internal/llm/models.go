package llm

// Friendly names accepted in configuration, per provider.
var (
	anthropicModels = map[string]string{
		"claude-sonnet": "claude-sonnet-4-5-20250929",
		"claude-haiku":  "claude-haiku-4-5-20251001",
	}
	openaiModels = map[string]string{
		"gpt-mini": "gpt-4.1-mini",
		"gpt":      "gpt-4.1",
	}
	geminiModels = map[string]string{
		"gemini-flash": "gemini-2.5-flash",
		"gemini-pro":   "gemini-2.5-pro",
	}
)

// resolveModel expands a friendly name. Unknown names are taken as model ids.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of one request.
func (c ModelCost) Cost(u Usage) float64 {
	return (float64(u.InputTokens)*c.InputPerMTok + float64(u.OutputTokens)*c.OutputPerMTok) / 1_000_000
}

// LookupCost returns pricing for a model id, or false when unknown.
func LookupCost(modelID string) (ModelCost, bool) {
	c, ok := modelCosts[modelID]
	return c, ok
}

// Prices as published by each vendor for the models the aliases point at
// and their common neighbours.
var modelCosts = map[string]ModelCost{
	"claude-haiku-4-5":           {1, 5},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},
	"claude-opus-4-1":            {15, 75},

	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-5-mini":   {0.25, 2},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
