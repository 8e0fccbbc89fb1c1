// Package llm talks to hosted language models behind one Provider
// interface. Adapters exist for Anthropic, OpenAI, OpenRouter and Gemini;
// retry and request-logging decorators wrap any of them.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one response per request.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the adapter asks for structured output and validates the result
	// before returning it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider is configured for.
	ModelID() string
}

// Request is a single-turn or multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when non-nil, constrains the response to a JSON object.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// NewRequest builds a one-message request.
func NewRequest(system, user string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: user}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "career-debrief". OpenAI uses it as the
	// schema name and the validator uses it as the cache key.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a provider's answer, normalized across adapters.
type Response struct {
	// Content is the validated JSON object for schema requests, otherwise
	// the raw text.
	Content json.RawMessage

	Usage Usage
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func newUsage(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// finish validates structured content and assembles the Response.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if stop == stopMaxTokens && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
)
