package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/careerquest/internal/logger"
	"github.com/abhisek/careerquest/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

var errDown = &ErrProviderUnavailable{Err: errors.New("down")}

func TestMockProvider_Script(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: newUsage(10, 5)},
		MockResponse{Err: &ErrRateLimit{}},
	)

	resp, err := m.Generate(context.Background(), Request{System: "sys"})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if string(resp.Content) != `{"a":1}` || resp.Usage.TotalTokens != 15 {
		t.Fatalf("first = %s %+v", resp.Content, resp.Usage)
	}

	var rl *ErrRateLimit
	if _, err := m.Generate(context.Background(), Request{}); !errors.As(err, &rl) {
		t.Fatalf("second err = %T, want ErrRateLimit", err)
	}

	var un *ErrProviderUnavailable
	if _, err := m.Generate(context.Background(), Request{}); !errors.As(err, &un) {
		t.Fatalf("empty script err = %T, want ErrProviderUnavailable", err)
	}
	if m.CallCount() != 3 || m.Calls[0].System != "sys" {
		t.Fatalf("calls = %d, first system %q", m.CallCount(), m.Calls[0].System)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: json.RawMessage(`{"headline":"x"}`)})
	_, err := m.Generate(context.Background(), NewRequest("", "x", debriefSchema(), 64))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %T, want ErrInvalidResponse", err)
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"complete", debriefJSON, true},
		{"empty lists", `{"headline":"h","strengths":[],"next_steps":[]}`, true},
		{"missing field", `{"headline":"h","strengths":[]}`, false},
		{"wrong item type", `{"headline":"h","strengths":[1],"next_steps":[]}`, false},
		{"malformed", `{not json}`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(debriefSchema(), json.RawMessage(tt.raw))
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("err = %T (%v), want ErrInvalidResponse", err, err)
				}
			}
		})
	}

	if err := validateResponse(nil, json.RawMessage(`whatever`)); err != nil {
		t.Fatalf("nil schema should accept anything, got %v", err)
	}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		script    []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first try", []MockResponse{{Content: json.RawMessage(`{}`)}}, false, 1},
		{"transient then ok", []MockResponse{{Err: errDown}, {Content: json.RawMessage(`{}`)}}, false, 2},
		{"always down", []MockResponse{{Err: errDown}, {Err: errDown}, {Err: errDown}, {Err: errDown}}, true, 3},
		{"max tokens is final", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, {Content: json.RawMessage(`{}`)}}, true, 1},
		{"invalid retried once", []MockResponse{
			{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
			{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
			{Content: json.RawMessage(`{}`)},
		}, true, 2},
		{"retry after honoured", []MockResponse{
			{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
			{Content: json.RawMessage(`{}`)},
		}, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockProvider(tt.script...)
			_, err := WithRetry(m, fastRetry()).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if m.CallCount() != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", m.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_StopsOnCancel(t *testing.T) {
	m := NewMockProvider(MockResponse{Err: errDown}, MockResponse{Content: json.RawMessage(`{}`)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(m, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}).Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if m.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", m.CallCount())
	}
}

type memoryLog struct {
	mu   sync.Mutex
	rows []store.LLMRequestEventData
	err  error
}

func (l *memoryLog) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, d)
	return l.err
}

func TestLoggingProvider(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := &memoryLog{}
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: newUsage(100, 20)},
		MockResponse{Err: errDown},
	)
	p := WithLogging(m, ProviderMock, sink, logger.FromZap(zap.New(core)))

	ctx := WithUser(WithPurpose(context.Background(), "career-debrief"), "u1")
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("second should fail")
	}

	if len(sink.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(sink.rows))
	}
	first, second := sink.rows[0], sink.rows[1]
	if first.Purpose != "career-debrief" || first.UserID != "u1" || !first.Success || first.InputTokens != 100 {
		t.Errorf("first row = %+v", first)
	}
	if second.Success || second.ErrorMessage == "" || second.Provider != ProviderMock {
		t.Errorf("second row = %+v", second)
	}
	if n := logs.FilterMessage("model request failed").Len(); n != 1 {
		t.Errorf("warn entries = %d, want 1", n)
	}
}

func TestLoggingProvider_SinkFailureIgnored(t *testing.T) {
	sink := &memoryLog{err: errors.New("db locked")}
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), ProviderMock, sink, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("sink failure leaked: %v", err)
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if PurposeFrom(ctx) != "unknown" || UserFrom(ctx) != "" {
		t.Fatal("empty context should give defaults")
	}
	ctx = WithUser(WithPurpose(ctx, "p"), "u")
	if PurposeFrom(ctx) != "p" || UserFrom(ctx) != "u" {
		t.Fatalf("got purpose %q user %q", PurposeFrom(ctx), UserFrom(ctx))
	}
}

func TestConfigFromEnv(t *testing.T) {
	for _, keys := range envKeys {
		t.Setenv(keys[0], "")
		t.Setenv(keys[1], "")
	}

	if _, ok := ConfigFromEnv(""); ok {
		t.Fatal("no keys set, discovery should fail")
	}

	t.Setenv("ANTHROPIC_API_KEY", "vendor-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")
	cfg, ok := ConfigFromEnv("")
	if !ok || cfg.Provider != ProviderOpenAI {
		t.Fatalf("discovered %q ok=%v, want openai first", cfg.Provider, ok)
	}

	t.Setenv("CAREERQUEST_ANTHROPIC_API_KEY", "own-key")
	cfg, _ = ConfigFromEnv(ProviderAnthropic)
	if cfg.Anthropic.APIKey != "own-key" {
		t.Fatalf("anthropic key = %q, want careerquest-specific key", cfg.Anthropic.APIKey)
	}
	if err := cfg.WithModel("claude-sonnet").Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.WithModel("claude-sonnet").Anthropic.Model != "claude-sonnet" {
		t.Fatal("WithModel did not apply")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{Config{Provider: ProviderAnthropic}, true},
		{Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}, false},
		{Config{Provider: ProviderOpenRouter}, true},
		{Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, false},
		{Config{Provider: ProviderMock}, false},
		{Config{Provider: "carrier-pigeon"}, true},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%s) = %v, wantErr %v", tt.cfg.Provider, err, tt.wantErr)
		}
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock, Retry: fastRetry()}, nil, nil)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q", p.ModelID())
	}
	if _, err := NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil, nil); err == nil {
		t.Fatal("missing key should fail")
	}
}

func TestModelCost(t *testing.T) {
	c, ok := LookupCost("gpt-4.1-mini")
	if !ok {
		t.Fatal("gpt-4.1-mini should be priced")
	}
	got := c.Cost(newUsage(1_000_000, 500_000))
	if got < 1.19 || got > 1.21 {
		t.Fatalf("cost = %f, want 1.20", got)
	}
	if _, ok := LookupCost("mystery"); ok {
		t.Fatal("unknown model should not be priced")
	}
}
