package llm

import (
	"context"
	"time"

	"github.com/abhisek/careerquest/internal/logger"
	"github.com/abhisek/careerquest/internal/store"
)

// RequestLog persists one row per model call.
type RequestLog interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider records every call in a RequestLog and the debug log.
// A failed write is logged and never fails the call.
type LoggingProvider struct {
	inner    Provider
	provider string
	sink     RequestLog
	log      *logger.Logger
}

// WithLogging wraps p. sink may be nil to only write the log.
func WithLogging(p Provider, providerName string, sink RequestLog, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, provider: providerName, sink: sink, log: log.Named("llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		UserID:    UserFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	kv := []any{
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"user_id", data.UserID,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
	}
	if cost, ok := LookupCost(data.Model); ok && resp != nil {
		kv = append(kv, "cost_usd", cost.Cost(resp.Usage))
	}
	if err != nil {
		l.log.Warn("model request failed", append(kv, "error", err)...)
	} else {
		l.log.Debug("model request", kv...)
	}

	if l.sink != nil {
		if logErr := l.sink.AppendLLMRequest(ctx, data); logErr != nil {
			l.log.Warn("record model request", "error", logErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
