package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// LLMRequestEventData captures the data for a single LLM request.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	UserID       string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// AppendLLMRequest records an LLM API call on the shared sequence.
func (r *EventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableLLMRequests).
		Columns(
			colSequence, colTimestamp, colUserID, colProvider, colModel, colPurpose,
			colInputTokens, colOutputTokens, colLatencyMs, colSuccess, colErrorMessage,
		).
		Values(
			seqNum, time.Now().UTC(), data.UserID, data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// LLMUsage sums token usage over every recorded LLM request.
type LLMUsage struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// LLMUsageTotals returns aggregate LLM usage across all users.
func (r *EventRepo) LLMUsageTotals(ctx context.Context) (LLMUsage, error) {
	query, args := builder().Select(
		entsql.Count("*"),
		"COALESCE(SUM(CASE WHEN "+colSuccess+" THEN 0 ELSE 1 END), 0)",
		"COALESCE(SUM("+colInputTokens+"), 0)",
		"COALESCE(SUM("+colOutputTokens+"), 0)",
	).From(entsql.Table(tableLLMRequests)).Query()

	var u LLMUsage
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.Requests, &u.Failures, &u.InputTokens, &u.OutputTokens); err != nil {
		return LLMUsage{}, fmt.Errorf("sum LLM usage: %w", err)
	}
	return u, nil
}
