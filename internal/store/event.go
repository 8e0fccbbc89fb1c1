package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global monotonic sequence stamped on every
// completion event, so history stays totally ordered even when timestamps
// collide.
//
// Uses raw SQL because the builder has no atomic counter primitive. The
// mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// CompletionEvent is one reconciled challenge completion. Events are
// append-only and never rewritten.
type CompletionEvent struct {
	Sequence        int64
	Timestamp       time.Time
	UserID          string
	ChallengeID     string
	CareerID        string
	SessionID       string
	RawScore        int // as reported by the player's session
	Score           int // after clamping to the challenge's max score
	ScoreDelta      int
	FirstCompletion bool
	Attempt         int
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit       int       // max results (0 = unlimited)
	After       int64     // sequence > After
	Before      int64     // sequence < Before
	From        time.Time // timestamp >= From
	To          time.Time // timestamp <= To
	ChallengeID string    // only this challenge when set
}

// EventRepo appends and queries completion events.
type EventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var eventCols = []string{
	colSequence, colTimestamp, colUserID, colChallengeID, colCareerID, colSessionID,
	colRawScore, colScore, colScoreDelta, colFirstCompletion, colAttempt,
}

// AppendCompletion stamps ev with the next sequence number (and a timestamp
// if unset) and stores it. The stored event is returned.
func (r *EventRepo) AppendCompletion(ctx context.Context, ev CompletionEvent) (CompletionEvent, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return CompletionEvent{}, fmt.Errorf("next sequence: %w", err)
	}
	ev.Sequence = seqNum
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	ev.Timestamp = ev.Timestamp.UTC()

	query, args := builder().Insert(tableCompletionEvents).
		Columns(eventCols...).
		Values(
			ev.Sequence, ev.Timestamp, ev.UserID, ev.ChallengeID, ev.CareerID, ev.SessionID,
			ev.RawScore, ev.Score, ev.ScoreDelta, ev.FirstCompletion, ev.Attempt,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return CompletionEvent{}, fmt.Errorf("save completion event: %w", err)
	}
	return ev, nil
}

// RecentCompletions returns the user's events matching opts, newest first.
func (r *EventRepo) RecentCompletions(ctx context.Context, userID string, opts QueryOpts) ([]CompletionEvent, error) {
	preds := []*entsql.Predicate{entsql.EQ(colUserID, userID)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT(colSequence, opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(colSequence, opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(colTimestamp, opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(colTimestamp, opts.To.UTC()))
	}
	if opts.ChallengeID != "" {
		preds = append(preds, entsql.EQ(colChallengeID, opts.ChallengeID))
	}

	sel := builder().Select(eventCols...).
		From(entsql.Table(tableCompletionEvents)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc(colSequence))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query completion events: %w", err)
	}
	defer rows.Close()

	var out []CompletionEvent
	for rows.Next() {
		var ev CompletionEvent
		if err := rows.Scan(
			&ev.Sequence, &ev.Timestamp, &ev.UserID, &ev.ChallengeID, &ev.CareerID, &ev.SessionID,
			&ev.RawScore, &ev.Score, &ev.ScoreDelta, &ev.FirstCompletion, &ev.Attempt,
		); err != nil {
			return nil, fmt.Errorf("scan completion event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CountCompletions returns how many completion events the user has.
func (r *EventRepo) CountCompletions(ctx context.Context, userID string) (int, error) {
	query, args := builder().Select(entsql.Count("*")).
		From(entsql.Table(tableCompletionEvents)).
		Where(entsql.EQ(colUserID, userID)).
		Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count completion events: %w", err)
	}
	return n, nil
}
