package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/careerquest/internal/progress"
)

// ProgressRepo reads and writes challenge, career and profile progress.
// Writes are whole-record upserts: callers compute next values, the repo
// only stores them.
type ProgressRepo struct {
	db *sql.DB
}

var challengeCols = []string{
	colUserID, colChallengeID, colCareerID, colStatus, colScore,
	colBestScore, colAttempts, colCompletedAt, colUpdatedAt,
}

// GetChallengeProgress returns the user's record for a challenge, or nil if
// the challenge was never completed.
func (r *ProgressRepo) GetChallengeProgress(ctx context.Context, userID, challengeID string) (*progress.ChallengeRecord, error) {
	query, args := builder().Select(challengeCols...).
		From(entsql.Table(tableChallengeProgress)).
		Where(entsql.And(
			entsql.EQ(colUserID, userID),
			entsql.EQ(colChallengeID, challengeID),
		)).
		Limit(1).
		Query()

	rec, err := scanChallenge(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge progress: %w", err)
	}
	return &rec, nil
}

// UpsertChallengeProgress inserts rec or replaces the existing row for the
// same user and challenge.
func (r *ProgressRepo) UpsertChallengeProgress(ctx context.Context, rec progress.ChallengeRecord) error {
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	query, args := builder().Insert(tableChallengeProgress).
		Columns(challengeCols...).
		Values(
			rec.UserID, rec.ChallengeID, rec.CareerID, string(rec.Status), rec.Score,
			rec.BestScore, rec.Attempts, nullTime(rec.CompletedAt), updated.UTC(),
		).
		OnConflict(
			entsql.ConflictColumns(colUserID, colChallengeID),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert challenge progress: %w", err)
	}
	return nil
}

// ListChallengeProgress returns the user's challenge records for a career.
// An empty careerID lists every career.
func (r *ProgressRepo) ListChallengeProgress(ctx context.Context, userID, careerID string) ([]progress.ChallengeRecord, error) {
	pred := entsql.EQ(colUserID, userID)
	if careerID != "" {
		pred = entsql.And(pred, entsql.EQ(colCareerID, careerID))
	}
	query, args := builder().Select(challengeCols...).
		From(entsql.Table(tableChallengeProgress)).
		Where(pred).
		OrderBy(colCareerID, colChallengeID).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list challenge progress: %w", err)
	}
	defer rows.Close()

	var out []progress.ChallengeRecord
	for rows.Next() {
		rec, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan challenge progress: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var careerCols = []string{
	colUserID, colCareerID, colStatus, colScore, colStartedAt, colCompletedAt, colUpdatedAt,
}

// GetCareerProgress returns the user's career rollup, or nil if none exists.
func (r *ProgressRepo) GetCareerProgress(ctx context.Context, userID, careerID string) (*progress.CareerRecord, error) {
	query, args := builder().Select(careerCols...).
		From(entsql.Table(tableCareerProgress)).
		Where(entsql.And(
			entsql.EQ(colUserID, userID),
			entsql.EQ(colCareerID, careerID),
		)).
		Limit(1).
		Query()

	rec, err := scanCareer(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get career progress: %w", err)
	}
	return &rec, nil
}

// UpsertCareerProgress inserts rec or replaces the existing rollup.
func (r *ProgressRepo) UpsertCareerProgress(ctx context.Context, rec progress.CareerRecord) error {
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	query, args := builder().Insert(tableCareerProgress).
		Columns(careerCols...).
		Values(
			rec.UserID, rec.CareerID, string(rec.Status), rec.Score,
			nullTime(rec.StartedAt), nullTime(rec.CompletedAt), updated.UTC(),
		).
		OnConflict(
			entsql.ConflictColumns(colUserID, colCareerID),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert career progress: %w", err)
	}
	return nil
}

// ListCareerProgress returns every career rollup of the user.
func (r *ProgressRepo) ListCareerProgress(ctx context.Context, userID string) ([]progress.CareerRecord, error) {
	query, args := builder().Select(careerCols...).
		From(entsql.Table(tableCareerProgress)).
		Where(entsql.EQ(colUserID, userID)).
		OrderBy(colCareerID).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list career progress: %w", err)
	}
	defer rows.Close()

	var out []progress.CareerRecord
	for rows.Next() {
		rec, err := scanCareer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan career progress: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetProfile returns the user's profile. A user with no profile row gets a
// zero profile at level 1.
func (r *ProgressRepo) GetProfile(ctx context.Context, userID string) (progress.Profile, error) {
	query, args := builder().Select(colTotalScore, colExperience, colLevel, colUpdatedAt).
		From(entsql.Table(tableProfiles)).
		Where(entsql.EQ(colUserID, userID)).
		Limit(1).
		Query()

	p := progress.Profile{UserID: userID, Level: 1}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.TotalScore, &p.Experience, &p.Level, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.Profile{UserID: userID, Level: 1}, nil
	}
	if err != nil {
		return progress.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// UpdateProfile writes the profile totals, creating the row if needed.
func (r *ProgressRepo) UpdateProfile(ctx context.Context, userID string, upd progress.ProfileUpdate) error {
	query, args := builder().Insert(tableProfiles).
		Columns(colUserID, colTotalScore, colExperience, colLevel, colUpdatedAt).
		Values(userID, upd.TotalScore, upd.Experience, upd.Level, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns(colUserID),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallenge(s rowScanner) (progress.ChallengeRecord, error) {
	var (
		rec       progress.ChallengeRecord
		status    string
		completed sql.NullTime
	)
	err := s.Scan(
		&rec.UserID, &rec.ChallengeID, &rec.CareerID, &status, &rec.Score,
		&rec.BestScore, &rec.Attempts, &completed, &rec.UpdatedAt,
	)
	if err != nil {
		return progress.ChallengeRecord{}, err
	}
	rec.Status = progress.Status(status)
	rec.CompletedAt = timePtr(completed)
	return rec, nil
}

func scanCareer(s rowScanner) (progress.CareerRecord, error) {
	var (
		rec       progress.CareerRecord
		status    string
		started   sql.NullTime
		completed sql.NullTime
	)
	err := s.Scan(&rec.UserID, &rec.CareerID, &status, &rec.Score, &started, &completed, &rec.UpdatedAt)
	if err != nil {
		return progress.CareerRecord{}, err
	}
	rec.Status = progress.Status(status)
	rec.StartedAt = timePtr(started)
	rec.CompletedAt = timePtr(completed)
	return rec, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
