// Package progression folds challenge completions into persisted challenge,
// career and profile state through a Gateway.
package progression

import (
	"context"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/progress"
	"github.com/abhisek/careerquest/internal/store"
)

// Gateway is everything the orchestrator reads and writes. It owns storage;
// the orchestrator only decides the next values.
type Gateway interface {
	GetChallengeProgress(ctx context.Context, userID, challengeID string) (*progress.ChallengeRecord, error)
	UpsertChallengeProgress(ctx context.Context, rec progress.ChallengeRecord) error
	// ListChallengeProgress returns the user's records for careerID, or for
	// every career when careerID is empty.
	ListChallengeProgress(ctx context.Context, userID, careerID string) ([]progress.ChallengeRecord, error)
	GetCareerProgress(ctx context.Context, userID, careerID string) (*progress.CareerRecord, error)
	UpsertCareerProgress(ctx context.Context, rec progress.CareerRecord) error
	GetProfile(ctx context.Context, userID string) (progress.Profile, error)
	UpdateProfile(ctx context.Context, userID string, upd progress.ProfileUpdate) error
	ListChallengeDefinitions(ctx context.Context, careerID string) ([]catalog.ChallengeDefinition, error)
}

// EventSink receives completion events after the rollup.
type EventSink interface {
	AppendCompletion(ctx context.Context, ev store.CompletionEvent) (store.CompletionEvent, error)
}

// StoreGateway serves progress from SQLite and definitions from the catalog.
type StoreGateway struct {
	*store.ProgressRepo
	*catalog.Catalog
}

var _ Gateway = StoreGateway{}

// NewStoreGateway joins a store and a catalog into a Gateway.
func NewStoreGateway(st *store.Store, cat *catalog.Catalog) StoreGateway {
	return StoreGateway{ProgressRepo: st.Progress(), Catalog: cat}
}
