package progression

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/careerquest/internal/catalog"
	"github.com/abhisek/careerquest/internal/progress"
)

// ErrLocked is returned for a challenge whose predecessor is not completed.
var ErrLocked = errors.New("challenge locked")

// ChallengeView is one challenge with the user's progress on it.
type ChallengeView struct {
	Definition catalog.ChallengeDefinition
	Record     *progress.ChallengeRecord // nil if never completed
	Unlocked   bool
}

// Status returns the record's status, or not_started.
func (v ChallengeView) Status() progress.Status {
	if v.Record == nil {
		return progress.StatusNotStarted
	}
	return v.Record.Status
}

// CareerView is one career with its rollup and challenges.
type CareerView struct {
	Career     catalog.Career
	Record     *progress.CareerRecord // nil if never attempted
	Status     progress.Status
	Completion float64 // fraction of challenges completed
	Challenges []ChallengeView
}

// Overview is the read model behind the stats and career screens.
type Overview struct {
	Profile progress.Profile
	Level   progress.LevelProgress
	Careers []CareerView
}

// Overview loads the user's profile and every career's progress.
func (s *Service) Overview(ctx context.Context, userID string, careers []catalog.Career) (Overview, error) {
	p, err := s.gw.GetProfile(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("get profile: %w", err)
	}
	ov := Overview{Profile: p, Level: progress.ProgressFor(p.Experience)}

	for _, c := range careers {
		cv, err := s.careerView(ctx, userID, c)
		if err != nil {
			return Overview{}, err
		}
		ov.Careers = append(ov.Careers, cv)
	}
	return ov, nil
}

func (s *Service) careerView(ctx context.Context, userID string, c catalog.Career) (CareerView, error) {
	defs, err := s.gw.ListChallengeDefinitions(ctx, c.ID)
	if err != nil {
		return CareerView{}, fmt.Errorf("list challenge definitions: %w", err)
	}
	records, err := s.gw.ListChallengeProgress(ctx, userID, c.ID)
	if err != nil {
		return CareerView{}, fmt.Errorf("list progress for %s: %w", c.ID, err)
	}
	careerRec, err := s.gw.GetCareerProgress(ctx, userID, c.ID)
	if err != nil {
		return CareerView{}, fmt.Errorf("get career progress for %s: %w", c.ID, err)
	}

	byID := make(map[string]*progress.ChallengeRecord, len(records))
	for i := range records {
		byID[records[i].ChallengeID] = &records[i]
	}
	ids := definitionIDs(defs)
	statuses := progress.StatusMap(records)
	unlocked := progress.Unlocked(ids, statuses)

	cv := CareerView{
		Career:     c,
		Record:     careerRec,
		Status:     progress.StatusNotStarted,
		Completion: progress.CompletionRatio(ids, statuses),
	}
	if careerRec != nil {
		cv.Status = careerRec.Status
	}
	for _, d := range defs {
		cv.Challenges = append(cv.Challenges, ChallengeView{
			Definition: d,
			Record:     byID[d.ID],
			Unlocked:   unlocked[d.ID],
		})
	}
	return cv, nil
}

// CheckUnlocked returns ErrLocked if def cannot be played yet.
func (s *Service) CheckUnlocked(ctx context.Context, userID string, def catalog.ChallengeDefinition) error {
	defs, err := s.gw.ListChallengeDefinitions(ctx, def.CareerID)
	if err != nil {
		return fmt.Errorf("list challenge definitions: %w", err)
	}
	records, err := s.gw.ListChallengeProgress(ctx, userID, def.CareerID)
	if err != nil {
		return fmt.Errorf("list progress: %w", err)
	}
	if !progress.Unlocked(definitionIDs(defs), progress.StatusMap(records))[def.ID] {
		return fmt.Errorf("%w: finish the previous %s challenge first", ErrLocked, def.CareerID)
	}
	return nil
}
