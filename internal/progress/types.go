package progress

import "time"

// Status is the lifecycle position of a challenge or career record.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// rank orders statuses so transitions can be checked for direction.
func (s Status) rank() int {
	switch s {
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 0
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// DisplayName returns a human-readable label for the status.
func (s Status) DisplayName() string {
	switch s {
	case StatusNotStarted:
		return "Not started"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// ChallengeRecord is the persisted progress of one user on one challenge.
// BestScore never decreases and Attempts only grows.
type ChallengeRecord struct {
	UserID      string
	ChallengeID string
	CareerID    string
	Status      Status
	Score       int // last score
	BestScore   int
	Attempts    int
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// CareerRecord is the persisted rollup of one user on one career.
// Status only moves forward; CompletedAt is set once.
type CareerRecord struct {
	UserID      string
	CareerID    string
	Status      Status
	Score       int // sum of child best scores
	StartedAt   *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// Profile is the per-user aggregate. Level is always LevelFor(Experience).
type Profile struct {
	UserID     string
	TotalScore int
	Experience int
	Level      int
	UpdatedAt  time.Time
}

// ProfileUpdate carries the fields written back to a profile.
type ProfileUpdate struct {
	TotalScore int
	Experience int
	Level      int
}
