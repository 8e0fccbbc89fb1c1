package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the migration and the query builders.
const (
	tableProfiles          = "profiles"
	tableChallengeProgress = "challenge_progress"
	tableCareerProgress    = "career_progress"
	tableCompletionEvents  = "completion_events"
	tableLLMRequests       = "llm_requests"

	colID              = "id"
	colUserID          = "user_id"
	colChallengeID     = "challenge_id"
	colCareerID        = "career_id"
	colStatus          = "status"
	colScore           = "score"
	colBestScore       = "best_score"
	colAttempts        = "attempts"
	colCompletedAt     = "completed_at"
	colStartedAt       = "started_at"
	colUpdatedAt       = "updated_at"
	colTotalScore      = "total_score"
	colExperience      = "experience"
	colLevel           = "level"
	colSequence        = "sequence"
	colTimestamp       = "timestamp"
	colSessionID       = "session_id"
	colRawScore        = "raw_score"
	colScoreDelta      = "score_delta"
	colFirstCompletion = "first_completion"
	colAttempt         = "attempt"
	colProvider        = "provider"
	colModel           = "model"
	colPurpose         = "purpose"
	colInputTokens     = "input_tokens"
	colOutputTokens    = "output_tokens"
	colLatencyMs       = "latency_ms"
	colSuccess         = "success"
	colErrorMessage    = "error_message"
)

var (
	profilesColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colUserID, Type: field.TypeString, Unique: true},
		{Name: colTotalScore, Type: field.TypeInt, Default: 0},
		{Name: colExperience, Type: field.TypeInt, Default: 0},
		{Name: colLevel, Type: field.TypeInt, Default: 1},
		{Name: colUpdatedAt, Type: field.TypeTime},
	}
	profilesTable = &schema.Table{
		Name:       tableProfiles,
		Columns:    profilesColumns,
		PrimaryKey: []*schema.Column{profilesColumns[0]},
	}

	challengeProgressColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colUserID, Type: field.TypeString},
		{Name: colChallengeID, Type: field.TypeString},
		{Name: colCareerID, Type: field.TypeString},
		{Name: colStatus, Type: field.TypeString, Default: "not_started"},
		{Name: colScore, Type: field.TypeInt, Default: 0},
		{Name: colBestScore, Type: field.TypeInt, Default: 0},
		{Name: colAttempts, Type: field.TypeInt, Default: 0},
		{Name: colCompletedAt, Type: field.TypeTime, Nullable: true},
		{Name: colUpdatedAt, Type: field.TypeTime},
	}
	challengeProgressTable = &schema.Table{
		Name:       tableChallengeProgress,
		Columns:    challengeProgressColumns,
		PrimaryKey: []*schema.Column{challengeProgressColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "challengeprogress_user_id_challenge_id",
				Unique:  true,
				Columns: []*schema.Column{challengeProgressColumns[1], challengeProgressColumns[2]},
			},
			{
				Name:    "challengeprogress_user_id_career_id",
				Columns: []*schema.Column{challengeProgressColumns[1], challengeProgressColumns[3]},
			},
		},
	}

	careerProgressColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colUserID, Type: field.TypeString},
		{Name: colCareerID, Type: field.TypeString},
		{Name: colStatus, Type: field.TypeString, Default: "not_started"},
		{Name: colScore, Type: field.TypeInt, Default: 0},
		{Name: colStartedAt, Type: field.TypeTime, Nullable: true},
		{Name: colCompletedAt, Type: field.TypeTime, Nullable: true},
		{Name: colUpdatedAt, Type: field.TypeTime},
	}
	careerProgressTable = &schema.Table{
		Name:       tableCareerProgress,
		Columns:    careerProgressColumns,
		PrimaryKey: []*schema.Column{careerProgressColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "careerprogress_user_id_career_id",
				Unique:  true,
				Columns: []*schema.Column{careerProgressColumns[1], careerProgressColumns[2]},
			},
		},
	}

	completionEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeTime},
		{Name: colUserID, Type: field.TypeString},
		{Name: colChallengeID, Type: field.TypeString},
		{Name: colCareerID, Type: field.TypeString},
		{Name: colSessionID, Type: field.TypeString, Default: ""},
		{Name: colRawScore, Type: field.TypeInt},
		{Name: colScore, Type: field.TypeInt},
		{Name: colScoreDelta, Type: field.TypeInt},
		{Name: colFirstCompletion, Type: field.TypeBool, Default: false},
		{Name: colAttempt, Type: field.TypeInt},
	}
	completionEventsTable = &schema.Table{
		Name:       tableCompletionEvents,
		Columns:    completionEventsColumns,
		PrimaryKey: []*schema.Column{completionEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "completionevent_user_id_sequence",
				Columns: []*schema.Column{completionEventsColumns[3], completionEventsColumns[1]},
			},
		},
	}

	llmRequestsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeTime},
		{Name: colUserID, Type: field.TypeString, Default: ""},
		{Name: colProvider, Type: field.TypeString},
		{Name: colModel, Type: field.TypeString},
		{Name: colPurpose, Type: field.TypeString, Default: ""},
		{Name: colInputTokens, Type: field.TypeInt, Default: 0},
		{Name: colOutputTokens, Type: field.TypeInt, Default: 0},
		{Name: colLatencyMs, Type: field.TypeInt64, Default: 0},
		{Name: colSuccess, Type: field.TypeBool},
		{Name: colErrorMessage, Type: field.TypeString, Default: ""},
	}
	llmRequestsTable = &schema.Table{
		Name:       tableLLMRequests,
		Columns:    llmRequestsColumns,
		PrimaryKey: []*schema.Column{llmRequestsColumns[0]},
	}

	// tables is the full set managed by auto-migration. The global_sequence
	// counter table is created separately by newSequenceCounter.
	tables = []*schema.Table{
		profilesTable,
		challengeProgressTable,
		careerProgressTable,
		completionEventsTable,
		llmRequestsTable,
	}
)
