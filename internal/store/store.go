// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/huang-jianhua/cow-coach/internal/domain"
)

// Repository defines the interface for persisting coach data. All queries
// and mutations are scoped by user ID; no cross-user reads exist. Mutating
// operations are serialized per user ID, so concurrent callers cannot
// observe a partially applied multi-step mutation.
type Repository interface {
	// EnsureProfile returns the profile for a user, creating one with a
	// default display name on first contact. Idempotent.
	EnsureProfile(ctx context.Context, userID string) (*domain.Profile, error)

	// AppendLearningRecord appends an immutable learning record. A non-nil
	// mood score must be within [1,10] or the call fails with ErrValidation.
	AppendLearningRecord(ctx context.Context, userID, topic, insights string, moodScore *int) (int64, error)

	// CreateGoal creates a new goal in active status and returns its ID.
	CreateGoal(ctx context.Context, userID, title, description string) (int64, error)

	// CompleteGoal transitions an active goal owned by userID to completed,
	// stamping completed_at and appending a milestone in one transaction.
	// Fails with ErrNotFound if no active goal with that ID belongs to the user.
	CompleteGoal(ctx context.Context, userID string, goalID int64) (*domain.Goal, error)

	// UpdateGoal replaces the title and description of an active goal owned
	// by userID. Same ownership and status checks as CompleteGoal.
	UpdateGoal(ctx context.Context, userID string, goalID int64, title, description string) (*domain.Goal, error)

	// ListGoals returns all goals for a user ordered by created_at descending,
	// both statuses included.
	ListGoals(ctx context.Context, userID string) ([]*domain.Goal, error)

	// RecordMood appends a mood-tagged learning record. Same score validation
	// as AppendLearningRecord.
	RecordMood(ctx context.Context, userID string, score int, note string) (int64, error)

	// QueryRecent returns learning records with a session date within the
	// trailing window, ordered by session date descending.
	QueryRecent(ctx context.Context, userID string, days int) ([]*domain.LearningRecord, error)

	// CountRecentSessions counts learning records within the trailing window.
	CountRecentSessions(ctx context.Context, userID string, days int) (int, error)

	// AverageMood returns the mean of all recorded mood scores for a user,
	// or 0 when none exist.
	AverageMood(ctx context.Context, userID string) (float64, error)

	// CountMilestones counts all milestones for a user.
	CountMilestones(ctx context.Context, userID string) (int, error)

	// CountActiveGoals counts goals in active status.
	CountActiveGoals(ctx context.Context, userID string) (int, error)

	// CountCompletedGoals counts goals in completed status.
	CountCompletedGoals(ctx context.Context, userID string) (int, error)

	// Celebrate appends a milestone for a user-declared achievement.
	Celebrate(ctx context.Context, userID, achievement string) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
