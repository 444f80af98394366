package domain

import (
	"time"
)

// Topic markers distinguishing the two kinds of learning record.
const (
	TopicMood       = "mood"
	TopicReflection = "reflection"
)

// Mood score bounds; scores outside this range are rejected.
const (
	MoodScoreMin = 1
	MoodScoreMax = 10
)

// LearningRecord is an append-only log entry representing a reflection
// or mood entry tied to a session date. Records are immutable once created.
type LearningRecord struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	SessionDate time.Time `json:"session_date"`
	Topic       string    `json:"topic"`
	Insights    string    `json:"insights,omitempty"`
	ActionItems string    `json:"action_items,omitempty"`
	MoodScore   *int      `json:"mood_score,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasMoodScore reports whether the record carries a mood score.
func (r *LearningRecord) HasMoodScore() bool {
	return r.MoodScore != nil
}

// ValidMoodScore reports whether a score falls within the accepted range.
func ValidMoodScore(score int) bool {
	return score >= MoodScoreMin && score <= MoodScoreMax
}
