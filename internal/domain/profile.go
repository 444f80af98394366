// Package domain contains core domain types for the coach application.
package domain

import (
	"time"
)

// DefaultDisplayName is assigned to profiles created lazily on first contact.
const DefaultDisplayName = "learning partner"

// Profile represents a coached user's persistent profile.
// At most one profile exists per user ID; it is created lazily the first
// time the user interacts with the coach.
type Profile struct {
	UserID        string    `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	GoalsSummary  string    `json:"goals_summary,omitempty"`
	LearningStyle string    `json:"learning_style,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
