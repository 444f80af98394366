package domain

import (
	"time"
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	// GoalActive is the initial status of every goal.
	GoalActive GoalStatus = "active"
	// GoalCompleted is the terminal status; a goal transitions to it exactly once.
	GoalCompleted GoalStatus = "completed"
)

// goalTitleLimit caps the derived title length in runes.
const goalTitleLimit = 50

// Goal represents a user-declared objective with a two-state lifecycle.
type Goal struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      GoalStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsActive reports whether the goal can still be updated or completed.
func (g *Goal) IsActive() bool {
	return g.Status == GoalActive
}

// GoalTitle derives a goal title from free-form description text,
// truncated to a display-friendly length.
func GoalTitle(description string) string {
	runes := []rune(description)
	if len(runes) <= goalTitleLimit {
		return description
	}
	return string(runes[:goalTitleLimit])
}
