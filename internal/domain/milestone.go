package domain

import (
	"time"
)

// Canned celebration copy attached to milestones at creation time.
const (
	GoalCelebration       = "Congratulations on completing this important goal!"
	PersonalCelebration   = "A growth moment worth celebrating!"
	PersonalMilestoneName = "Personal achievement"
)

// Milestone is an immutable achievement record, created either as a side
// effect of completing a goal or explicitly via the celebrate command.
type Milestone struct {
	ID                 int64     `json:"id"`
	UserID             string    `json:"user_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	AchievedAt         time.Time `json:"achieved_at"`
	CelebrationMessage string    `json:"celebration_message"`
}
