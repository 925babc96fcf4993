package achievement

import "time"

// Requirement types an achievement can be gated on.
const (
	RequirementPoints  = "points"
	RequirementDays    = "days"
	RequirementStreak  = "streak"
	RequirementCourses = "courses"
)

type Achievement struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Emoji            string    `json:"emoji"`
	RequirementType  string    `json:"requirement_type"`
	RequirementValue int       `json:"requirement_value"`
	CreatedAt        time.Time `json:"created_at"`
}

type AchievementWithStatus struct {
	Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}
