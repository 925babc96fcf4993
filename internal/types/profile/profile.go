package profile

import "time"

type UserProfile struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	TotalPoints   int       `json:"total_points"`
	CompletedDays int       `json:"completed_days"`
	CurrentLevel  string    `json:"current_level"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Summary is the dashboard payload: the profile plus the derived
// progress numbers the app shows on its home screen.
type Summary struct {
	Profile            *UserProfile `json:"profile"`
	ProgressPercentage int          `json:"progress_percentage"`
	CurrentStreak      int          `json:"current_streak"`
	LevelEmoji         string       `json:"level_emoji"`
}
