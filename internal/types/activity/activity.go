package activity

import "time"

type DailyActivity struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	ActivityDate       time.Time `json:"activity_date"`
	PhotosCount        int       `json:"photos_count"`
	VideoCompleted     bool      `json:"video_completed"`
	EditingCompleted   bool      `json:"editing_completed"`
	EditingTimeMinutes int       `json:"editing_time_minutes"`
	Comments           string    `json:"comments"`
	PointsEarned       int       `json:"points_earned"`
	IsComplete         bool      `json:"is_complete"`
	CreatedAt          time.Time `json:"created_at"`
}
