package course

import "time"

type Course struct {
	ID                       string    `json:"id"`
	Title                    string    `json:"title"`
	Description              string    `json:"description"`
	Category                 string    `json:"category"`
	Difficulty               string    `json:"difficulty"`
	EstimatedDurationMinutes int       `json:"estimated_duration_minutes"`
	PointsReward             int       `json:"points_reward"`
	OrderIndex               int       `json:"order_index"`
	IsPublished              bool      `json:"is_published"`
	CreatedAt                time.Time `json:"created_at"`
}

type CourseContent struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	Content     string    `json:"content"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserCourseProgress struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	CourseID           string     `json:"course_id"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	ProgressPercentage int        `json:"progress_percentage"`
	LastAccessedAt     time.Time  `json:"last_accessed_at"`
}

type CourseWeek struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	WeekNumber  int    `json:"week_number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
}

type CourseActivity struct {
	ID                       string `json:"id"`
	WeekID                   string `json:"week_id"`
	DayNumber                int    `json:"day_number"`
	OrderIndex               int    `json:"order_index"`
	Title                    string `json:"title"`
	ActivityType             string `json:"activity_type"`
	EstimatedDurationMinutes int    `json:"estimated_duration_minutes"`
	XPReward                 int    `json:"xp_reward"`
}

type CourseProject struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ProjectEvaluationCriteria struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	OrderIndex  int    `json:"order_index"`
}

type UserActivityCompletion struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	ActivityID  string     `json:"activity_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
