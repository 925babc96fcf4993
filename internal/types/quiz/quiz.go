package quiz

import "time"

type Quiz struct {
	ID               string    `json:"id"`
	CourseID         *string   `json:"course_id,omitempty"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	PassingScore     int       `json:"passing_score"`
	PointsReward     int       `json:"points_reward"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	CreatedAt        time.Time `json:"created_at"`
}

type QuizQuestion struct {
	ID            string   `json:"id"`
	QuizID        string   `json:"quiz_id"`
	QuestionText  string   `json:"question_text"`
	QuestionType  string   `json:"question_type"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options"`
	Points        int      `json:"points"`
	OrderIndex    int      `json:"order_index"`
	Explanation   string   `json:"explanation"`
}

// PublicQuestion is a question as served to the client: no correct answer,
// no explanation until after submission.
type PublicQuestion struct {
	ID           string   `json:"id"`
	QuizID       string   `json:"quiz_id"`
	QuestionText string   `json:"question_text"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
	Points       int      `json:"points"`
	OrderIndex   int      `json:"order_index"`
}

type QuizAttempt struct {
	ID               string            `json:"id"`
	UserID           string            `json:"user_id"`
	QuizID           string            `json:"quiz_id"`
	Score            int               `json:"score"`
	MaxScore         int               `json:"max_score"`
	Passed           bool              `json:"passed"`
	Answers          map[string]string `json:"answers"`
	CompletedAt      time.Time         `json:"completed_at"`
	TimeTakenMinutes int               `json:"time_taken_minutes"`
}
