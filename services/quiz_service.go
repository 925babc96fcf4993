package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shutterHabitAPI/internal/apperrors"
	"shutterHabitAPI/internal/types/quiz"
)

const quizColumns = `id, course_id, title, description, passing_score, points_reward, time_limit_minutes, created_at`

// QuizService grades submitted answers against the stored key. No partial
// credit; a passing attempt awards the quiz's point reward to the profile.
type QuizService struct {
	db           DB
	profiles     *ProfileService
	achievements *AchievementService
}

func NewQuizService(db DB, profiles *ProfileService, achievements *AchievementService) *QuizService {
	return &QuizService{
		db:           db,
		profiles:     profiles,
		achievements: achievements,
	}
}

func (s *QuizService) GetQuizzes(ctx context.Context) ([]*quiz.Quiz, error) {
	rows, err := s.db.Query(ctx, `
	SELECT `+quizColumns+` FROM quizzes
	ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []*quiz.Quiz
	for rows.Next() {
		q := &quiz.Quiz{}
		if err := scanQuiz(rows, q); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read quizzes: %w", rows.Err())
	}

	return quizzes, nil
}

func (s *QuizService) GetQuizByID(ctx context.Context, quizID string) (*quiz.Quiz, error) {
	q := &quiz.Quiz{}
	err := scanQuiz(s.db.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, quizID), q)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	return q, nil
}

func (s *QuizService) GetQuizQuestions(ctx context.Context, quizID string) ([]*quiz.QuizQuestion, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, quiz_id, question_text, question_type, correct_answer, options, points, order_index, explanation
	FROM quiz_questions
	WHERE quiz_id = $1
	ORDER BY order_index`,
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quiz questions: %w", err)
	}
	defer rows.Close()

	var questions []*quiz.QuizQuestion
	for rows.Next() {
		q := &quiz.QuizQuestion{}
		err := rows.Scan(
			&q.ID, &q.QuizID, &q.QuestionText, &q.QuestionType, &q.CorrectAnswer,
			&q.Options, &q.Points, &q.OrderIndex, &q.Explanation,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz question: %w", err)
		}
		questions = append(questions, q)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read quiz questions: %w", rows.Err())
	}

	return questions, nil
}

// GetPublicQuestions is GetQuizQuestions with the answer key and
// explanations stripped, for serving a quiz to the client.
func (s *QuizService) GetPublicQuestions(ctx context.Context, quizID string) ([]*quiz.PublicQuestion, error) {
	questions, err := s.GetQuizQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	public := make([]*quiz.PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, &quiz.PublicQuestion{
			ID:           q.ID,
			QuizID:       q.QuizID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      q.Options,
			Points:       q.Points,
			OrderIndex:   q.OrderIndex,
		})
	}

	return public, nil
}

// SubmitAttempt grades answers by exact match against the stored key,
// persists the attempt and awards the quiz reward on a pass. Failed
// attempts can be resubmitted without limit.
func (s *QuizService) SubmitAttempt(ctx context.Context, userID, quizID string, answers map[string]string, timeTakenMinutes int) (*quiz.QuizAttempt, error) {
	q, err := s.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	questions, err := s.GetQuizQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	maxScore := 0
	for _, question := range questions {
		maxScore += question.Points
	}
	// A quiz whose questions sum to zero points cannot be graded.
	if maxScore == 0 {
		return nil, apperrors.ErrMalformedQuiz
	}

	score := 0
	for _, question := range questions {
		if answers[question.ID] == question.CorrectAnswer {
			score += question.Points
		}
	}

	passed := score*100 >= q.PassingScore*maxScore

	attempt := &quiz.QuizAttempt{}
	err = s.db.QueryRow(ctx, `
	INSERT INTO user_quiz_attempts (id, user_id, quiz_id, score, max_score, passed, answers, completed_at, time_taken_minutes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8)
	RETURNING id, user_id, quiz_id, score, max_score, passed, answers, completed_at, time_taken_minutes`,
		uuid.New().String(), userID, quizID, score, maxScore, passed, answers, timeTakenMinutes,
	).Scan(
		&attempt.ID, &attempt.UserID, &attempt.QuizID, &attempt.Score, &attempt.MaxScore,
		&attempt.Passed, &attempt.Answers, &attempt.CompletedAt, &attempt.TimeTakenMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save quiz attempt: %w", err)
	}

	if passed && q.PointsReward != 0 {
		if _, err := s.profiles.AddPoints(ctx, userID, q.PointsReward); err != nil {
			return nil, err
		}
		if _, err := s.achievements.CheckAndAward(ctx, userID); err != nil {
			log.Printf("achievement check failed for user %s: %v", userID, err)
		}
	}

	return attempt, nil
}

func (s *QuizService) GetUserQuizAttempts(ctx context.Context, userID string) ([]*quiz.QuizAttempt, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, quiz_id, score, max_score, passed, answers, completed_at, time_taken_minutes
	FROM user_quiz_attempts
	WHERE user_id = $1
	ORDER BY completed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*quiz.QuizAttempt
	for rows.Next() {
		a := &quiz.QuizAttempt{}
		err := rows.Scan(
			&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.MaxScore,
			&a.Passed, &a.Answers, &a.CompletedAt, &a.TimeTakenMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read quiz attempts: %w", rows.Err())
	}

	return attempts, nil
}

// GetBestQuizAttempt returns nil when the user has no attempts yet.
func (s *QuizService) GetBestQuizAttempt(ctx context.Context, userID, quizID string) (*quiz.QuizAttempt, error) {
	a := &quiz.QuizAttempt{}
	err := s.db.QueryRow(ctx, `
	SELECT id, user_id, quiz_id, score, max_score, passed, answers, completed_at, time_taken_minutes
	FROM user_quiz_attempts
	WHERE user_id = $1 AND quiz_id = $2
	ORDER BY score DESC
	LIMIT 1`,
		userID, quizID,
	).Scan(
		&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.MaxScore,
		&a.Passed, &a.Answers, &a.CompletedAt, &a.TimeTakenMinutes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get best attempt: %w", err)
	}

	return a, nil
}

func scanQuiz(row pgx.Row, q *quiz.Quiz) error {
	return row.Scan(
		&q.ID, &q.CourseID, &q.Title, &q.Description,
		&q.PassingScore, &q.PointsReward, &q.TimeLimitMinutes, &q.CreatedAt,
	)
}
