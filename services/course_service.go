package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"shutterHabitAPI/internal/apperrors"
	"shutterHabitAPI/internal/types/course"
)

const progressColumns = `id, user_id, course_id, started_at, completed_at, progress_percentage, last_accessed_at`

// CourseService tracks percent-complete per course. It never touches the
// Points Engine; course completion rewards flow through quizzes.
type CourseService struct {
	db DB
}

func NewCourseService(db DB) *CourseService {
	return &CourseService{db: db}
}

func (s *CourseService) GetCourses(ctx context.Context) ([]*course.Course, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, title, description, category, difficulty, estimated_duration_minutes,
	       points_reward, order_index, is_published, created_at
	FROM courses
	WHERE is_published = true
	ORDER BY order_index`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}
	defer rows.Close()

	var courses []*course.Course
	for rows.Next() {
		c := &course.Course{}
		err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.Category, &c.Difficulty,
			&c.EstimatedDurationMinutes, &c.PointsReward, &c.OrderIndex, &c.IsPublished, &c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read courses: %w", rows.Err())
	}

	return courses, nil
}

func (s *CourseService) GetCourseByID(ctx context.Context, courseID string) (*course.Course, error) {
	c := &course.Course{}
	err := s.db.QueryRow(ctx, `
	SELECT id, title, description, category, difficulty, estimated_duration_minutes,
	       points_reward, order_index, is_published, created_at
	FROM courses
	WHERE id = $1`,
		courseID,
	).Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.Difficulty,
		&c.EstimatedDurationMinutes, &c.PointsReward, &c.OrderIndex, &c.IsPublished, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return c, nil
}

func (s *CourseService) GetCourseContent(ctx context.Context, courseID string) ([]*course.CourseContent, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, course_id, title, content_type, content, order_index, created_at
	FROM course_content
	WHERE course_id = $1
	ORDER BY order_index`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course content: %w", err)
	}
	defer rows.Close()

	var content []*course.CourseContent
	for rows.Next() {
		cc := &course.CourseContent{}
		err := rows.Scan(&cc.ID, &cc.CourseID, &cc.Title, &cc.ContentType, &cc.Content, &cc.OrderIndex, &cc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course content: %w", err)
		}
		content = append(content, cc)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read course content: %w", rows.Err())
	}

	return content, nil
}

// StartCourse opens a 0% progress row. The composite unique key makes it
// idempotent, so two devices opening the course at once cannot double-insert.
func (s *CourseService) StartCourse(ctx context.Context, userID, courseID string) (*course.UserCourseProgress, error) {
	_, err := s.db.Exec(ctx, `
	INSERT INTO user_course_progress (id, user_id, course_id, progress_percentage, started_at, last_accessed_at)
	VALUES ($1, $2, $3, 0, NOW(), NOW())
	ON CONFLICT (user_id, course_id) DO NOTHING`,
		uuid.New().String(), userID, courseID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to start course: %w", err)
	}

	return s.GetUserCourseProgress(ctx, userID, courseID)
}

// UpdateCourseProgress sets the percentage and stamps completed_at the
// first time it reaches 100. A later drop below 100 does not clear the
// stamp.
func (s *CourseService) UpdateCourseProgress(ctx context.Context, userID, courseID string, percentage int) (*course.UserCourseProgress, error) {
	p := &course.UserCourseProgress{}
	err := s.db.QueryRow(ctx, `
	UPDATE user_course_progress
	SET progress_percentage = $3,
	    last_accessed_at = NOW(),
	    completed_at = CASE WHEN $3 >= 100 AND completed_at IS NULL THEN NOW() ELSE completed_at END
	WHERE user_id = $1 AND course_id = $2
	RETURNING `+progressColumns,
		userID, courseID, percentage,
	).Scan(
		&p.ID, &p.UserID, &p.CourseID, &p.StartedAt, &p.CompletedAt, &p.ProgressPercentage, &p.LastAccessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to update course progress: %w", err)
	}

	return p, nil
}

func (s *CourseService) GetUserCourseProgress(ctx context.Context, userID, courseID string) (*course.UserCourseProgress, error) {
	p := &course.UserCourseProgress{}
	err := s.db.QueryRow(ctx, `
	SELECT `+progressColumns+` FROM user_course_progress
	WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	).Scan(
		&p.ID, &p.UserID, &p.CourseID, &p.StartedAt, &p.CompletedAt, &p.ProgressPercentage, &p.LastAccessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get course progress: %w", err)
	}

	return p, nil
}

func (s *CourseService) GetAllUserProgress(ctx context.Context, userID string) ([]*course.UserCourseProgress, error) {
	rows, err := s.db.Query(ctx, `
	SELECT `+progressColumns+` FROM user_course_progress
	WHERE user_id = $1
	ORDER BY last_accessed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}
	defer rows.Close()

	var progress []*course.UserCourseProgress
	for rows.Next() {
		p := &course.UserCourseProgress{}
		err := rows.Scan(
			&p.ID, &p.UserID, &p.CourseID, &p.StartedAt, &p.CompletedAt, &p.ProgressPercentage, &p.LastAccessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		progress = append(progress, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read progress: %w", rows.Err())
	}

	return progress, nil
}
