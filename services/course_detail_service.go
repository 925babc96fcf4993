package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shutterHabitAPI/internal/types/course"
)

// CourseDetailService serves the week/day breakdown of a course and the
// fine-grained per-activity completion flags. Toggling a flag never feeds
// back into the course's overall progress_percentage; that aggregation is
// the client's.
type CourseDetailService struct {
	db DB
}

func NewCourseDetailService(db DB) *CourseDetailService {
	return &CourseDetailService{db: db}
}

func (s *CourseDetailService) GetCourseWeeks(ctx context.Context, courseID string) ([]*course.CourseWeek, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, course_id, week_number, title, description, order_index
	FROM course_weeks
	WHERE course_id = $1
	ORDER BY order_index`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course weeks: %w", err)
	}
	defer rows.Close()

	var weeks []*course.CourseWeek
	for rows.Next() {
		w := &course.CourseWeek{}
		if err := rows.Scan(&w.ID, &w.CourseID, &w.WeekNumber, &w.Title, &w.Description, &w.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan course week: %w", err)
		}
		weeks = append(weeks, w)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read course weeks: %w", rows.Err())
	}

	return weeks, nil
}

func (s *CourseDetailService) GetWeekActivities(ctx context.Context, weekID string) ([]*course.CourseActivity, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, week_id, day_number, order_index, title, activity_type, estimated_duration_minutes, xp_reward
	FROM course_activities
	WHERE week_id = $1
	ORDER BY day_number, order_index`,
		weekID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch week activities: %w", err)
	}
	defer rows.Close()

	return collectCourseActivities(rows)
}

func (s *CourseDetailService) GetCourseActivities(ctx context.Context, courseID string) ([]*course.CourseActivity, error) {
	rows, err := s.db.Query(ctx, `
	SELECT ca.id, ca.week_id, ca.day_number, ca.order_index, ca.title, ca.activity_type,
	       ca.estimated_duration_minutes, ca.xp_reward
	FROM course_activities ca
	JOIN course_weeks cw ON ca.week_id = cw.id
	WHERE cw.course_id = $1
	ORDER BY ca.day_number, ca.order_index`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course activities: %w", err)
	}
	defer rows.Close()

	return collectCourseActivities(rows)
}

// GetCourseProject returns nil when the course has no final project.
func (s *CourseDetailService) GetCourseProject(ctx context.Context, courseID string) (*course.CourseProject, error) {
	p := &course.CourseProject{}
	err := s.db.QueryRow(ctx, `
	SELECT id, course_id, title, description
	FROM course_projects
	WHERE course_id = $1`,
		courseID,
	).Scan(&p.ID, &p.CourseID, &p.Title, &p.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course project: %w", err)
	}

	return p, nil
}

func (s *CourseDetailService) GetProjectCriteria(ctx context.Context, projectID string) ([]*course.ProjectEvaluationCriteria, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, project_id, title, description, points, order_index
	FROM project_evaluation_criteria
	WHERE project_id = $1
	ORDER BY order_index`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project criteria: %w", err)
	}
	defer rows.Close()

	var criteria []*course.ProjectEvaluationCriteria
	for rows.Next() {
		c := &course.ProjectEvaluationCriteria{}
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Title, &c.Description, &c.Points, &c.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan criteria: %w", err)
		}
		criteria = append(criteria, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read criteria: %w", rows.Err())
	}

	return criteria, nil
}

func (s *CourseDetailService) GetUserActivityCompletions(ctx context.Context, userID string, activityIDs []string) ([]*course.UserActivityCompletion, error) {
	if len(activityIDs) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, activity_id, completed, completed_at
	FROM user_activity_completion
	WHERE user_id = $1 AND activity_id = ANY($2)`,
		userID, activityIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity completions: %w", err)
	}
	defer rows.Close()

	var completions []*course.UserActivityCompletion
	for rows.Next() {
		c := &course.UserActivityCompletion{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.ActivityID, &c.Completed, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read completions: %w", rows.Err())
	}

	return completions, nil
}

// ToggleActivityCompletion upserts the flag keyed on (user, activity).
func (s *CourseDetailService) ToggleActivityCompletion(ctx context.Context, userID, activityID string, completed bool) (*course.UserActivityCompletion, error) {
	c := &course.UserActivityCompletion{}
	err := s.db.QueryRow(ctx, `
	INSERT INTO user_activity_completion (id, user_id, activity_id, completed, completed_at)
	VALUES ($1, $2, $3, $4, CASE WHEN $4 THEN NOW() ELSE NULL END)
	ON CONFLICT (user_id, activity_id)
	DO UPDATE SET completed = $4, completed_at = CASE WHEN $4 THEN NOW() ELSE NULL END
	RETURNING id, user_id, activity_id, completed, completed_at`,
		uuid.New().String(), userID, activityID, completed,
	).Scan(&c.ID, &c.UserID, &c.ActivityID, &c.Completed, &c.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle activity completion: %w", err)
	}

	return c, nil
}

func collectCourseActivities(rows pgx.Rows) ([]*course.CourseActivity, error) {
	var activities []*course.CourseActivity
	for rows.Next() {
		a := &course.CourseActivity{}
		err := rows.Scan(
			&a.ID, &a.WeekID, &a.DayNumber, &a.OrderIndex, &a.Title,
			&a.ActivityType, &a.EstimatedDurationMinutes, &a.XPReward,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course activity: %w", err)
		}
		activities = append(activities, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read course activities: %w", rows.Err())
	}

	return activities, nil
}
