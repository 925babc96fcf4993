package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shutterHabitAPI/internal/types/achievement"
	"shutterHabitAPI/utils"
)

// AchievementService awards badges gated on point totals, completed days,
// streaks and finished courses.
type AchievementService struct {
	db DB
}

func NewAchievementService(db DB) *AchievementService {
	return &AchievementService{db: db}
}

func (s *AchievementService) GetAchievementsWithStatus(ctx context.Context, userID string) ([]*achievement.AchievementWithStatus, error) {
	query := `
	SELECT
		a.id,
		a.title,
		a.description,
		a.emoji,
		a.requirement_type,
		a.requirement_value,
		a.created_at,
		CASE WHEN ua.id IS NOT NULL THEN true ELSE false END AS earned,
		ua.earned_at
	FROM achievements a
	LEFT JOIN user_achievements ua ON a.id = ua.achievement_id AND ua.user_id = $1
	ORDER BY earned DESC, a.requirement_value ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*achievement.AchievementWithStatus
	for rows.Next() {
		ach := &achievement.AchievementWithStatus{}
		err := rows.Scan(
			&ach.ID,
			&ach.Title,
			&ach.Description,
			&ach.Emoji,
			&ach.RequirementType,
			&ach.RequirementValue,
			&ach.CreatedAt,
			&ach.Earned,
			&ach.EarnedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, ach)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read achievements: %w", rows.Err())
	}

	return achievements, nil
}

// CheckAndAward evaluates every unearned achievement against the user's
// current numbers and inserts the ones now satisfied. Returns what was
// newly earned.
func (s *AchievementService) CheckAndAward(ctx context.Context, userID string) ([]*achievement.Achievement, error) {
	var totalPoints, completedDays int
	err := s.db.QueryRow(ctx,
		`SELECT total_points, completed_days FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&totalPoints, &completedDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile totals: %w", err)
	}

	streak, err := s.currentStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	var completedCourses int
	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_course_progress WHERE user_id = $1 AND completed_at IS NOT NULL`,
		userID,
	).Scan(&completedCourses)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed courses: %w", err)
	}

	rows, err := s.db.Query(ctx, `
	SELECT a.id, a.title, a.description, a.emoji, a.requirement_type, a.requirement_value, a.created_at
	FROM achievements a
	WHERE NOT EXISTS (
		SELECT 1 FROM user_achievements ua
		WHERE ua.achievement_id = a.id AND ua.user_id = $1
	)`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unearned achievements: %w", err)
	}
	defer rows.Close()

	var candidates []*achievement.Achievement
	for rows.Next() {
		a := &achievement.Achievement{}
		err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Emoji, &a.RequirementType, &a.RequirementValue, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		candidates = append(candidates, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read achievements: %w", rows.Err())
	}

	var earned []*achievement.Achievement
	for _, a := range candidates {
		var current int
		switch a.RequirementType {
		case achievement.RequirementPoints:
			current = totalPoints
		case achievement.RequirementDays:
			current = completedDays
		case achievement.RequirementStreak:
			current = streak
		case achievement.RequirementCourses:
			current = completedCourses
		default:
			continue
		}
		if current < a.RequirementValue {
			continue
		}

		_, err := s.db.Exec(ctx, `
		INSERT INTO user_achievements (id, user_id, achievement_id, earned_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
			uuid.New().String(), userID, a.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to award achievement: %w", err)
		}
		earned = append(earned, a)
	}

	return earned, nil
}

func (s *AchievementService) currentStreak(ctx context.Context, userID string) (int, error) {
	rows, err := s.db.Query(ctx, `
	SELECT activity_date FROM daily_activities
	WHERE user_id = $1 AND is_complete = true
	ORDER BY activity_date DESC`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch complete days: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return 0, fmt.Errorf("failed to scan activity date: %w", err)
		}
		dates = append(dates, d)
	}
	if rows.Err() != nil {
		return 0, fmt.Errorf("failed to read complete days: %w", rows.Err())
	}

	return utils.CurrentStreak(dates, time.Now()), nil
}
