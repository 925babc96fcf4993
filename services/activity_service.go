package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shutterHabitAPI/internal/apperrors"
	"shutterHabitAPI/internal/types/activity"
	"shutterHabitAPI/utils"
)

const activityColumns = `id, user_id, activity_date, photos_count, video_completed, editing_completed, editing_time_minutes, comments, points_earned, is_complete, created_at`

// ActivityService records daily creative work. points_earned and is_complete
// on a row are always the deterministic function of the logged inputs; the
// profile only ever receives the delta between the old and new score.
type ActivityService struct {
	db           DB
	profiles     *ProfileService
	achievements *AchievementService
}

func NewActivityService(db DB, profiles *ProfileService, achievements *AchievementService) *ActivityService {
	return &ActivityService{
		db:           db,
		profiles:     profiles,
		achievements: achievements,
	}
}

func (s *ActivityService) GetDailyActivities(ctx context.Context, userID string, limit int) ([]*activity.DailyActivity, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := s.db.Query(ctx, `
	SELECT `+activityColumns+` FROM daily_activities
	WHERE user_id = $1
	ORDER BY activity_date DESC
	LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	defer rows.Close()

	var activities []*activity.DailyActivity
	for rows.Next() {
		a := &activity.DailyActivity{}
		if err := scanActivity(rows, a); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read activities: %w", rows.Err())
	}

	return activities, nil
}

// GetActivityByDate returns nil without error when no entry exists for the
// date, mirroring how the app probes a calendar day before editing it.
func (s *ActivityService) GetActivityByDate(ctx context.Context, userID string, date time.Time) (*activity.DailyActivity, error) {
	a := &activity.DailyActivity{}
	err := scanActivity(s.db.QueryRow(ctx, `
	SELECT `+activityColumns+` FROM daily_activities
	WHERE user_id = $1 AND activity_date = $2`,
		userID, date,
	), a)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return a, nil
}

// RecordActivity upserts the day's log keyed on (user, date). On an update
// only the point difference reaches the profile, and completed_days moves
// both ways with the day's completeness.
func (s *ActivityService) RecordActivity(ctx context.Context, userID string, req *activity.RecordActivityRequest) (*activity.DailyActivity, error) {
	date, err := time.Parse("2006-01-02", req.ActivityDate)
	if err != nil {
		return nil, fmt.Errorf("invalid activity date: %w", err)
	}

	photos := req.PhotosCount
	if photos < 0 {
		photos = 0
	}
	points, isComplete := utils.CalculateDayPoints(photos, req.VideoCompleted, req.EditingCompleted)

	existing, err := s.GetActivityByDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	var saved *activity.DailyActivity
	if existing != nil {
		saved, err = s.updateActivity(ctx, existing, req, photos, points, isComplete)
	} else {
		saved, err = s.insertActivity(ctx, userID, date, req, photos, points, isComplete)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.achievements.CheckAndAward(ctx, userID); err != nil {
		// Awarding is best effort; the day's log is already saved.
		log.Printf("achievement check failed for user %s: %v", userID, err)
	}

	return saved, nil
}

func (s *ActivityService) updateActivity(ctx context.Context, existing *activity.DailyActivity, req *activity.RecordActivityRequest, photos, points int, isComplete bool) (*activity.DailyActivity, error) {
	a := &activity.DailyActivity{}
	err := scanActivity(s.db.QueryRow(ctx, `
	UPDATE daily_activities
	SET photos_count = $2, video_completed = $3, editing_completed = $4,
	    editing_time_minutes = $5, comments = $6, points_earned = $7, is_complete = $8
	WHERE id = $1
	RETURNING `+activityColumns,
		existing.ID, photos, req.VideoCompleted, req.EditingCompleted,
		req.EditingTimeMinutes, req.Comments, points, isComplete,
	), a)
	if err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	if delta := points - existing.PointsEarned; delta != 0 {
		if _, err := s.profiles.AddPoints(ctx, existing.UserID, delta); err != nil {
			return nil, err
		}
	}

	if isComplete && !existing.IsComplete {
		if _, err := s.profiles.IncrementCompletedDays(ctx, existing.UserID); err != nil {
			return nil, err
		}
	} else if !isComplete && existing.IsComplete {
		if _, err := s.profiles.DecrementCompletedDays(ctx, existing.UserID); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (s *ActivityService) insertActivity(ctx context.Context, userID string, date time.Time, req *activity.RecordActivityRequest, photos, points int, isComplete bool) (*activity.DailyActivity, error) {
	a := &activity.DailyActivity{}
	err := scanActivity(s.db.QueryRow(ctx, `
	INSERT INTO daily_activities
		(id, user_id, activity_date, photos_count, video_completed, editing_completed,
		 editing_time_minutes, comments, points_earned, is_complete, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	RETURNING `+activityColumns,
		uuid.New().String(), userID, date, photos, req.VideoCompleted, req.EditingCompleted,
		req.EditingTimeMinutes, req.Comments, points, isComplete,
	), a)
	if err != nil {
		return nil, fmt.Errorf("failed to insert activity: %w", err)
	}

	if _, err := s.profiles.AddPoints(ctx, userID, points); err != nil {
		return nil, err
	}

	if isComplete {
		if _, err := s.profiles.IncrementCompletedDays(ctx, userID); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// DeleteActivity removes a day's log and reverses its effect on the profile.
func (s *ActivityService) DeleteActivity(ctx context.Context, activityID, userID string) error {
	a := &activity.DailyActivity{}
	err := scanActivity(s.db.QueryRow(ctx, `
	SELECT `+activityColumns+` FROM daily_activities
	WHERE id = $1 AND user_id = $2`,
		activityID, userID,
	), a)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrActivityNotFound
		}
		return fmt.Errorf("failed to get activity: %w", err)
	}

	ct, err := s.db.Exec(ctx, `DELETE FROM daily_activities WHERE id = $1 AND user_id = $2`, activityID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrActivityNotFound
	}

	if a.PointsEarned != 0 {
		if _, err := s.profiles.AddPoints(ctx, userID, -a.PointsEarned); err != nil {
			return err
		}
	}

	if a.IsComplete {
		if _, err := s.profiles.DecrementCompletedDays(ctx, userID); err != nil {
			return err
		}
	}

	return nil
}

func scanActivity(row pgx.Row, a *activity.DailyActivity) error {
	return row.Scan(
		&a.ID,
		&a.UserID,
		&a.ActivityDate,
		&a.PhotosCount,
		&a.VideoCompleted,
		&a.EditingCompleted,
		&a.EditingTimeMinutes,
		&a.Comments,
		&a.PointsEarned,
		&a.IsComplete,
		&a.CreatedAt,
	)
}
