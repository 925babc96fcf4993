package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shutterHabitAPI/internal/apperrors"
	"shutterHabitAPI/internal/types/profile"
	"shutterHabitAPI/utils"
)

const profileColumns = `id, user_id, total_points, completed_days, current_level, created_at, updated_at`

// ProfileService owns the per-user running totals. current_level is never
// stored independently: every write recomputes it from total_points.
type ProfileService struct {
	db DB
}

func NewProfileService(db DB) *ProfileService {
	return &ProfileService{db: db}
}

// CreateProfile provisions a zeroed profile for a new user. Safe to call
// twice for the same user (webhooks get redelivered).
func (s *ProfileService) CreateProfile(ctx context.Context, userID string) (*profile.UserProfile, error) {
	query := `
	INSERT INTO user_profiles (id, user_id, total_points, completed_days, current_level, created_at, updated_at)
	VALUES ($1, $2, 0, 0, $3, NOW(), NOW())
	ON CONFLICT (user_id) DO NOTHING
	`

	_, err := s.db.Exec(ctx, query, uuid.New().String(), userID, string(utils.LevelSeedling))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*profile.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1`

	p := &profile.UserProfile{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.TotalPoints,
		&p.CompletedDays,
		&p.CurrentLevel,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, userID string) error {
	ct, err := s.db.Exec(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// AddPoints applies a point delta and recomputes the level inside a single
// row-locked transaction, so concurrent saves from two devices cannot lose
// an update. The total is floored at zero.
func (s *ProfileService) AddPoints(ctx context.Context, userID string, delta int) (*profile.UserProfile, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin points update: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int
	err = tx.QueryRow(ctx, `SELECT total_points FROM user_profiles WHERE user_id = $1 FOR UPDATE`, userID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}

	newTotal := total + delta
	if newTotal < 0 {
		newTotal = 0
	}
	newLevel := utils.LevelFromPoints(newTotal)

	p := &profile.UserProfile{}
	err = tx.QueryRow(ctx, `
	UPDATE user_profiles
	SET total_points = $2, current_level = $3, updated_at = NOW()
	WHERE user_id = $1
	RETURNING `+profileColumns,
		userID, newTotal, string(newLevel),
	).Scan(
		&p.ID,
		&p.UserID,
		&p.TotalPoints,
		&p.CompletedDays,
		&p.CurrentLevel,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update points: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit points update: %w", err)
	}

	return p, nil
}

func (s *ProfileService) IncrementCompletedDays(ctx context.Context, userID string) (*profile.UserProfile, error) {
	return s.bumpCompletedDays(ctx, userID, `completed_days + 1`)
}

func (s *ProfileService) DecrementCompletedDays(ctx context.Context, userID string) (*profile.UserProfile, error) {
	return s.bumpCompletedDays(ctx, userID, `GREATEST(completed_days - 1, 0)`)
}

func (s *ProfileService) bumpCompletedDays(ctx context.Context, userID string, expr string) (*profile.UserProfile, error) {
	query := `
	UPDATE user_profiles
	SET completed_days = ` + expr + `, updated_at = NOW()
	WHERE user_id = $1
	RETURNING ` + profileColumns

	p := &profile.UserProfile{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.TotalPoints,
		&p.CompletedDays,
		&p.CurrentLevel,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update completed days: %w", err)
	}

	return p, nil
}

// GetSummary bundles the profile with the derived dashboard numbers.
func (s *ProfileService) GetSummary(ctx context.Context, userID string) (*profile.Summary, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
	SELECT activity_date FROM daily_activities
	WHERE user_id = $1 AND is_complete = true
	ORDER BY activity_date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch complete days: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan activity date: %w", err)
		}
		dates = append(dates, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read complete days: %w", rows.Err())
	}

	return &profile.Summary{
		Profile:            p,
		ProgressPercentage: utils.ProgressPercentage(p.CompletedDays),
		CurrentStreak:      utils.CurrentStreak(dates, time.Now()),
		LevelEmoji:         utils.LevelEmojis[utils.Level(p.CurrentLevel)],
	}, nil
}
