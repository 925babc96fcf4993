package services_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutterHabitAPI/services"
)

var achievementCols = []string{
	"id", "title", "description", "emoji", "requirement_type", "requirement_value", "created_at",
}

func TestCheckAndAward(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := services.NewAchievementService(mock)
	yesterday := time.Now().AddDate(0, 0, -1)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT total_points, completed_days FROM user_profiles WHERE user_id = $1`)).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"total_points", "completed_days"}).AddRow(600, 4))
	mock.ExpectQuery(`SELECT activity_date FROM daily_activities`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"activity_date"}).AddRow(yesterday))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM user_course_progress`)).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM achievements a`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(achievementCols).
			AddRow("ach-points", "First target", "Reach 500 points", "🎯", "points", 500, time.Now()).
			AddRow("ach-days", "One week strong", "Complete 7 days", "📅", "days", 7, time.Now()).
			AddRow("ach-streak", "Back to back", "Hold a 1-day streak", "🔥", "streak", 1, time.Now()).
			AddRow("ach-courses", "Graduate", "Finish a course", "🎓", "courses", 1, time.Now()))

	// 600 points and a 1-day streak qualify; 4 days and 0 courses do not
	mock.ExpectExec(`INSERT INTO user_achievements`).
		WithArgs(pgxmock.AnyArg(), "user-1", "ach-points").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO user_achievements`).
		WithArgs(pgxmock.AnyArg(), "user-1", "ach-streak").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	earned, err := svc.CheckAndAward(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, earned, 2)
	assert.Equal(t, "ach-points", earned[0].ID)
	assert.Equal(t, "ach-streak", earned[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAchievementsWithStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := services.NewAchievementService(mock)
	earnedAt := time.Now()

	mock.ExpectQuery(`LEFT JOIN user_achievements`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(append(achievementCols, "earned", "earned_at")).
			AddRow("ach-1", "First target", "Reach 500 points", "🎯", "points", 500, time.Now(), true, &earnedAt).
			AddRow("ach-2", "Star pupil", "Reach 1500 points", "⭐", "points", 1500, time.Now(), false, nil))

	achievements, err := svc.GetAchievementsWithStatus(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, achievements, 2)
	assert.True(t, achievements[0].Earned)
	assert.False(t, achievements[1].Earned)
	assert.Nil(t, achievements[1].EarnedAt)
}
