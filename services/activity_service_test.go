package services_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutterHabitAPI/internal/apperrors"
	"shutterHabitAPI/internal/types/activity"
	"shutterHabitAPI/services"
)

var activityCols = []string{
	"id", "user_id", "activity_date", "photos_count", "video_completed", "editing_completed",
	"editing_time_minutes", "comments", "points_earned", "is_complete", "created_at",
}

const testActivityID = "22222222-2222-2222-2222-222222222222"

func activityRow(userID string, date time.Time, photos int, video, editing bool, points int, complete bool) *pgxmock.Rows {
	return pgxmock.NewRows(activityCols).
		AddRow(testActivityID, userID, date, photos, video, editing, 45, "good light today", points, complete, time.Now())
}

func newActivityService(mock pgxmock.PgxPoolIface) *services.ActivityService {
	profiles := services.NewProfileService(mock)
	achievements := services.NewAchievementService(mock)
	return services.NewActivityService(mock, profiles, achievements)
}

// expectAddPoints wires the row-locked profile update AddPoints performs.
func expectAddPoints(mock pgxmock.PgxPoolIface, userID string, current, delta int, level string) {
	newTotal := current + delta
	if newTotal < 0 {
		newTotal = 0
	}
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT total_points FROM user_profiles WHERE user_id = $1 FOR UPDATE`)).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"total_points"}).AddRow(current))
	mock.ExpectQuery(`UPDATE user_profiles`).
		WithArgs(userID, newTotal, level).
		WillReturnRows(profileRow(userID, newTotal, 0, level))
	mock.ExpectCommit()
}

// expectAchievementCheck wires the stat lookups CheckAndAward runs when no
// new achievement is earned.
func expectAchievementCheck(mock pgxmock.PgxPoolIface, userID string) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT total_points, completed_days FROM user_profiles WHERE user_id = $1`)).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"total_points", "completed_days"}).AddRow(130, 1))
	mock.ExpectQuery(`SELECT activity_date FROM daily_activities`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"activity_date"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM user_course_progress`)).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM achievements a`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "description", "emoji", "requirement_type", "requirement_value", "created_at"}))
}

func testRecordReq(date string, photos int, video, editing bool) *activity.RecordActivityRequest {
	return &activity.RecordActivityRequest{
		ActivityDate:       date,
		PhotosCount:        photos,
		VideoCompleted:     video,
		EditingCompleted:   editing,
		EditingTimeMinutes: 45,
		Comments:           "good light today",
	}
}

func TestRecordActivityNewDay(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := newActivityService(mock)
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// no existing entry for the date
	mock.ExpectQuery(`SELECT .+ FROM daily_activities\s+WHERE user_id = \$1 AND activity_date = \$2`).
		WithArgs("user-1", date).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO daily_activities`).
		WithArgs(pgxmock.AnyArg(), "user-1", date, 3, true, true, 45, "good light today", 130, true).
		WillReturnRows(activityRow("user-1", date, 3, true, true, 130, true))
	expectAddPoints(mock, "user-1", 0, 130, "seedling")
	mock.ExpectQuery(regexp.QuoteMeta(`completed_days + 1`)).
		WithArgs("user-1").
		WillReturnRows(profileRow("user-1", 130, 1, "seedling"))
	expectAchievementCheck(mock, "user-1")

	saved, err := svc.RecordActivity(context.Background(), "user-1", testRecordReq("2026-08-31", 3, true, true))
	require.NoError(t, err)
	assert.Equal(t, 130, saved.PointsEarned)
	assert.True(t, saved.IsComplete)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordActivityIdempotentResave(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := newActivityService(mock)
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// identical input resaved: delta is zero, so neither AddPoints nor the
	// day counter is touched
	mock.ExpectQuery(`SELECT .+ FROM daily_activities\s+WHERE user_id = \$1 AND activity_date = \$2`).
		WithArgs("user-1", date).
		WillReturnRows(activityRow("user-1", date, 3, true, true, 130, true))
	mock.ExpectQuery(`UPDATE daily_activities`).
		WithArgs(testActivityID, 3, true, true, 45, "good light today", 130, true).
		WillReturnRows(activityRow("user-1", date, 3, true, true, 130, true))
	expectAchievementCheck(mock, "user-1")

	saved, err := svc.RecordActivity(context.Background(), "user-1", testRecordReq("2026-08-31", 3, true, true))
	require.NoError(t, err)
	assert.Equal(t, 130, saved.PointsEarned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordActivityCompleteToIncomplete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := newActivityService(mock)
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// photos drop from 3 to 2: bonus withdrawn, 130 -> 70, day no longer complete
	mock.ExpectQuery(`SELECT .+ FROM daily_activities\s+WHERE user_id = \$1 AND activity_date = \$2`).
		WithArgs("user-1", date).
		WillReturnRows(activityRow("user-1", date, 3, true, true, 130, true))
	mock.ExpectQuery(`UPDATE daily_activities`).
		WithArgs(testActivityID, 2, true, true, 45, "good light today", 70, false).
		WillReturnRows(activityRow("user-1", date, 2, true, true, 70, false))
	expectAddPoints(mock, "user-1", 130, -60, "seedling")
	mock.ExpectQuery(regexp.QuoteMeta(`GREATEST(completed_days - 1, 0)`)).
		WithArgs("user-1").
		WillReturnRows(profileRow("user-1", 70, 0, "seedling"))
	expectAchievementCheck(mock, "user-1")

	saved, err := svc.RecordActivity(context.Background(), "user-1", testRecordReq("2026-08-31", 2, true, true))
	require.NoError(t, err)
	assert.False(t, saved.IsComplete)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordActivityClampsNegativePhotos(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := newActivityService(mock)
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM daily_activities\s+WHERE user_id = \$1 AND activity_date = \$2`).
		WithArgs("user-1", date).
		WillReturnError(pgx.ErrNoRows)
	// clamped photos reach the insert as zero
	mock.ExpectQuery(`INSERT INTO daily_activities`).
		WithArgs(pgxmock.AnyArg(), "user-1", date, 0, false, false, 45, "good light today", 0, false).
		WillReturnRows(activityRow("user-1", date, 0, false, false, 0, false))
	expectAddPoints(mock, "user-1", 0, 0, "seedling")
	expectAchievementCheck(mock, "user-1")

	saved, err := svc.RecordActivity(context.Background(), "user-1", testRecordReq("2026-08-31", -4, false, false))
	require.NoError(t, err)
	assert.Equal(t, 0, saved.PointsEarned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteActivity(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := newActivityService(mock)
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM daily_activities\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(testActivityID, "user-1").
		WillReturnRows(activityRow("user-1", date, 3, true, true, 130, true))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM daily_activities WHERE id = $1 AND user_id = $2`)).
		WithArgs(testActivityID, "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	// points reversed and the complete day taken back
	expectAddPoints(mock, "user-1", 130, -130, "seedling")
	mock.ExpectQuery(regexp.QuoteMeta(`GREATEST(completed_days - 1, 0)`)).
		WithArgs("user-1").
		WillReturnRows(profileRow("user-1", 0, 0, "seedling"))

	err = svc.DeleteActivity(context.Background(), testActivityID, "user-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteActivityNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := newActivityService(mock)

	mock.ExpectQuery(`SELECT .+ FROM daily_activities\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(testActivityID, "someone-else").
		WillReturnError(pgx.ErrNoRows)

	err = svc.DeleteActivity(context.Background(), testActivityID, "someone-else")
	assert.ErrorIs(t, err, apperrors.ErrActivityNotFound)
}

func TestGetActivityByDateAbsent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := newActivityService(mock)
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM daily_activities\s+WHERE user_id = \$1 AND activity_date = \$2`).
		WithArgs("user-1", date).
		WillReturnError(pgx.ErrNoRows)

	a, err := svc.GetActivityByDate(context.Background(), "user-1", date)
	require.NoError(t, err)
	assert.Nil(t, a)
}
