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
	"shutterHabitAPI/services"
)

const profileCols = "id, user_id, total_points, completed_days, current_level, created_at, updated_at"

func profileRow(userID string, points, days int, level string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "user_id", "total_points", "completed_days", "current_level", "created_at", "updated_at"}).
		AddRow("11111111-1111-1111-1111-111111111111", userID, points, days, level, now, now)
}

func TestGetProfile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := services.NewProfileService(mock)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+profileCols+` FROM user_profiles WHERE user_id = $1`)).
			WithArgs("user-1").
			WillReturnRows(profileRow("user-1", 130, 1, "seedling"))

		p, err := svc.GetProfile(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 130, p.TotalPoints)
		assert.Equal(t, 1, p.CompletedDays)
		assert.Equal(t, "seedling", p.CurrentLevel)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+profileCols+` FROM user_profiles WHERE user_id = $1`)).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := svc.GetProfile(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
	})
}

func TestAddPoints(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		Desc        string
		Delta       int
		Current     int
		WantTotal   int
		WantLevel   string
	}{
		{
			Desc:      "simple add",
			Delta:     130,
			Current:   100,
			WantTotal: 230,
			WantLevel: "seedling",
		},
		{
			Desc:      "crosses level boundary",
			Delta:     50,
			Current:   450,
			WantTotal: 500,
			WantLevel: "target",
		},
		{
			Desc:      "negative delta floors at zero",
			Delta:     -200,
			Current:   130,
			WantTotal: 0,
			WantLevel: "seedling",
		},
		{
			Desc:      "level recomputed downward",
			Delta:     -100,
			Current:   550,
			WantTotal: 450,
			WantLevel: "seedling",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			svc := services.NewProfileService(mock)

			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT total_points FROM user_profiles WHERE user_id = $1 FOR UPDATE`)).
				WithArgs("user-1").
				WillReturnRows(pgxmock.NewRows([]string{"total_points"}).AddRow(tc.Current))
			mock.ExpectQuery(`UPDATE user_profiles`).
				WithArgs("user-1", tc.WantTotal, tc.WantLevel).
				WillReturnRows(profileRow("user-1", tc.WantTotal, 0, tc.WantLevel))
			mock.ExpectCommit()

			p, err := svc.AddPoints(ctx, "user-1", tc.Delta)
			require.NoError(t, err)
			assert.Equal(t, tc.WantTotal, p.TotalPoints)
			assert.Equal(t, tc.WantLevel, p.CurrentLevel)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAddPointsProfileMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := services.NewProfileService(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT total_points FROM user_profiles WHERE user_id = $1 FOR UPDATE`)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err = svc.AddPoints(context.Background(), "missing", 10)
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestCompletedDaysCounters(t *testing.T) {
	ctx := context.Background()

	t.Run("increment", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		svc := services.NewProfileService(mock)

		mock.ExpectQuery(regexp.QuoteMeta(`completed_days + 1`)).
			WithArgs("user-1").
			WillReturnRows(profileRow("user-1", 130, 2, "seedling"))

		p, err := svc.IncrementCompletedDays(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 2, p.CompletedDays)
	})

	t.Run("decrement floors at zero in SQL", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		svc := services.NewProfileService(mock)

		mock.ExpectQuery(regexp.QuoteMeta(`GREATEST(completed_days - 1, 0)`)).
			WithArgs("user-1").
			WillReturnRows(profileRow("user-1", 130, 0, "seedling"))

		p, err := svc.DecrementCompletedDays(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 0, p.CompletedDays)
	})

	t.Run("profile missing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		svc := services.NewProfileService(mock)

		mock.ExpectQuery(regexp.QuoteMeta(`completed_days + 1`)).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err = svc.IncrementCompletedDays(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
	})
}

func TestCreateProfileIdempotent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := services.NewProfileService(mock)

	mock.ExpectExec(`INSERT INTO user_profiles`).
		WithArgs(pgxmock.AnyArg(), "user-1", "seedling").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + profileCols + ` FROM user_profiles`)).
		WithArgs("user-1").
		WillReturnRows(profileRow("user-1", 0, 0, "seedling"))

	p, err := svc.CreateProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalPoints)
	assert.Equal(t, "seedling", p.CurrentLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}
