package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shutterHabitAPI/utils"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCurrentStreak(t *testing.T) {
	today := day("2026-08-31")

	testCases := []struct {
		Desc   string
		Dates  []string
		Streak int
	}{
		{
			Desc:   "no days",
			Streak: 0,
		},
		{
			Desc:   "run ending today",
			Dates:  []string{"2026-08-29", "2026-08-30", "2026-08-31"},
			Streak: 3,
		},
		{
			Desc:   "run ending yesterday still counts",
			Dates:  []string{"2026-08-29", "2026-08-30"},
			Streak: 2,
		},
		{
			Desc:   "gap before yesterday breaks the streak",
			Dates:  []string{"2026-08-27", "2026-08-28"},
			Streak: 0,
		},
		{
			Desc:   "gap in the middle only counts the recent run",
			Dates:  []string{"2026-08-25", "2026-08-26", "2026-08-30", "2026-08-31"},
			Streak: 2,
		},
		{
			Desc:   "duplicates and unordered input",
			Dates:  []string{"2026-08-31", "2026-08-30", "2026-08-31", "2026-08-30"},
			Streak: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			dates := make([]time.Time, 0, len(tc.Dates))
			for _, d := range tc.Dates {
				dates = append(dates, day(d))
			}
			assert.Equal(t, tc.Streak, utils.CurrentStreak(dates, today))
		})
	}
}
