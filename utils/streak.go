package utils

import "time"

// CurrentStreak counts the consecutive run of complete days ending today or
// yesterday. dates may arrive in any order and may contain duplicates; only
// the calendar day matters.
func CurrentStreak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	days := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		days[truncateToDay(d)] = true
	}

	cursor := truncateToDay(today)
	if !days[cursor] {
		// A streak survives until the day after the last complete day.
		cursor = cursor.AddDate(0, 0, -1)
		if !days[cursor] {
			return 0
		}
	}

	streak := 0
	for days[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
