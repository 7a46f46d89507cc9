// Package stats derives streaks, activity series and breakdowns from a
// snapshot of a user's problems. Every function is pure: the same input and
// clock reading always give the same result, so callers recompute on every
// snapshot instead of maintaining incremental state.
package stats

import (
	"sort"
	"time"

	"leettrack/internal/model"
)

// solvedDays returns the set of distinct days with at least one Solved problem.
func solvedDays(problems []*model.Problem) map[model.Day]struct{} {
	days := make(map[model.Day]struct{})
	for _, p := range problems {
		if d, ok := p.SolvedDay(); ok {
			days[d] = struct{}{}
		}
	}
	return days
}

// CurrentStreak returns the number of consecutive days, ending today or
// yesterday, on which at least one problem was solved. "Today" is the
// calendar day of now in now's location. Several solves on one day count once.
func CurrentStreak(problems []*model.Problem, now time.Time) int {
	days := solvedDays(problems)
	if len(days) == 0 {
		return 0
	}

	today := model.DayOf(now)
	yesterday := today.AddDays(-1)

	streak := 0
	if _, ok := days[today]; ok {
		streak = 1
	} else if _, ok := days[yesterday]; !ok {
		return 0
	}

	for cursor := yesterday; ; cursor = cursor.AddDays(-1) {
		if _, ok := days[cursor]; !ok {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive solved days anywhere
// in the history.
func LongestStreak(problems []*model.Problem) int {
	days := solvedDays(problems)
	if len(days) == 0 {
		return 0
	}

	sorted := make([]model.Day, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].AddDays(1) == sorted[i] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// WeekStart returns the first day of the week containing now, where weeks
// begin on weekStart.
func WeekStart(now time.Time, weekStart time.Weekday) model.Day {
	today := model.DayOf(now)
	offset := (int(today.Weekday()) - int(weekStart) + 7) % 7
	return today.AddDays(-offset)
}

// CountThisWeek counts Solved problems dated on or after the start of the
// current week. There is no upper bound, so future-dated solves count too.
func CountThisWeek(problems []*model.Problem, now time.Time, weekStart time.Weekday) int {
	start := WeekStart(now, weekStart)
	count := 0
	for _, p := range problems {
		if d, ok := p.SolvedDay(); ok && !d.Before(start) {
			count++
		}
	}
	return count
}
