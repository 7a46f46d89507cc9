package stats

import (
	"sort"
	"time"

	"leettrack/internal/model"
)

// DefaultHeatmapDays is the window of the activity heatmap.
const DefaultHeatmapDays = 365

// DayCount is one point of a per-day series.
type DayCount struct {
	Date  model.Day `json:"date"`
	Count int       `json:"count"`
}

// solvedPerDay tallies Solved problems per day. Unlike solvedDays, several
// solves on the same day accumulate.
func solvedPerDay(problems []*model.Problem) map[model.Day]int {
	counts := make(map[model.Day]int)
	for _, p := range problems {
		if d, ok := p.SolvedDay(); ok {
			counts[d]++
		}
	}
	return counts
}

// Last7DaysActivity reports, for each of the last seven days (oldest first,
// today last), whether anything was solved that day.
func Last7DaysActivity(problems []*model.Problem, now time.Time) [7]bool {
	days := solvedDays(problems)
	today := model.DayOf(now)

	var out [7]bool
	for i := range out {
		_, out[i] = days[today.AddDays(i-6)]
	}
	return out
}

// DailyActivitySeries returns exactly days entries, one per calendar day,
// ending today and oldest first. Days without solves are present with a zero
// count so renderers can map the series onto a fixed grid.
func DailyActivitySeries(problems []*model.Problem, now time.Time, days int) []DayCount {
	if days <= 0 {
		return []DayCount{}
	}

	counts := solvedPerDay(problems)
	first := model.DayOf(now).AddDays(-(days - 1))

	series := make([]DayCount, days)
	for i := range series {
		d := first.AddDays(i)
		series[i] = DayCount{Date: d, Count: counts[d]}
	}
	return series
}

// CumulativeTimeline returns one point per distinct solve day, in date
// order, holding the running total of solved problems up to that day.
func CumulativeTimeline(problems []*model.Problem) []DayCount {
	counts := solvedPerDay(problems)

	days := make([]model.Day, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	timeline := make([]DayCount, len(days))
	total := 0
	for i, d := range days {
		total += counts[d]
		timeline[i] = DayCount{Date: d, Count: total}
	}
	return timeline
}

// ActivityLevel buckets a day's count into the five shades of the heatmap:
// 0 for no activity, then 1 (<2), 2 (<4), 3 (<6) and 4.
func ActivityLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count < 2:
		return 1
	case count < 4:
		return 2
	case count < 6:
		return 3
	default:
		return 4
	}
}
