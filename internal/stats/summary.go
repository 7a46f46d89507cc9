package stats

import (
	"time"

	"leettrack/internal/model"
)

// Options tunes Summarize. The zero value uses Sunday week starts, the
// five-topic dashboard breakdown and the full company roster.
type Options struct {
	WeekStart  time.Weekday
	TopicLimit int
	Companies  []string
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{
		WeekStart:  time.Sunday,
		TopicLimit: 5,
		Companies:  model.CompanyRoster,
	}
}

// Summary bundles everything the dashboard shows for one snapshot.
type Summary struct {
	Totals         StatusTotals      `json:"totals"`
	CurrentStreak  int               `json:"currentStreak"`
	LongestStreak  int               `json:"longestStreak"`
	SolvedThisWeek int               `json:"solvedThisWeek"`
	Last7Days      [7]bool           `json:"last7Days"`
	ByDifficulty   []DifficultyCount `json:"byDifficulty"`
	TopTopics      []TopicCount      `json:"topTopics"`
	Companies      []CompanyStat     `json:"companies"`
	GeneratedAt    time.Time         `json:"generatedAt"`
}

// Summarize computes a Summary from problems as of now. Difficulty counts
// only solved problems while the topic breakdown covers every status, which
// matches what the two dashboard cards display.
func Summarize(problems []*model.Problem, now time.Time, opts Options) Summary {
	companies := opts.Companies
	if companies == nil {
		companies = model.CompanyRoster
	}

	return Summary{
		Totals:         CountStatuses(problems),
		CurrentStreak:  CurrentStreak(problems, now),
		LongestStreak:  LongestStreak(problems),
		SolvedThisWeek: CountThisWeek(problems, now, opts.WeekStart),
		Last7Days:      Last7DaysActivity(problems, now),
		ByDifficulty:   CountByDifficulty(problems, SolvedOnly),
		TopTopics:      CountByTopic(problems, AllStatuses, opts.TopicLimit),
		Companies:      CompanyProgress(problems, companies),
		GeneratedAt:    now,
	}
}
