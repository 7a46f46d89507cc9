package stats

import (
	"math"
	"sort"
	"strings"

	"leettrack/internal/model"
)

// Scope selects which problems an aggregation counts.
type Scope int

const (
	// SolvedOnly counts problems with status Solved.
	SolvedOnly Scope = iota
	// AllStatuses counts every problem regardless of status.
	AllStatuses
)

// ParseScope maps "solved" / "all" to a Scope. Anything else is SolvedOnly.
func ParseScope(s string) Scope {
	if strings.EqualFold(s, "all") {
		return AllStatuses
	}
	return SolvedOnly
}

func (s Scope) includes(p *model.Problem) bool {
	return s == AllStatuses || p.Status == model.StatusSolved
}

// DifficultyCount is the tally for one difficulty level.
type DifficultyCount struct {
	Difficulty model.Difficulty `json:"difficulty"`
	Count      int              `json:"count"`
}

// CountByDifficulty tallies problems per difficulty, always returning Easy,
// Medium and Hard in that order even when a level has no problems.
func CountByDifficulty(problems []*model.Problem, scope Scope) []DifficultyCount {
	counts := make(map[model.Difficulty]int, len(model.Difficulties))
	for _, p := range problems {
		if scope.includes(p) {
			counts[p.Difficulty]++
		}
	}

	out := make([]DifficultyCount, len(model.Difficulties))
	for i, d := range model.Difficulties {
		out[i] = DifficultyCount{Difficulty: d, Count: counts[d]}
	}
	return out
}

// TopicCount is the tally for one topic label.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// CountByTopic tallies problems per topic, sorted by count descending and
// truncated to limit (limit <= 0 keeps every topic). Equal counts are ordered
// by topic label so the result does not depend on input order.
func CountByTopic(problems []*model.Problem, scope Scope, limit int) []TopicCount {
	counts := make(map[string]int)
	for _, p := range problems {
		if scope.includes(p) {
			counts[p.Topic]++
		}
	}

	out := make([]TopicCount, 0, len(counts))
	for topic, n := range counts {
		out = append(out, TopicCount{Topic: topic, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Topic < out[j].Topic
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CompanyStat is the progress on problems tagged with one company.
type CompanyStat struct {
	Name       string `json:"name"`
	Solved     int    `json:"solved"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// CompanyProgress reports, for every company in roster, how many problems
// carry its tag and how many of those are solved. The result is ordered by
// total descending; companies with equal totals keep roster order.
func CompanyProgress(problems []*model.Problem, roster []string) []CompanyStat {
	out := make([]CompanyStat, len(roster))
	for i, company := range roster {
		stat := CompanyStat{Name: company}
		for _, p := range problems {
			if !p.HasCompany(company) {
				continue
			}
			stat.Total++
			if p.Status == model.StatusSolved {
				stat.Solved++
			}
		}
		stat.Percentage = percentage(stat.Solved, stat.Total)
		out[i] = stat
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// FilterCompanies keeps the companies whose name contains query, ignoring case.
func FilterCompanies(stats []CompanyStat, query string) []CompanyStat {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return stats
	}
	out := make([]CompanyStat, 0, len(stats))
	for _, s := range stats {
		if strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// StatusTotals are the dashboard headline counts.
type StatusTotals struct {
	Total     int `json:"total"`
	Solved    int `json:"solved"`
	Attempted int `json:"attempted"`
	ToDo      int `json:"toDo"`
}

// CountStatuses tallies problems per status.
func CountStatuses(problems []*model.Problem) StatusTotals {
	totals := StatusTotals{Total: len(problems)}
	for _, p := range problems {
		switch p.Status {
		case model.StatusSolved:
			totals.Solved++
		case model.StatusAttempted:
			totals.Attempted++
		case model.StatusToDo:
			totals.ToDo++
		}
	}
	return totals
}

// RankHistory returns the contests that have a rank, oldest first.
func RankHistory(contests []*model.Contest) []*model.Contest {
	out := make([]*model.Contest, 0, len(contests))
	for _, c := range contests {
		if c.Rank != nil {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
