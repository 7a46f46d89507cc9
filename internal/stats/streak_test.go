package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"leettrack/internal/model"
)

func solved(day string) *model.Problem {
	d := model.MustParseDay(day)
	return &model.Problem{Title: "p-" + day, Topic: "Array", Difficulty: model.DifficultyEasy, Status: model.StatusSolved, DateSolved: &d}
}

func withStatus(p *model.Problem, s model.Status) *model.Problem {
	p.Status = s
	return p
}

// at returns 15:00 local time on day, far from midnight in either direction.
func at(day string) time.Time {
	return model.MustParseDay(day).In(time.Local).Add(15 * time.Hour)
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name     string
		now      string
		problems []*model.Problem
		want     int
	}{
		{
			name: "no problems",
			want: 0,
		},
		{
			name: "nothing solved",
			problems: []*model.Problem{
				withStatus(solved("2024-06-10"), model.StatusAttempted),
				{Title: "undated", Status: model.StatusSolved},
			},
			want: 0,
		},
		{
			name: "today and three preceding days",
			problems: []*model.Problem{
				solved("2024-06-10"), solved("2024-06-09"), solved("2024-06-08"), solved("2024-06-07"),
			},
			want: 4,
		},
		{
			name: "today present, yesterday missing",
			problems: []*model.Problem{
				solved("2024-06-10"), solved("2024-06-08"), solved("2024-06-07"),
			},
			want: 1,
		},
		{
			name: "neither today nor yesterday",
			problems: []*model.Problem{
				solved("2024-06-08"), solved("2024-06-07"),
			},
			want: 0,
		},
		{
			name: "streak ending yesterday is still alive",
			problems: []*model.Problem{
				solved("2024-06-09"), solved("2024-06-08"),
			},
			want: 2,
		},
		{
			name: "several solves today count once",
			problems: []*model.Problem{
				solved("2024-06-10"), solved("2024-06-10"), solved("2024-06-10"),
			},
			want: 1,
		},
		{
			name: "duplicates inside the run do not inflate",
			problems: []*model.Problem{
				solved("2024-06-10"), solved("2024-06-09"), solved("2024-06-09"), solved("2024-06-08"),
			},
			want: 3,
		},
		{
			name: "across a month boundary",
			now:  "2024-06-02",
			problems: []*model.Problem{
				solved("2024-06-02"), solved("2024-06-01"), solved("2024-05-31"),
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := "2024-06-10"
			if tt.now != "" {
				now = tt.now
			}
			assert.Equal(t, tt.want, CurrentStreak(tt.problems, at(now)))
		})
	}
}

func TestLongestStreak(t *testing.T) {
	problems := []*model.Problem{
		solved("2024-01-01"), solved("2024-01-02"), solved("2024-01-03"),
		solved("2024-02-10"), solved("2024-02-10"),
		solved("2024-02-28"), solved("2024-02-29"), solved("2024-03-01"), solved("2024-03-02"),
	}

	assert.Equal(t, 4, LongestStreak(problems))
	assert.Equal(t, 0, LongestStreak(nil))
	assert.Equal(t, 1, LongestStreak([]*model.Problem{solved("2024-02-10")}))
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name  string
		now   string
		start time.Weekday
		want  string
	}{
		{name: "monday with sunday weeks", now: "2024-06-03", start: time.Sunday, want: "2024-06-02"},
		{name: "sunday with sunday weeks", now: "2024-06-02", start: time.Sunday, want: "2024-06-02"},
		{name: "saturday with sunday weeks", now: "2024-06-08", start: time.Sunday, want: "2024-06-02"},
		{name: "sunday with monday weeks", now: "2024-06-02", start: time.Monday, want: "2024-05-27"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(at(tt.now), tt.start).String())
		})
	}
}

func TestCountThisWeek(t *testing.T) {
	problems := []*model.Problem{
		solved("2024-06-01"), // previous Saturday
		solved("2024-06-02"), // Sunday, first day of the week
		solved("2024-06-03"),
		solved("2024-06-20"), // future-dated still counts
		withStatus(solved("2024-06-03"), model.StatusToDo),
	}

	assert.Equal(t, 3, CountThisWeek(problems, at("2024-06-03"), time.Sunday))
	assert.Equal(t, 2, CountThisWeek(problems, at("2024-06-03"), time.Monday))
}

func TestScenario_TwoSolvesAroundWeekBoundary(t *testing.T) {
	problems := []*model.Problem{solved("2024-06-01"), solved("2024-06-03")}
	now := at("2024-06-03")

	assert.Equal(t, 1, CurrentStreak(problems, now))
	assert.Equal(t, 1, CountThisWeek(problems, now, time.Sunday))

	got := Last7DaysActivity(problems, now)
	want := [7]bool{false, false, false, false, true, false, true}
	assert.Equal(t, want, got)
}
