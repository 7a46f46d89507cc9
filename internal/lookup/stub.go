// Package lookup fetches third-party profile statistics for a username.
package lookup

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"leettrack/internal/model"
	"leettrack/internal/tracker"
)

const (
	stubTotalQuestions = 2500
	calendarDays       = 365
)

// StubLookup derives plausible statistics from the username alone. The same
// username always yields the same numbers and the same calendar.
type StubLookup struct {
	clock tracker.Clock
}

func NewStubLookup(clock tracker.Clock) *StubLookup {
	if clock == nil {
		clock = &tracker.RealClock{}
	}
	return &StubLookup{clock: clock}
}

func (l *StubLookup) Lookup(ctx context.Context, username string) (*model.ProfileStats, error) {
	if username == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := usernameHash(username)
	now := l.clock.Now()
	totalSolved := 100 + int(h%300)

	return &model.ProfileStats{
		Username:           username,
		Ranking:            10000 + int(h%90000),
		TotalSolved:        totalSolved,
		TotalQuestions:     stubTotalQuestions,
		EasySolved:         totalSolved * 5 / 10,
		EasyTotal:          stubTotalQuestions * 4 / 10,
		MediumSolved:       totalSolved * 4 / 10,
		MediumTotal:        stubTotalQuestions * 4 / 10,
		HardSolved:         totalSolved / 10,
		HardTotal:          stubTotalQuestions * 2 / 10,
		AcceptanceRate:     float64(60 + h%30),
		SubmissionCalendar: stubCalendar(h, now),
		ContributionPoints: int(h % 1000),
		Reputation:         int(h % 100),
		LastUpdated:        now,
	}, nil
}

// usernameHash is the classic 31-multiplier string hash over UTF-16 code
// units, wrapped to 32 bits, made non-negative.
func usernameHash(s string) int64 {
	var h int32
	for _, r := range s {
		if r > 0xFFFF {
			// Surrogate pair, as a UTF-16 string would see it.
			r -= 0x10000
			h = (h << 5) - h + int32(0xD800+(r>>10))
			h = (h << 5) - h + int32(0xDC00+(r&0x3FF))
			continue
		}
		h = (h << 5) - h + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// stubCalendar fills roughly 30% of the last year with 7 to 9 submissions,
// keyed by the unix seconds of each local midnight.
func stubCalendar(h int64, now time.Time) map[string]int {
	today := model.DayOf(now)
	rng := rand.New(rand.NewSource(h))
	calendar := make(map[string]int)
	for i := 0; i < calendarDays; i++ {
		day := today.AddDays(-i)
		x := rng.Float64()
		if x > 0.7 {
			calendar[strconv.FormatInt(day.In(now.Location()).Unix(), 10)] = int(x * 10)
		}
	}
	return calendar
}

// Compile-time check that StubLookup implements tracker.StatsLookup interface
var _ tracker.StatsLookup = (*StubLookup)(nil)
