package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"leettrack/internal/model"
	"leettrack/internal/tracker"
)

// DefaultEndpoint is the public LeetCode GraphQL endpoint.
const DefaultEndpoint = "https://leetcode.com/graphql/"

const profileQuery = `query userProfile($username: String!) {
  allQuestionsCount { difficulty count }
  matchedUser(username: $username) {
    username
    profile { ranking reputation }
    contributions { points }
    submissionCalendar
    submitStats: submitStatsGlobal {
      acSubmissionNum { difficulty count submissions }
      totalSubmissionNum { difficulty count submissions }
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type difficultyCount struct {
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
	Submissions int    `json:"submissions"`
}

type profileResponse struct {
	Data struct {
		AllQuestionsCount []difficultyCount `json:"allQuestionsCount"`
		MatchedUser       *struct {
			Username string `json:"username"`
			Profile  struct {
				Ranking    int `json:"ranking"`
				Reputation int `json:"reputation"`
			} `json:"profile"`
			Contributions struct {
				Points int `json:"points"`
			} `json:"contributions"`
			SubmissionCalendar string `json:"submissionCalendar"`
			SubmitStats        struct {
				AcSubmissionNum    []difficultyCount `json:"acSubmissionNum"`
				TotalSubmissionNum []difficultyCount `json:"totalSubmissionNum"`
			} `json:"submitStats"`
		} `json:"matchedUser"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// LeetCodeLookup queries the LeetCode GraphQL API.
type LeetCodeLookup struct {
	client   *resty.Client
	endpoint string
	clock    tracker.Clock
	logger   tracker.Logger
}

func NewLeetCodeLookup(endpoint string, timeout time.Duration, clock tracker.Clock, logger tracker.Logger) *LeetCodeLookup {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if clock == nil {
		clock = &tracker.RealClock{}
	}
	if logger == nil {
		logger = tracker.NewNopLogger()
	}
	return &LeetCodeLookup{
		client:   resty.New().SetTimeout(timeout),
		endpoint: endpoint,
		clock:    clock,
		logger:   logger,
	}
}

// csrfToken fetches the token cookie the endpoint hands out on a plain GET.
// The API answers some queries without one, so a missing cookie is not fatal.
func (l *LeetCodeLookup) csrfToken(ctx context.Context) string {
	resp, err := l.client.R().SetContext(ctx).Get(l.endpoint)
	if err != nil {
		l.logger.Warn("fetching csrf token failed", "error", err)
		return ""
	}
	for _, c := range resp.Cookies() {
		if c.Name == "csrftoken" {
			return c.Value
		}
	}
	l.logger.Debug("no csrf token cookie in response", "status", resp.Status())
	return ""
}

func (l *LeetCodeLookup) Lookup(ctx context.Context, username string) (*model.ProfileStats, error) {
	if username == "" {
		return nil, nil
	}

	req := l.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Referer", referer(l.endpoint)).
		SetBody(graphqlRequest{
			Query:     profileQuery,
			Variables: map[string]any{"username": username},
		})
	if token := l.csrfToken(ctx); token != "" {
		req.SetHeader("x-csrftoken", token)
		req.SetCookie(&http.Cookie{Name: "csrftoken", Value: token})
	}

	var out profileResponse
	req.SetResult(&out)

	resp, err := req.Post(l.endpoint)
	if err != nil {
		return nil, fmt.Errorf("querying leetcode: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("leetcode returned %s", resp.Status())
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("leetcode: %s", out.Errors[0].Message)
	}
	if out.Data.MatchedUser == nil {
		return nil, fmt.Errorf("leetcode user %q: %w", username, tracker.ErrNotFound)
	}

	return l.toStats(&out), nil
}

func (l *LeetCodeLookup) toStats(out *profileResponse) *model.ProfileStats {
	u := out.Data.MatchedUser
	stats := &model.ProfileStats{
		Username:           u.Username,
		Ranking:            u.Profile.Ranking,
		Reputation:         u.Profile.Reputation,
		ContributionPoints: u.Contributions.Points,
		SubmissionCalendar: map[string]int{},
		LastUpdated:        l.clock.Now(),
	}

	for _, c := range out.Data.AllQuestionsCount {
		switch c.Difficulty {
		case "All":
			stats.TotalQuestions = c.Count
		case "Easy":
			stats.EasyTotal = c.Count
		case "Medium":
			stats.MediumTotal = c.Count
		case "Hard":
			stats.HardTotal = c.Count
		}
	}

	var acSubmissions, totalSubmissions int
	for _, c := range u.SubmitStats.AcSubmissionNum {
		switch c.Difficulty {
		case "All":
			stats.TotalSolved = c.Count
			acSubmissions = c.Submissions
		case "Easy":
			stats.EasySolved = c.Count
		case "Medium":
			stats.MediumSolved = c.Count
		case "Hard":
			stats.HardSolved = c.Count
		}
	}
	for _, c := range u.SubmitStats.TotalSubmissionNum {
		if c.Difficulty == "All" {
			totalSubmissions = c.Submissions
		}
	}
	if totalSubmissions > 0 {
		rate := float64(acSubmissions) * 100 / float64(totalSubmissions)
		stats.AcceptanceRate = float64(int(rate*100+0.5)) / 100
	}

	// The calendar arrives as a JSON object encoded in a string.
	if u.SubmissionCalendar != "" {
		raw := map[string]int{}
		if err := json.Unmarshal([]byte(u.SubmissionCalendar), &raw); err != nil {
			l.logger.Warn("decoding submission calendar failed", "error", err)
		} else {
			for k, v := range raw {
				if _, err := strconv.ParseInt(k, 10, 64); err == nil {
					stats.SubmissionCalendar[k] = v
				}
			}
		}
	}
	return stats
}

func referer(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "https://leetcode.com"
	}
	return u.Scheme + "://" + u.Host
}

// Compile-time check that LeetCodeLookup implements tracker.StatsLookup interface
var _ tracker.StatsLookup = (*LeetCodeLookup)(nil)
