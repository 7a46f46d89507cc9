package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leettrack/internal/config"
	"leettrack/internal/tracker"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2024, 6, 3, 15, 0, 0, 0, time.Local)

func TestUsernameHash(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"a", 97},
		{"abc", 96354},
		{"hello", 99162322},
		// Overflows to a negative int32 before the absolute value.
		{"polygenelubricants", 2147483648},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, usernameHash(tt.in), "usernameHash(%q)", tt.in)
	}
}

func TestStubLookup(t *testing.T) {
	l := NewStubLookup(fixedClock{testNow})
	ctx := context.Background()

	t.Run("empty username returns nothing", func(t *testing.T) {
		got, err := l.Lookup(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("derives stats from the username hash", func(t *testing.T) {
		got, err := l.Lookup(ctx, "abc")
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, "abc", got.Username)
		assert.Equal(t, 154, got.TotalSolved)
		assert.Equal(t, 2500, got.TotalQuestions)
		assert.Equal(t, 77, got.EasySolved)
		assert.Equal(t, 1000, got.EasyTotal)
		assert.Equal(t, 61, got.MediumSolved)
		assert.Equal(t, 1000, got.MediumTotal)
		assert.Equal(t, 15, got.HardSolved)
		assert.Equal(t, 500, got.HardTotal)
		assert.Equal(t, 16354, got.Ranking)
		assert.Equal(t, 84.0, got.AcceptanceRate)
		assert.Equal(t, 354, got.ContributionPoints)
		assert.Equal(t, 54, got.Reputation)
		assert.True(t, got.LastUpdated.Equal(testNow))
	})

	t.Run("calendar is deterministic and sparse", func(t *testing.T) {
		a, err := l.Lookup(ctx, "alice")
		require.NoError(t, err)
		b, err := l.Lookup(ctx, "alice")
		require.NoError(t, err)

		assert.Equal(t, a.SubmissionCalendar, b.SubmissionCalendar)
		assert.NotEmpty(t, a.SubmissionCalendar)
		assert.Less(t, len(a.SubmissionCalendar), calendarDays/2)
		for _, v := range a.SubmissionCalendar {
			assert.GreaterOrEqual(t, v, 7)
			assert.LessOrEqual(t, v, 9)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := l.Lookup(cctx, "abc")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func newGraphQLServer(t *testing.T, respond func(w http.ResponseWriter, username string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok"})
			w.WriteHeader(http.StatusOK)
			return
		}
		assert.Equal(t, "tok", r.Header.Get("x-csrftoken"))
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		username, _ := req.Variables["username"].(string)
		w.Header().Set("Content-Type", "application/json")
		respond(w, username)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLeetCodeLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the matched user", func(t *testing.T) {
		srv := newGraphQLServer(t, func(w http.ResponseWriter, username string) {
			w.Write([]byte(`{"data":{
				"allQuestionsCount":[{"difficulty":"All","count":3000},{"difficulty":"Easy","count":800},{"difficulty":"Medium","count":1600},{"difficulty":"Hard","count":600}],
				"matchedUser":{
					"username":"` + username + `",
					"profile":{"ranking":4242,"reputation":7},
					"contributions":{"points":120},
					"submissionCalendar":"{\"1717200000\": 3, \"1717286400\": 1}",
					"submitStats":{
						"acSubmissionNum":[{"difficulty":"All","count":300,"submissions":400},{"difficulty":"Easy","count":150,"submissions":0},{"difficulty":"Medium","count":120,"submissions":0},{"difficulty":"Hard","count":30,"submissions":0}],
						"totalSubmissionNum":[{"difficulty":"All","count":320,"submissions":800}]
					}
				}}}`))
		})

		l := newTestLeetCodeLookup(t, srv.URL)
		got, err := l.Lookup(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, 4242, got.Ranking)
		assert.Equal(t, 300, got.TotalSolved)
		assert.Equal(t, 3000, got.TotalQuestions)
		assert.Equal(t, 150, got.EasySolved)
		assert.Equal(t, 1600, got.MediumTotal)
		assert.Equal(t, 30, got.HardSolved)
		assert.Equal(t, 50.0, got.AcceptanceRate)
		assert.Equal(t, 120, got.ContributionPoints)
		assert.Equal(t, map[string]int{"1717200000": 3, "1717286400": 1}, got.SubmissionCalendar)
	})

	t.Run("unknown user", func(t *testing.T) {
		srv := newGraphQLServer(t, func(w http.ResponseWriter, username string) {
			w.Write([]byte(`{"data":{"allQuestionsCount":[],"matchedUser":null}}`))
		})

		_, err := newTestLeetCodeLookup(t, srv.URL).Lookup(ctx, "ghost")
		assert.True(t, errors.Is(err, tracker.ErrNotFound), "error = %v", err)
	})

	t.Run("server error", func(t *testing.T) {
		srv := newGraphQLServer(t, func(w http.ResponseWriter, username string) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := newTestLeetCodeLookup(t, srv.URL).Lookup(ctx, "alice")
		assert.Error(t, err)
	})
}

func newTestLeetCodeLookup(t *testing.T, endpoint string) tracker.StatsLookup {
	t.Helper()
	l, err := NewLookupFromConfig(config.LookupConfig{Type: "leetcode", Endpoint: endpoint, TimeoutSeconds: 5}, fixedClock{testNow}, nil)
	require.NoError(t, err)
	return l
}

func TestNewLookupFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		wantErr bool
	}{
		{"default is stub", "", false},
		{"stub", "stub", false},
		{"leetcode", "leetcode", false},
		{"unknown", "codeforces", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewLookupFromConfig(config.LookupConfig{Type: tt.typ}, nil, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}
