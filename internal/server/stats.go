package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leettrack/internal/model"
	"leettrack/internal/stats"
)

// maxHeatmapDays bounds the ?days= parameter.
const maxHeatmapDays = 3660

// heatmapCell is one heatmap square.
type heatmapCell struct {
	Date  model.Day `json:"date"`
	Count int       `json:"count"`
	Level int       `json:"level"`
}

// currentProblems loads the caller's problems, writing the error response
// itself when that fails.
func (s *Server) currentProblems(c *gin.Context) ([]*model.Problem, bool) {
	problems, err := s.app.Problems().List(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return problems, true
}

// intQuery parses a positive integer query parameter, falling back to def
// when it is absent.
func intQuery(c *gin.Context, name string, def, limit int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > limit {
		fail(c, http.StatusBadRequest, codeBadRequest, name+" must be an integer between 1 and "+strconv.Itoa(limit))
		return 0, false
	}
	return n, true
}

func (s *Server) statsSummary(c *gin.Context) {
	problems, ok := s.currentProblems(c)
	if !ok {
		return
	}
	success(c, stats.Summarize(problems, s.app.Clock().Now(), s.app.StatsOptions()))
}

func (s *Server) statsHeatmap(c *gin.Context) {
	days, ok := intQuery(c, "days", s.app.HeatmapDays(), maxHeatmapDays)
	if !ok {
		return
	}
	problems, ok := s.currentProblems(c)
	if !ok {
		return
	}

	series := stats.DailyActivitySeries(problems, s.app.Clock().Now(), days)
	cells := make([]heatmapCell, len(series))
	for i, d := range series {
		cells[i] = heatmapCell{Date: d.Date, Count: d.Count, Level: stats.ActivityLevel(d.Count)}
	}
	success(c, cells)
}

func (s *Server) statsTopics(c *gin.Context) {
	limit, ok := intQuery(c, "limit", s.app.TopicLimit(), 100)
	if !ok {
		return
	}
	problems, ok := s.currentProblems(c)
	if !ok {
		return
	}
	success(c, stats.CountByTopic(problems, stats.ParseScope(c.Query("scope")), limit))
}

func (s *Server) statsDifficulty(c *gin.Context) {
	problems, ok := s.currentProblems(c)
	if !ok {
		return
	}
	success(c, stats.CountByDifficulty(problems, stats.ParseScope(c.Query("scope"))))
}

func (s *Server) statsCompanies(c *gin.Context) {
	problems, ok := s.currentProblems(c)
	if !ok {
		return
	}
	progress := stats.CompanyProgress(problems, s.app.Companies())
	success(c, stats.FilterCompanies(progress, c.Query("q")))
}

func (s *Server) statsTimeline(c *gin.Context) {
	problems, ok := s.currentProblems(c)
	if !ok {
		return
	}
	success(c, stats.CumulativeTimeline(problems))
}

func (s *Server) statsRankHistory(c *gin.Context) {
	contests, err := s.app.Contests().List(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, stats.RankHistory(contests))
}
