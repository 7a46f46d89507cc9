package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leettrack/internal/model"
)

func (s *Server) listContests(c *gin.Context) {
	contests, err := s.app.Contests().List(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, contests)
}

func (s *Server) addContest(c *gin.Context) {
	var contest model.Contest
	if err := c.ShouldBindJSON(&contest); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	added, err := s.app.Contests().Add(c.Request.Context(), identityFrom(c).UserID, &contest)
	if err != nil {
		writeError(c, err)
		return
	}
	created(c, added)
}

// profileStats looks up third-party statistics for the username in the
// caller's settings. Data is null when no username is set.
func (s *Server) profileStats(c *gin.Context) {
	ctx := c.Request.Context()
	profile, err := s.sessions.get(ctx, identityFrom(c)).Profile(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	if profile == nil {
		respond(c, http.StatusOK, codeOK, "no username configured", nil)
		return
	}
	success(c, profile)
}
