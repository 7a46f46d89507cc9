package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leettrack/internal/model"
)

// REST reads go to the store so a client always sees its own writes. The
// watch stream carries the pushed snapshots.

func (s *Server) listProblems(c *gin.Context) {
	problems, err := s.app.Problems().List(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, problems)
}

func (s *Server) getProblem(c *gin.Context) {
	p, err := s.app.Problems().Get(c.Request.Context(), identityFrom(c).UserID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, p)
}

func (s *Server) addProblem(c *gin.Context) {
	var p model.Problem
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	added, err := s.app.Problems().Add(c.Request.Context(), identityFrom(c).UserID, &p)
	if err != nil {
		writeError(c, err)
		return
	}
	created(c, added)
}

func (s *Server) updateProblem(c *gin.Context) {
	var p model.Problem
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	updated, err := s.app.Problems().Update(c.Request.Context(), identityFrom(c).UserID, c.Param("id"), &p)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, updated)
}

func (s *Server) deleteProblem(c *gin.Context) {
	if err := s.app.Problems().Delete(c.Request.Context(), identityFrom(c).UserID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	success(c, nil)
}
