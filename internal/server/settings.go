package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leettrack/internal/model"
	"leettrack/internal/tracker"
)

// settingsView is the resolved settings plus the notice explaining where
// they came from.
type settingsView struct {
	Settings model.Settings `json:"settings"`
	Notice   tracker.Notice `json:"notice,omitempty"`
	Online   bool           `json:"online"`
}

func (s *Server) getSettings(c *gin.Context) {
	ctx := c.Request.Context()
	svc := s.sessions.get(ctx, identityFrom(c)).Settings()

	settings := svc.Fetch(ctx)
	success(c, settingsView{
		Settings: settings,
		Notice:   svc.Notice(),
		Online:   s.app.Monitor().Online(),
	})
}

func (s *Server) patchSettings(c *gin.Context) {
	var patch model.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	result := s.sessions.get(ctx, identityFrom(c)).Settings().Update(ctx, patch)
	if !result.Success {
		respond(c, http.StatusBadRequest, codeInvalidInput, result.Error, result)
		return
	}
	success(c, result)
}

func (s *Server) retryConnection(c *gin.Context) {
	online := s.app.RetryConnection(c.Request.Context())
	success(c, gin.H{"online": online})
}
