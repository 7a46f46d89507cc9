package server

import (
	"io"

	"github.com/gin-gonic/gin"

	"leettrack/internal/model"
)

// watchProblems streams the caller's problem snapshots as server-sent
// events. A slow client only ever receives the latest snapshot.
func (s *Server) watchProblems(c *gin.Context) {
	userID := identityFrom(c).UserID

	latest := make(chan []*model.Problem, 1)
	failed := make(chan error, 1)

	// The store delivers from a single goroutine per subscriber, so this is
	// the only sender on latest.
	push := func(problems []*model.Problem) {
		select {
		case latest <- problems:
		default:
			select {
			case <-latest:
			default:
			}
			latest <- problems
		}
	}
	unsubscribe := s.app.Problems().Watch(userID, push, func(err error) {
		select {
		case failed <- err:
		default:
		}
	})
	defer unsubscribe()

	s.metrics.ActiveStreams.Inc()
	defer s.metrics.ActiveStreams.Dec()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-s.quit:
			return false
		case problems := <-latest:
			c.SSEvent("snapshot", problems)
			s.metrics.Snapshots.Inc()
			return true
		case err := <-failed:
			s.logger.Warn("problem stream failed", "user", userID, "error", err)
			c.SSEvent("error", gin.H{"message": "subscription failed"})
			return false
		}
	})
}
