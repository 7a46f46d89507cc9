package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"leettrack/internal/model"
	"leettrack/internal/tracker"
)

// Response is the envelope every API response is wrapped in.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Application error codes. The first three digits are the HTTP status.
const (
	codeOK            = 0
	codeBadRequest    = 40001
	codeInvalidInput  = 40002
	codeNoAuthHeader  = 40101
	codeBadAuthHeader = 40102
	codeInvalidToken  = 40103
	codeNoIdentity    = 40104
	codeNotFound      = 40401
	codeNoRoute       = 40400
	codeRateLimited   = 42901
	codeInternal      = 50001
)

func respond(c *gin.Context, status, code int, message string, data any) {
	c.JSON(status, Response{Code: code, Message: message, Data: data})
}

func success(c *gin.Context, data any) {
	respond(c, http.StatusOK, codeOK, "success", data)
}

func created(c *gin.Context, data any) {
	respond(c, http.StatusCreated, codeOK, "created", data)
}

func fail(c *gin.Context, status, code int, message string) {
	respond(c, status, code, message, nil)
	c.Abort()
}

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, codeInvalidInput, verr.Error())
	case errors.Is(err, model.ErrInvalid):
		fail(c, http.StatusBadRequest, codeInvalidInput, err.Error())
	case errors.Is(err, tracker.ErrNoIdentity):
		fail(c, http.StatusUnauthorized, codeNoIdentity, "not authenticated")
	case errors.Is(err, tracker.ErrNotFound):
		fail(c, http.StatusNotFound, codeNotFound, "not found")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
