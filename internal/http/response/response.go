package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/promptcraft-backend/internal/platform/apierr"
)

const (
	MsgNotFound       = "Enhancement not found"
	MsgInvalidRequest = "Invalid request data"
	MsgRateLimited    = "Too many requests"
	MsgInternal       = "Internal server error"
)

type ErrorBody struct {
	Error string `json:"error"`
}

func RespondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

// RespondErr maps err to a status and a public message. Validation errors
// expose their own message; upstream and storage failures only show fallback.
// The error is attached to the gin context for the request log.
func RespondErr(c *gin.Context, err error, fallback string) {
	if err == nil {
		RespondError(c, http.StatusInternalServerError, fallback)
		return
	}
	_ = c.Error(err)
	msg := fallback
	switch apierr.KindOf(err) {
	case apierr.KindValidation:
		msg = err.Error()
		if msg == "" {
			msg = MsgInvalidRequest
		}
	case apierr.KindNotFound:
		msg = MsgNotFound
	case apierr.KindRateLimited:
		msg = MsgRateLimited
	}
	RespondError(c, apierr.StatusOf(err), msg)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
