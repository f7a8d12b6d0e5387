package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/promptcraft-backend/internal/http/response"
	"github.com/yungbote/promptcraft-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
)

// Recovery turns a handler panic into a 500 JSON error.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		if log != nil {
			fields := append([]interface{}{"panic", fmt.Sprint(recovered), "route", c.FullPath()}, ctxutil.LogFields(c.Request.Context())...)
			log.Error("handler panic", fields...)
		}
		response.RespondError(c, http.StatusInternalServerError, response.MsgInternal)
	})
}
