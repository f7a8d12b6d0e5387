package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/promptcraft-backend/internal/http/response"
)

// bindJSON decodes the body into dst. Field rules are checked by the
// services; only malformed JSON is rejected here.
func bindJSON(c *gin.Context, dst any, allowEmpty bool) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	_ = c.Error(err)
	response.RespondError(c, http.StatusBadRequest, response.MsgInvalidRequest)
	return false
}
