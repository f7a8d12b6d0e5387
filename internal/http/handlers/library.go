package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
	"github.com/yungbote/promptcraft-backend/internal/http/response"
	"github.com/yungbote/promptcraft-backend/internal/services"
)

type LibraryHandler struct {
	library services.LibraryService
}

func NewLibraryHandler(library services.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// GET /api/history?limit=N
func (h *LibraryHandler) History(c *gin.Context) {
	out, err := h.library.History(c.Request.Context(), c.Query("limit"))
	if err != nil {
		response.RespondErr(c, err, "Failed to fetch history")
		return
	}
	response.RespondOK(c, nonNil(out))
}

// GET /api/saved
func (h *LibraryHandler) Saved(c *gin.Context) {
	out, err := h.library.Saved(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err, "Failed to fetch saved prompts")
		return
	}
	response.RespondOK(c, nonNil(out))
}

// POST /api/save/:id
func (h *LibraryHandler) Save(c *gin.Context) {
	var req types.SaveRequest
	if !bindJSON(c, &req, true) {
		return
	}
	rec, err := h.library.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.RespondErr(c, err, "Failed to save prompt")
		return
	}
	response.RespondOK(c, rec)
}

// DELETE /api/save/:id
func (h *LibraryHandler) Unsave(c *gin.Context) {
	rec, err := h.library.Unsave(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err, "Failed to unsave prompt")
		return
	}
	response.RespondOK(c, rec)
}

func nonNil(in []*types.Enhancement) []*types.Enhancement {
	if in == nil {
		return []*types.Enhancement{}
	}
	return in
}
