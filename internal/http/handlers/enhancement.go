package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
	"github.com/yungbote/promptcraft-backend/internal/http/response"
	"github.com/yungbote/promptcraft-backend/internal/services"
)

const (
	msgAnalyzeFailed = "Failed to analyze prompt"
	msgEnhanceFailed = "Failed to enhance prompt"
	msgFetchFailed   = "Failed to fetch enhancement"
)

type EnhancementHandler struct {
	workflow services.EnhancementWorkflow
}

func NewEnhancementHandler(workflow services.EnhancementWorkflow) *EnhancementHandler {
	return &EnhancementHandler{workflow: workflow}
}

// POST /api/analyze
func (h *EnhancementHandler) Analyze(c *gin.Context) {
	var req types.AnalyzeRequest
	if !bindJSON(c, &req, false) {
		return
	}
	rec, err := h.workflow.Start(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, msgAnalyzeFailed)
		return
	}
	response.RespondOK(c, rec)
}

// POST /api/enhance
func (h *EnhancementHandler) Enhance(c *gin.Context) {
	var req types.EnhanceRequest
	if !bindJSON(c, &req, false) {
		return
	}
	rec, err := h.workflow.Answer(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, msgEnhanceFailed)
		return
	}
	response.RespondOK(c, rec)
}

// GET /api/enhancement/:id
func (h *EnhancementHandler) Get(c *gin.Context) {
	rec, err := h.workflow.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err, msgFetchFailed)
		return
	}
	response.RespondOK(c, rec)
}
