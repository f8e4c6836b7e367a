package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/modules/progress"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progressSvc services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progressSvc}
}

// GET /api/assignments/:id/progress
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_assignment_id")
	if !ok {
		return
	}
	report, err := h.progress.Report(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err, "load_progress_failed")
		return
	}
	response.RespondOK(c, gin.H{"progress": report})
}

// POST /api/assignments/:id/progress/sessions
func (h *ProgressHandler) RecordSession(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_assignment_id")
	if !ok {
		return
	}
	var req progress.Session
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.progress.RecordSession(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAppError(c, err, "record_session_failed")
		return
	}
	response.RespondOK(c, gin.H{"progress": report})
}

// POST /api/assignments/:id/progress/topics/:name/complete
func (h *ProgressHandler) CompleteTopic(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_assignment_id")
	if !ok {
		return
	}
	report, err := h.progress.CompleteTopic(c.Request.Context(), id, c.Param("name"))
	if err != nil {
		response.RespondAppError(c, err, "complete_topic_failed")
		return
	}
	response.RespondOK(c, gin.H{"progress": report})
}
