package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type AssignmentHandler struct {
	log         *logger.Logger
	assignments services.AssignmentService
}

func NewAssignmentHandler(log *logger.Logger, assignments services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{log: log.With("handler", "AssignmentHandler"), assignments: assignments}
}

// POST /api/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req services.AssignmentInput
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAppError(c, err, "create_assignment_failed")
		return
	}
	response.RespondCreated(c, created)
}

// GET /api/assignments
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	rows, err := h.assignments.List(c.Request.Context())
	if err != nil {
		h.log.Error("ListAssignments failed", "error", err)
		response.RespondAppError(c, err, "load_assignments_failed")
		return
	}
	if rows == nil {
		rows = []*types.Assignment{}
	}
	response.RespondOK(c, gin.H{"assignments": rows})
}

// GET /api/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_assignment_id")
	if !ok {
		return
	}
	a, err := h.assignments.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err, "load_assignment_failed")
		return
	}
	response.RespondOK(c, gin.H{"assignment": a})
}

// PATCH /api/assignments/:id
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_assignment_id")
	if !ok {
		return
	}
	var patch types.AssignmentPatch
	if !bindJSON(c, &patch) {
		return
	}
	a, err := h.assignments.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondAppError(c, err, "update_assignment_failed")
		return
	}
	response.RespondOK(c, gin.H{"assignment": a})
}

// DELETE /api/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_assignment_id")
	if !ok {
		return
	}
	if err := h.assignments.Delete(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err, "delete_assignment_failed")
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}

// POST /api/plans/preview
func (h *AssignmentHandler) PreviewPlan(c *gin.Context) {
	var req services.AssignmentInput
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.assignments.Preview(c.Request.Context(), req)
	if err != nil {
		response.RespondAppError(c, err, "preview_plan_failed")
		return
	}
	response.RespondOK(c, gin.H{"plan": plan})
}
