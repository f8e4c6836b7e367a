package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/modules/planning"
)

type SubjectHandler struct {
	catalog *planning.SubjectCatalog
}

func NewSubjectHandler(catalog *planning.SubjectCatalog) *SubjectHandler {
	if catalog == nil {
		catalog = planning.DefaultCatalog()
	}
	return &SubjectHandler{catalog: catalog}
}

// GET /api/subjects
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	response.RespondOK(c, gin.H{"subjects": h.catalog.List()})
}
