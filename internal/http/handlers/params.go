package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
)

// pathUUID parses the named path param, writing a 400 on failure.
func pathUUID(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}

// queryDate reads an optional YYYY-MM-DD query param as midnight in loc.
func queryDate(c *gin.Context, name string, loc *time.Location) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, true
	}
	t, err := dateutil.ParseDate(raw, loc)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return time.Time{}, false
	}
	return t, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}
