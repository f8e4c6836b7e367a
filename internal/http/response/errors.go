package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplanner-backend/internal/platform/apierr"
)

// RespondAppError maps a service error to its status. fallbackCode names the
// failed operation for anything outside NotFound and InvalidArgument.
func RespondAppError(c *gin.Context, err error, fallbackCode string) {
	ae := apierr.FromError(err, fallbackCode)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, fallbackCode, nil)
		return
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}
