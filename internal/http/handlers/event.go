package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/services"
)

type EventHandler struct {
	log      *logger.Logger
	calendar services.CalendarService
	clock    dateutil.Clock
}

func NewEventHandler(log *logger.Logger, calendar services.CalendarService, clock dateutil.Clock) *EventHandler {
	if clock == nil {
		clock = dateutil.SystemClock
	}
	return &EventHandler{log: log.With("handler", "EventHandler"), calendar: calendar, clock: clock}
}

// GET /api/events?from=YYYY-MM-DD&to=YYYY-MM-DD&assignmentId=
func (h *EventHandler) ListEvents(c *gin.Context) {
	loc := h.clock().Location()
	from, ok := queryDate(c, "from", loc)
	if !ok {
		return
	}
	to, ok := queryDate(c, "to", loc)
	if !ok {
		return
	}
	q := services.EventQuery{From: from, To: to}
	if raw := c.Query("assignmentId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_assignment_id", err)
			return
		}
		q.AssignmentID = id
	}

	events, err := h.calendar.ListEvents(c.Request.Context(), q)
	if err != nil {
		response.RespondAppError(c, err, "load_events_failed")
		return
	}
	if events == nil {
		events = []*types.CalendarEvent{}
	}
	response.RespondOK(c, gin.H{"events": events})
}

// PATCH /api/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	var patch types.EventPatch
	if !bindJSON(c, &patch) {
		return
	}
	ev, err := h.calendar.UpdateEvent(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondAppError(c, err, "update_event_failed")
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

// DELETE /api/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	if err := h.calendar.DeleteEvent(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err, "delete_event_failed")
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}

// POST /api/events/:id/complete
func (h *EventHandler) CompleteEvent(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	res, err := h.calendar.CompleteEvent(c.Request.Context(), id)
	if err != nil {
		h.log.Warn("CompleteEvent failed", "event_id", id, "error", err)
		response.RespondAppError(c, err, "complete_event_failed")
		return
	}
	response.RespondOK(c, res)
}

// GET /api/calendar/grid?view=month|week&date=YYYY-MM-DD
func (h *EventHandler) Grid(c *gin.Context) {
	now := h.clock()
	date, ok := queryDate(c, "date", now.Location())
	if !ok {
		return
	}
	if date.IsZero() {
		date = dateutil.StartOfDay(now)
	}
	grid, err := h.calendar.Grid(c.Request.Context(), services.GridView(c.DefaultQuery("view", string(services.GridViewMonth))), date)
	if err != nil {
		response.RespondAppError(c, err, "load_grid_failed")
		return
	}
	response.RespondOK(c, grid)
}

