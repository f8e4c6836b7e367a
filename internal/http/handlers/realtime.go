package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplanner-backend/internal/http/response"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

const headerSSEClientID = "X-SSE-Client-Id"

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub

	mu      sync.RWMutex
	clients map[uuid.UUID]*realtime.SSEClient
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

// GET /api/sse/stream?channel=calendar&channel=<assignmentId>
//
// With no channel the stream follows the calendar channel. The client id is
// returned in X-SSE-Client-Id for later subscribe/unsubscribe calls.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	channels := streamChannels(c.QueryArray("channel"))

	client := h.hub.NewSSEClient()
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
	for _, ch := range channels {
		h.hub.AddChannel(client, ch)
	}
	h.log.Debug("SSEStream open", "client_id", client.ID, "channels", channels)

	c.Header(headerSSEClientID, client.ID.String())
	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	delete(h.clients, client.ID)
	h.mu.Unlock()
	h.hub.CloseClient(client)
}

type channelRequest struct {
	ClientID uuid.UUID `json:"clientId"`
	Channel  string    `json:"channel"`
}

// POST /api/sse/subscribe
func (h *RealtimeHandler) SSESubscribe(c *gin.Context) {
	client, channel, ok := h.channelRequest(c)
	if !ok {
		return
	}
	h.hub.AddChannel(client, channel)
	response.RespondOK(c, gin.H{"message": "subscribed", "channel": channel})
}

// POST /api/sse/unsubscribe
func (h *RealtimeHandler) SSEUnsubscribe(c *gin.Context) {
	client, channel, ok := h.channelRequest(c)
	if !ok {
		return
	}
	h.hub.RemoveChannel(client, channel)
	response.RespondOK(c, gin.H{"message": "unsubscribed", "channel": channel})
}

func (h *RealtimeHandler) channelRequest(c *gin.Context) (*realtime.SSEClient, string, bool) {
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Channel) == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_channel", err)
		return nil, "", false
	}
	h.mu.RLock()
	client, exists := h.clients[req.ClientID]
	h.mu.RUnlock()
	if !exists {
		response.RespondError(c, http.StatusConflict, "no_active_stream", nil)
		return nil, "", false
	}
	return client, strings.TrimSpace(req.Channel), true
}

func streamChannels(raw []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range raw {
		for _, ch := range strings.Split(r, ",") {
			ch = strings.TrimSpace(ch)
			if ch == "" || seen[ch] {
				continue
			}
			seen[ch] = true
			out = append(out, ch)
		}
	}
	if len(out) == 0 {
		out = []string{realtime.ChannelCalendar}
	}
	return out
}
