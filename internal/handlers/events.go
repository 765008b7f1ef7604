package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/requestdata"
	"github.com/harborpeak/dealdesk-backend/internal/sse"
)

type EventsHandler struct {
	log *logger.Logger
	hub *sse.SSEHub
}

func NewEventsHandler(log *logger.Logger, hub *sse.SSEHub) *EventsHandler {
	return &EventsHandler{
		log: log.With("handler", "EventsHandler"),
		hub: hub,
	}
}

// GET /api/events/stream?channel=<deal-or-partner-id>
// Streams dashboard events for one channel. Partners may only follow their
// own channel; admins may follow any.
func (h *EventsHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	channel := c.Query("channel")
	if channel == "" {
		RespondError(c, http.StatusBadRequest, "missing_channel", nil)
		return
	}
	if !rd.IsAdmin && channel != rd.PartnerID.String() {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}

	client := h.hub.NewSSEClient(rd.UserID)
	h.hub.AddChannel(client, channel)
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
