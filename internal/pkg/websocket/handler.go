package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Karthik-kushal/finalmini/internal/middleware"
	"github.com/Karthik-kushal/finalmini/internal/pkg/helpers"
)

// Handler upgrades HTTP requests into live feed subscriptions
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler accepting browser connections
// from allowedOrigins
func NewHandler(hub *Hub, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		upgrader: newUpgrader(allowedOrigins),
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to the live event feed
// @Description Upgrades to a WebSocket that receives event.created and rsvp.toggled messages. Pass eventId to follow a single event.
// @Tags live
// @Param eventId query string false "Only receive messages for this event"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} dto.ErrorResponse "Invalid event ID"
// @Router /ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	eventID, err := helpers.ParseOptionalID(c.Query("eventId"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		logger: h.logger,
	}
	if eventID != nil {
		client.eventID = eventID.String()
	}

	if !h.hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("eventId", client.eventID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
