package handler

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	ws "github.com/zizouhuweidi/quizzical/internal/websocket"
)

// WebSocketHandler handles content feed connections
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// HandleWebSocket upgrades the connection and streams content events. The
// optional category query parameter restricts the feed to one category.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	category := c.QueryParam("category")

	if err := h.hub.Serve(c.Response(), c.Request(), category); err != nil {
		slog.WarnContext(c.Request().Context(), "Failed to open content feed", "category", category, "error", err)
		return err
	}

	return nil
}
