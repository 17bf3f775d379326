package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"

	"github.com/corebank/txledger/internal/server/websocket"
	"github.com/corebank/txledger/pkg/config"
)

// WebSocketHandler upgrades subscribers onto the transaction event hub
type WebSocketHandler struct {
	wsHub    *websocket.WsHub
	upgrader gws.Upgrader
}

func NewWebSocketHandler(wsHub *websocket.WsHub, cfg config.WebSocketConfig) *WebSocketHandler {
	upgrader := gws.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
	}
	if !cfg.CheckOrigin {
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return &WebSocketHandler{
		wsHub:    wsHub,
		upgrader: upgrader,
	}
}

func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.wsHub.Logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Failed to upgrade to WebSocket",
		})
		return
	}

	h.wsHub.Register <- conn

	// The stream is one-way; drain the reader until the peer hangs up so
	// control frames keep being processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.wsHub.Unregister <- conn
				return
			}
		}
	}()
}
