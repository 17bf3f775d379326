package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/corebank/txledger/internal/domain/models"
)

// WsHub fans transaction events out to every connected client. The service
// has no authentication, so there is no per-user routing: every subscriber
// sees every event.
type WsHub struct {
	Clients    map[*websocket.Conn]bool
	Broadcast  chan models.TransactionEvent
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Logger     zerolog.Logger
}

func NewWsHub(logger zerolog.Logger) *WsHub {
	return &WsHub{
		Clients:    make(map[*websocket.Conn]bool),
		Broadcast:  make(chan models.TransactionEvent, 100),
		Register:   make(chan *websocket.Conn, 100),
		Unregister: make(chan *websocket.Conn, 100),
		Logger:     logger,
	}
}

func (h *WsHub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.Clients[conn] = true
			h.Logger.Info().
				Int("connection_count", len(h.Clients)).
				Msg("WebSocket client registered")

		case conn := <-h.Unregister:
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
				h.Logger.Info().
					Int("connection_count", len(h.Clients)).
					Msg("WebSocket client unregistered")
			}

		case event := <-h.Broadcast:
			for conn := range h.Clients {
				if err := conn.WriteJSON(event); err != nil {
					h.Logger.Err(err).
						Str("event_type", event.Type).
						Msg("Failed to send WebSocket message, dropping client")
					conn.Close()
					delete(h.Clients, conn)
				}
			}
		}
	}
}

// BroadcastTransaction queues a created-transaction event for all
// subscribers. Non-blocking so a slow hub never stalls the create path.
func (h *WsHub) BroadcastTransaction(tx *models.Transaction) {
	event := models.TransactionEvent{
		Type:        "transaction_created",
		Transaction: tx,
		Timestamp:   time.Now().UTC(),
	}
	select {
	case h.Broadcast <- event:
	default:
		h.Logger.Warn().
			Str("transaction_id", tx.ID).
			Msg("WebSocket broadcast queue full, dropping event")
	}
}
