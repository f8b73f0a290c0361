// handlers/ws.go - live conversation feed
package handlers

import (
	"log"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// conversationHub fans new-message events out to connected participants.
type conversationHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*websocket.Conn]bool
}

var hub = &conversationHub{clients: make(map[uint]map[*websocket.Conn]bool)}

func (h *conversationHub) register(conversationID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conversationID] == nil {
		h.clients[conversationID] = make(map[*websocket.Conn]bool)
	}
	h.clients[conversationID][conn] = true
}

func (h *conversationHub) unregister(conversationID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[conversationID], conn)
	if len(h.clients[conversationID]) == 0 {
		delete(h.clients, conversationID)
	}
}

// BroadcastMessage pushes an event to every socket watching the
// conversation. Delivery is best effort.
func BroadcastMessage(conversationID uint, payload interface{}) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	for conn := range hub.clients[conversationID] {
		if err := conn.WriteJSON(payload); err != nil {
			log.Printf("ws: broadcast to conversation %d: %v", conversationID, err)
		}
	}
}

// WebSocketUpgrade rejects plain HTTP requests on socket routes.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ConversationSocket streams new-message events for one conversation.
// The auth middleware runs before the upgrade; projection-level access
// (active participant) is re-checked here.
// GET /ws/conversations/:id
func ConversationSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		conversationID, err := strconv.ParseUint(conn.Params("id"), 10, 32)
		if err != nil {
			_ = conn.Close()
			return
		}

		var userID uint
		switch v := conn.Locals("userId").(type) {
		case float64:
			userID = uint(v)
		case uint:
			userID = v
		default:
			_ = conn.Close()
			return
		}

		// Same gate as GET /api/conversations/:id
		if _, err := conversationService.ProjectConversation(uint(conversationID), userID); err != nil {
			_ = conn.Close()
			return
		}

		hub.register(uint(conversationID), conn)
		defer hub.unregister(uint(conversationID), conn)

		// Reads keep the connection alive; clients only receive.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
