package notification

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// wsConn is the slice of the websocket connection the hub writes to.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
}

// client pairs a connection with its write lock. The websocket library
// forbids concurrent writers on one connection, so every write goes
// through the lock.
type client struct {
	mu   sync.Mutex
	conn wsConn
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks open websocket connections per user so notifications can
// be pushed as they happen. A user may have several tabs open; each one
// gets its own connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[string][]*client
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string][]*client),
		logger:  logger,
	}
}

func (h *Hub) Register(userID string, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = append(h.clients[userID], &client{conn: conn})
}

func (h *Hub) Unregister(userID string, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[userID]
	for i, c := range clients {
		if c.conn == conn {
			h.clients[userID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// Push sends the payload to every open connection of the user. Dead
// connections are skipped; the read loop cleans them up on its own.
func (h *Hub) Push(userID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("notification marshal failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := append([]*client(nil), h.clients[userID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.logger.Debug("notification push failed",
				zap.String("userId", userID),
				zap.Error(err))
		}
	}
}
