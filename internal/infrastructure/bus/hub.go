package bus

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/slotswap/slotswap/internal/domain/notification"
)

// Hub manages live notification clients, keyed by connection and
// indexed per user. Implements notification.Bus.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*notification.Client
	byUser  map[uuid.UUID]map[string]*notification.Client
	logger  zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*notification.Client),
		byUser:  make(map[uuid.UUID]map[string]*notification.Client),
		logger:  logger.With().Str("component", "bus").Logger(),
	}
}

// Subscribe binds a client connection to its user's channel.
func (h *Hub) Subscribe(client *notification.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ClientID] = client
	conns, ok := h.byUser[client.UserID]
	if !ok {
		conns = make(map[string]*notification.Client)
		h.byUser[client.UserID] = conns
	}
	conns[client.ClientID] = client
}

// Unsubscribe removes the binding and closes the client channel. Safe
// to call repeatedly or for an unknown client.
func (h *Hub) Unsubscribe(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	delete(h.clients, clientID)
	if conns, ok := h.byUser[c.UserID]; ok {
		delete(conns, clientID)
		if len(conns) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
	c.Close()
}

// Publish delivers the message to every connection bound to userID and
// returns immediately. A slow connection with a full buffer is skipped.
func (h *Hub) Publish(userID uuid.UUID, message *notification.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.byUser[userID] {
		if !trySend(c, message) {
			h.logger.Warn().
				Str("client_id", c.ClientID).
				Str("user_id", userID.String()).
				Str("event", message.Event).
				Msg("dropped notification for slow client")
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) UserConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// Stop closes every client channel and clears the registry.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
	h.byUser = make(map[uuid.UUID]map[string]*notification.Client)
}

func trySend(c *notification.Client, msg *notification.Message) bool {
	select {
	case c.MessageChan <- msg:
		return true
	default:
		return false
	}
}
